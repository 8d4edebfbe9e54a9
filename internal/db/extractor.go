package db

import (
	"context"
	"fmt"

	"github.com/tordrt/rlsgen/internal/schema"
)

// SchemaExtractor reads a schema catalog from a live database
type SchemaExtractor interface {
	// ExtractSchema extracts the named tables, or every base table when
	// tables is empty.
	ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error)
}

// tableReader is the per-dialect half of an extractor
type tableReader interface {
	listTables(ctx context.Context) ([]string, error)
	columns(ctx context.Context, table string) ([]schema.Column, error)
	primaryKey(ctx context.Context, table string) ([]string, error)
	relationships(ctx context.Context, table string) ([]schema.Relationship, error)
}

// extractSchema runs the shared extraction flow over a dialect reader
func extractSchema(ctx context.Context, r tableReader, schemaName string, requested []string) (*schema.Schema, error) {
	tableNames := requested
	if len(tableNames) == 0 {
		var err error
		tableNames, err = r.listTables(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get table names: %w", err)
		}
	}

	extracted := make([]schema.Table, 0, len(tableNames))
	for _, tableName := range tableNames {
		table, err := extractTable(ctx, r, schemaName, tableName)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", tableName, err)
		}
		extracted = append(extracted, *table)
	}

	return &schema.Schema{Tables: extracted}, nil
}

// extractTable extracts all information for a single table
func extractTable(ctx context.Context, r tableReader, schemaName, tableName string) (*schema.Table, error) {
	table := &schema.Table{Name: tableName, Schema: schemaName}

	columns, err := r.columns(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	table.Columns = columns

	pk, err := r.primaryKey(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract primary key: %w", err)
	}

	relationships, err := r.relationships(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract relationships: %w", err)
	}
	table.Relationships = relationships

	markKeys(table, pk)
	return table, nil
}

// markKeys sets the primary and foreign key flags on a table's columns
func markKeys(table *schema.Table, primaryKey []string) {
	pk := make(map[string]bool, len(primaryKey))
	for _, name := range primaryKey {
		pk[name] = true
	}
	fk := make(map[string]bool, len(table.Relationships))
	for _, rel := range table.Relationships {
		fk[rel.SourceColumn] = true
	}

	for i := range table.Columns {
		table.Columns[i].IsPrimaryKey = pk[table.Columns[i].Name]
		table.Columns[i].IsForeignKey = fk[table.Columns[i].Name]
	}
}
