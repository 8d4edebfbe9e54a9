package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tordrt/rlsgen/internal/schema"
)

// SQLiteExtractor handles schema extraction from SQLite
type SQLiteExtractor struct {
	client *SQLClient
}

// NewSQLiteExtractor creates a new SQLite schema extractor
func NewSQLiteExtractor(client *SQLClient) *SQLiteExtractor {
	return &SQLiteExtractor{
		client: client,
	}
}

// ExtractSchema extracts the catalog for the specified tables.
// If tables is empty, extracts all tables in the database.
//
// SQLite allows a foreign key to omit the referenced column, meaning the
// parent's primary key. Such edges are completed from the parent table when
// it is part of the extraction and has a single-column primary key, and are
// dropped otherwise.
func (e *SQLiteExtractor) ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error) {
	s, err := extractSchema(ctx, e, "main", tables)
	if err != nil {
		return nil, err
	}

	for i := range s.Tables {
		resolved := s.Tables[i].Relationships[:0]
		for _, rel := range s.Tables[i].Relationships {
			if rel.TargetColumn == "" {
				rel.TargetColumn = singlePrimaryKey(s.Table(rel.TargetTable))
			}
			if rel.TargetColumn == "" {
				continue
			}
			resolved = append(resolved, rel)
		}
		s.Tables[i].Relationships = resolved
	}

	return s, nil
}

func singlePrimaryKey(table *schema.Table) string {
	if table == nil {
		return ""
	}
	pk := ""
	for _, col := range table.Columns {
		if !col.IsPrimaryKey {
			continue
		}
		if pk != "" {
			return ""
		}
		pk = col.Name
	}
	return pk
}

func (e *SQLiteExtractor) listTables(ctx context.Context) ([]string, error) {
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`
	return queryStrings(ctx, e.client.GetDB(), query)
}

// tableInfo is one row of PRAGMA table_info
type tableInfo struct {
	name    string
	colType string
	notNull bool
	pkOrder int
}

func (e *SQLiteExtractor) tableInfo(ctx context.Context, tableName string) ([]tableInfo, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", tableName)

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []tableInfo
	for rows.Next() {
		var cid, notNull, pk int
		var name, colType string
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pk); err != nil {
			return nil, err
		}
		infos = append(infos, tableInfo{name: name, colType: colType, notNull: notNull != 0, pkOrder: pk})
	}

	return infos, rows.Err()
}

func (e *SQLiteExtractor) columns(ctx context.Context, tableName string) ([]schema.Column, error) {
	infos, err := e.tableInfo(ctx, tableName)
	if err != nil {
		return nil, err
	}

	columns := make([]schema.Column, 0, len(infos))
	for _, info := range infos {
		columns = append(columns, schema.Column{
			Name:     info.name,
			Type:     info.colType,
			Nullable: !info.notNull,
		})
	}
	return columns, nil
}

// primaryKey returns primary key columns in key order
func (e *SQLiteExtractor) primaryKey(ctx context.Context, tableName string) ([]string, error) {
	infos, err := e.tableInfo(ctx, tableName)
	if err != nil {
		return nil, err
	}

	var keyed []tableInfo
	for _, info := range infos {
		if info.pkOrder > 0 {
			keyed = append(keyed, info)
		}
	}

	pk := make([]string, len(keyed))
	for _, info := range keyed {
		if info.pkOrder <= len(pk) {
			pk[info.pkOrder-1] = info.name
		}
	}
	return pk, nil
}

func (e *SQLiteExtractor) relationships(ctx context.Context, tableName string) ([]schema.Relationship, error) {
	query := fmt.Sprintf("PRAGMA foreign_key_list(%s)", tableName)

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var relationships []schema.Relationship
	for rows.Next() {
		var id, seq int
		var targetTable, fromCol, onUpdate, onDelete, match string
		var toCol sql.NullString

		if err := rows.Scan(&id, &seq, &targetTable, &fromCol, &toCol, &onUpdate, &onDelete, &match); err != nil {
			return nil, err
		}

		relationships = append(relationships, schema.Relationship{
			SourceTable:  tableName,
			SourceColumn: fromCol,
			TargetTable:  targetTable,
			TargetColumn: toCol.String,
		})
	}

	return relationships, rows.Err()
}
