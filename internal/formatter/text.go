package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/rlsgen/internal/schema"
)

// CatalogFormatter formats a schema catalog as compact text
type CatalogFormatter struct {
	writer io.Writer
}

// NewCatalogFormatter creates a new catalog formatter
func NewCatalogFormatter(w io.Writer) *CatalogFormatter {
	return &CatalogFormatter{writer: w}
}

// Format writes the catalog in compact text format
func (f *CatalogFormatter) Format(s *schema.Schema) error {
	for i, table := range s.Tables {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer)
		}
		f.formatTable(s, table)
	}
	return nil
}

func (f *CatalogFormatter) formatTable(s *schema.Schema, table schema.Table) {
	var pk []string
	for _, col := range table.Columns {
		if col.IsPrimaryKey {
			pk = append(pk, col.Name)
		}
	}
	pkStr := ""
	if len(pk) > 0 {
		pkStr = fmt.Sprintf(" (PK: %s)", strings.Join(pk, ", "))
	}
	_, _ = fmt.Fprintf(f.writer, "TABLE %s%s\n", table.Name, pkStr)

	for _, col := range table.Columns {
		_, _ = fmt.Fprintf(f.writer, "  %s\n", formatColumn(col))
	}

	if len(table.Relationships) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  RELATIONS:")
		for _, rel := range table.Relationships {
			_, _ = fmt.Fprintf(f.writer, "    %s → %s.%s\n", rel.SourceColumn, rel.TargetTable, rel.TargetColumn)
		}
	}

	// Incoming edges are joinable too, so list them for reference
	if incoming := s.IncomingRelationships(table.Name); len(incoming) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  REFERENCED BY:")
		for _, rel := range incoming {
			_, _ = fmt.Fprintf(f.writer, "    %s.%s → %s\n", rel.SourceTable, rel.SourceColumn, rel.TargetColumn)
		}
	}
}

func formatColumn(col schema.Column) string {
	parts := []string{col.Name + ":", col.Type}
	if col.IsForeignKey {
		parts = append(parts, "FK")
	}
	if !col.Nullable {
		parts = append(parts, "NOT NULL")
	}
	return strings.Join(parts, " ")
}
