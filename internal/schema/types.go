package schema

// Schema represents a catalog of tables and their foreign key relationships
type Schema struct {
	Tables []Table `json:"tables"`
}

// Table represents a database table
type Table struct {
	Name          string         `json:"name"`
	Schema        string         `json:"schema,omitempty"`
	Columns       []Column       `json:"columns,omitempty"`
	Relationships []Relationship `json:"relationships,omitempty"`
}

// Column represents a table column
type Column struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	IsPrimaryKey bool   `json:"is_primary_key,omitempty"`
	IsForeignKey bool   `json:"is_foreign_key,omitempty"`
	Nullable     bool   `json:"is_nullable,omitempty"`
}

// Relationship represents a foreign key edge from SourceTable.SourceColumn
// to TargetTable.TargetColumn. It is stored on the source table.
type Relationship struct {
	SourceTable  string `json:"source_table_name"`
	SourceColumn string `json:"source_column_name"`
	TargetTable  string `json:"target_table_name"`
	TargetColumn string `json:"target_column_name"`
}

// Reverse returns the same edge seen from the target table
func (r Relationship) Reverse() Relationship {
	return Relationship{
		SourceTable:  r.TargetTable,
		SourceColumn: r.TargetColumn,
		TargetTable:  r.SourceTable,
		TargetColumn: r.SourceColumn,
	}
}
