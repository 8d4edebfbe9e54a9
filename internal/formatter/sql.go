package formatter

import (
	"fmt"
	"io"
)

// SQLFormatter writes bare CREATE POLICY statements, one per line
type SQLFormatter struct {
	writer io.Writer
	pretty bool
}

// NewSQLFormatter creates a new SQL formatter
func NewSQLFormatter(w io.Writer, pretty bool) *SQLFormatter {
	return &SQLFormatter{writer: w, pretty: pretty}
}

// Format writes every statement
func (f *SQLFormatter) Format(policies []Policy) error {
	for i, p := range policies {
		if i > 0 && f.pretty {
			if _, err := fmt.Fprintln(f.writer); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(f.writer, statement(p, f.pretty)); err != nil {
			return err
		}
	}
	return nil
}
