package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/lib/pq"
)

// ScriptFormatter writes a migration script that enables row-level security
// on each target table and replaces each policy
type ScriptFormatter struct {
	writer io.Writer
	pretty bool
}

// NewScriptFormatter creates a new script formatter
func NewScriptFormatter(w io.Writer, pretty bool) *ScriptFormatter {
	return &ScriptFormatter{writer: w, pretty: pretty}
}

// Format writes the script wrapped in a transaction
func (f *ScriptFormatter) Format(policies []Policy) error {
	var b strings.Builder

	b.WriteString("BEGIN;\n")
	enabled := make(map[string]bool)
	for _, p := range policies {
		b.WriteString("\n")
		writePolicyScript(&b, p, !enabled[p.Input.Table], f.pretty)
		enabled[p.Input.Table] = true
	}
	b.WriteString("\nCOMMIT;\n")

	_, err := io.WriteString(f.writer, b.String())
	return err
}

// writePolicyScript writes the statements for one policy
func writePolicyScript(b *strings.Builder, p Policy, enableRLS, pretty bool) {
	fmt.Fprintf(b, "-- policy %s on %s\n", p.Input.Name, p.Input.Table)
	for _, w := range p.Result.Warnings {
		fmt.Fprintf(b, "-- warning: %s\n", w)
	}
	if enableRLS {
		fmt.Fprintf(b, "ALTER TABLE %s ENABLE ROW LEVEL SECURITY;\n", p.Input.Table)
	}
	fmt.Fprintf(b, "DROP POLICY IF EXISTS %s ON %s;\n", pq.QuoteIdentifier(p.Input.Name), p.Input.Table)
	b.WriteString(statement(p, pretty))
	b.WriteString("\n")
}
