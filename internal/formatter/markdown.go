package formatter

import (
	"fmt"
	"io"
	"strings"
)

// MarkdownFormatter writes a review report of generated policies
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the report
func (f *MarkdownFormatter) Format(policies []Policy) error {
	var b strings.Builder
	b.WriteString("# Row-Level Security Policies\n\n")

	for _, p := range policies {
		f.formatPolicy(&b, p)
	}

	_, err := io.WriteString(f.writer, b.String())
	return err
}

func (f *MarkdownFormatter) formatPolicy(b *strings.Builder, p Policy) {
	in := p.Input
	policyType, err := in.Type.SQL()
	if err != nil {
		policyType = string(in.Type)
	}

	fmt.Fprintf(b, "## %s\n\n", in.Name)
	fmt.Fprintf(b, "- **Table:** %s\n", in.Table)
	fmt.Fprintf(b, "- **Type:** %s\n", policyType)
	ops := in.Operations.String()
	if ops == "" {
		ops = "(none)"
	}
	fmt.Fprintf(b, "- **Operations:** %s\n", ops)
	fmt.Fprintf(b, "- **From:** `%s`\n\n", p.Result.From)

	b.WriteString("```sql\n")
	b.WriteString(Pretty(p.Result.SQL))
	b.WriteString("\n```\n\n")

	if len(p.Result.Warnings) > 0 {
		b.WriteString("### Warnings\n\n")
		for _, w := range p.Result.Warnings {
			fmt.Fprintf(b, "- %s\n", w)
		}
		b.WriteString("\n")
	}
}
