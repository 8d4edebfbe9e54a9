package formatter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MultiFileFormatter writes one migration script per policy into a
// directory, plus an _overview.md index
type MultiFileFormatter struct {
	OutputDir string
	Pretty    bool
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir string, pretty bool) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir: outputDir,
		Pretty:    pretty,
	}
}

// Format writes the files
func (f *MultiFileFormatter) Format(policies []Policy) error {
	if err := os.MkdirAll(f.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, p := range policies {
		if err := f.writePolicyFile(p); err != nil {
			return fmt.Errorf("failed to write policy file for %s: %w", p.Input.Name, err)
		}
	}

	if err := f.writeOverview(policies); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}
	return nil
}

// FileName returns the file a policy is written to
func FileName(policyName string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, policyName)
	if name == "" {
		name = "_unnamed"
	}
	return name + ".sql"
}

func (f *MultiFileFormatter) writePolicyFile(p Policy) error {
	var b strings.Builder
	writePolicyScript(&b, p, true, f.Pretty)
	return os.WriteFile(filepath.Join(f.OutputDir, FileName(p.Input.Name)), []byte(b.String()), 0o644)
}

func (f *MultiFileFormatter) writeOverview(policies []Policy) error {
	sorted := make([]Policy, len(policies))
	copy(sorted, policies)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Input.Name < sorted[j].Input.Name
	})

	var b strings.Builder
	b.WriteString("# Policy Overview\n\n")
	b.WriteString("Each policy has a corresponding file: `<policy_name>.sql`\n\n")

	for _, p := range sorted {
		fmt.Fprintf(&b, "- **%s** on %s", p.Input.Name, p.Input.Table)
		if ops := p.Input.Operations.String(); ops != "" {
			fmt.Fprintf(&b, " (%s)", ops)
		}
		if n := len(p.Result.Warnings); n > 0 {
			fmt.Fprintf(&b, ", %d warning(s)", n)
		}
		b.WriteString("\n")
	}

	return os.WriteFile(filepath.Join(f.OutputDir, "_overview.md"), []byte(b.String()), 0o644)
}
