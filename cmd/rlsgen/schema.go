package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tordrt/rlsgen/internal/cli"
	"github.com/tordrt/rlsgen/internal/formatter"
	"github.com/tordrt/rlsgen/internal/policyfile"
)

var (
	schemaOutput string
	schemaFormat string
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Dump a database catalog for use in policy files",
	Long: `Schema extracts tables, columns, and foreign keys from a database. The default
YAML output is a policy document with only tables, ready for policies to be
added. --format text prints a compact listing instead.`,
	Example: `  rlsgen schema --db-url postgres://localhost/app -o catalog.yaml
  rlsgen schema --sqlite app.db -t members,organizations --format text`,
	Args: cobra.NoArgs,
	RunE: runSchema,
}

func init() {
	f := schemaCmd.Flags()
	addDatabaseFlags(f)
	f.StringVarP(&schemaOutput, "output", "o", "", "Output file (default: stdout)")
	f.StringVar(&schemaFormat, "format", "yaml", "Output format: yaml or text")
}

func runSchema(cmd *cobra.Command, args []string) error {
	if schemaFormat != "yaml" && schemaFormat != "text" {
		return cli.ConfigError(fmt.Sprintf("invalid format: %s (must be 'yaml' or 'text')", schemaFormat), nil)
	}

	catalog, err := extractCatalog(cmd.Context())
	if err != nil {
		return err
	}
	if catalog == nil {
		return cli.ConfigError("one of --db-url, --mysql-url, or --sqlite must be specified", nil)
	}

	writer := cmd.OutOrStdout()
	if schemaOutput != "" {
		f, err := os.Create(schemaOutput)
		if err != nil {
			return cli.GeneralError("failed to create output file", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.Warn("failed to close output file", "error", err)
			}
		}()
		writer = f
	}

	if schemaFormat == "text" {
		if err := formatter.NewCatalogFormatter(writer).Format(catalog); err != nil {
			return cli.GeneralError("failed to write output", err)
		}
		return nil
	}

	data, err := policyfile.MarshalCatalog(catalog)
	if err != nil {
		return cli.GeneralError("failed to encode catalog", err)
	}
	if _, err := writer.Write(data); err != nil {
		return cli.GeneralError("failed to write output", err)
	}
	return nil
}
