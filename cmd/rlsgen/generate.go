package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tordrt/rlsgen"
	"github.com/tordrt/rlsgen/internal/cli"
	"github.com/tordrt/rlsgen/internal/policy"
	"github.com/tordrt/rlsgen/internal/policyfile"
)

var (
	policyFile string
	format     string
	pretty     bool
	outputFile string
	outputDir  string
	strict     bool
	workers    int
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate CREATE POLICY statements from a policy file",
	Long: `Generate reads policies from a YAML or JSON file and writes one CREATE POLICY
statement per policy.

The catalog used to join tables comes from the database when a database flag
is given, otherwise from the tables declared in the file. Tables that cannot
be joined are logged as warnings; --strict turns them into a failure.`,
	Example: `  rlsgen generate -f policies.yaml
  rlsgen generate -f policies.yaml --db-url postgres://localhost/app --format script -o rls.sql
  rlsgen generate -f policies.yaml --sqlite app.db --output-dir migrations/rls`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&policyFile, "file", "f", "", "Policy file (YAML or JSON)")
	addDatabaseFlags(f)
	f.StringVar(&format, "format", "sql", "Output format: sql, script or markdown")
	f.BoolVar(&pretty, "pretty", false, "Break statements over several lines")
	f.StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	f.StringVarP(&outputDir, "output-dir", "d", "", "Write one migration script per policy into this directory")
	f.BoolVar(&strict, "strict", false, "Fail when a referenced table cannot be joined")
	f.IntVar(&workers, "workers", 0, "Policies generated concurrently (default: GOMAXPROCS)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if policyFile == "" {
		return cli.ConfigError("--file is required", nil)
	}
	if outputDir != "" && outputFile != "" {
		return cli.ConfigError("cannot use both --output-dir and --output flags", nil)
	}
	if _, err := rlsgen.NewFormatter(format, io.Discard, pretty); err != nil {
		return cli.ConfigError("invalid --format", err)
	}

	file, err := policyfile.Load(policyFile)
	if err != nil {
		return cli.PolicyParseError("failed to load policy file", err)
	}

	catalog, err := extractCatalog(ctx)
	if err != nil {
		return err
	}

	opts := []policy.Option{policy.WithObserver(policy.NewSlogObserver(logger))}
	if strict {
		opts = append(opts, policy.WithStrictJoins())
	}
	if workers > 0 {
		opts = append(opts, policy.WithWorkers(workers))
	}

	inputs := file.Inputs(catalog)
	results, err := policy.NewGenerator(opts...).GenerateAll(ctx, inputs)
	if err != nil {
		return cli.GenerationError("failed to generate policies", err)
	}

	out := &rlsgen.OutputOptions{
		Writer:    cmd.OutOrStdout(),
		OutputDir: outputDir,
		Format:    format,
		Pretty:    pretty,
	}
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return cli.GeneralError("failed to create output file", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.Warn("failed to close output file", "error", err)
			}
		}()
		out.Writer = f
	}

	if err := rlsgen.FormatPolicies(inputs, results, out); err != nil {
		return cli.GeneralError("failed to write output", err)
	}

	logger.Info("generated policies", "count", len(results))
	return nil
}
