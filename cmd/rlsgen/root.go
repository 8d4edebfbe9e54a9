package main

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tordrt/rlsgen/internal/cli"
)

var (
	configPath string
	verbosity  int
	quiet      bool

	// Set by PersistentPreRunE before any subcommand runs
	cfg       *cli.Config
	cfgSource string
	logger    = slog.New(slog.DiscardHandler)
)

var rootCmd = &cobra.Command{
	Use:   "rlsgen",
	Short: "Generate PostgreSQL row-level security policies",
	Long: `rlsgen compiles condition trees into CREATE POLICY statements. Tables referenced
by a condition are joined along foreign keys declared in the policy file or
extracted from a PostgreSQL, MySQL, or SQLite database.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: rlsgen.yaml found walking up from the current directory)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Log more (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log errors")

	rootCmd.AddCommand(generateCmd, schemaCmd, configCmd, versionCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	logger = cli.NewLogger(cmd.ErrOrStderr(), verbosity, quiet)

	loaded, path, err := cli.LoadConfig(configPath)
	if err != nil {
		return cli.ConfigError("failed to load config", err)
	}
	cfg, cfgSource = loaded, path

	if path != "" {
		logger.Debug("loaded config", "path", path)
	}
	applyConfig(cmd.Flags(), cfg)
	return nil
}

// applyConfig fills every flag the user did not set from the config.
// Flags not defined on the running command are left alone.
func applyConfig(flags *pflag.FlagSet, c *cli.Config) {
	str := func(name string, dst *string, value string) {
		if flags.Lookup(name) != nil && !flags.Changed(name) && value != "" {
			*dst = value
		}
	}
	boolean := func(name string, dst *bool, value bool) {
		if flags.Lookup(name) != nil && !flags.Changed(name) {
			*dst = value
		}
	}

	str("db-url", &dbURL, c.Database.URL)
	str("mysql-url", &mysqlURL, c.Database.MySQLURL)
	str("sqlite", &sqlitePath, c.Database.SQLite)
	str("schema", &schemaName, c.Database.Schema)

	str("file", &policyFile, c.Generate.File)
	str("format", &format, c.Format)
	str("output", &outputFile, c.Generate.Output)
	str("output-dir", &outputDir, c.Generate.OutputDir)
	boolean("pretty", &pretty, c.Generate.Pretty)
	boolean("strict", &strict, c.Generate.Strict)
	if flags.Lookup("workers") != nil && !flags.Changed("workers") && c.Generate.Workers > 0 {
		workers = c.Generate.Workers
	}
}

// parseTableList splits a comma-separated flag value
func parseTableList(tables string) []string {
	if tables == "" {
		return nil
	}
	tableList := strings.Split(tables, ",")
	for i, t := range tableList {
		tableList[i] = strings.TrimSpace(t)
	}
	return tableList
}
