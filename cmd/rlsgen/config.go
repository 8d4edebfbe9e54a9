package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/tordrt/rlsgen/internal/cli"
)

var showSource bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Show prints the configuration after merging defaults, the config file, and
RLSGEN_* environment variables. Database passwords are redacted.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func init() {
	configShowCmd.Flags().BoolVar(&showSource, "source", false, "Print only the path of the config file in use")
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if showSource {
		if cfgSource == "" {
			_, _ = fmt.Fprintln(out, "(no config file, using defaults)")
			return nil
		}
		_, _ = fmt.Fprintln(out, cfgSource)
		return nil
	}

	shown := *cfg
	shown.Database.URL = redactURL(shown.Database.URL)

	data, err := yaml.Marshal(shown)
	if err != nil {
		return cli.GeneralError("failed to encode config", err)
	}
	_, err = out.Write(data)
	return err
}

// redactURL hides the password of a URL-style connection string
func redactURL(raw string) string {
	if raw == "" {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Redacted()
}
