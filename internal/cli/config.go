package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	maxWalkDepth = 25
)

// ConfigFileNames are searched in order in each directory.
var ConfigFileNames = []string{"rlsgen.yaml", "rlsgen.yml"}

// Config represents the rlsgen configuration from rlsgen.yaml.
type Config struct {
	// Output format for generate: sql, script or markdown
	Format string `mapstructure:"format" json:"format"`

	Database DatabaseConfig `mapstructure:"database" json:"database"`
	Generate GenerateConfig `mapstructure:"generate" json:"generate"`
}

// DatabaseConfig selects the catalog source. At most one of URL, MySQLURL
// and SQLite may be set. An empty Schema means "public" for PostgreSQL and
// the DSN's database for MySQL.
type DatabaseConfig struct {
	URL      string `mapstructure:"url" json:"url"`
	MySQLURL string `mapstructure:"mysql_url" json:"mysql_url"`
	SQLite   string `mapstructure:"sqlite" json:"sqlite"`
	Schema   string `mapstructure:"schema" json:"schema"`
}

// GenerateConfig holds generate command settings.
type GenerateConfig struct {
	File      string `mapstructure:"file" json:"file"`
	Output    string `mapstructure:"output" json:"output"`
	OutputDir string `mapstructure:"output_dir" json:"output_dir"`
	Pretty    bool   `mapstructure:"pretty" json:"pretty"`
	Strict    bool   `mapstructure:"strict" json:"strict"`
	Workers   int    `mapstructure:"workers" json:"workers"`
}

// LoadConfig discovers and loads configuration with proper precedence:
// flags > env > config file > defaults.
//
// Returns the loaded config, the path to the config file (empty if none found),
// and any error encountered.
func LoadConfig(explicitConfigPath string) (*Config, string, error) {
	v := viper.New()

	setDefaults(v)

	// RLSGEN_DATABASE_URL overrides database.url
	v.SetEnvPrefix("RLSGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath, err := findConfigFile(explicitConfigPath)
	if err != nil {
		return nil, "", err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, configPath, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configPath, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, configPath, nil
}

// Every key needs a default for AutomaticEnv to reach it through Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("format", "sql")

	v.SetDefault("database.url", "")
	v.SetDefault("database.mysql_url", "")
	v.SetDefault("database.sqlite", "")
	v.SetDefault("database.schema", "")

	v.SetDefault("generate.file", "")
	v.SetDefault("generate.output", "")
	v.SetDefault("generate.output_dir", "")
	v.SetDefault("generate.pretty", false)
	v.SetDefault("generate.strict", false)
	v.SetDefault("generate.workers", 0)
}

// findConfigFile finds the config file to use.
// If explicitPath is provided, it validates the file exists.
// Otherwise, it walks up from cwd looking for rlsgen.yaml or rlsgen.yml,
// stopping at a .git directory or after maxWalkDepth levels.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}

	dir := cwd
	for i := 0; i < maxWalkDepth; i++ {
		for _, name := range ConfigFileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", nil
}

// Source names the catalog source that is configured, or "" for none.
// It fails when more than one is set.
func (d DatabaseConfig) Source() (string, error) {
	var set []string
	if d.URL != "" {
		set = append(set, "--db-url")
	}
	if d.MySQLURL != "" {
		set = append(set, "--mysql-url")
	}
	if d.SQLite != "" {
		set = append(set, "--sqlite")
	}

	switch len(set) {
	case 0:
		return "", nil
	case 1:
		return set[0], nil
	default:
		return "", fmt.Errorf("only one of --db-url, --mysql-url, or --sqlite can be specified (got %s)", strings.Join(set, ", "))
	}
}
