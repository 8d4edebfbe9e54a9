package main

import (
	"context"
	"strings"

	"github.com/spf13/pflag"

	"github.com/tordrt/rlsgen/internal/cli"
	"github.com/tordrt/rlsgen/internal/db"
	"github.com/tordrt/rlsgen/internal/schema"
)

// Catalog source flags shared by generate and schema
var (
	dbURL         string
	mysqlURL      string
	sqlitePath    string
	schemaName    string
	tables        string
	excludeTables string
)

func addDatabaseFlags(f *pflag.FlagSet) {
	f.StringVar(&dbURL, "db-url", "", "PostgreSQL connection string")
	f.StringVar(&mysqlURL, "mysql-url", "", "MySQL connection string")
	f.StringVar(&sqlitePath, "sqlite", "", "SQLite database file path")
	f.StringVarP(&schemaName, "schema", "s", "", "Database schema name (default: public for PostgreSQL, the DSN database for MySQL)")
	f.StringVarP(&tables, "tables", "t", "", "Specific tables (comma-separated, optional)")
	f.StringVar(&excludeTables, "exclude", "", "Tables to leave out (comma-separated)")
}

// extractCatalog reads the catalog from the configured database. It returns
// nil when no database is configured.
func extractCatalog(ctx context.Context) (*schema.Schema, error) {
	source, err := cli.DatabaseConfig{URL: dbURL, MySQLURL: mysqlURL, SQLite: sqlitePath}.Source()
	if err != nil {
		return nil, cli.ConfigError("invalid database flags", err)
	}

	tableList := parseTableList(tables)
	var extracted *schema.Schema

	switch source {
	case "":
		return nil, nil

	case "--sqlite":
		client, err := db.NewSQLiteClient(ctx, sqlitePath)
		if err != nil {
			return nil, cli.DBConnectError("failed to connect to SQLite", err)
		}
		defer func() {
			if err := client.Close(); err != nil {
				logger.Warn("failed to close SQLite connection", "error", err)
			}
		}()

		extracted, err = db.NewSQLiteExtractor(client).ExtractSchema(ctx, tableList)
		if err != nil {
			return nil, cli.GeneralError("failed to extract schema", err)
		}

	case "--mysql-url":
		dsn := strings.TrimPrefix(mysqlURL, "mysql://")
		client, err := db.NewMySQLClient(ctx, dsn)
		if err != nil {
			return nil, cli.DBConnectError("failed to connect to MySQL", err)
		}
		defer func() {
			if err := client.Close(); err != nil {
				logger.Warn("failed to close MySQL connection", "error", err)
			}
		}()

		name := schemaName
		if name == "" {
			if name, err = db.ParseDatabaseName(dsn); err != nil {
				return nil, cli.ConfigError("failed to determine database name (pass --schema)", err)
			}
		}
		extracted, err = db.NewMySQLExtractor(client, name).ExtractSchema(ctx, tableList)
		if err != nil {
			return nil, cli.GeneralError("failed to extract schema", err)
		}

	default:
		client, err := db.NewPostgresClient(ctx, dbURL)
		if err != nil {
			return nil, cli.DBConnectError("failed to connect to PostgreSQL", err)
		}
		defer func() {
			if err := client.Close(ctx); err != nil {
				logger.Warn("failed to close PostgreSQL connection", "error", err)
			}
		}()

		name := schemaName
		if name == "" {
			name = "public"
		}
		extracted, err = db.NewPostgresExtractor(client, name).ExtractSchema(ctx, tableList)
		if err != nil {
			return nil, cli.GeneralError("failed to extract schema", err)
		}
	}

	extracted.Filter(parseTableList(excludeTables))
	logger.Info("extracted catalog", "source", strings.TrimPrefix(source, "--"), "tables", len(extracted.Tables))
	return extracted, nil
}
