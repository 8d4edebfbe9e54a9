// Command rlsgen generates PostgreSQL row-level security policies from
// policy files, joining referenced tables along foreign keys read from the
// file or from a live PostgreSQL, MySQL or SQLite database.
//
// Usage:
//
//	rlsgen generate -f policies.yaml [--db-url URL] [--format script] [-o out.sql]
//	rlsgen schema --db-url URL [-t tables] [-o catalog.yaml]
//	rlsgen config show
//	rlsgen version
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/tordrt/rlsgen/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		cli.ExitWithError(err)
	}
}
