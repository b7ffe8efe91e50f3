package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"bookops/db/migrations"
	"bookops/internal/config"
)

func newMigrateCmd(stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the books table schema",
	}

	commands := []struct {
		use, short, done string
		fn               func(context.Context, *sql.DB) error
	}{
		{"up", "Apply every pending migration", "Migrations applied successfully", migrations.Up},
		{"down", "Roll back the latest migration", "Migrations rolled back successfully", migrations.Down},
		{"status", "Print the state of every migration", "", migrations.Status},
	}
	for _, c := range commands {
		cmd.AddCommand(&cobra.Command{
			Use:   c.use,
			Short: c.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := withMigrationDB(cmd.Context(), c.fn); err != nil {
					return err
				}
				if c.done != "" {
					fmt.Fprintln(stderr, c.done)
				}
				return nil
			},
		})
	}
	return cmd
}

func withMigrationDB(ctx context.Context, fn func(context.Context, *sql.DB) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Store != config.StorePostgres {
		return fmt.Errorf("migrations need the %s store, got %q", config.StorePostgres, cfg.Store)
	}

	pool, err := openDB(ctx, cfg.DB.DSN, cfg.QueryTimeout)
	if err != nil {
		return err
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return fn(ctx, db)
}
