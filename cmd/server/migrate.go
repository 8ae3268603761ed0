package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/courier/internal/platform/postgres"
	"github.com/spf13/cobra"
)

// migrationCommands are the goose commands the migrate subcommand accepts.
var migrationCommands = []string{"up", "down", "status", "version"}

// errNoDatabaseURL is returned when migrate runs without a database to target.
var errNoDatabaseURL = errors.New("store.database_url (or DATABASE_URL) must be set to run migrations")

func newMigrateCmd(configPath *string) *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:       "migrate [up|down|status|version]",
		Short:     "Apply or inspect Postgres schema migrations",
		Long:      `Runs the embedded goose migrations against the configured Postgres database. Defaults to "up".`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: migrationCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}

			cfg, log, err := initializeApp(*configPath)
			if err != nil {
				return err
			}
			if databaseURL != "" {
				cfg.Store.DatabaseURL = databaseURL
			}

			return runMigrations(cmd.Context(), cfg.Store.DatabaseURL, command, log)
		},
	}
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "database URL, overriding configuration")

	return cmd
}

// runMigrations opens the database at url and executes command against it.
func runMigrations(ctx context.Context, url, command string, log *slog.Logger) error {
	if url == "" {
		return errNoDatabaseURL
	}

	db, err := postgres.Open(ctx, url, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database connection", "error", err)
		}
	}()

	if err := postgres.Migrate(ctx, db, command, log); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
