package main

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"clinicconnect/config"
	"clinicconnect/utils"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: withDB(func(db *sql.DB, logger zerolog.Logger) error {
			if err := utils.Migrate(db, utils.DialectPostgres, logger); err != nil {
				return err
			}
			version, err := utils.SchemaVersion(db, utils.DialectPostgres, logger)
			if err != nil {
				return err
			}
			logger.Info().Int64("version", version).Msg("schema up to date")
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: withDB(func(db *sql.DB, logger zerolog.Logger) error {
			return utils.Rollback(db, utils.DialectPostgres, logger)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: withDB(func(db *sql.DB, logger zerolog.Logger) error {
			return utils.MigrationStatus(db, utils.DialectPostgres, logger)
		}),
	})

	return cmd
}

func withDB(fn func(*sql.DB, zerolog.Logger) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := newLogger(cfg.IsDev())

		db, err := openDB(context.Background(), cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		return fn(db, logger)
	}
}
