package cmd

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"github.com/templui/tasbih/internal/db"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, database *sqlx.DB, driver string) error {
				return db.RunMigrations(ctx, database.DB, driver)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, database *sqlx.DB, driver string) error {
				return db.MigrateDown(ctx, database.DB, driver)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, database *sqlx.DB, driver string) error {
				version, err := db.Version(ctx, database.DB, driver)
				if err != nil {
					return err
				}
				printf(cmd, "%d\n", version)
				return nil
			})
		},
	})

	return cmd
}

// withDB connects without migrating, so migrate commands see the schema as is.
func withDB(cmd *cobra.Command, fn func(ctx context.Context, database *sqlx.DB, driver string) error) error {
	cfg := loadConfig("info")
	ctx := cmd.Context()

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer db.Close(database)

	return fn(ctx, database, cfg.DBDriver)
}
