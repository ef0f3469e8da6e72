package cmd

import (
	"fmt"

	"github.com/creerlio/talentbank/internal/db"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

func MigrateCmd() *cobra.Command {
	var driver, connection string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.PersistentFlags().StringVar(&driver, "driver", "", "database driver: sqlite or pgx (default $DB_DRIVER, then sqlite)")
	cmd.PersistentFlags().StringVar(&connection, "db", "", "connection string (default $DB_CONNECTION)")

	open := func() (*sqlx.DB, string, error) {
		if driver == "" {
			driver = envOr("DB_DRIVER", "sqlite")
		}
		if connection == "" {
			connection = envOr("DB_CONNECTION", "./data/talentbank.db")
		}
		database, err := db.Init(driver, connection)
		return database, driver, err
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, driver, err := open()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close(database) }()

			err = db.RunMigrations(database.DB, driver)
			if err != nil {
				return err
			}
			return printVersion(cmd, database, driver)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, driver, err := open()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close(database) }()

			err = db.MigrateDown(database.DB, driver)
			if err != nil {
				return err
			}
			return printVersion(cmd, database, driver)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, driver, err := open()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close(database) }()

			return printVersion(cmd, database, driver)
		},
	})

	return cmd
}

func printVersion(cmd *cobra.Command, database *sqlx.DB, driver string) error {
	version, err := db.Version(database.DB, driver)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
	return nil
}
