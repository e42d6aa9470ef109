package main

import (
	"fmt"

	"github.com/jonathan/smartmatch/internal/db"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateDatabaseURL string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long:  "Creates the users, profiles, internships and registrations tables in PostgreSQL. Safe to run repeatedly.",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&migrateDatabaseURL, "database-url", "", "PostgreSQL URL (default DATABASE_URL)")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(cmd, map[string]string{"database.url": "database-url"})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL not set (set DATABASE_URL environment variable or use --database-url flag)")
	}

	ctx := cmd.Context()
	database, err := db.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer database.Close()

	applied, err := database.Migrate(ctx)
	if err != nil {
		return err
	}
	log.Info("migrations applied", zap.String("database", database.Name()), zap.Strings("files", applied))
	return nil
}
