package main

import (
	"github.com/alaminmiah4274/iron-temple/internal/db"
	"github.com/alaminmiah4274/iron-temple/internal/logger"

	"github.com/spf13/cobra"
)

var rollbackSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
			return err
		}
		logger.Info("Migrations applied", "path", cfg.MigrationsPath)
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := db.RollbackMigrations(database, cfg.MigrationsPath, rollbackSteps); err != nil {
			return err
		}
		logger.Info("Migrations rolled back", "steps", rollbackSteps)
		return nil
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&rollbackSteps, "steps", 1, "number of migrations to roll back")

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}
