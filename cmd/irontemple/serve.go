package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alaminmiah4274/iron-temple/internal/db"
	"github.com/alaminmiah4274/iron-temple/internal/email"
	"github.com/alaminmiah4274/iron-temple/internal/logger"
	"github.com/alaminmiah4274/iron-temple/internal/server"

	"github.com/spf13/cobra"
)

var skipMigrations bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the email worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on startup")
}

func serve(parent context.Context) error {
	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()
	logger.Info("Database connected")

	if !skipMigrations {
		if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
			return err
		}
		logger.Info("Migrations completed")
	}

	emailService := email.New(cfg)
	defer emailService.Close()

	bus, publisher := newBus(cfg)
	defer publisher.Close()

	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	go emailService.Start(ctx)

	srv := server.New(database, cfg, emailService, bus)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start(cfg.Port)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErr:
		if err != nil {
			logger.Errorf("Server error: %v", err)
			return err
		}
	}

	logger.Info("Shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
		return err
	}

	logger.Info("Server stopped")
	return nil
}
