package main

import (
	"github.com/alaminmiah4274/iron-temple/internal/clock"
	"github.com/alaminmiah4274/iron-temple/internal/db"
	"github.com/alaminmiah4274/iron-temple/internal/email"
	"github.com/alaminmiah4274/iron-temple/internal/logger"
	"github.com/alaminmiah4274/iron-temple/internal/subscription"
	"github.com/alaminmiah4274/iron-temple/internal/user"

	"github.com/spf13/cobra"
)

// expireCmd is meant to be run daily by an external scheduler.
var expireCmd = &cobra.Command{
	Use:   "expire-subscriptions",
	Short: "Mark ACTIVE subscriptions past their end date as EXPIRED",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		database, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()

		emailService := email.New(cfg)
		defer emailService.Close()

		bus, publisher := newBus(cfg)
		defer publisher.Close()

		svc := subscription.NewService(
			subscription.NewRepository(database),
			user.NewRepository(database),
			emailService,
			bus,
			clock.System(),
		)

		n, err := svc.ExpireDue(ctx)
		if err != nil {
			return err
		}
		logger.Info("Expired subscriptions", "count", n)
		return nil
	},
}
