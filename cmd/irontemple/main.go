package main

import (
	"os"

	"github.com/alaminmiah4274/iron-temple/internal/config"
	"github.com/alaminmiah4274/iron-temple/internal/events"
	"github.com/alaminmiah4274/iron-temple/internal/logger"

	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "irontemple",
	Short:         "Iron Temple gym management API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.Init()

		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(expireCmd)
}

// @title Iron Temple API
// @version 1.0
// @description Gym management API: classes, bookings, memberships, subscriptions and payments.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.WithError(err).Error("command failed", "command", os.Args[1:])
		os.Exit(1)
	}
}

// newBus publishes to RabbitMQ when RABBITMQ_URL is set and drops events otherwise.
func newBus(cfg *config.Config) (*events.Bus, events.Publisher) {
	if cfg.RabbitMQURL == "" {
		pub := events.NewNoopPublisher(logger.Logger())
		return events.NewBus(pub), pub
	}

	pub, err := events.NewRabbitMQPublisher(cfg.RabbitMQURL, logger.Logger())
	if err != nil {
		logger.WithError(err).Warn("RabbitMQ unavailable, domain events will be dropped")
		noop := events.NewNoopPublisher(logger.Logger())
		return events.NewBus(noop), noop
	}
	return events.NewBus(pub), pub
}
