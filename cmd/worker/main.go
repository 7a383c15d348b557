package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"launchcontrol/internal/handlers/business"
	"launchcontrol/pkg/config"
	"launchcontrol/pkg/execution"

	logrus "github.com/sirupsen/logrus"
)

// finalizeTimeout bounds a single finalization run. Each step is resumable,
// so a timed out run only delays completion until the next delivery or the
// recovery scheduler picks the mint up again.
const finalizeTimeout = 5 * time.Minute

func main() {
	// Initialize logger
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	// Initialize database
	config.InitDB()

	// Initialize RabbitMQ
	config.InitRabbitMQ()
	defer config.RabbitMQ.Close()

	exec := execution.NewClient("")

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create consumer for the finalization queue
	msgConsumer, err := config.NewConsumer(config.QueueFinalize)
	if err != nil {
		logrus.Fatal("Failed to create consumer: ", err)
	}
	defer msgConsumer.Close()

	logrus.Info("Finalization worker started, waiting for messages...")

	err = msgConsumer.Consume(runCtx, func(msg []byte) error {
		var finalizeMsg business.FinalizeMessage
		if err := json.Unmarshal(msg, &finalizeMsg); err != nil {
			logrus.Errorf("Failed to unmarshal message: %v", err)
			// A malformed message will never parse on redelivery, drop it
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), finalizeTimeout)
		defer cancel()

		logrus.WithFields(logrus.Fields{"mint": finalizeMsg.Mint}).Info("Running finalization")

		if err := business.RunFinalization(ctx, config.DB, exec, finalizeMsg.Mint); err != nil {
			logrus.WithFields(logrus.Fields{
				"mint":  finalizeMsg.Mint,
				"error": err.Error(),
			}).Error("Finalization run failed")
			return err
		}

		logrus.WithFields(logrus.Fields{"mint": finalizeMsg.Mint}).Info("Finalization complete")
		return nil
	})

	if err != nil && !errors.Is(err, context.Canceled) {
		logrus.Fatal("Consumer stopped: ", err)
	}
	logrus.Info("Finalization worker shut down")
}
