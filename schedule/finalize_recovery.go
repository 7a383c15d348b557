package main

import (
	"context"
	"os"
	"time"

	"launchcontrol/internal/handlers/business"
	dbconfig "launchcontrol/pkg/config"
	"launchcontrol/pkg/execution"

	"github.com/robfig/cron/v3"
	logger "github.com/sirupsen/logrus"
)

const (
	// stuckAfter is how long a bonding state may sit in finalizing before
	// the scheduler assumes the queue delivery was lost and resumes it.
	stuckAfter = 10 * time.Minute

	runTimeout = 5 * time.Minute
)

// RecoverStuckFinalizations scans for bondings stuck mid-finalization and
// resumes each one from its persisted step.
func RecoverStuckFinalizations(exec *execution.Client) error {
	mints, err := business.FindStuckFinalizations(dbconfig.DB, stuckAfter)
	if err != nil {
		logger.Errorf("> Failed to scan for stuck finalizations: %v", err)
		return err
	}

	if len(mints) == 0 {
		return nil
	}
	logger.Infof("> Found %d stuck finalizations", len(mints))

	for _, mint := range mints {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		err := business.RunFinalization(ctx, dbconfig.DB, exec, mint)
		cancel()

		if err != nil {
			logger.Errorf("> Failed to resume finalization for %s: %v", mint, err)
			continue
		}
		logger.Infof("> Resumed finalization for %s", mint)
	}

	return nil
}

func main() {
	os.MkdirAll("logs", 0755)
	file, err := os.OpenFile("logs/finalize_recovery.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err == nil {
		logger.SetOutput(file)
	} else {
		logger.Warn("Failed to open log file, logging to stdout")
	}

	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetLevel(logger.InfoLevel)
	logger.Info("> Initializing...")

	dbconfig.InitDB()
	logger.Info("> Database connection initialized")

	exec := execution.NewClient("")

	c := cron.New(cron.WithSeconds())

	// Run every 5 minutes
	_, err = c.AddFunc("0 */5 * * * *", func() {
		if err := RecoverStuckFinalizations(exec); err != nil {
			logger.Errorf("> Recovery pass failed: %v", err)
		}
	})
	if err != nil {
		logger.Fatalf("> Failed to add cron job: %v", err)
	}

	logger.Info("> Recovery scheduler started, running every 5 minutes")

	c.Start()

	select {}
}
