package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"redwatch/internal/logger"
	"redwatch/internal/simulator"
	"redwatch/pkg/logging"
)

var (
	target            string
	eventsFile        string
	delay             time.Duration
	duplicates        int
	duplicateInterval time.Duration
	logLevel          string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "simulator",
		Short: "Test-traffic generator for the event receiver",
		Long:  "Simulator loads event templates from a JSON file and posts them to a running receiver, optionally repeating each one to exercise deduplication",
		RunE: func(cmd *cobra.Command, args []string) error {
			earlyLog := logging.NewEarlyLog()

			log, err := logger.New(logLevel)
			if err != nil {
				earlyLog.Error("Failed to init logger: %v", err)
				return err
			}
			defer log.Sync()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			runner := simulator.NewRunner(simulator.Options{
				Target:            target,
				EventsFile:        eventsFile,
				Delay:             delay,
				Duplicates:        duplicates,
				DuplicateInterval: duplicateInterval,
			}, log)

			sent, err := runner.Run(ctx)
			if err != nil && err != context.Canceled {
				log.Errorw("Simulation failed", "sent", sent, "error", err)
				return err
			}
			return nil
		},
	}

	rootCmd.Flags().StringVar(&target, "target", "http://localhost:5001/events", "Receiver event endpoint")
	rootCmd.Flags().StringVar(&eventsFile, "events", "events.json", "Path to events JSON file")
	rootCmd.Flags().DurationVar(&delay, "delay", 2*time.Second, "Delay between distinct events")
	rootCmd.Flags().IntVar(&duplicates, "duplicates", 0, "Send each event this many times to test deduplication")
	rootCmd.Flags().DurationVar(&duplicateInterval, "duplicate-interval", time.Second, "Interval between duplicate sends")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
