package main

import (
	"context"

	"campground-scanner/config"
	"campground-scanner/models"
	"campground-scanner/runner"
	"campground-scanner/scraper"

	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:    "worker",
	Short:  "Run one scan batch read from stdin (used by worker mode)",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE:   runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	logger := newLogger()

	return runner.ServeWorker(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(),
		func(ctx context.Context, req runner.WorkerRequest, settings models.SearchSettings) ([]models.AvailabilityRecord, error) {
			logger.Info("Worker %s: scanning %d campgrounds", req.ScanID, len(req.Requests))
			return newScanner(cfg, scraperOptions(req), logger).Scan(ctx, req.Requests, settings)
		})
}

// scraperOptions takes the parent's timings, falling back to the defaults for unset values
func scraperOptions(req runner.WorkerRequest) scraper.Options {
	opts := scraper.DefaultOptions()
	if d := req.NavigationTimeout(); d > 0 {
		opts.NavigationTimeout = d
	}
	if d := req.SettleDelay(); d > 0 {
		opts.SettleDelay = d
	}
	return opts
}
