package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"campground-scanner/config"
	"campground-scanner/scraper"
	"campground-scanner/scraper/chrome"
	"campground-scanner/utils"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var flagVerbose bool

var rootCmd = &cobra.Command{
	Use:   "campscan",
	Short: "Ontario Parks campground availability scanner",
	Long: `Scans campground reservation search pages for a date range and party configuration
and reports per-site availability signals taken from the page's network responses,
or from its rendered text when no structured data is observed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// newLogger writes to stderr so stdout stays free for results
func newLogger() *utils.Logger {
	logger := utils.NewLogger()
	logger.SetVerbose(flagVerbose)
	return logger
}

func newScanner(cfg *config.Config, opts scraper.Options, logger *utils.Logger) *scraper.Scanner {
	launcher := chrome.NewLauncher(chrome.Options{
		ExecPath:       cfg.ChromePath,
		Headless:       cfg.Headless,
		UserAgent:      cfg.UserAgent,
		LaunchAttempts: cfg.LaunchAttempts,
	}, logger)
	return scraper.NewScanner(launcher, opts, logger)
}
