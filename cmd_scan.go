package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"campground-scanner/config"
	"campground-scanner/models"
	"campground-scanner/runner"
	"campground-scanner/scraper"
	"campground-scanner/services"
	"campground-scanner/storage"
	"campground-scanner/utils"

	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

// statusHelp describes how non-string statuses appear in the output
const statusHelp = `Statuses taken from structured data keep their JSON form: a boolean or null status is
written as true, false or null, and an object or array status as compact JSON.`

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan campground search pages for availability",
	Long: `Scans each campground search page with the requested dates and party settings.
Campgrounds are given as "Display Name | https://reservations.ontarioparks.ca/..." entries,
either with --campground or one per line in --file ("-" reads stdin).

` + statusHelp,
	Example: `  campscan scan --campground "Killbear - George Lake | https://reservations.ontarioparks.ca/create-booking/results?resourceLocationId=-2147482518" --start 2026-07-10 --end 2026-07-12 --party 4`,
	RunE: runScan,
}

var (
	scanCampgrounds  []string
	scanFile         string
	scanStart        string
	scanEnd          string
	scanParty        int
	scanEquipment    string
	scanSubEquipment string
	scanMode         string
	scanOut          string
	scanJSON         bool
)

func init() {
	scanCmd.Flags().StringArrayVarP(&scanCampgrounds, "campground", "c", nil, `Campground entry "Name | URL" (repeatable)`)
	scanCmd.Flags().StringVarP(&scanFile, "file", "f", "", `File with one "Name | URL" entry per line ("-" for stdin)`)
	scanCmd.Flags().StringVar(&scanStart, "start", "", "Arrival date YYYY-MM-DD (default today+14)")
	scanCmd.Flags().StringVar(&scanEnd, "end", "", "Departure date YYYY-MM-DD (default today+16)")
	scanCmd.Flags().IntVarP(&scanParty, "party", "p", 0, "Party size 1-12 (default DEFAULT_PARTY_SIZE or 2)")
	scanCmd.Flags().StringVar(&scanEquipment, "equipment", "", "Equipment ID as seen in the search URL (default -32768)")
	scanCmd.Flags().StringVar(&scanSubEquipment, "sub-equipment", "", "Sub-equipment ID as seen in the search URL (default -32765)")
	scanCmd.Flags().StringVar(&scanMode, "mode", "", "Execution mode: auto, direct or worker (default SCAN_MODE or auto)")
	scanCmd.Flags().StringVarP(&scanOut, "out", "o", "", "CSV output path (default CSV_FILE_PATH)")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Print records as JSON instead of the summary report")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	logger := newLogger()

	requests, err := collectRequests(cmd.InOrStdin())
	if err != nil {
		return err
	}
	settings, err := buildSettings(cfg, time.Now())
	if err != nil {
		return err
	}
	if err := services.ValidateScanInput(requests, settings); err != nil {
		return err
	}

	mode := cfg.ScanMode
	if scanMode != "" {
		mode = scanMode
	}
	strategy, err := newStrategy(cfg, mode, logger)
	if err != nil {
		return err
	}

	logger.Info("Campground scan: %d targets, %s to %s, party %d (%s)",
		len(requests), settings.StartDate.Format(dateLayout), settings.EndDate.Format(dateLayout), settings.PartySize, strategy.Name())

	records, err := strategy.Run(cmd.Context(), requests, settings)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if scanJSON {
		if err := storage.NewJSONWriter(cmd.OutOrStdout()).WriteRecords(records); err != nil {
			return err
		}
	} else {
		report := services.NewSummaryService(logger).Generate(records)
		services.PrintScanReport(cmd.OutOrStdout(), report, records)
	}

	if len(records) == 0 {
		return nil
	}

	outPath := cfg.CSVFilePath
	if scanOut != "" {
		outPath = scanOut
	}
	csvWriter := storage.NewCSVWriter(outPath, logger)
	if err := csvWriter.WriteRecords(records); err != nil {
		return err
	}
	logger.Info("Done! Found %d availability records → %s", len(records), csvWriter.Path())
	return nil
}

// collectRequests merges --campground entries with the entries of --file
func collectRequests(stdin io.Reader) ([]models.ScanRequest, error) {
	raw := strings.Join(scanCampgrounds, "\n")
	if scanFile != "" {
		var data []byte
		var err error
		if scanFile == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(scanFile)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read campground list %s: %w", scanFile, err)
		}
		raw += "\n" + string(data)
	}
	return services.ParseRequests(raw), nil
}

// buildSettings applies flag values over configured defaults. Nights always follows the
// date range.
func buildSettings(cfg *config.Config, now time.Time) (models.SearchSettings, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	settings := models.SearchSettings{
		StartDate:      today.AddDate(0, 0, 14),
		EndDate:        today.AddDate(0, 0, 16),
		PartySize:      cfg.DefaultPartySize,
		EquipmentID:    cfg.DefaultEquipmentID,
		SubEquipmentID: cfg.DefaultSubEquipmentID,
	}

	var err error
	if scanStart != "" {
		if settings.StartDate, err = time.Parse(dateLayout, scanStart); err != nil {
			return settings, fmt.Errorf("invalid --start %q, want YYYY-MM-DD", scanStart)
		}
	}
	if scanEnd != "" {
		if settings.EndDate, err = time.Parse(dateLayout, scanEnd); err != nil {
			return settings, fmt.Errorf("invalid --end %q, want YYYY-MM-DD", scanEnd)
		}
	}
	if scanParty != 0 {
		settings.PartySize = scanParty
	}
	if scanEquipment != "" {
		settings.EquipmentID = scanEquipment
	}
	if scanSubEquipment != "" {
		settings.SubEquipmentID = scanSubEquipment
	}

	nights := models.NightsBetween(settings.StartDate, settings.EndDate)
	settings.Nights = &nights
	return settings, nil
}

// newStrategy wires both execution strategies and lets runner.Select pick one
func newStrategy(cfg *config.Config, mode string, logger *utils.Logger) (runner.Strategy, error) {
	opts := scraper.Options{NavigationTimeout: cfg.NavTimeout, SettleDelay: cfg.SettleDelay}
	direct := runner.NewInProcess(newScanner(cfg, opts, logger))

	exe, err := os.Executable()
	if err != nil {
		logger.Debug("Cannot resolve own executable for worker mode: %v", err)
	}
	workerArgs := []string{workerCmd.Name()}
	if flagVerbose {
		workerArgs = append(workerArgs, "--verbose")
	}
	worker := &runner.Worker{
		Command:           exe,
		Args:              workerArgs,
		Timeout:           cfg.WorkerTimeout,
		Stderr:            os.Stderr,
		NavigationTimeout: opts.NavigationTimeout,
		SettleDelay:       opts.SettleDelay,
		Logger:            logger,
	}

	return runner.Select(mode, runtime.GOOS, direct, worker)
}
