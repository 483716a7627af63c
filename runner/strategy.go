package runner

import (
	"context"
	"fmt"
	"strings"

	"campground-scanner/models"
)

// Scan modes accepted by Select
const (
	ModeAuto   = "auto"
	ModeDirect = "direct"
	ModeWorker = "worker"
)

// InstallHint is appended to batch-fatal errors whose likely cause is a missing browser
const InstallHint = "Confirm Chrome or Chromium is installed, or set CHROME_PATH to the browser binary."

// Scanner runs a whole batch of targets against one browser
type Scanner interface {
	Scan(ctx context.Context, requests []models.ScanRequest, settings models.SearchSettings) ([]models.AvailabilityRecord, error)
}

// Strategy decides where a scan executes. Callers get either every record or one error.
type Strategy interface {
	Name() string
	Run(ctx context.Context, requests []models.ScanRequest, settings models.SearchSettings) ([]models.AvailabilityRecord, error)
}

// Select picks the execution strategy for mode on the given GOOS.
// auto delegates to the worker on windows and runs in-process elsewhere.
func Select(mode, goos string, direct, worker Strategy) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeAuto, "":
		if goos == "windows" {
			return worker, nil
		}
		return direct, nil
	case ModeDirect:
		return direct, nil
	case ModeWorker:
		return worker, nil
	default:
		return nil, fmt.Errorf("unknown scan mode %q (want %s, %s or %s)", mode, ModeAuto, ModeDirect, ModeWorker)
	}
}
