package runner

import (
	"context"
	"errors"
	"fmt"

	"campground-scanner/models"
	"campground-scanner/scraper"
)

// InProcess runs the scanner in the calling process
type InProcess struct {
	scanner Scanner
}

func NewInProcess(scanner Scanner) *InProcess {
	return &InProcess{scanner: scanner}
}

func (p *InProcess) Name() string { return "in-process" }

func (p *InProcess) Run(ctx context.Context, requests []models.ScanRequest, settings models.SearchSettings) ([]models.AvailabilityRecord, error) {
	records, err := p.scanner.Scan(ctx, requests, settings)
	if err != nil {
		var startupErr *scraper.StartupError
		if errors.As(err, &startupErr) {
			return nil, fmt.Errorf("%w. %s", err, InstallHint)
		}
		return nil, err
	}
	return records, nil
}
