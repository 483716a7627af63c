package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campground-scanner/models"
	"campground-scanner/utils"
)

// Options controls the bounded waits of a scan
type Options struct {
	NavigationTimeout time.Duration
	SettleDelay       time.Duration
}

// DefaultOptions returns the standard navigation timeout and settle period
func DefaultOptions() Options {
	return Options{
		NavigationTimeout: 45 * time.Second,
		SettleDelay:       3 * time.Second,
	}
}

// Scanner drives one browser through every requested campground, one target at a time
type Scanner struct {
	launcher Launcher
	opts     Options
	logger   *utils.Logger
}

// NewScanner creates a new Scanner
func NewScanner(launcher Launcher, opts Options, logger *utils.Logger) *Scanner {
	return &Scanner{launcher: launcher, opts: opts, logger: logger}
}

// Scan is the main entry point. It returns every target's records in request order, or an
// error and no records when the batch cannot complete.
func (s *Scanner) Scan(ctx context.Context, requests []models.ScanRequest, settings models.SearchSettings) ([]models.AvailabilityRecord, error) {
	s.logger.Info("Starting availability scan for %d campgrounds...", len(requests))

	browser, err := s.launcher.Launch(ctx)
	if err != nil {
		var startupErr *StartupError
		if errors.As(err, &startupErr) {
			return nil, err
		}
		return nil, &StartupError{Cause: err}
	}
	defer func() {
		if err := browser.Close(); err != nil {
			s.logger.Warn("Closing browser failed: %v", err)
		}
	}()

	var all []models.AvailabilityRecord
	for i, req := range requests {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scan cancelled before %q: %w", req.Name, err)
		}
		s.logger.Info("[%d/%d] Scanning '%s'", i+1, len(requests), req.Name)

		records, err := s.scanTarget(ctx, browser, req, settings)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
		s.logger.Info("'%s': %d records (total so far: %d)", req.Name, len(records), len(all))
	}

	s.logger.Info("Scan complete. Total records: %d", len(all))
	return all, nil
}

// scanTarget returns the target's structured records, or its text-derived records when no
// structured record was captured. Only batch-fatal failures are returned as errors.
func (s *Scanner) scanTarget(ctx context.Context, browser Browser, req models.ScanRequest, settings models.SearchSettings) ([]models.AvailabilityRecord, error) {
	targetURL, err := BuildSearchURL(req.SearchURL, settings)
	if err != nil {
		s.logger.Warn("'%s' skipped: %v", req.Name, err)
		return nil, nil
	}

	page, err := browser.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening page for %q: %w", req.Name, err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			s.logger.Warn("Closing page for '%s' failed: %v", req.Name, err)
		}
	}()

	s.logger.Debug("  navigating to %s", targetURL)
	if err := page.Navigate(ctx, targetURL, s.opts.NavigationTimeout); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("scan cancelled during %q: %w", req.Name, ctx.Err())
		}
		if errors.Is(err, ErrNavigationTimeout) {
			s.logger.Warn("  '%s' navigation timed out after %v, continuing with captured data", req.Name, s.opts.NavigationTimeout)
		} else {
			s.logger.Warn("  '%s' navigation failed: %v", req.Name, err)
		}
	}

	if err := sleepContext(ctx, s.opts.SettleDelay); err != nil {
		return nil, fmt.Errorf("scan cancelled during %q: %w", req.Name, err)
	}

	acc := newCollector(req.Name, s.logger)
	for _, resp := range page.Responses() {
		acc.Observe(ctx, resp)
	}
	if records := acc.Records(); len(records) > 0 {
		return records, nil
	}

	s.logger.Info("  No structured data for '%s', falling back to page text", req.Name)
	textCtx, cancel := context.WithTimeout(ctx, s.opts.NavigationTimeout)
	defer cancel()
	text, err := page.Text(textCtx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("scan cancelled during %q: %w", req.Name, ctx.Err())
		}
		s.logger.Warn("  Reading page text for '%s' failed: %v", req.Name, err)
		return nil, nil
	}
	return ExtractFromText(text, req.Name), nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
