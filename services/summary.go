package services

import (
	"strings"

	"campground-scanner/models"
	"campground-scanner/utils"
)

// EmptyResultWarning is shown when a scan completes without a single record
const EmptyResultWarning = "No availability records were detected. This can happen when the site blocks automation or changes response formats."

// SummaryService computes summary numbers from a scan's records
type SummaryService struct {
	logger *utils.Logger
}

// NewSummaryService creates a new SummaryService
func NewSummaryService(logger *utils.Logger) *SummaryService {
	return &SummaryService{logger: logger}
}

// Generate counts records per campground and per status
func (s *SummaryService) Generate(records []models.AvailabilityRecord) *models.ScanReport {
	report := &models.ScanReport{
		RecordsByCamp:   make(map[string]int),
		RecordsByStatus: make(map[string]int),
		AvailableByCamp: make(map[string]int),
	}

	if len(records) == 0 {
		s.logger.Warn(EmptyResultWarning)
		return report
	}

	for _, r := range records {
		report.TotalRecords++
		if r.Source == models.TextSource {
			report.TextRecords++
		} else {
			report.StructuredRecords++
		}

		if _, seen := report.RecordsByCamp[r.Campground]; !seen {
			report.Campgrounds = append(report.Campgrounds, r.Campground)
		}
		report.RecordsByCamp[r.Campground]++
		report.RecordsByStatus[r.Status]++
		if IsAvailableStatus(r.Status) {
			report.AvailableByCamp[r.Campground]++
		}
	}

	return report
}

// IsAvailableStatus reports whether a raw status value reads as bookable
func IsAvailableStatus(status string) bool {
	s := strings.ToLower(strings.TrimSpace(status))
	switch s {
	case "true", "available", "open", "yes", "1":
		return true
	}
	return strings.HasPrefix(s, "available")
}
