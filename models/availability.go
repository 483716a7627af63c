package models

import "time"

// TextSource marks records that were matched from rendered page text
// rather than from an intercepted network response.
const TextSource = "page_text"

// ScanRequest is one campground search page to scan
type ScanRequest struct {
	Name      string `json:"name" validate:"required"`
	SearchURL string `json:"search_url" validate:"required,url,startswith=http"`
}

// SearchSettings holds the date range and party configuration shared by every request in a scan
type SearchSettings struct {
	StartDate      time.Time `validate:"required"`
	EndDate        time.Time `validate:"required,gtfield=StartDate"`
	PartySize      int       `validate:"min=1,max=12"`
	EquipmentID    string    `validate:"required"`
	SubEquipmentID string    `validate:"required"`
	Nights         *int      // set only when the caller wants the nights parameter sent
}

// NightsBetween returns the whole number of nights between the start and end dates
func NightsBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

// AvailabilityRecord is a single site/unit availability signal
type AvailabilityRecord struct {
	Campground string `json:"campground"`
	Source     string `json:"source"` // response URL, or TextSource
	UnitName   string `json:"unit_name"`
	Status     string `json:"status"`
	Details    string `json:"details"` // at most 400 characters
}

// ScanReport holds summary numbers computed from a scan's records
type ScanReport struct {
	TotalRecords      int
	StructuredRecords int
	TextRecords       int
	Campgrounds       []string // in scan order
	RecordsByCamp     map[string]int
	RecordsByStatus   map[string]int
	AvailableByCamp   map[string]int
}
