package scraper

import (
	"regexp"
	"strings"

	"campground-scanner/models"
)

// TextMatchDetails is the fixed details string on records matched from page text
const TextMatchDetails = "Matched from rendered page text."

// rendered text carries non-breaking spaces and non-ASCII site ids, so the classes are Unicode-wide
var siteStatusRegex = regexp.MustCompile(`(?i)(Site[\s\p{Z}]*[\p{L}\p{N}_]+[^\n]{0,40})[\s\p{Z}]+(Available|Sold[\s\p{Z}]*out|Not[\s\p{Z}]+available)`)

// ExtractFromText scans rendered page text for "Site <id> ... <status>" phrases,
// left to right without overlap.
func ExtractFromText(pageText, campground string) []models.AvailabilityRecord {
	var records []models.AvailabilityRecord
	for _, m := range siteStatusRegex.FindAllStringSubmatch(pageText, -1) {
		records = append(records, models.AvailabilityRecord{
			Campground: campground,
			Source:     models.TextSource,
			UnitName:   strings.TrimSpace(m[1]),
			Status:     strings.TrimSpace(m[2]),
			Details:    TextMatchDetails,
		})
	}
	return records
}
