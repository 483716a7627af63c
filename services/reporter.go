package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"campground-scanner/models"
)

// maxTableRows caps the record table; the export holds everything
const maxTableRows = 25

// PrintScanReport formats the scan summary and a record table for the terminal
func PrintScanReport(w io.Writer, report *models.ScanReport, records []models.AvailabilityRecord) {
	border := strings.Repeat("═", 60)
	thin := strings.Repeat("─", 60)

	fmt.Fprintf(w, "\n╔%s╗\n", border)
	fmt.Fprintf(w, "║%s║\n", center("CAMPGROUND AVAILABILITY SCAN", 60))
	fmt.Fprintf(w, "╚%s╝\n", border)

	if report.TotalRecords == 0 {
		fmt.Fprintf(w, "\n  %s\n\n", EmptyResultWarning)
		return
	}

	fmt.Fprintf(w, "\n OVERVIEW\n%s\n", thin)
	fmt.Fprintf(w, "  Availability Records    : %d\n", report.TotalRecords)
	fmt.Fprintf(w, "  From Network Responses  : %d\n", report.StructuredRecords)
	fmt.Fprintf(w, "  From Page Text          : %d\n", report.TextRecords)
	fmt.Fprintf(w, "  Campgrounds With Data   : %d\n", len(report.Campgrounds))

	fmt.Fprintf(w, "\n RECORDS PER CAMPGROUND\n%s\n", thin)
	for _, camp := range report.Campgrounds {
		fmt.Fprintf(w, "  %-32s %4d  (%d available)\n", truncate(camp, 32)+":", report.RecordsByCamp[camp], report.AvailableByCamp[camp])
	}

	if len(report.RecordsByStatus) > 0 {
		fmt.Fprintf(w, "\n STATUS BREAKDOWN\n%s\n", thin)
		type statusCount struct {
			status string
			count  int
		}
		var statuses []statusCount
		for status, cnt := range report.RecordsByStatus {
			statuses = append(statuses, statusCount{status, cnt})
		}
		sort.Slice(statuses, func(i, j int) bool {
			if statuses[i].count != statuses[j].count {
				return statuses[i].count > statuses[j].count
			}
			return statuses[i].status < statuses[j].status
		})
		for _, sc := range statuses {
			bar := strings.Repeat("▓", min(sc.count, 30))
			fmt.Fprintf(w, "  %-25s %4d  %s\n", truncate(sc.status, 24)+":", sc.count, bar)
		}
	}

	fmt.Fprintf(w, "\n RECORDS\n%s\n", thin)
	for i, r := range records {
		if i == maxTableRows {
			fmt.Fprintf(w, "  ... %d more in the export\n", len(records)-maxTableRows)
			break
		}
		fmt.Fprintf(w, "  %-20s %-22s %s\n", truncate(r.Campground, 20), truncate(r.UnitName, 22), truncate(r.Status, 15))
	}

	fmt.Fprintf(w, "\n%s\n\n", border)
}

func center(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return s
	}
	pad := (width - len(runes)) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-len(runes)-pad)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
