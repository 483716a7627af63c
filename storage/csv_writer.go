package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"campground-scanner/models"
	"campground-scanner/utils"
)

// CSVHeader is the column order of the exported file
var CSVHeader = []string{"campground", "source", "unit_name", "status", "details"}

// CSVWriter handles writing availability records to a CSV file
type CSVWriter struct {
	filePath string
	logger   *utils.Logger
}

// NewCSVWriter creates a new CSVWriter
func NewCSVWriter(filePath string, logger *utils.Logger) *CSVWriter {
	return &CSVWriter{filePath: filePath, logger: logger}
}

// Path returns the destination file
func (w *CSVWriter) Path() string { return w.filePath }

// WriteRecords replaces the file with a header row and one row per record
func (w *CSVWriter) WriteRecords(records []models.AvailabilityRecord) error {
	dir := filepath.Dir(w.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(w.filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range records {
		row := []string{r.Campground, r.Source, r.UnitName, r.Status, r.Details}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for '%s': %w", r.UnitName, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV file: %w", err)
	}

	w.logger.Info("Availability records written to: %s (%d rows)", w.filePath, len(records))
	return nil
}
