package storage

import (
	"fmt"
	"io"

	"campground-scanner/models"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// JSONWriter writes availability records as an indented JSON array
type JSONWriter struct {
	out io.Writer
}

// NewJSONWriter creates a new JSONWriter
func NewJSONWriter(out io.Writer) *JSONWriter {
	return &JSONWriter{out: out}
}

// WriteRecords writes records as one JSON array. An empty scan writes [].
func (w *JSONWriter) WriteRecords(records []models.AvailabilityRecord) error {
	if records == nil {
		records = []models.AvailabilityRecord{}
	}
	if err := json.MarshalWrite(w.out, records, jsontext.WithIndent("  "), jsontext.AllowInvalidUTF8(true)); err != nil {
		return fmt.Errorf("failed to write JSON records: %w", err)
	}
	if _, err := io.WriteString(w.out, "\n"); err != nil {
		return fmt.Errorf("failed to write JSON records: %w", err)
	}
	return nil
}
