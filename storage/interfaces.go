package storage

import "campground-scanner/models"

// RecordWriter exports the records of one scan
type RecordWriter interface {
	WriteRecords(records []models.AvailabilityRecord) error
}

var (
	_ RecordWriter = (*CSVWriter)(nil)
	_ RecordWriter = (*JSONWriter)(nil)
)
