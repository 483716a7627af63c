package runner

import (
	"context"
	"fmt"
	"io"
	"time"

	"campground-scanner/models"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

const isoDate = "2006-01-02"

// WorkerRequest is written to the worker's stdin
type WorkerRequest struct {
	ScanID              string               `json:"scan_id"`
	Requests            []models.ScanRequest `json:"requests"`
	Settings            WorkerSettings       `json:"settings"`
	NavigationTimeoutMs int64                `json:"navigation_timeout_ms"`
	SettleDelayMs       int64                `json:"settle_delay_ms"`
}

// WorkerSettings carries SearchSettings with ISO calendar dates
type WorkerSettings struct {
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	PartySize      int    `json:"party_size"`
	EquipmentID    string `json:"equipment_id"`
	SubEquipmentID string `json:"sub_equipment_id"`
	Nights         *int   `json:"nights,omitempty"`
}

// WorkerResponse is the single JSON document the worker writes to stdout
type WorkerResponse struct {
	Records []models.AvailabilityRecord `json:"records"`
	Error   string                      `json:"error,omitempty"`
}

// NavigationTimeout returns the per-navigation bound requested by the parent
func (r WorkerRequest) NavigationTimeout() time.Duration {
	return time.Duration(r.NavigationTimeoutMs) * time.Millisecond
}

// SettleDelay returns the post-navigation settle period requested by the parent
func (r WorkerRequest) SettleDelay() time.Duration {
	return time.Duration(r.SettleDelayMs) * time.Millisecond
}

func encodeSettings(s models.SearchSettings) WorkerSettings {
	return WorkerSettings{
		StartDate:      s.StartDate.Format(isoDate),
		EndDate:        s.EndDate.Format(isoDate),
		PartySize:      s.PartySize,
		EquipmentID:    s.EquipmentID,
		SubEquipmentID: s.SubEquipmentID,
		Nights:         s.Nights,
	}
}

// Decode converts the wire form back into SearchSettings
func (w WorkerSettings) Decode() (models.SearchSettings, error) {
	start, err := time.Parse(isoDate, w.StartDate)
	if err != nil {
		return models.SearchSettings{}, fmt.Errorf("invalid start_date %q: %w", w.StartDate, err)
	}
	end, err := time.Parse(isoDate, w.EndDate)
	if err != nil {
		return models.SearchSettings{}, fmt.Errorf("invalid end_date %q: %w", w.EndDate, err)
	}
	return models.SearchSettings{
		StartDate:      start,
		EndDate:        end,
		PartySize:      w.PartySize,
		EquipmentID:    w.EquipmentID,
		SubEquipmentID: w.SubEquipmentID,
		Nights:         w.Nights,
	}, nil
}

// ScanFunc performs the worker-side scan for a decoded request
type ScanFunc func(ctx context.Context, req WorkerRequest, settings models.SearchSettings) ([]models.AvailabilityRecord, error)

// ServeWorker reads one WorkerRequest from stdin, runs scan and writes one WorkerResponse to
// stdout. Scan failures are reported inside the response; the returned error only covers
// writing the response.
func ServeWorker(ctx context.Context, stdin io.Reader, stdout io.Writer, scan ScanFunc) error {
	resp := WorkerResponse{Records: []models.AvailabilityRecord{}}

	var req WorkerRequest
	if err := json.UnmarshalRead(stdin, &req); err != nil {
		resp.Error = fmt.Sprintf("decoding worker request: %v", err)
		return writeResponse(stdout, resp)
	}
	settings, err := req.Settings.Decode()
	if err != nil {
		resp.Error = err.Error()
		return writeResponse(stdout, resp)
	}

	records, err := scan(ctx, req, settings)
	if err != nil {
		resp.Error = err.Error()
		return writeResponse(stdout, resp)
	}
	if records != nil {
		resp.Records = records
	}
	return writeResponse(stdout, resp)
}

func writeResponse(w io.Writer, resp WorkerResponse) error {
	// payload strings may carry invalid UTF-8; it is replaced rather than failing the batch
	if err := json.MarshalWrite(w, resp, jsontext.AllowInvalidUTF8(true)); err != nil {
		return fmt.Errorf("writing worker response: %w", err)
	}
	return nil
}
