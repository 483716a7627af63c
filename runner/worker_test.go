package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"campground-scanner/models"
	"campground-scanner/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings() models.SearchSettings {
	nights := 2
	return models.SearchSettings{
		StartDate:      time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2026, 7, 12, 0, 0, 0, 0, time.UTC),
		PartySize:      3,
		EquipmentID:    "-32768",
		SubEquipmentID: "-32765",
		Nights:         &nights,
	}
}

var testRequests = []models.ScanRequest{
	{Name: "Killbear", SearchURL: "https://reservations.ontarioparks.ca/create-booking/results?resourceLocationId=1"},
	{Name: "Algonquin", SearchURL: "https://reservations.ontarioparks.ca/create-booking/results?resourceLocationId=2"},
}

func helperWorker(mode string, timeout time.Duration) *Worker {
	return &Worker{
		Command:           os.Args[0],
		Args:              []string{"-test.run=TestHelperProcess", "--", mode},
		Env:               []string{"GO_WANT_HELPER_PROCESS=1"},
		Timeout:           timeout,
		NavigationTimeout: 45 * time.Second,
		SettleDelay:       3 * time.Second,
		Logger:            utils.NewLoggerTo(io.Discard),
	}
}

// TestHelperProcess is not a real test. It is re-executed as the worker child by the tests below.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	defer os.Exit(0)

	args := os.Args
	for len(args) > 0 {
		if args[0] == "--" {
			args = args[1:]
			break
		}
		args = args[1:]
	}
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "no helper mode")
		os.Exit(2)
	}

	switch args[0] {
	case "echo":
		_ = ServeWorker(context.Background(), os.Stdin, os.Stdout, func(_ context.Context, req WorkerRequest, settings models.SearchSettings) ([]models.AvailabilityRecord, error) {
			var out []models.AvailabilityRecord
			for _, r := range req.Requests {
				out = append(out, models.AvailabilityRecord{
					Campground: r.Name,
					Source:     req.ScanID,
					UnitName:   settings.StartDate.Format("2006-01-02") + "/" + settings.EndDate.Format("2006-01-02"),
					Status:     fmt.Sprintf("party=%d nights=%d", settings.PartySize, *settings.Nights),
					Details:    fmt.Sprintf("%v %v", req.NavigationTimeout(), req.SettleDelay()),
				})
			}
			return out, nil
		})
	case "empty":
		_ = ServeWorker(context.Background(), os.Stdin, os.Stdout, func(context.Context, WorkerRequest, models.SearchSettings) ([]models.AvailabilityRecord, error) {
			return nil, nil
		})
	case "fail":
		_ = ServeWorker(context.Background(), os.Stdin, os.Stdout, func(context.Context, WorkerRequest, models.SearchSettings) ([]models.AvailabilityRecord, error) {
			return nil, errors.New("browser startup failed: chrome not found")
		})
	case "crash":
		fmt.Fprintln(os.Stderr, "panic: runtime error")
		os.Exit(3)
	case "garbage":
		fmt.Fprint(os.Stdout, "<html>not a result</html>")
	case "badshape":
		fmt.Fprint(os.Stdout, `{"records": [{"campground": "Killbear", "unit_name": "Site 1"}]}`)
	case "hang":
		time.Sleep(time.Minute)
	}
}

func TestWorker_RoundTrip(t *testing.T) {
	records, err := helperWorker("echo", 30*time.Second).Run(context.Background(), testRequests, testSettings())
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "Killbear", records[0].Campground)
	assert.Equal(t, "Algonquin", records[1].Campground)
	assert.Equal(t, "2026-07-10/2026-07-12", records[0].UnitName)
	assert.Equal(t, "party=3 nights=2", records[0].Status)
	assert.Equal(t, "45s 3s", records[0].Details)

	_, err = uuid.Parse(records[0].Source)
	assert.NoError(t, err, "each batch carries a scan id")
	assert.Equal(t, records[0].Source, records[1].Source)
}

func TestWorker_EmptyResult(t *testing.T) {
	records, err := helperWorker("empty", 30*time.Second).Run(context.Background(), testRequests, testSettings())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestWorker_Failures(t *testing.T) {
	cases := map[string]string{
		"fail":     "browser startup failed: chrome not found",
		"crash":    "exit status 3",
		"garbage":  "no scanner result returned",
		"badshape": "source is required",
	}
	for mode, detail := range cases {
		t.Run(mode, func(t *testing.T) {
			records, err := helperWorker(mode, 30*time.Second).Run(context.Background(), testRequests, testSettings())
			require.Error(t, err)
			assert.Nil(t, records)

			var workerErr *WorkerError
			require.ErrorAs(t, err, &workerErr)
			assert.Contains(t, err.Error(), detail)
			assert.Contains(t, err.Error(), InstallHint)
		})
	}
}

func TestWorker_StartupFailureIsSingleError(t *testing.T) {
	w := &Worker{
		Command: "/nonexistent/campscan-worker",
		Timeout: time.Second,
		Logger:  utils.NewLoggerTo(io.Discard),
	}

	records, err := w.Run(context.Background(), testRequests, testSettings())
	require.Error(t, err)
	assert.Nil(t, records)
	var workerErr *WorkerError
	require.ErrorAs(t, err, &workerErr)
	assert.NotNil(t, workerErr.Cause)
}

func TestWorker_Timeout(t *testing.T) {
	start := time.Now()
	records, err := helperWorker("hang", 300*time.Millisecond).Run(context.Background(), testRequests, testSettings())

	require.ErrorIs(t, err, ErrWorkerTimeout)
	assert.Nil(t, records)
	assert.Less(t, time.Since(start), 30*time.Second)
}

func TestWorker_CallerCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	_, err := helperWorker("hang", 30*time.Second).Run(ctx, testRequests, testSettings())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrWorkerTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWorker_CleanExitAtDeadlineKeepsResult(t *testing.T) {
	w := helperWorker("echo", time.Second)
	expired, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-expired.Done()

	out := []byte(`{"records": [{"campground": "Killbear", "source": "page_text", "unit_name": "Site 1", "status": "Available", "details": ""}]}`)
	records, err := w.result(context.Background(), expired, "scan-1", time.Second, nil, out)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Site 1", records[0].UnitName)

	records, err = w.result(context.Background(), expired, "scan-1", time.Second, errors.New("signal: killed"), out)
	assert.ErrorIs(t, err, ErrWorkerTimeout)
	assert.Nil(t, records)

	records, err = w.result(context.Background(), expired, "scan-1", time.Second, nil, nil)
	assert.ErrorIs(t, err, ErrWorkerTimeout)
	assert.Nil(t, records)
}

func TestServeWorker_ReportsBadInput(t *testing.T) {
	var out bytes.Buffer
	called := false
	err := ServeWorker(context.Background(), strings.NewReader(`{"requests": [`), &out, func(context.Context, WorkerRequest, models.SearchSettings) ([]models.AvailabilityRecord, error) {
		called = true
		return nil, nil
	})
	require.NoError(t, err)
	assert.False(t, called)
	assert.Contains(t, out.String(), `"error":"decoding worker request`)
	assert.Contains(t, out.String(), `"records":[]`)
}

func TestServeWorker_ReportsBadDates(t *testing.T) {
	var out bytes.Buffer
	in := `{"scan_id": "x", "requests": [], "settings": {"start_date": "10/07/2026", "end_date": "2026-07-12"}}`
	err := ServeWorker(context.Background(), strings.NewReader(in), &out, func(context.Context, WorkerRequest, models.SearchSettings) ([]models.AvailabilityRecord, error) {
		return nil, nil
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), `invalid start_date`)
}

func TestWorkerSettings_DecodeRoundTrip(t *testing.T) {
	settings := testSettings()
	decoded, err := encodeSettings(settings).Decode()
	require.NoError(t, err)
	assert.True(t, settings.StartDate.Equal(decoded.StartDate))
	assert.True(t, settings.EndDate.Equal(decoded.EndDate))
	assert.Equal(t, 3, decoded.PartySize)
	require.NotNil(t, decoded.Nights)
	assert.Equal(t, 2, *decoded.Nights)
}

func TestDecodeResponse(t *testing.T) {
	resp, err := decodeResponse([]byte(`{"records": [{"campground": "K", "source": "page_text", "unit_name": "Site 1", "status": "Available", "details": ""}]}`))
	require.NoError(t, err)
	require.Len(t, resp.Records, 1)
	assert.Equal(t, "Site 1", resp.Records[0].UnitName)

	resp, err = decodeResponse([]byte(`{"records": [], "error": "boom"}`))
	require.NoError(t, err)
	assert.Equal(t, "boom", resp.Error)

	_, err = decodeResponse([]byte("  \n"))
	assert.ErrorIs(t, err, errNoResult)

	_, err = decodeResponse([]byte(`{"status": "done"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid scanner result")

	_, err = decodeResponse([]byte(`{"records": "none"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "records")
}
