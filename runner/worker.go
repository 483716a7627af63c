package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"campground-scanner/models"
	"campground-scanner/utils"

	"github.com/go-json-experiment/json"
	"github.com/google/uuid"
)

// DefaultWorkerTimeout bounds the whole worker batch
const DefaultWorkerTimeout = 120 * time.Second

// ErrWorkerTimeout is returned when the worker exceeds its wall-clock bound and is killed
var ErrWorkerTimeout = errors.New("browser scan timed out in worker process")

// WorkerError is any worker failure other than a timeout
type WorkerError struct {
	Message string
	Cause   error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("browser scan failed in worker process. %s Details: %s", InstallHint, e.Message)
}

func (e *WorkerError) Unwrap() error {
	return e.Cause
}

// Worker runs the batch in a child process speaking the WorkerRequest/WorkerResponse protocol
type Worker struct {
	Command string
	Args    []string
	// Env is appended to the parent's environment
	Env     []string
	Timeout time.Duration
	Stderr  io.Writer

	NavigationTimeout time.Duration
	SettleDelay       time.Duration

	Logger *utils.Logger
}

func (w *Worker) Name() string { return "worker" }

func (w *Worker) Run(ctx context.Context, requests []models.ScanRequest, settings models.SearchSettings) ([]models.AvailabilityRecord, error) {
	timeout := w.Timeout
	if timeout <= 0 {
		timeout = DefaultWorkerTimeout
	}

	payload := WorkerRequest{
		ScanID:              uuid.NewString(),
		Requests:            requests,
		Settings:            encodeSettings(settings),
		NavigationTimeoutMs: w.NavigationTimeout.Milliseconds(),
		SettleDelayMs:       w.SettleDelay.Milliseconds(),
	}
	var stdin bytes.Buffer
	if err := json.MarshalWrite(&stdin, payload); err != nil {
		return nil, &WorkerError{Message: fmt.Sprintf("encoding worker request: %v", err), Cause: err}
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, w.Command, w.Args...)
	cmd.Stdin = &stdin
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = w.Stderr
	if len(w.Env) > 0 {
		cmd.Env = append(os.Environ(), w.Env...)
	}
	cmd.WaitDelay = 5 * time.Second

	w.Logger.Info("Delegating scan %s to worker process (timeout %v)", payload.ScanID, timeout)
	runErr := cmd.Run()
	return w.result(ctx, runCtx, payload.ScanID, timeout, runErr, stdout.Bytes())
}

// result classifies a finished worker run. A clean exit with a valid response is kept even
// when the deadline fired while the process was exiting.
func (w *Worker) result(ctx, runCtx context.Context, scanID string, timeout time.Duration, runErr error, out []byte) ([]models.AvailabilityRecord, error) {
	resp, decodeErr := decodeResponse(out)
	if runErr == nil && decodeErr == nil && resp.Error == "" {
		w.Logger.Debug("Worker for scan %s returned %d records", scanID, len(resp.Records))
		return resp.Records, nil
	}

	if ctx.Err() != nil {
		return nil, fmt.Errorf("worker scan cancelled: %w", ctx.Err())
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		w.Logger.Error("Worker for scan %s exceeded %v and was killed", scanID, timeout)
		return nil, ErrWorkerTimeout
	}

	switch {
	case decodeErr == nil && resp.Error != "":
		return nil, &WorkerError{Message: resp.Error}
	case runErr != nil:
		return nil, &WorkerError{Message: runErr.Error(), Cause: runErr}
	default:
		return nil, &WorkerError{Message: decodeErr.Error(), Cause: decodeErr}
	}
}
