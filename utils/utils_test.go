package utils

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf)

	logger.Info("scanning %d campgrounds", 2)
	logger.Warn("navigation timed out")
	logger.Debug("hidden")
	assert.Regexp(t, `^\[INFO\]   \d{2}:\d{2}:\d{2} scanning 2 campgrounds\n`, buf.String())
	assert.Contains(t, buf.String(), "[WARN]  ")
	assert.NotContains(t, buf.String(), "hidden")

	logger.SetVerbose(true)
	logger.Debug("shown")
	assert.Contains(t, buf.String(), "[DEBUG]")
	assert.Contains(t, buf.String(), "shown")
}

func TestRetryWithBackoff_SingleAttemptReturnsRawError(t *testing.T) {
	cause := errors.New("chrome failed to start")
	calls := 0
	err := RetryWithBackoff(context.Background(), 1, func() error {
		calls++
		return cause
	}, NewLoggerTo(io.Discard))

	assert.Equal(t, cause, err)
	assert.Equal(t, 1, calls)
}

func TestRetryWithBackoff_SucceedsOnRetry(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), 2, func() error {
		calls++
		if calls == 1 {
			return errors.New("transient")
		}
		return nil
	}, NewLoggerTo(io.Discard))

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetryWithBackoff_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	require.NoError(t, RetryWithBackoff(context.Background(), 0, func() error {
		calls++
		return nil
	}, NewLoggerTo(io.Discard)))
	assert.Equal(t, 1, calls)
}

func TestRetryWithBackoff_StopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	cause := errors.New("no chrome")

	start := time.Now()
	err := RetryWithBackoff(ctx, 5, func() error { return cause }, NewLoggerTo(io.Discard))

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 900*time.Millisecond)
}
