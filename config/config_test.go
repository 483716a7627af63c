package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SCAN_MODE", "WORKER_TIMEOUT_SEC", "NAV_TIMEOUT_MS", "SETTLE_DELAY_MS", "HEADLESS", "CSV_FILE_PATH"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "auto", cfg.ScanMode)
	assert.Equal(t, 120*time.Second, cfg.WorkerTimeout)
	assert.Equal(t, 45*time.Second, cfg.NavTimeout)
	assert.Equal(t, 3*time.Second, cfg.SettleDelay)
	assert.True(t, cfg.Headless)
	assert.Equal(t, "-32768", cfg.DefaultEquipmentID)
	assert.Equal(t, "-32765", cfg.DefaultSubEquipmentID)
	assert.Equal(t, 2, cfg.DefaultPartySize)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SCAN_MODE", "Worker")
	t.Setenv("WORKER_TIMEOUT_SEC", "30")
	t.Setenv("SETTLE_DELAY_MS", "500")
	t.Setenv("HEADLESS", "false")

	cfg := Load()
	assert.Equal(t, "worker", cfg.ScanMode)
	assert.Equal(t, 30*time.Second, cfg.WorkerTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.SettleDelay)
	assert.False(t, cfg.Headless)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("NAV_TIMEOUT_MS", "soon")
	t.Setenv("HEADLESS", "maybe")

	cfg := Load()
	assert.Equal(t, 45*time.Second, cfg.NavTimeout)
	assert.True(t, cfg.Headless)
}
