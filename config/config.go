package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application-level configuration
type Config struct {
	// Execution
	ScanMode       string // auto, direct or worker
	WorkerTimeout  time.Duration
	NavTimeout     time.Duration
	SettleDelay    time.Duration
	LaunchAttempts int

	// Browser
	ChromePath string
	Headless   bool
	UserAgent  string

	// Output
	CSVFilePath string

	// Search defaults
	DefaultPartySize      int
	DefaultEquipmentID    string
	DefaultSubEquipmentID string
}

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Load reads configuration from environment variables or falls back to defaults
func Load() *Config {
	return &Config{
		ScanMode:              strings.ToLower(getEnv("SCAN_MODE", "auto")),
		WorkerTimeout:         time.Duration(getEnvInt("WORKER_TIMEOUT_SEC", 120)) * time.Second,
		NavTimeout:            time.Duration(getEnvInt("NAV_TIMEOUT_MS", 45000)) * time.Millisecond,
		SettleDelay:           time.Duration(getEnvInt("SETTLE_DELAY_MS", 3000)) * time.Millisecond,
		LaunchAttempts:        getEnvInt("LAUNCH_RETRIES", 2),
		ChromePath:            getEnv("CHROME_PATH", ""),
		Headless:              getEnvBool("HEADLESS", true),
		UserAgent:             getEnv("USER_AGENT", defaultUserAgent),
		CSVFilePath:           getEnv("CSV_FILE_PATH", "output/ontario_parks_availability.csv"),
		DefaultPartySize:      getEnvInt("DEFAULT_PARTY_SIZE", 2),
		DefaultEquipmentID:    getEnv("DEFAULT_EQUIPMENT_ID", "-32768"),
		DefaultSubEquipmentID: getEnv("DEFAULT_SUB_EQUIPMENT_ID", "-32765"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
