package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// OutputFile is the fixed path every successful fetch is persisted to.
	OutputFile string

	// HistoryDB is the SQLite path for the query history; empty disables it.
	HistoryDB string

	// Endpoint overrides, mainly for tests; empty means the public APIs.
	GeocodeBaseURL    string
	AirQualityBaseURL string

	// Measurement window: days of history plus days of forecast.
	PastDays     int
	ForecastDays int

	// RefreshInterval re-runs the latest query periodically; 0 disables.
	RefreshInterval time.Duration

	// HTTPTimeout bounds each outbound request.
	HTTPTimeout time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		OutputFile:        getenvDefault("OUTPUT_FILE", "air_quality_data.json"),
		HistoryDB:         getenvDefault("HISTORY_DB", "query_history.db"),
		GeocodeBaseURL:    os.Getenv("GEOCODE_BASE_URL"),
		AirQualityBaseURL: os.Getenv("AIRQUALITY_BASE_URL"),
		PastDays:          getenvInt("PAST_DAYS", 2),
		ForecastDays:      getenvInt("FORECAST_DAYS", 3),
		Port:              getenvDefault("PORT", "8080"),
	}

	if cfg.PastDays < 0 || cfg.ForecastDays <= 0 {
		return nil, fmt.Errorf("PAST_DAYS must be >= 0 and FORECAST_DAYS > 0")
	}

	refreshStr := getenvDefault("REFRESH_INTERVAL", "0")
	refresh, err := time.ParseDuration(refreshStr)
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = refresh

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
