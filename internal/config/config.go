package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config keeps runtime settings for the planner.
type Config struct {
	DatabaseURL    string
	HTTPAddr       string
	StaticDir      string
	AppName        string
	SnapshotAt     string
	HistoryMaxDays int
	LogLevel       slog.Level
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL: EnvOrDefault("DATABASE_URL", "data/mimi.db"),
		HTTPAddr:    EnvOrDefault("HTTP_ADDR", ":8000"),
		StaticDir:   EnvOrDefault("STATIC_DIR", "static"),
		AppName:     EnvOrDefault("APP_NAME", "Mimi.Today"),
		SnapshotAt:  strings.TrimSpace(os.Getenv("SNAPSHOT_AT")),
	}

	days, err := parsePositive(EnvOrDefault("HISTORY_MAX_DAYS", "60"))
	if err != nil {
		return cfg, fmt.Errorf("HISTORY_MAX_DAYS: %w", err)
	}
	cfg.HistoryMaxDays = days

	level, err := parseLevel(EnvOrDefault("LOG_LEVEL", "info"))
	if err != nil {
		return cfg, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	return cfg, nil
}

// EnvOrDefault returns the trimmed environment variable value or fallback
// when it is empty.
func EnvOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func parsePositive(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", raw)
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}

func parseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown level %q", raw)
	}
	return level, nil
}
