// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr   string
	DBPath       string
	SeedPath     string
	SeedURL      string
	SecretKey    string
	GitHubAPIURL string
	SyncTimeout  time.Duration
	LogLevel     slog.Level
}

// Load reads configuration from environment variables and returns a validated Config.
// Variables already set in the environment win over those in the optional .env
// file (MYFOLIOPANEL_ENV_FILE, default ".env"); a missing file is not an error.
// Optional variables with defaults: MYFOLIOPANEL_LISTEN_ADDR (127.0.0.1:8080),
// MYFOLIOPANEL_DB_PATH (myfoliopanel.db), MYFOLIOPANEL_SYNC_TIMEOUT (30s),
// MYFOLIOPANEL_LOG_LEVEL (info). MYFOLIOPANEL_SEED_PATH, MYFOLIOPANEL_SEED_URL,
// MYFOLIOPANEL_SECRET_KEY and MYFOLIOPANEL_GITHUB_API_URL are unset by default.
func Load() (*Config, error) {
	envFile := ".env"
	if v, ok := os.LookupEnv("MYFOLIOPANEL_ENV_FILE"); ok && v != "" {
		envFile = v
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	syncTimeout := 30 * time.Second
	if v, ok := os.LookupEnv("MYFOLIOPANEL_SYNC_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("MYFOLIOPANEL_SYNC_TIMEOUT has invalid duration %q: %w", v, err)
		}
		if parsed < 0 {
			return nil, fmt.Errorf("MYFOLIOPANEL_SYNC_TIMEOUT must not be negative, got %q", v)
		}
		syncTimeout = parsed
	}

	logLevel := slog.LevelInfo
	if v, ok := os.LookupEnv("MYFOLIOPANEL_LOG_LEVEL"); ok {
		if err := logLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("MYFOLIOPANEL_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("MYFOLIOPANEL_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "myfoliopanel.db"
	if v, ok := os.LookupEnv("MYFOLIOPANEL_DB_PATH"); ok {
		dbPath = v
	}

	seedPath := os.Getenv("MYFOLIOPANEL_SEED_PATH")
	seedURL := os.Getenv("MYFOLIOPANEL_SEED_URL")
	if seedPath != "" && seedURL != "" {
		return nil, errors.New("MYFOLIOPANEL_SEED_PATH and MYFOLIOPANEL_SEED_URL are mutually exclusive")
	}

	return &Config{
		ListenAddr:   listenAddr,
		DBPath:       dbPath,
		SeedPath:     seedPath,
		SeedURL:      seedURL,
		SecretKey:    os.Getenv("MYFOLIOPANEL_SECRET_KEY"),
		GitHubAPIURL: os.Getenv("MYFOLIOPANEL_GITHUB_API_URL"),
		SyncTimeout:  syncTimeout,
		LogLevel:     logLevel,
	}, nil
}
