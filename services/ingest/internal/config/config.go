package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultTimeout     = 10 * time.Minute
	defaultConcurrency = 8
	defaultMissing     = -900.0
)

// Kind selects which data table an export is loaded into.
type Kind string

const (
	KindCable       Kind = "cable"
	KindAirGround   Kind = "air_ground"
	KindFourChannel Kind = "four_channel"
)

// Config holds runtime configuration for one ingest run.
type Config struct {
	DatabaseURL      string
	File             string
	InstallationID   int64
	LoggerDownloadID int64
	Kind             Kind
	CatalogPath      string
	Timeout          time.Duration
	Concurrency      int
	MissingBelow     float64
	LogLevel         string
	LogFormat        string
	DryRun           bool
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Config{
		Timeout:      defaultTimeout,
		Concurrency:  defaultConcurrency,
		MissingBelow: defaultMissing,
		LogLevel:     "info",
		LogFormat:    "console",
	}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	cfg.File = strings.TrimSpace(os.Getenv("INGEST_FILE"))
	if cfg.File == "" {
		return cfg, errors.New("INGEST_FILE is required")
	}

	var err error
	if cfg.InstallationID, err = requiredID("INGEST_INSTALLATION_ID"); err != nil {
		return cfg, err
	}
	if cfg.LoggerDownloadID, err = requiredID("INGEST_LOGGER_DOWNLOAD_ID"); err != nil {
		return cfg, err
	}

	switch kind := Kind(strings.TrimSpace(os.Getenv("INGEST_KIND"))); kind {
	case KindCable, KindAirGround, KindFourChannel:
		cfg.Kind = kind
	case "":
		return cfg, errors.New("INGEST_KIND is required")
	default:
		return cfg, fmt.Errorf("invalid INGEST_KIND: %s", kind)
	}

	// Shared with the API server.
	cfg.CatalogPath = strings.TrimSpace(os.Getenv("CATALOG_PATH"))

	if v := strings.TrimSpace(os.Getenv("INGEST_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid INGEST_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}

	if v := strings.TrimSpace(os.Getenv("BULK_CONCURRENCY")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("invalid BULK_CONCURRENCY: %s", v)
		}
		cfg.Concurrency = n
	}

	if v := strings.TrimSpace(os.Getenv("INGEST_MISSING_BELOW")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid INGEST_MISSING_BELOW: %w", err)
		}
		cfg.MissingBelow = f
	}

	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_FORMAT")); v != "" {
		cfg.LogFormat = v
	}

	dryRun := strings.TrimSpace(os.Getenv("DRY_RUN"))
	cfg.DryRun = dryRun == "1" || strings.EqualFold(dryRun, "true")

	return cfg, nil
}

func requiredID(key string) (int64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %s", key, v)
	}
	return id, nil
}
