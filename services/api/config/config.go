package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/02loveslollipop/permafrost-field-api/services/api/temporal"
)

// Config holds environment-driven settings for the REST API.
type Config struct {
	DatabaseURL      string
	Port             int
	BearerToken      string
	CORSAllowOrigins []string
	RequestTimeout   time.Duration
	LogLevel         string
	LogFormat        string
	CatalogPath      string
	MigrateOnStart   bool
	BulkConcurrency  int
	MissingReference temporal.MissingReferencePolicy
	MetricsEnabled   bool
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Port:             8080,
		CORSAllowOrigins: []string{"*"},
		RequestTimeout:   15 * time.Second,
		LogLevel:         "info",
		LogFormat:        "json",
		MigrateOnStart:   true,
		BulkConcurrency:  8,
		MissingReference: temporal.FailOnMissingReference,
		MetricsEnabled:   true,
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	} else if portStr := os.Getenv("API_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid API_PORT: %s", portStr)
		}
	}

	cfg.BearerToken = os.Getenv("API_BEARER_TOKEN")

	if origins := os.Getenv("CORS_ALLOW_ORIGINS"); origins != "" {
		cfg.CORSAllowOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowOrigins = append(cfg.CORSAllowOrigins, o)
			}
		}
	}

	if timeoutStr := os.Getenv("REQUEST_TIMEOUT"); timeoutStr != "" {
		if d, err := time.ParseDuration(timeoutStr); err == nil && d > 0 {
			cfg.RequestTimeout = d
		} else {
			return cfg, fmt.Errorf("invalid REQUEST_TIMEOUT: %s", timeoutStr)
		}
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		if format != "json" && format != "console" {
			return cfg, fmt.Errorf("invalid LOG_FORMAT: %s", format)
		}
		cfg.LogFormat = format
	}

	cfg.CatalogPath = os.Getenv("CATALOG_PATH")

	var err error
	if cfg.MigrateOnStart, err = boolEnv("MIGRATE_ON_START", cfg.MigrateOnStart); err != nil {
		return cfg, err
	}
	if cfg.MetricsEnabled, err = boolEnv("METRICS_ENABLED", cfg.MetricsEnabled); err != nil {
		return cfg, err
	}

	if nStr := os.Getenv("BULK_CONCURRENCY"); nStr != "" {
		if n, err := strconv.Atoi(nStr); err == nil && n > 0 {
			cfg.BulkConcurrency = n
		} else {
			return cfg, fmt.Errorf("invalid BULK_CONCURRENCY: %s", nStr)
		}
	}

	if policy := os.Getenv("THAW_TUBE_MISSING_REFERENCE"); policy != "" {
		p, err := temporal.ParseMissingReferencePolicy(policy)
		if err != nil {
			return cfg, fmt.Errorf("invalid THAW_TUBE_MISSING_REFERENCE: %s", policy)
		}
		cfg.MissingReference = p
	}

	return cfg, nil
}

func boolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def, fmt.Errorf("invalid %s: %s", key, raw)
	}
	return v, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
