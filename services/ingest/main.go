package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/02loveslollipop/permafrost-field-api/services/api/catalog"
	"github.com/02loveslollipop/permafrost-field-api/services/api/db"
	"github.com/02loveslollipop/permafrost-field-api/services/api/logging"
	"github.com/02loveslollipop/permafrost-field-api/services/api/thermal"
	"github.com/02loveslollipop/permafrost-field-api/services/ingest/internal/config"
	"github.com/02loveslollipop/permafrost-field-api/services/ingest/internal/export"
	"github.com/02loveslollipop/permafrost-field-api/services/ingest/internal/loader"
)

func main() {
	if err := run(); err != nil {
		boot := bootLogger(os.Stderr)
		boot.Fatal().Err(err).Msg("ingest failed")
	}
}

// bootLogger reports failures outside the configured logger.
func bootLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Str("service", "ingest").Logger()
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}).
		With().Str("kind", string(cfg.Kind)).Str("file", cfg.File).Logger()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	start := time.Now()
	f, err := os.Open(cfg.File)
	if err != nil {
		return err
	}
	defer f.Close()

	parsed, err := export.Read(f, cfg.MissingBelow)
	if err != nil {
		return fmt.Errorf("parse %s: %w", cfg.File, err)
	}
	log.Info().
		Int("readings", len(parsed.Readings)).
		Int("missing", parsed.Missing).
		Ints("channels", parsed.Channels()).
		Msg("parsed export")

	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := thermal.New(store, cat, log, thermal.Options{BulkConcurrency: cfg.Concurrency})
	target := loader.Target{
		InstallationID:   cfg.InstallationID,
		LoggerDownloadID: cfg.LoggerDownloadID,
		Kind:             cfg.Kind,
		DryRun:           cfg.DryRun,
	}
	sum, err := loader.New(svc, log).Load(ctx, target, parsed.Readings)
	if err != nil {
		return err
	}

	log.Info().
		Bool("dry_run", cfg.DryRun).
		Int("read", sum.Read).
		Int("unresolved", sum.Unresolved).
		Int("prepared", sum.Prepared).
		Int("success", sum.Success).
		Int("skipped_duplicate", sum.SkippedDuplicate).
		Int("failed", sum.Failed).
		Dur("elapsed", time.Since(start)).
		Msg("ingest finished")
	return nil
}
