package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/02loveslollipop/permafrost-field-api/services/api/catalog"
	"github.com/02loveslollipop/permafrost-field-api/services/api/config"
	"github.com/02loveslollipop/permafrost-field-api/services/api/db"
	httpserver "github.com/02loveslollipop/permafrost-field-api/services/api/http"
	"github.com/02loveslollipop/permafrost-field-api/services/api/logging"
	"github.com/02loveslollipop/permafrost-field-api/services/api/thermal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := bootLogger(os.Stderr)
		boot.Fatal().Err(err).Msg("config error")
	}
	log := logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("catalog error")
	}

	if cfg.MigrateOnStart {
		if err := db.Migrate(cfg.DatabaseURL, log); err != nil {
			log.Fatal().Err(err).Msg("migration error")
		}
	}

	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connection error")
	}
	defer store.Close()

	svc := thermal.New(store, cat, log, thermal.Options{
		BulkConcurrency:  cfg.BulkConcurrency,
		MissingReference: cfg.MissingReference,
	})

	srv := httpserver.New(cfg, svc, log)
	log.Info().Str("addr", cfg.ListenAddr()).Msg("REST API listening")

	if err := srv.Run(ctx); err != nil {
		log.Error().Err(err).Msg("server error")
		cancel()
		store.Close()
		os.Exit(1)
	}
}

// bootLogger reports failures that happen before logging is configured.
func bootLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Str("service", "api").Logger()
}
