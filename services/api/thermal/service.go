// Package thermal implements the field-data operations on top of a Store.
package thermal

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/02loveslollipop/permafrost-field-api/services/api/apperr"
	"github.com/02loveslollipop/permafrost-field-api/services/api/catalog"
	"github.com/02loveslollipop/permafrost-field-api/services/api/temporal"
)

// Options tune the service.
type Options struct {
	BulkConcurrency  int
	MissingReference temporal.MissingReferencePolicy
}

// Service is the application layer shared by the HTTP handlers and the ingest binary.
type Service struct {
	store    Store
	catalog  *catalog.Catalog
	validate *validator.Validate
	log      zerolog.Logger
	opts     Options
}

// New builds a Service. A nil catalog selects the embedded default.
func New(store Store, cat *catalog.Catalog, log zerolog.Logger, opts Options) *Service {
	if cat == nil {
		cat = catalog.Default()
	}
	if opts.BulkConcurrency <= 0 {
		opts.BulkConcurrency = 8
	}
	if opts.MissingReference == "" {
		opts.MissingReference = temporal.FailOnMissingReference
	}
	return &Service{
		store:    store,
		catalog:  cat,
		validate: newValidator(cat),
		log:      log.With().Str("component", "thermal").Logger(),
		opts:     opts,
	}
}

// Catalog returns the catalog the service validates against.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Ping checks the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// found turns a (nil, nil) lookup into a NotFound error.
func found[T any](v *T, err error, format string, args ...any) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, apperr.NotFoundf(format, args...)
	}
	return *v, nil
}

// exists fails with NotFound when a referenced row is missing.
func exists[T any](v *T, err error, format string, args ...any) error {
	_, err = found(v, err, format, args...)
	return err
}

// conflictIf fails with Conflict when a lookup for a natural key found a row.
func conflictIf[T any](v *T, err error, format string, args ...any) error {
	if err != nil {
		return err
	}
	if v != nil {
		return apperr.Conflictf(format, args...)
	}
	return nil
}

func wrapStore(op string, err error) error {
	if err == nil {
		return nil
	}
	if apperr.KindOf(err) != apperr.KindInternal {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
