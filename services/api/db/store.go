// Package db implements the thermal store on PostgreSQL through a pgx pool.
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/02loveslollipop/permafrost-field-api/services/api/apperr"
)

// Store wraps database access helpers.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// translate classifies constraint violations so races between concurrent writers surface
// the same way as the service's own duplicate checks.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return apperr.Conflictf("record already exists (%s)", pgErr.ConstraintName).Wrap(err)
	case pgerrcode.ForeignKeyViolation:
		// Raised on the referenced side when a delete would orphan rows.
		if strings.HasPrefix(pgErr.Message, "update or delete on table") {
			return apperr.Conflictf("record is still referenced (%s)", pgErr.ConstraintName).Wrap(err)
		}
		return apperr.Validationf("referenced record does not exist (%s)", pgErr.ConstraintName).Wrap(err)
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		return apperr.Validationf("record violates %s", pgErr.ConstraintName).Wrap(err)
	}
	return err
}

// queryOne returns the first row of sql, or nil when there is none.
func queryOne[T any](ctx context.Context, s *Store, scan pgx.RowToFunc[T], sql string, args ...any) (*T, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, translate(err)
	}
	v, err := pgx.CollectOneRow(rows, scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func queryAll[T any](ctx context.Context, s *Store, scan pgx.RowToFunc[T], sql string, args ...any) ([]T, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, translate(err)
	}
	out, err := pgx.CollectRows(rows, scan)
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// insertOne runs an INSERT ... RETURNING and scans the stored row.
func insertOne[T any](ctx context.Context, s *Store, scan pgx.RowToFunc[T], sql string, args ...any) (T, error) {
	var zero T
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return zero, translate(err)
	}
	v, err := pgx.CollectOneRow(rows, scan)
	if err != nil {
		return zero, translate(err)
	}
	return v, nil
}

func (s *Store) exists(ctx context.Context, sql string, args ...any) (bool, error) {
	var found bool
	if err := s.pool.QueryRow(ctx, "SELECT EXISTS ("+sql+")", args...).Scan(&found); err != nil {
		return false, err
	}
	return found, nil
}

// patch collects the assignments of a partial UPDATE.
type patch struct {
	ub  *sqlbuilder.UpdateBuilder
	set []string
}

func newPatch(table string) *patch {
	ub := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	ub.Update(table)
	return &patch{ub: ub}
}

func setIf[T any](p *patch, col string, v *T) {
	if v != nil {
		p.set = append(p.set, p.ub.Assign(col, *v))
	}
}

// build renders the UPDATE for row id with a RETURNING clause. ok is false when nothing
// would change.
func (p *patch) build(id int64, returning string) (sql string, args []any, ok bool) {
	if len(p.set) == 0 {
		return "", nil, false
	}
	p.ub.Set(p.set...)
	p.ub.Where(p.ub.Equal("id", id))
	sql, args = p.ub.Build()
	return sql + " RETURNING " + returning, args, true
}

func utc(t time.Time) time.Time {
	return t.UTC()
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func notFound(table string, id int64) error {
	return fmt.Errorf("%s %d: %w", table, id, pgx.ErrNoRows)
}

// present unwraps a lookup whose row must exist.
func present[T any](v *T, err error, table string, id int64) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, notFound(table, id)
	}
	return *v, nil
}
