// Package postgres implements store.Store on PostgreSQL through database/sql.
// The *sql.DB is normally bridged from the pgx pool opened at startup.
package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/atelier-interiors/cms-backend/internal/content/domain"
	"github.com/atelier-interiors/cms-backend/internal/content/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type scanner interface {
	Scan(dest ...any) error
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgErr):
		return pgErr.Code
	case errors.As(err, &pqErr):
		return string(pqErr.Code)
	}
	return ""
}

// classify maps driver errors onto domain sentinels. Both pgx and lib/pq
// error shapes are recognised so the store works with either driver.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	switch pgCode(err) {
	case "23505":
		return errors.Join(domain.ErrDuplicate, err)
	case "23514", "23502", "22P02", "23503":
		return errors.Join(domain.ErrConstraint, err)
	}
	return err
}

// classifyID is classify for statements keyed on a uuid id. An id that is
// not a uuid (22P02) cannot match a row, so it is reported as not found.
func classifyID(err error) error {
	if pgCode(err) == "22P02" {
		return domain.ErrNotFound
	}
	return classify(err)
}

// execOne runs a write keyed on id that must touch exactly one row.
func (s *Store) execOne(ctx context.Context, q string, args ...any) error {
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return classifyID(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
