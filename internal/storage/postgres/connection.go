package postgres

import (
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// NewConnection exposes the pgx pool as a *sql.DB so the content store can be
// written against database/sql while sharing one set of connections. Closing
// the returned DB does not close the pool.
func NewConnection(pool *pgxpool.Pool) *sql.DB {
	return stdlib.OpenDBFromPool(pool)
}
