// Package database owns the PostgreSQL connection pool.
package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"demandcast/pkg/errors"
)

// Connect opens a pgx pool against the given URL and verifies it with a
// ping. The caller owns the returned pool and must Close it.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "database: creating pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "database: ping")
	}
	return pool, nil
}
