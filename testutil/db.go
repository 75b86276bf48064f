// Package testutil holds the helpers integration tests use to reach Postgres
// and Redis. Each helper skips the calling test when its TEST_*_URL variable
// is unset, so the unit suite runs with no services available.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/pkordes/prociv-logbook/migrations"
)

// DatabaseURLEnv names the variable holding the test database DSN.
const DatabaseURLEnv = "TEST_DATABASE_URL"

// NewPool returns a pinged pool on the test database, closed when t ends.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv(DatabaseURLEnv)
	if dsn == "" {
		t.Skip(DatabaseURLEnv + " not set; skipping integration test")
	}
	pool, err := openPool(context.Background(), dsn)
	if err != nil {
		t.Fatalf("testutil.NewPool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// NewSQLDB returns a database/sql handle over a fresh test pool, the same way
// the server hands its pool to goose.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	db := stdlib.OpenDBFromPool(NewPool(t))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// Migrate applies the embedded migrations to the test database. It is meant
// for TestMain, where no *testing.T exists, and reports false without error
// when no database is configured.
func Migrate(ctx context.Context) (bool, error) {
	dsn := os.Getenv(DatabaseURLEnv)
	if dsn == "" {
		return false, nil
	}
	pool, err := openPool(ctx, dsn)
	if err != nil {
		return false, fmt.Errorf("testutil.Migrate: %w", err)
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if _, err := migrations.Up(ctx, db); err != nil {
		return false, fmt.Errorf("testutil.Migrate: %w", err)
	}
	return true, nil
}

func openPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}
