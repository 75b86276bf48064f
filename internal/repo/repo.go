// Package repo contains all persistence logic for the ProCiv logbook.
// The store is partitioned into trips, vehicles, volunteers, and settings.
// Every partition is read whole and replaced whole: callers load the full
// slice, change it, and save it back. No business logic lives here.
package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/prociv-logbook/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup. Begin on a pgx.Tx opens a
// savepoint, so replaceAll nests cleanly inside a test transaction.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TripRepo persists the trip log.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows services to be unit-tested with the memory store.
type TripRepo interface {
	// Load returns every trip, most recent first.
	Load(ctx context.Context) ([]domain.Trip, error)

	// Save replaces the whole trip log with trips, preserving their order.
	Save(ctx context.Context, trips []domain.Trip) error
}

// VehicleRepo persists the vehicle roster.
type VehicleRepo interface {
	Load(ctx context.Context) ([]domain.Vehicle, error)
	Save(ctx context.Context, vehicles []domain.Vehicle) error
}

// VolunteerRepo persists the volunteer roster.
type VolunteerRepo interface {
	Load(ctx context.Context) ([]domain.Volunteer, error)
	Save(ctx context.Context, volunteers []domain.Volunteer) error
}

// SettingsRepo persists the single sync-target record.
type SettingsRepo interface {
	// Load returns the stored settings, or the zero Settings when none were saved.
	Load(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, s domain.Settings) error
	// Seed stores s only if settings were never saved, including a saved
	// empty sink URL. It reports whether s was written.
	Seed(ctx context.Context, s domain.Settings) (bool, error)
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan helpers
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// replaceAll deletes every row of table and bulk-inserts rows in a single
// transaction, so readers never observe a half-written partition.
func replaceAll(ctx context.Context, d db, table string, columns []string, rows [][]any) error {
	tx, err := d.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	// Rollback after a successful Commit is a no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "DELETE FROM "+pgx.Identifier{table}.Sanitize()); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	if len(rows) > 0 {
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows)); err != nil {
			return fmt.Errorf("copy %s: %w", table, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
