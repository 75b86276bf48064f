package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/prociv-logbook/internal/domain"
)

// pgSettingsRepo is the Postgres implementation of SettingsRepo.
// The settings table holds at most one row, keyed by id = 1.
type pgSettingsRepo struct {
	db db
}

// NewSettingsRepo constructs a SettingsRepo backed by the provided db connection.
func NewSettingsRepo(db db) SettingsRepo {
	return &pgSettingsRepo{db: db}
}

// Load returns the stored settings, or the zero Settings if the row is absent.
func (r *pgSettingsRepo) Load(ctx context.Context) (domain.Settings, error) {
	var s domain.Settings
	err := r.db.QueryRow(ctx, `SELECT sink_url FROM settings WHERE id = 1`).Scan(&s.SinkURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Settings{}, nil
		}
		return domain.Settings{}, fmt.Errorf("repo.SettingsRepo.Load: %w", err)
	}
	return s, nil
}

// Save upserts the single settings row.
func (r *pgSettingsRepo) Save(ctx context.Context, s domain.Settings) error {
	const q = `
		INSERT INTO settings (id, sink_url)
		VALUES (1, @sink_url)
		ON CONFLICT (id) DO UPDATE SET sink_url = EXCLUDED.sink_url`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"sink_url": s.SinkURL}); err != nil {
		return fmt.Errorf("repo.SettingsRepo.Save: %w", err)
	}
	return nil
}

// Seed inserts the settings row unless one already exists.
func (r *pgSettingsRepo) Seed(ctx context.Context, s domain.Settings) (bool, error) {
	const q = `
		INSERT INTO settings (id, sink_url)
		VALUES (1, @sink_url)
		ON CONFLICT (id) DO NOTHING`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"sink_url": s.SinkURL})
	if err != nil {
		return false, fmt.Errorf("repo.SettingsRepo.Seed: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
