package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/prociv-logbook/internal/domain"
)

// pgVehicleRepo is the Postgres implementation of VehicleRepo.
type pgVehicleRepo struct {
	db db
}

// NewVehicleRepo constructs a VehicleRepo backed by the provided db connection.
func NewVehicleRepo(db db) VehicleRepo {
	return &pgVehicleRepo{db: db}
}

func (r *pgVehicleRepo) Load(ctx context.Context) ([]domain.Vehicle, error) {
	rows, err := r.db.Query(ctx, `SELECT id, plate, model FROM vehicles ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("repo.VehicleRepo.Load: %w", err)
	}
	defer rows.Close()

	vehicles := []domain.Vehicle{}
	for rows.Next() {
		var (
			v  domain.Vehicle
			id pgtype.UUID
		)
		if err := rows.Scan(&id, &v.Plate, &v.Model); err != nil {
			return nil, fmt.Errorf("repo.VehicleRepo.Load: scan: %w", err)
		}
		v.ID = uuid.UUID(id.Bytes)
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.VehicleRepo.Load: rows: %w", err)
	}
	return vehicles, nil
}

func (r *pgVehicleRepo) Save(ctx context.Context, vehicles []domain.Vehicle) error {
	rows := make([][]any, len(vehicles))
	for i, v := range vehicles {
		rows[i] = []any{v.ID, i, v.Plate, v.Model}
	}
	if err := replaceAll(ctx, r.db, "vehicles", []string{"id", "position", "plate", "model"}, rows); err != nil {
		return fmt.Errorf("repo.VehicleRepo.Save: %w", err)
	}
	return nil
}

// pgVolunteerRepo is the Postgres implementation of VolunteerRepo.
type pgVolunteerRepo struct {
	db db
}

// NewVolunteerRepo constructs a VolunteerRepo backed by the provided db connection.
func NewVolunteerRepo(db db) VolunteerRepo {
	return &pgVolunteerRepo{db: db}
}

func (r *pgVolunteerRepo) Load(ctx context.Context) ([]domain.Volunteer, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, surname FROM volunteers ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("repo.VolunteerRepo.Load: %w", err)
	}
	defer rows.Close()

	volunteers := []domain.Volunteer{}
	for rows.Next() {
		var (
			v  domain.Volunteer
			id pgtype.UUID
		)
		if err := rows.Scan(&id, &v.Name, &v.Surname); err != nil {
			return nil, fmt.Errorf("repo.VolunteerRepo.Load: scan: %w", err)
		}
		v.ID = uuid.UUID(id.Bytes)
		volunteers = append(volunteers, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.VolunteerRepo.Load: rows: %w", err)
	}
	return volunteers, nil
}

func (r *pgVolunteerRepo) Save(ctx context.Context, volunteers []domain.Volunteer) error {
	rows := make([][]any, len(volunteers))
	for i, v := range volunteers {
		rows[i] = []any{v.ID, i, v.Name, v.Surname}
	}
	if err := replaceAll(ctx, r.db, "volunteers", []string{"id", "position", "name", "surname"}, rows); err != nil {
		return fmt.Errorf("repo.VolunteerRepo.Save: %w", err)
	}
	return nil
}
