package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/prociv-logbook/internal/domain"
)

var tripColumns = []string{
	"id", "position", "vehicle_id", "volunteer_id", "driver_name",
	"start_km", "end_km", "destination", "reason", "notes",
	"refueling_done", "maintenance_needed", "maintenance_desc",
	"start_time", "end_time", "status", "synced",
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

// Load returns all trips ordered by position (most recent first).
func (r *pgTripRepo) Load(ctx context.Context) ([]domain.Trip, error) {
	const q = `
		SELECT id, vehicle_id, volunteer_id, driver_name, start_km, end_km,
		       destination, reason, notes, refueling_done, maintenance_needed,
		       maintenance_desc, start_time, end_time, status, synced
		FROM trips
		ORDER BY position`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.Load: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.Load: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.Load: rows: %w", err)
	}
	return trips, nil
}

// Save replaces the trips table with trips; slice index becomes position.
func (r *pgTripRepo) Save(ctx context.Context, trips []domain.Trip) error {
	rows := make([][]any, len(trips))
	for i, t := range trips {
		rows[i] = []any{
			t.ID, i, t.VehicleID, t.VolunteerID, t.DriverName,
			t.StartKm, t.EndKm, t.Destination, t.Reason, t.Notes,
			t.RefuelingDone, t.Maintenance.Needed, t.Maintenance.Description,
			t.StartTime, t.EndTime, string(t.Status), t.Synced,
		}
	}
	if err := replaceAll(ctx, r.db, "trips", tripColumns, rows); err != nil {
		return fmt.Errorf("repo.TripRepo.Save: %w", err)
	}
	return nil
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID conversions and the nullable end_km / end_time columns.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t           domain.Trip
		id          pgtype.UUID
		vehicleID   pgtype.UUID
		volunteerID pgtype.UUID
		endKm       pgtype.Int4
		endTime     pgtype.Timestamptz
		status      string
	)

	err := s.Scan(
		&id, &vehicleID, &volunteerID, &t.DriverName, &t.StartKm, &endKm,
		&t.Destination, &t.Reason, &t.Notes, &t.RefuelingDone, &t.Maintenance.Needed,
		&t.Maintenance.Description, &t.StartTime, &endTime, &status, &t.Synced,
	)
	if err != nil {
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.VehicleID = uuid.UUID(vehicleID.Bytes)
	t.VolunteerID = uuid.UUID(volunteerID.Bytes)
	t.Status = domain.TripStatus(status)
	if endKm.Valid {
		km := int(endKm.Int32)
		t.EndKm = &km
	}
	if endTime.Valid {
		et := endTime.Time
		t.EndTime = &et
	}
	return t, nil
}
