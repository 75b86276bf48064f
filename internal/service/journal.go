package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/prociv-logbook/internal/domain"
	"github.com/pkordes/prociv-logbook/internal/repo"
)

// Journal is the single writer of the trip log. It serializes every
// load-modify-save cycle so that TripService and Dispatcher, which both write
// the trips partition, never overwrite each other's changes.
type Journal struct {
	mu    sync.Mutex
	trips repo.TripRepo
}

// NewJournal wraps the trip partition of the store.
func NewJournal(trips repo.TripRepo) *Journal {
	return &Journal{trips: trips}
}

// Snapshot returns the whole trip log, most recent first.
func (j *Journal) Snapshot(ctx context.Context) ([]domain.Trip, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	trips, err := j.trips.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.Journal.Snapshot: %w", err)
	}
	return trips, nil
}

// Find returns the trip with the given id, or domain.ErrNotFound.
func (j *Journal) Find(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trips, err := j.Snapshot(ctx)
	if err != nil {
		return domain.Trip{}, err
	}
	if i := indexOfTrip(trips, id); i >= 0 {
		return trips[i], nil
	}
	return domain.Trip{}, fmt.Errorf("service.Journal.Find: trip %s: %w", id, domain.ErrNotFound)
}

// Update loads the trip log, passes it to fn, and saves whatever fn returns.
// If fn returns an error nothing is written. The save is committed before
// Update returns.
func (j *Journal) Update(ctx context.Context, fn func([]domain.Trip) ([]domain.Trip, error)) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	trips, err := j.trips.Load(ctx)
	if err != nil {
		return fmt.Errorf("service.Journal.Update: load: %w", err)
	}
	next, err := fn(trips)
	if err != nil {
		return err
	}
	if err := j.trips.Save(ctx, next); err != nil {
		return fmt.Errorf("service.Journal.Update: save: %w", err)
	}
	return nil
}

func indexOfTrip(trips []domain.Trip, id uuid.UUID) int {
	for i, t := range trips {
		if t.ID == id {
			return i
		}
	}
	return -1
}
