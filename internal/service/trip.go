// Package service contains the business logic for the ProCiv logbook.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here. Services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/prociv-logbook/internal/domain"
	"github.com/pkordes/prociv-logbook/internal/repo"
)

// StartTripInput carries the values collected when an outing begins.
// StartKm is the raw odometer reading; it is rounded to whole kilometres.
type StartTripInput struct {
	VehicleID     uuid.UUID
	VolunteerID   uuid.UUID
	StartKm       string
	Destination   string
	Reason        string
	Notes         string
	RefuelingDone bool
}

// EndTripInput carries the values collected when an outing ends.
// RefuelingDone, Maintenance, and Notes replace whatever was recorded at start.
type EndTripInput struct {
	EndKm         string
	RefuelingDone bool
	Maintenance   domain.Maintenance
	Notes         string
}

// TripService owns the trip state machine. It is the only component that
// creates trips or moves them from ACTIVE to COMPLETED.
type TripService struct {
	journal    *Journal
	volunteers repo.VolunteerRepo
	now        func() time.Time
	onComplete func(domain.Trip)
}

// TripOption customizes a TripService.
type TripOption func(*TripService)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) TripOption {
	return func(s *TripService) { s.now = now }
}

// WithCompletionHook registers fn to run after a closed trip has been
// committed to the store. main wires this to Dispatcher.Schedule.
func WithCompletionHook(fn func(domain.Trip)) TripOption {
	return func(s *TripService) { s.onComplete = fn }
}

// NewTripService constructs a TripService writing through journal.
// volunteers is read to snapshot the driver's name at start time.
func NewTripService(journal *Journal, volunteers repo.VolunteerRepo, opts ...TripOption) *TripService {
	s := &TripService{journal: journal, volunteers: volunteers, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start validates the input and records a new ACTIVE trip at the head of the log.
// Returns domain.ErrValidation for bad input and domain.ErrConflict if another
// trip is already active.
func (s *TripService) Start(ctx context.Context, in StartTripInput) (domain.Trip, error) {
	startKm, err := domain.ParseKm(in.StartKm)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Start: %w", err)
	}
	destination := strings.TrimSpace(in.Destination)
	if destination == "" {
		return domain.Trip{}, fmt.Errorf("service.TripService.Start: %w: destination is required", domain.ErrValidation)
	}
	if in.VehicleID == uuid.Nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Start: %w: vehicle_id is required", domain.ErrValidation)
	}

	driver, err := s.driverName(ctx, in.VolunteerID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Start: %w", err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Start: new id: %w", err)
	}

	trip := domain.Trip{
		ID:            id,
		VehicleID:     in.VehicleID,
		VolunteerID:   in.VolunteerID,
		DriverName:    driver,
		StartKm:       startKm,
		Destination:   destination,
		Reason:        strings.TrimSpace(in.Reason),
		Notes:         strings.TrimSpace(in.Notes),
		RefuelingDone: in.RefuelingDone,
		StartTime:     s.now().UTC(),
		Status:        domain.TripActive,
	}

	err = s.journal.Update(ctx, func(trips []domain.Trip) ([]domain.Trip, error) {
		for _, t := range trips {
			if t.IsActive() {
				return nil, fmt.Errorf("%w: trip %s is already active", domain.ErrConflict, t.ID)
			}
		}
		return append([]domain.Trip{trip}, trips...), nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Start: %w", err)
	}
	return trip, nil
}

// End closes the active trip with the given id.
// Returns domain.ErrNotFound for an unknown id, domain.ErrConflict if the trip
// is already completed, and domain.ErrValidation for a bad km reading, an end
// reading below the start reading, or maintenance flagged without a description.
// The completion hook runs only after the store write has been committed.
func (s *TripService) End(ctx context.Context, id uuid.UUID, in EndTripInput) (domain.Trip, error) {
	endKm, err := domain.ParseKm(in.EndKm)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.End: %w", err)
	}
	maintenance := domain.Maintenance{
		Needed:      in.Maintenance.Needed,
		Description: strings.TrimSpace(in.Maintenance.Description),
	}
	if maintenance.Needed && maintenance.Description == "" {
		return domain.Trip{}, fmt.Errorf("service.TripService.End: %w: maintenance description is required", domain.ErrValidation)
	}

	var closed domain.Trip
	err = s.journal.Update(ctx, func(trips []domain.Trip) ([]domain.Trip, error) {
		i := indexOfTrip(trips, id)
		if i < 0 {
			return nil, fmt.Errorf("trip %s: %w", id, domain.ErrNotFound)
		}
		t := trips[i]
		if !t.IsActive() {
			return nil, fmt.Errorf("%w: trip %s is already completed", domain.ErrConflict, id)
		}
		if endKm < t.StartKm {
			return nil, fmt.Errorf("%w: end km %d is below start km %d", domain.ErrValidation, endKm, t.StartKm)
		}

		now := s.now().UTC()
		t.EndKm = &endKm
		t.EndTime = &now
		t.Status = domain.TripCompleted
		t.RefuelingDone = in.RefuelingDone
		t.Maintenance = maintenance
		t.Notes = strings.TrimSpace(in.Notes)

		trips[i] = t
		closed = t
		return trips, nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.End: %w", err)
	}

	if s.onComplete != nil {
		s.onComplete(closed)
	}
	return closed, nil
}

// Active returns the trip currently in progress, or domain.ErrNotFound.
func (s *TripService) Active(ctx context.Context) (domain.Trip, error) {
	trips, err := s.journal.Snapshot(ctx)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Active: %w", err)
	}
	for _, t := range trips {
		if t.IsActive() {
			return t, nil
		}
	}
	return domain.Trip{}, fmt.Errorf("service.TripService.Active: %w", domain.ErrNotFound)
}

// GetByID returns a single trip by ID.
// Returns domain.ErrNotFound if no trip with that ID exists.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	t, err := s.journal.Find(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return t, nil
}

// List returns every trip, most recent first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) List(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.journal.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// ListPaged returns one page of the trip log and the total number of trips.
func (s *TripService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, err := s.List(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListPaged: %w", err)
	}
	total := int64(len(trips))
	start, end := p.Window(len(trips))
	return trips[start:end], total, nil
}

// Recent returns up to n completed trips, most recent first.
func (s *TripService) Recent(ctx context.Context, n int) ([]domain.Trip, error) {
	trips, err := s.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.Recent: %w", err)
	}
	out := []domain.Trip{}
	for _, t := range trips {
		if len(out) == n {
			break
		}
		if t.Status == domain.TripCompleted {
			out = append(out, t)
		}
	}
	return out, nil
}

// driverName resolves the volunteer's full name, or domain.UnknownDriver when
// the reference is empty or no longer in the roster.
func (s *TripService) driverName(ctx context.Context, volunteerID uuid.UUID) (string, error) {
	if volunteerID == uuid.Nil {
		return domain.UnknownDriver, nil
	}
	volunteers, err := s.volunteers.Load(ctx)
	if err != nil {
		return "", err
	}
	for _, v := range volunteers {
		if v.ID == volunteerID {
			return v.FullName(), nil
		}
	}
	return domain.UnknownDriver, nil
}
