package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/prociv-logbook/internal/domain"
	"github.com/pkordes/prociv-logbook/internal/repo"
)

// RosterService manages the vehicle and volunteer reference lists.
// Removing an entry never touches trips that reference it.
type RosterService struct {
	mu         sync.Mutex
	vehicles   repo.VehicleRepo
	volunteers repo.VolunteerRepo
}

// NewRosterService constructs a RosterService backed by the provided repos.
func NewRosterService(vehicles repo.VehicleRepo, volunteers repo.VolunteerRepo) *RosterService {
	return &RosterService{vehicles: vehicles, volunteers: volunteers}
}

// ListVehicles returns the vehicle roster in insertion order.
func (s *RosterService) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	vehicles, err := s.vehicles.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.RosterService.ListVehicles: %w", err)
	}
	return vehicles, nil
}

// AddVehicle appends a vehicle. The plate is trimmed and upper-cased.
// Returns domain.ErrValidation if plate or model is empty.
func (s *RosterService) AddVehicle(ctx context.Context, plate, model string) (domain.Vehicle, error) {
	plate = strings.ToUpper(strings.TrimSpace(plate))
	model = strings.TrimSpace(model)
	if plate == "" {
		return domain.Vehicle{}, fmt.Errorf("service.RosterService.AddVehicle: %w: plate is required", domain.ErrValidation)
	}
	if model == "" {
		return domain.Vehicle{}, fmt.Errorf("service.RosterService.AddVehicle: %w: model is required", domain.ErrValidation)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.RosterService.AddVehicle: new id: %w", err)
	}
	v := domain.Vehicle{ID: id, Plate: plate, Model: model}

	s.mu.Lock()
	defer s.mu.Unlock()
	vehicles, err := s.vehicles.Load(ctx)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.RosterService.AddVehicle: %w", err)
	}
	if err := s.vehicles.Save(ctx, append(vehicles, v)); err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.RosterService.AddVehicle: %w", err)
	}
	return v, nil
}

// RemoveVehicle deletes a vehicle by ID.
// Returns domain.ErrNotFound if it is not in the roster.
func (s *RosterService) RemoveVehicle(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	vehicles, err := s.vehicles.Load(ctx)
	if err != nil {
		return fmt.Errorf("service.RosterService.RemoveVehicle: %w", err)
	}
	kept := make([]domain.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if v.ID != id {
			kept = append(kept, v)
		}
	}
	if len(kept) == len(vehicles) {
		return fmt.Errorf("service.RosterService.RemoveVehicle: vehicle %s: %w", id, domain.ErrNotFound)
	}
	if err := s.vehicles.Save(ctx, kept); err != nil {
		return fmt.Errorf("service.RosterService.RemoveVehicle: %w", err)
	}
	return nil
}

// ListVolunteers returns the volunteer roster in insertion order.
func (s *RosterService) ListVolunteers(ctx context.Context) ([]domain.Volunteer, error) {
	volunteers, err := s.volunteers.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.RosterService.ListVolunteers: %w", err)
	}
	return volunteers, nil
}

// AddVolunteer appends a volunteer.
// Returns domain.ErrValidation if name or surname is empty.
func (s *RosterService) AddVolunteer(ctx context.Context, name, surname string) (domain.Volunteer, error) {
	name = strings.TrimSpace(name)
	surname = strings.TrimSpace(surname)
	if name == "" || surname == "" {
		return domain.Volunteer{}, fmt.Errorf("service.RosterService.AddVolunteer: %w: name and surname are required", domain.ErrValidation)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return domain.Volunteer{}, fmt.Errorf("service.RosterService.AddVolunteer: new id: %w", err)
	}
	v := domain.Volunteer{ID: id, Name: name, Surname: surname}

	s.mu.Lock()
	defer s.mu.Unlock()
	volunteers, err := s.volunteers.Load(ctx)
	if err != nil {
		return domain.Volunteer{}, fmt.Errorf("service.RosterService.AddVolunteer: %w", err)
	}
	if err := s.volunteers.Save(ctx, append(volunteers, v)); err != nil {
		return domain.Volunteer{}, fmt.Errorf("service.RosterService.AddVolunteer: %w", err)
	}
	return v, nil
}

// RemoveVolunteer deletes a volunteer by ID. Trips keep their DriverName snapshot.
// Returns domain.ErrNotFound if the volunteer is not in the roster.
func (s *RosterService) RemoveVolunteer(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	volunteers, err := s.volunteers.Load(ctx)
	if err != nil {
		return fmt.Errorf("service.RosterService.RemoveVolunteer: %w", err)
	}
	kept := make([]domain.Volunteer, 0, len(volunteers))
	for _, v := range volunteers {
		if v.ID != id {
			kept = append(kept, v)
		}
	}
	if len(kept) == len(volunteers) {
		return fmt.Errorf("service.RosterService.RemoveVolunteer: volunteer %s: %w", id, domain.ErrNotFound)
	}
	if err := s.volunteers.Save(ctx, kept); err != nil {
		return fmt.Errorf("service.RosterService.RemoveVolunteer: %w", err)
	}
	return nil
}
