package repo

import (
	"context"
	"slices"
	"sync"

	"github.com/pkordes/prociv-logbook/internal/domain"
)

// partition is an in-memory, whole-value store for one slice partition.
// The slice is cloned on the way in and out so callers never share its backing array.
type partition[T any] struct {
	mu    sync.RWMutex
	items []T
}

func (p *partition[T]) Load(_ context.Context) ([]T, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := slices.Clone(p.items)
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (p *partition[T]) Save(_ context.Context, items []T) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = slices.Clone(items)
	return nil
}

// MemoryTripRepo is a TripRepo held in process memory.
type MemoryTripRepo struct{ partition[domain.Trip] }

// MemoryVehicleRepo is a VehicleRepo held in process memory.
type MemoryVehicleRepo struct{ partition[domain.Vehicle] }

// MemoryVolunteerRepo is a VolunteerRepo held in process memory.
type MemoryVolunteerRepo struct{ partition[domain.Volunteer] }

// NewMemoryTripRepo returns an empty in-memory trip log.
func NewMemoryTripRepo() *MemoryTripRepo { return &MemoryTripRepo{} }

// NewMemoryVehicleRepo returns an empty in-memory vehicle roster.
func NewMemoryVehicleRepo() *MemoryVehicleRepo { return &MemoryVehicleRepo{} }

// NewMemoryVolunteerRepo returns an empty in-memory volunteer roster.
func NewMemoryVolunteerRepo() *MemoryVolunteerRepo { return &MemoryVolunteerRepo{} }

// MemorySettingsRepo is a SettingsRepo held in process memory.
type MemorySettingsRepo struct {
	mu       sync.RWMutex
	settings domain.Settings
	saved    bool
}

// NewMemorySettingsRepo returns an in-memory settings store holding s. A zero
// s leaves the store in its never-saved state.
func NewMemorySettingsRepo(s domain.Settings) *MemorySettingsRepo {
	return &MemorySettingsRepo{settings: s, saved: s != domain.Settings{}}
}

func (r *MemorySettingsRepo) Load(_ context.Context) (domain.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings, nil
}

func (r *MemorySettingsRepo) Save(_ context.Context, s domain.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = s
	r.saved = true
	return nil
}

func (r *MemorySettingsRepo) Seed(_ context.Context, s domain.Settings) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saved {
		return false, nil
	}
	r.settings = s
	r.saved = true
	return true, nil
}

var (
	_ TripRepo      = (*MemoryTripRepo)(nil)
	_ VehicleRepo   = (*MemoryVehicleRepo)(nil)
	_ VolunteerRepo = (*MemoryVolunteerRepo)(nil)
	_ SettingsRepo  = (*MemorySettingsRepo)(nil)
)
