// Package domain contains the core data types for the ProCiv logbook.
// This package has no dependencies on other internal packages and is imported
// by every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus is the lifecycle state of a Trip.
// The only legal transition is TripActive → TripCompleted.
type TripStatus string

const (
	TripActive    TripStatus = "ACTIVE"
	TripCompleted TripStatus = "COMPLETED"
)

// UnknownDriver is recorded as DriverName when the volunteer reference given at
// trip start does not resolve to a roster entry.
const UnknownDriver = "unknown"

// Maintenance flags a vehicle problem reported when a trip is closed.
// Description must be non-empty whenever Needed is true.
type Maintenance struct {
	Needed      bool   `json:"needed"`
	Description string `json:"description"`
}

// Trip is one vehicle outing. It is created ACTIVE, closed exactly once, and
// never deleted; after closing only Synced may change.
//
// DriverName is a snapshot of the volunteer's full name at start time and is
// never re-derived from the roster.
type Trip struct {
	ID            uuid.UUID   `json:"id"`
	VehicleID     uuid.UUID   `json:"vehicle_id"`
	VolunteerID   uuid.UUID   `json:"volunteer_id"`
	DriverName    string      `json:"driver_name"`
	StartKm       int         `json:"start_km"`
	EndKm         *int        `json:"end_km,omitempty"` // nil while the trip is active
	Destination   string      `json:"destination"`
	Reason        string      `json:"reason,omitempty"`
	Notes         string      `json:"notes,omitempty"`
	RefuelingDone bool        `json:"refueling_done"`
	Maintenance   Maintenance `json:"maintenance"`
	StartTime     time.Time   `json:"start_time"`
	EndTime       *time.Time  `json:"end_time,omitempty"` // nil while the trip is active
	Status        TripStatus  `json:"status"`
	Synced        bool        `json:"synced"`
}

// Distance returns the kilometres travelled, endKm - startKm.
// A missing EndKm reads as 0, so an active trip yields a negative value;
// callers should only display it for completed trips.
func (t Trip) Distance() int {
	end := 0
	if t.EndKm != nil {
		end = *t.EndKm
	}
	return end - t.StartKm
}

// IsActive reports whether the trip is still in progress.
func (t Trip) IsActive() bool {
	return t.Status == TripActive
}

// PendingSync reports whether the trip is completed but not yet forwarded
// to the external sink.
func (t Trip) PendingSync() bool {
	return t.Status == TripCompleted && !t.Synced
}
