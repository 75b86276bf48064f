package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/prociv-logbook/internal/domain"
	"github.com/pkordes/prociv-logbook/internal/service"
)

// recentDefault is the number of trips the dashboard shows.
const recentDefault = 5

// StartTripRequest is the body of POST /trips. Km readings accept a JSON
// number or a numeric string.
type StartTripRequest struct {
	VehicleID     uuid.UUID   `json:"vehicle_id"`
	VolunteerID   *uuid.UUID  `json:"volunteer_id,omitempty"`
	StartKm       json.Number `json:"start_km"`
	Destination   string      `json:"destination"`
	Reason        string      `json:"reason,omitempty"`
	Notes         string      `json:"notes,omitempty"`
	RefuelingDone bool        `json:"refueling_done"`
}

// EndTripRequest is the body of POST /trips/{id}/end.
type EndTripRequest struct {
	EndKm         json.Number        `json:"end_km"`
	RefuelingDone bool               `json:"refueling_done"`
	Maintenance   domain.Maintenance `json:"maintenance"`
	Notes         string             `json:"notes,omitempty"`
}

// TripResponse is the wire form of a trip. DistanceKm is derived and only
// present once the trip is completed; VehiclePlate is resolved from the
// current roster.
type TripResponse struct {
	ID            uuid.UUID          `json:"id"`
	VehicleID     uuid.UUID          `json:"vehicle_id"`
	VehiclePlate  string             `json:"vehicle_plate"`
	VolunteerID   *uuid.UUID         `json:"volunteer_id,omitempty"`
	DriverName    string             `json:"driver_name"`
	StartKm       int                `json:"start_km"`
	EndKm         *int               `json:"end_km,omitempty"`
	DistanceKm    *int               `json:"distance_km,omitempty"`
	Destination   string             `json:"destination"`
	Reason        string             `json:"reason"`
	Notes         string             `json:"notes"`
	RefuelingDone bool               `json:"refueling_done"`
	Maintenance   domain.Maintenance `json:"maintenance"`
	StartTime     time.Time          `json:"start_time"`
	EndTime       *time.Time         `json:"end_time,omitempty"`
	Status        domain.TripStatus  `json:"status"`
	Synced        bool               `json:"synced"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// TripListResponse is the body of GET /trips.
type TripListResponse struct {
	Data       []TripResponse `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// StartTrip handles POST /trips.
func (s *Server) StartTrip(w http.ResponseWriter, r *http.Request) {
	var body StartTripRequest
	if !decodeBody(w, r, &body) {
		return
	}
	in := service.StartTripInput{
		VehicleID:     body.VehicleID,
		StartKm:       body.StartKm.String(),
		Destination:   body.Destination,
		Reason:        body.Reason,
		Notes:         body.Notes,
		RefuelingDone: body.RefuelingDone,
	}
	if body.VolunteerID != nil {
		in.VolunteerID = *body.VolunteerID
	}

	trip, err := s.trips.Start(r.Context(), in)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.writeTrip(w, r, http.StatusCreated, trip)
}

// EndTrip handles POST /trips/{id}/end.
func (s *Server) EndTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body EndTripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	trip, err := s.trips.End(r.Context(), id, service.EndTripInput{
		EndKm:         body.EndKm.String(),
		RefuelingDone: body.RefuelingDone,
		Maintenance:   body.Maintenance,
		Notes:         body.Notes,
	})
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.writeTrip(w, r, http.StatusOK, trip)
}

// GetActiveTrip handles GET /trips/active. It answers 404 when no trip is in progress.
func (s *Server) GetActiveTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.Active(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.writeTrip(w, r, http.StatusOK, trip)
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.writeTrip(w, r, http.StatusOK, trip)
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	page, ok := queryInt(w, r, "page")
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}
	params := domain.NewPaginationParams(page, limit)

	trips, total, err := s.trips.ListPaged(r.Context(), params)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	data, err := s.tripsToResponse(r, trips)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TripListResponse{
		Data: data,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// ListRecentTrips handles GET /trips/recent. ?limit= defaults to 5, max 100.
func (s *Server) ListRecentTrips(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}
	n := recentDefault
	if limit != nil && *limit >= 1 {
		n = min(*limit, 100)
	}

	trips, err := s.trips.Recent(r.Context(), n)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	data, err := s.tripsToResponse(r, trips)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// --- mapping helpers --------------------------------------------------------

func (s *Server) writeTrip(w http.ResponseWriter, r *http.Request, status int, trip domain.Trip) {
	data, err := s.tripsToResponse(r, []domain.Trip{trip})
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, status, data[0])
}

// tripsToResponse resolves plates against a single roster read.
func (s *Server) tripsToResponse(r *http.Request, trips []domain.Trip) ([]TripResponse, error) {
	var vehicles []domain.Vehicle
	if s.rosters != nil {
		v, err := s.rosters.ListVehicles(r.Context())
		if err != nil {
			return nil, err
		}
		vehicles = v
	}
	out := make([]TripResponse, len(trips))
	for i, t := range trips {
		out[i] = tripToResponse(t, domain.PlateFor(vehicles, t.VehicleID))
	}
	return out, nil
}

func tripToResponse(t domain.Trip, plate string) TripResponse {
	resp := TripResponse{
		ID:            t.ID,
		VehicleID:     t.VehicleID,
		VehiclePlate:  plate,
		DriverName:    t.DriverName,
		StartKm:       t.StartKm,
		EndKm:         t.EndKm,
		Destination:   t.Destination,
		Reason:        t.Reason,
		Notes:         t.Notes,
		RefuelingDone: t.RefuelingDone,
		Maintenance:   t.Maintenance,
		StartTime:     t.StartTime,
		EndTime:       t.EndTime,
		Status:        t.Status,
		Synced:        t.Synced,
	}
	if t.VolunteerID != uuid.Nil {
		id := t.VolunteerID
		resp.VolunteerID = &id
	}
	if t.Status == domain.TripCompleted {
		d := t.Distance()
		resp.DistanceKm = &d
	}
	return resp
}
