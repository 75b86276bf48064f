package handler

import (
	"net/http"

	"github.com/pkordes/prociv-logbook/internal/domain"
)

// VehicleRequest is the body of POST /vehicles.
type VehicleRequest struct {
	Plate string `json:"plate"`
	Model string `json:"model"`
}

// VolunteerRequest is the body of POST /volunteers.
type VolunteerRequest struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

// ListVehicles handles GET /vehicles.
func (s *Server) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := s.rosters.ListVehicles(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	if vehicles == nil {
		vehicles = []domain.Vehicle{}
	}
	writeJSON(w, http.StatusOK, vehicles)
}

// AddVehicle handles POST /vehicles.
func (s *Server) AddVehicle(w http.ResponseWriter, r *http.Request) {
	var body VehicleRequest
	if !decodeBody(w, r, &body) {
		return
	}
	v, err := s.rosters.AddVehicle(r.Context(), body.Plate, body.Model)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// RemoveVehicle handles DELETE /vehicles/{id}.
func (s *Server) RemoveVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.rosters.RemoveVehicle(r.Context(), id); err != nil {
		s.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListVolunteers handles GET /volunteers.
func (s *Server) ListVolunteers(w http.ResponseWriter, r *http.Request) {
	volunteers, err := s.rosters.ListVolunteers(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	if volunteers == nil {
		volunteers = []domain.Volunteer{}
	}
	writeJSON(w, http.StatusOK, volunteers)
}

// AddVolunteer handles POST /volunteers.
func (s *Server) AddVolunteer(w http.ResponseWriter, r *http.Request) {
	var body VolunteerRequest
	if !decodeBody(w, r, &body) {
		return
	}
	v, err := s.rosters.AddVolunteer(r.Context(), body.Name, body.Surname)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// RemoveVolunteer handles DELETE /volunteers/{id}.
func (s *Server) RemoveVolunteer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.rosters.RemoveVolunteer(r.Context(), id); err != nil {
		s.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
