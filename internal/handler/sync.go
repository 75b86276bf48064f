package handler

import (
	"context"
	"net/http"
)

// SyncStatusResponse is the body of GET /sync.
type SyncStatusResponse struct {
	InProgress bool `json:"in_progress"`
	Pending    int  `json:"pending"`
}

// SyncTripResponse is the body of POST /trips/{id}/sync.
type SyncTripResponse struct {
	Outcome string `json:"outcome"`
}

// GetSyncStatus handles GET /sync.
func (s *Server) GetSyncStatus(w http.ResponseWriter, r *http.Request) {
	pending, err := s.sync.Pending(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SyncStatusResponse{
		InProgress: s.sync.InProgress(),
		Pending:    pending,
	})
}

// SyncPending handles POST /sync. It runs a bulk sync of every completed,
// unsynced trip and answers with the run's report, or 409 if a run is
// already going. The run is not cut short if the client disconnects.
func (s *Server) SyncPending(w http.ResponseWriter, r *http.Request) {
	report, err := s.sync.SyncAllPending(context.WithoutCancel(r.Context()))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// SyncTrip handles POST /trips/{id}/sync. Skips and transport failures are
// reported in the body, not as HTTP errors.
func (s *Server) SyncTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	outcome := s.sync.SyncOne(context.WithoutCancel(r.Context()), trip)
	writeJSON(w, http.StatusOK, SyncTripResponse{Outcome: outcome.String()})
}

