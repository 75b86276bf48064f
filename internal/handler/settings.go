package handler

import (
	"net/http"

	"github.com/pkordes/prociv-logbook/internal/domain"
)

// SettingsBody is both the request and response body of /settings.
type SettingsBody struct {
	SinkURL string `json:"sink_url"`
}

// SettingsResponse adds derived fields to SettingsBody.
type SettingsResponse struct {
	SettingsBody
	SyncEnabled bool `json:"sync_enabled"`
}

func settingsToResponse(st domain.Settings) SettingsResponse {
	return SettingsResponse{
		SettingsBody: SettingsBody{SinkURL: st.SinkURL},
		SyncEnabled:  st.SyncEnabled(),
	}
}

// GetSettings handles GET /settings.
func (s *Server) GetSettings(w http.ResponseWriter, r *http.Request) {
	st, err := s.settings.Get(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsToResponse(st))
}

// PutSettings handles PUT /settings. An empty sink_url disables sync.
func (s *Server) PutSettings(w http.ResponseWriter, r *http.Request) {
	var body SettingsBody
	if !decodeBody(w, r, &body) {
		return
	}
	st, err := s.settings.SetSinkURL(r.Context(), body.SinkURL)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsToResponse(st))
}
