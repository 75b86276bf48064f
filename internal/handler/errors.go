package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/prociv-logbook/internal/domain"
)

// ErrorDetail is the body of every error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorDetail as {"error":{...}}.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// writeJSON encodes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// requestError answers a request rejected before reaching the service layer
// (e.g. missing or malformed body, unparsable parameter).
func requestError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnprocessableEntity, "validation_error", message)
}

// notFound answers with 404. The caller supplies the message because the
// handler is the layer that knows what was being looked up.
func notFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, "not_found", message)
}

// serviceError maps a service error onto the HTTP error taxonomy.
// Unrecognized errors are logged and reported as 500 without detail.
func (s *Server) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err, domain.ErrValidation))
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", unwrapMessage(err, domain.ErrNotFound))
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", unwrapMessage(err, domain.ErrConflict))
	default:
		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// Leading "pkg.Type.Method: " segments and the sentinel prefix are dropped:
//
//	"service.TripService.Start: validation error: destination is required" -> "destination is required"
//	"service.TripService.End: trip 0190f3…: not found" -> "trip 0190f3…: not found"
func unwrapMessage(err, sentinel error) string {
	if err == nil {
		return ""
	}
	parts := strings.Split(err.Error(), ": ")
	for len(parts) > 1 && isOpName(parts[0]) {
		parts = parts[1:]
	}
	msg := strings.Join(parts, ": ")
	return strings.TrimPrefix(msg, sentinel.Error()+": ")
}

// isOpName reports whether s looks like an operation prefix such as
// "service.TripService.Start".
func isOpName(s string) bool {
	return strings.Contains(s, ".") && !strings.ContainsAny(s, " \t")
}
