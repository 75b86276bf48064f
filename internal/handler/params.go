package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
)

// pathID binds the {id} path parameter. On failure it writes a 422 and
// returns false.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		requestError(w, "invalid format for parameter id: "+err.Error())
		return uuid.Nil, false
	}
	return id, true
}

// queryInt binds an optional integer query parameter.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	var v *int
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		requestError(w, "invalid format for parameter "+name+": "+err.Error())
		return nil, false
	}
	return v, true
}

// queryString binds an optional string query parameter.
func queryString(w http.ResponseWriter, r *http.Request, name string) (*string, bool) {
	var v *string
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		requestError(w, "invalid format for parameter "+name+": "+err.Error())
		return nil, false
	}
	return v, true
}

// decodeBody decodes a JSON request body into dst. On failure it writes 413
// for an oversized body or 422 otherwise, and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.Body == http.NoBody {
		requestError(w, "request body is required")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
			return false
		}
		requestError(w, "invalid request body: "+err.Error())
		return false
	}
	return true
}
