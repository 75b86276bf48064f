package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing destination, end km below start km).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when an operation is illegal in the current state:
// starting a trip while another is active, closing a trip twice, or starting
// a bulk sync while one is already running.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")
