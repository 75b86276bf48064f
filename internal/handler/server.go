// Package handler implements the HTTP handlers for the ProCiv logbook API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, etc.) but share the same Server struct so they
// can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/prociv-logbook/internal/domain"
	"github.com/pkordes/prociv-logbook/internal/service"
)

// TripServicer defines the trip lifecycle operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Start(ctx context.Context, in service.StartTripInput) (domain.Trip, error)
	End(ctx context.Context, id uuid.UUID, in service.EndTripInput) (domain.Trip, error)
	Active(ctx context.Context) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Recent(ctx context.Context, n int) ([]domain.Trip, error)
}

// SyncServicer defines the sync operations the handlers depend on.
type SyncServicer interface {
	SyncOne(ctx context.Context, trip domain.Trip) service.Outcome
	SyncAllPending(ctx context.Context) (service.SyncReport, error)
	InProgress() bool
	Pending(ctx context.Context) (int, error)
}

// RosterServicer defines the vehicle and volunteer operations the handlers depend on.
type RosterServicer interface {
	ListVehicles(ctx context.Context) ([]domain.Vehicle, error)
	AddVehicle(ctx context.Context, plate, model string) (domain.Vehicle, error)
	RemoveVehicle(ctx context.Context, id uuid.UUID) error
	ListVolunteers(ctx context.Context) ([]domain.Volunteer, error)
	AddVolunteer(ctx context.Context, name, surname string) (domain.Volunteer, error)
	RemoveVolunteer(ctx context.Context, id uuid.UUID) error
}

// SettingsServicer defines the settings operations the handlers depend on.
type SettingsServicer interface {
	Get(ctx context.Context) (domain.Settings, error)
	SetSinkURL(ctx context.Context, raw string) (domain.Settings, error)
}

// ExportServicer defines the export operation the handlers depend on.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// Services groups the Server's dependencies. Any field may be nil when the
// routes that need it are not exercised (e.g. health-only tests).
type Services struct {
	Trips    TripServicer
	Sync     SyncServicer
	Rosters  RosterServicer
	Settings SettingsServicer
	Export   ExportServicer
}

// Server holds the handler dependencies for all API endpoints.
// Wire it in main.go via HandlerFromMux(server, router).
type Server struct {
	trips    TripServicer
	sync     SyncServicer
	rosters  RosterServicer
	settings SettingsServicer
	export   ExportServicer
	log      *slog.Logger
	apiDoc   []byte
}

// NewServer constructs the Server with all its dependencies.
// apiDoc is served verbatim at /openapi.yaml.
func NewServer(svc Services, log *slog.Logger, apiDoc []byte) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		trips:    svc.Trips,
		sync:     svc.Sync,
		rosters:  svc.Rosters,
		settings: svc.Settings,
		export:   svc.Export,
		log:      log,
		apiDoc:   apiDoc,
	}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(Services{}, nil, nil)
}

// Handler returns a chi router serving every API route.
func Handler(s *Server) http.Handler {
	return HandlerFromMux(s, chi.NewRouter())
}

// HandlerFromMux registers every API route on r and returns it.
// Callers install middleware on r before calling this.
func HandlerFromMux(s *Server, r chi.Router) http.Handler {
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.StartTrip)
		r.Get("/active", s.GetActiveTrip)
		r.Get("/recent", s.ListRecentTrips)
		r.Get("/{id}", s.GetTrip)
		r.Post("/{id}/end", s.EndTrip)
		r.Post("/{id}/sync", s.SyncTrip)
	})

	r.Get("/sync", s.GetSyncStatus)
	r.Post("/sync", s.SyncPending)

	r.Get("/vehicles", s.ListVehicles)
	r.Post("/vehicles", s.AddVehicle)
	r.Delete("/vehicles/{id}", s.RemoveVehicle)
	r.Get("/volunteers", s.ListVolunteers)
	r.Post("/volunteers", s.AddVolunteer)
	r.Delete("/volunteers/{id}", s.RemoveVolunteer)

	r.Get("/settings", s.GetSettings)
	r.Put("/settings", s.PutSettings)

	r.Get("/export", s.GetExport)
	return r
}
