package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/prociv-logbook/internal/domain"
	"github.com/pkordes/prociv-logbook/internal/handler"
	"github.com/pkordes/prociv-logbook/internal/service"
)

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	start     func(ctx context.Context, in service.StartTripInput) (domain.Trip, error)
	end       func(ctx context.Context, id uuid.UUID, in service.EndTripInput) (domain.Trip, error)
	active    func(ctx context.Context) (domain.Trip, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	recent    func(ctx context.Context, n int) ([]domain.Trip, error)
}

func (m *mockTripServicer) Start(ctx context.Context, in service.StartTripInput) (domain.Trip, error) {
	return m.start(ctx, in)
}
func (m *mockTripServicer) End(ctx context.Context, id uuid.UUID, in service.EndTripInput) (domain.Trip, error) {
	return m.end(ctx, id, in)
}
func (m *mockTripServicer) Active(ctx context.Context) (domain.Trip, error) {
	return m.active(ctx)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockTripServicer) Recent(ctx context.Context, n int) ([]domain.Trip, error) {
	return m.recent(ctx, n)
}

// mockSyncServicer is a test double for handler.SyncServicer.
type mockSyncServicer struct {
	syncOne        func(ctx context.Context, trip domain.Trip) service.Outcome
	syncAllPending func(ctx context.Context) (service.SyncReport, error)
	inProgress     func() bool
	pending        func(ctx context.Context) (int, error)
}

func (m *mockSyncServicer) SyncOne(ctx context.Context, trip domain.Trip) service.Outcome {
	return m.syncOne(ctx, trip)
}
func (m *mockSyncServicer) SyncAllPending(ctx context.Context) (service.SyncReport, error) {
	return m.syncAllPending(ctx)
}
func (m *mockSyncServicer) InProgress() bool {
	return m.inProgress()
}
func (m *mockSyncServicer) Pending(ctx context.Context) (int, error) {
	return m.pending(ctx)
}

// mockRosterServicer is a test double for handler.RosterServicer.
type mockRosterServicer struct {
	listVehicles    func(ctx context.Context) ([]domain.Vehicle, error)
	addVehicle      func(ctx context.Context, plate, model string) (domain.Vehicle, error)
	removeVehicle   func(ctx context.Context, id uuid.UUID) error
	listVolunteers  func(ctx context.Context) ([]domain.Volunteer, error)
	addVolunteer    func(ctx context.Context, name, surname string) (domain.Volunteer, error)
	removeVolunteer func(ctx context.Context, id uuid.UUID) error
}

func (m *mockRosterServicer) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	return m.listVehicles(ctx)
}
func (m *mockRosterServicer) AddVehicle(ctx context.Context, plate, model string) (domain.Vehicle, error) {
	return m.addVehicle(ctx, plate, model)
}
func (m *mockRosterServicer) RemoveVehicle(ctx context.Context, id uuid.UUID) error {
	return m.removeVehicle(ctx, id)
}
func (m *mockRosterServicer) ListVolunteers(ctx context.Context) ([]domain.Volunteer, error) {
	return m.listVolunteers(ctx)
}
func (m *mockRosterServicer) AddVolunteer(ctx context.Context, name, surname string) (domain.Volunteer, error) {
	return m.addVolunteer(ctx, name, surname)
}
func (m *mockRosterServicer) RemoveVolunteer(ctx context.Context, id uuid.UUID) error {
	return m.removeVolunteer(ctx, id)
}

// mockSettingsServicer is a test double for handler.SettingsServicer.
type mockSettingsServicer struct {
	get        func(ctx context.Context) (domain.Settings, error)
	setSinkURL func(ctx context.Context, raw string) (domain.Settings, error)
}

func (m *mockSettingsServicer) Get(ctx context.Context) (domain.Settings, error) {
	return m.get(ctx)
}
func (m *mockSettingsServicer) SetSinkURL(ctx context.Context, raw string) (domain.Settings, error) {
	return m.setSinkURL(ctx, raw)
}

// mockExportServicer is a test double for handler.ExportServicer.
type mockExportServicer struct {
	export func(ctx context.Context) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context) ([]domain.ExportRow, error) {
	return m.export(ctx)
}

// compile-time checks: every mock must satisfy its handler interface.
var (
	_ handler.TripServicer     = (*mockTripServicer)(nil)
	_ handler.SyncServicer     = (*mockSyncServicer)(nil)
	_ handler.RosterServicer   = (*mockRosterServicer)(nil)
	_ handler.SettingsServicer = (*mockSettingsServicer)(nil)
	_ handler.ExportServicer   = (*mockExportServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given mocks into the chi router.
// This mirrors how main.go wires it in production.
func newHTTPHandler(svc handler.Services) http.Handler {
	return handler.Handler(handler.NewServer(svc, nil, []byte("openapi: 3.0.3\n")))
}

// serve sends one request through h and returns the recorder.
func serve(h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}

// emptyRoster resolves no plates.
func emptyRoster() *mockRosterServicer {
	return &mockRosterServicer{
		listVehicles: func(_ context.Context) ([]domain.Vehicle, error) { return []domain.Vehicle{}, nil },
	}
}
