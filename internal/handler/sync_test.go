package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/prociv-logbook/internal/domain"
	"github.com/pkordes/prociv-logbook/internal/handler"
	"github.com/pkordes/prociv-logbook/internal/service"
)

func TestGetSyncStatus_200(t *testing.T) {
	svc := &mockSyncServicer{
		inProgress: func() bool { return true },
		pending:    func(_ context.Context) (int, error) { return 3, nil },
	}

	rec := serve(newHTTPHandler(handler.Services{Sync: svc}), http.MethodGet, "/sync", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handler.SyncStatusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, handler.SyncStatusResponse{InProgress: true, Pending: 3}, resp)
}

func TestSyncPending_200(t *testing.T) {
	svc := &mockSyncServicer{
		syncAllPending: func(_ context.Context) (service.SyncReport, error) {
			return service.SyncReport{Attempted: 2, Delivered: 1, Failed: 1}, nil
		},
	}

	rec := serve(newHTTPHandler(handler.Services{Sync: svc}), http.MethodPost, "/sync", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp service.SyncReport
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, service.SyncReport{Attempted: 2, Delivered: 1, Failed: 1}, resp)
}

func TestSyncPending_409_WhileRunning(t *testing.T) {
	svc := &mockSyncServicer{
		syncAllPending: func(_ context.Context) (service.SyncReport, error) {
			return service.SyncReport{}, fmt.Errorf("service.Dispatcher.SyncAllPending: %w: sync already in progress", domain.ErrConflict)
		},
	}

	rec := serve(newHTTPHandler(handler.Services{Sync: svc}), http.MethodPost, "/sync", nil)

	require.Equal(t, http.StatusConflict, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, "conflict", detail.Code)
	assert.Equal(t, "sync already in progress", detail.Message)
}

func TestSyncTrip_ReportsOutcome(t *testing.T) {
	fixture := completedTripFixture()
	var synced domain.Trip
	trips := &mockTripServicer{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) { return fixture, nil },
	}
	svc := &mockSyncServicer{
		syncOne: func(_ context.Context, trip domain.Trip) service.Outcome {
			synced = trip
			return service.Skipped
		},
	}

	rec := serve(newHTTPHandler(handler.Services{Trips: trips, Sync: svc}),
		http.MethodPost, "/trips/"+fixture.ID.String()+"/sync", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, fixture.ID, synced.ID)
	var resp handler.SyncTripResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "skipped", resp.Outcome)
}

func TestSyncTrip_404(t *testing.T) {
	trips := &mockTripServicer{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
	}

	rec := serve(newHTTPHandler(handler.Services{Trips: trips, Sync: &mockSyncServicer{}}),
		http.MethodPost, "/trips/"+uuid.NewString()+"/sync", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
