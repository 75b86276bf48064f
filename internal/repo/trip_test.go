package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/prociv-logbook/internal/domain"
	"github.com/pkordes/prociv-logbook/internal/repo"
	"github.com/pkordes/prociv-logbook/testutil"
)

// newTestTx opens a transaction against the test database. The transaction is
// automatically rolled back when the test finishes, giving free per-test isolation.
//
// Requires TEST_DATABASE_URL to be set; migrations are applied by TestMain.
func newTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		// Rollback discards all changes made during the test, so no cleanup SQL is needed.
		_ = tx.Rollback(context.Background())
	})
	return tx
}

// activeTripFixture returns an ACTIVE trip with sensible defaults.
func activeTripFixture() domain.Trip {
	return domain.Trip{
		ID:          uuid.Must(uuid.NewV7()),
		VehicleID:   uuid.New(),
		VolunteerID: uuid.New(),
		DriverName:  "Mario Rossi",
		StartKm:     120,
		Destination: "Base",
		Reason:      "Esercitazione",
		StartTime:   time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
		Status:      domain.TripActive,
	}
}

// completedTripFixture returns a COMPLETED trip with maintenance flagged.
func completedTripFixture() domain.Trip {
	t := activeTripFixture()
	end := 246
	endTime := t.StartTime.Add(3 * time.Hour)
	t.EndKm = &end
	t.EndTime = &endTime
	t.Status = domain.TripCompleted
	t.Maintenance = domain.Maintenance{Needed: true, Description: "brake noise"}
	return t
}

func TestTripRepo_Load_Empty(t *testing.T) {
	r := repo.NewTripRepo(newTestTx(t))

	trips, err := r.Load(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, trips)
	assert.Empty(t, trips)
}

func TestTripRepo_SaveLoad_PreservesOrderAndFields(t *testing.T) {
	r := repo.NewTripRepo(newTestTx(t))
	ctx := context.Background()

	newest := activeTripFixture()
	oldest := completedTripFixture()
	oldest.Synced = true

	require.NoError(t, r.Save(ctx, []domain.Trip{newest, oldest}))

	got, err := r.Load(ctx)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newest.ID, got[0].ID, "position 0 should be the most recent trip")
	assert.Nil(t, got[0].EndKm)
	assert.Nil(t, got[0].EndTime)
	assert.Equal(t, domain.TripActive, got[0].Status)

	assert.Equal(t, oldest.ID, got[1].ID)
	require.NotNil(t, got[1].EndKm)
	assert.Equal(t, 246, *got[1].EndKm)
	require.NotNil(t, got[1].EndTime)
	assert.True(t, got[1].EndTime.Equal(*oldest.EndTime))
	assert.Equal(t, oldest.Maintenance, got[1].Maintenance)
	assert.Equal(t, oldest.VehicleID, got[1].VehicleID)
	assert.True(t, got[1].Synced)
}

func TestTripRepo_Save_ReplacesWholePartition(t *testing.T) {
	r := repo.NewTripRepo(newTestTx(t))
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, []domain.Trip{completedTripFixture(), completedTripFixture()}))

	only := completedTripFixture()
	require.NoError(t, r.Save(ctx, []domain.Trip{only}))

	got, err := r.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, only.ID, got[0].ID)
}

// TestTripRepo_Save_RejectsTwoActiveTrips verifies the partial unique index
// backing the single-active-trip invariant.
func TestTripRepo_Save_RejectsTwoActiveTrips(t *testing.T) {
	r := repo.NewTripRepo(newTestTx(t))

	err := r.Save(context.Background(), []domain.Trip{activeTripFixture(), activeTripFixture()})

	assert.Error(t, err)
}

func TestTripRepo_Save_RejectsUndescribedMaintenance(t *testing.T) {
	r := repo.NewTripRepo(newTestTx(t))

	trip := completedTripFixture()
	trip.Maintenance.Description = ""

	err := r.Save(context.Background(), []domain.Trip{trip})

	assert.Error(t, err)
}
