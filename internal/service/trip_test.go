package service_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/prociv-logbook/internal/domain"
	"github.com/pkordes/prociv-logbook/internal/repo"
	"github.com/pkordes/prociv-logbook/internal/service"
)

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field; set only the ones your test needs.
type mockTripRepo struct {
	load func(ctx context.Context) ([]domain.Trip, error)
	save func(ctx context.Context, trips []domain.Trip) error
}

func (m *mockTripRepo) Load(ctx context.Context) ([]domain.Trip, error) {
	return m.load(ctx)
}
func (m *mockTripRepo) Save(ctx context.Context, trips []domain.Trip) error {
	return m.save(ctx, trips)
}

// compile-time check: mockTripRepo must satisfy repo.TripRepo.
var _ repo.TripRepo = (*mockTripRepo)(nil)

// ---- helpers ---------------------------------------------------------------

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

type tripFixture struct {
	svc        *service.TripService
	journal    *service.Journal
	trips      *repo.MemoryTripRepo
	volunteers *repo.MemoryVolunteerRepo
	vehicleID  uuid.UUID
	volunteer  domain.Volunteer
}

func newTripFixture(t *testing.T, opts ...service.TripOption) tripFixture {
	t.Helper()
	f := tripFixture{
		trips:      repo.NewMemoryTripRepo(),
		volunteers: repo.NewMemoryVolunteerRepo(),
		vehicleID:  uuid.New(),
		volunteer:  domain.Volunteer{ID: uuid.New(), Name: "Mario", Surname: "Rossi"},
	}
	require.NoError(t, f.volunteers.Save(context.Background(), []domain.Volunteer{f.volunteer}))
	f.journal = service.NewJournal(f.trips)
	opts = append([]service.TripOption{service.WithClock(func() time.Time { return fixedNow })}, opts...)
	f.svc = service.NewTripService(f.journal, f.volunteers, opts...)
	return f
}

func (f tripFixture) startInput(km string) service.StartTripInput {
	return service.StartTripInput{
		VehicleID:   f.vehicleID,
		VolunteerID: f.volunteer.ID,
		StartKm:     km,
		Destination: "Sede COM",
		Reason:      "Rifornimento",
	}
}

// ---- Start -----------------------------------------------------------------

func TestTripService_Start_Valid(t *testing.T) {
	f := newTripFixture(t)

	got, err := f.svc.Start(context.Background(), f.startInput("120.4"))

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, 120, got.StartKm)
	assert.Equal(t, "Mario Rossi", got.DriverName)
	assert.Equal(t, domain.TripActive, got.Status)
	assert.Equal(t, fixedNow, got.StartTime)
	assert.Nil(t, got.EndKm)
	assert.Nil(t, got.EndTime)
	assert.False(t, got.Synced)

	stored, err := f.trips.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, got, stored[0])
}

func TestTripService_Start_NewTripGoesToHead(t *testing.T) {
	f := newTripFixture(t)
	ctx := context.Background()

	first, err := f.svc.Start(ctx, f.startInput("100"))
	require.NoError(t, err)
	_, err = f.svc.End(ctx, first.ID, service.EndTripInput{EndKm: "110"})
	require.NoError(t, err)

	second, err := f.svc.Start(ctx, f.startInput("110"))
	require.NoError(t, err)

	all, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)
}

func TestTripService_Start_UnknownVolunteer(t *testing.T) {
	f := newTripFixture(t)

	in := f.startInput("10")
	in.VolunteerID = uuid.New()
	got, err := f.svc.Start(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, domain.UnknownDriver, got.DriverName)
}

func TestTripService_Start_NoVolunteer(t *testing.T) {
	f := newTripFixture(t)

	in := f.startInput("10")
	in.VolunteerID = uuid.Nil
	got, err := f.svc.Start(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, domain.UnknownDriver, got.DriverName)
}

func TestTripService_Start_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*service.StartTripInput)
	}{
		{"empty km", func(in *service.StartTripInput) { in.StartKm = "" }},
		{"non-numeric km", func(in *service.StartTripInput) { in.StartKm = "abc" }},
		{"negative km", func(in *service.StartTripInput) { in.StartKm = "-1" }},
		{"blank destination", func(in *service.StartTripInput) { in.Destination = "   " }},
		{"no vehicle", func(in *service.StartTripInput) { in.VehicleID = uuid.Nil }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newTripFixture(t)
			in := f.startInput("100")
			tc.mutate(&in)

			_, err := f.svc.Start(context.Background(), in)

			assert.ErrorIs(t, err, domain.ErrValidation)
			stored, _ := f.trips.Load(context.Background())
			assert.Empty(t, stored)
		})
	}
}

func TestTripService_Start_SecondActiveIsConflict(t *testing.T) {
	f := newTripFixture(t)
	ctx := context.Background()

	_, err := f.svc.Start(ctx, f.startInput("100"))
	require.NoError(t, err)

	_, err = f.svc.Start(ctx, f.startInput("100"))

	assert.ErrorIs(t, err, domain.ErrConflict)
	stored, _ := f.trips.Load(ctx)
	assert.Len(t, stored, 1)
}

func TestTripService_Start_RepoError(t *testing.T) {
	boom := errors.New("disk full")
	journal := service.NewJournal(&mockTripRepo{
		load: func(_ context.Context) ([]domain.Trip, error) { return nil, nil },
		save: func(_ context.Context, _ []domain.Trip) error { return boom },
	})
	svc := service.NewTripService(journal, repo.NewMemoryVolunteerRepo())

	_, err := svc.Start(context.Background(), service.StartTripInput{
		VehicleID:   uuid.New(),
		StartKm:     "1",
		Destination: "x",
	})

	assert.ErrorIs(t, err, boom)
}

// ---- End -------------------------------------------------------------------

func TestTripService_End_Valid(t *testing.T) {
	f := newTripFixture(t)
	ctx := context.Background()
	started, err := f.svc.Start(ctx, f.startInput("120.4"))
	require.NoError(t, err)

	got, err := f.svc.End(ctx, started.ID, service.EndTripInput{
		EndKm:         "245.6",
		RefuelingDone: true,
		Notes:         "  ok  ",
	})

	require.NoError(t, err)
	require.NotNil(t, got.EndKm)
	assert.Equal(t, 246, *got.EndKm)
	assert.Equal(t, 126, got.Distance())
	assert.Equal(t, domain.TripCompleted, got.Status)
	require.NotNil(t, got.EndTime)
	assert.Equal(t, fixedNow, *got.EndTime)
	assert.True(t, got.RefuelingDone)
	assert.Equal(t, "ok", got.Notes)
	assert.False(t, got.Synced)

	_, err = f.svc.Active(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripService_End_EqualKmAllowed(t *testing.T) {
	f := newTripFixture(t)
	ctx := context.Background()
	started, err := f.svc.Start(ctx, f.startInput("50"))
	require.NoError(t, err)

	got, err := f.svc.End(ctx, started.ID, service.EndTripInput{EndKm: "50"})

	require.NoError(t, err)
	assert.Equal(t, 0, got.Distance())
}

func TestTripService_End_BelowStartKm(t *testing.T) {
	f := newTripFixture(t)
	ctx := context.Background()
	started, err := f.svc.Start(ctx, f.startInput("100"))
	require.NoError(t, err)

	_, err = f.svc.End(ctx, started.ID, service.EndTripInput{EndKm: "99"})

	assert.ErrorIs(t, err, domain.ErrValidation)
	active, err := f.svc.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, started.ID, active.ID)
}

func TestTripService_End_MaintenanceNeedsDescription(t *testing.T) {
	f := newTripFixture(t)
	ctx := context.Background()
	started, err := f.svc.Start(ctx, f.startInput("100"))
	require.NoError(t, err)

	_, err = f.svc.End(ctx, started.ID, service.EndTripInput{
		EndKm:       "150",
		Maintenance: domain.Maintenance{Needed: true, Description: "  "},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := f.svc.End(ctx, started.ID, service.EndTripInput{
		EndKm:       "150",
		Maintenance: domain.Maintenance{Needed: true, Description: "brake pads"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Maintenance{Needed: true, Description: "brake pads"}, got.Maintenance)
}

func TestTripService_End_AlreadyCompletedIsConflict(t *testing.T) {
	f := newTripFixture(t)
	ctx := context.Background()
	started, err := f.svc.Start(ctx, f.startInput("100"))
	require.NoError(t, err)
	_, err = f.svc.End(ctx, started.ID, service.EndTripInput{EndKm: "110"})
	require.NoError(t, err)

	_, err = f.svc.End(ctx, started.ID, service.EndTripInput{EndKm: "120"})

	assert.ErrorIs(t, err, domain.ErrConflict)
	got, err := f.svc.GetByID(ctx, started.ID)
	require.NoError(t, err)
	assert.Equal(t, 110, *got.EndKm)
}

func TestTripService_End_UnknownTrip(t *testing.T) {
	f := newTripFixture(t)

	_, err := f.svc.End(context.Background(), uuid.New(), service.EndTripInput{EndKm: "1"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripService_End_HookRunsAfterCommit(t *testing.T) {
	ctx := context.Background()
	var hooked []domain.Trip
	var inStore domain.Trip
	var fixture tripFixture
	fixture = newTripFixture(t, service.WithCompletionHook(func(trip domain.Trip) {
		hooked = append(hooked, trip)
		stored, err := fixture.journal.Find(ctx, trip.ID)
		require.NoError(t, err)
		inStore = stored
	}))
	started, err := fixture.svc.Start(ctx, fixture.startInput("10"))
	require.NoError(t, err)
	assert.Empty(t, hooked, "starting a trip must not fire the hook")

	closed, err := fixture.svc.End(ctx, started.ID, service.EndTripInput{EndKm: "20"})

	require.NoError(t, err)
	require.Len(t, hooked, 1)
	assert.Equal(t, closed, hooked[0])
	assert.Equal(t, domain.TripCompleted, inStore.Status)
}

func TestTripService_End_HookNotCalledOnFailure(t *testing.T) {
	called := false
	f := newTripFixture(t, service.WithCompletionHook(func(domain.Trip) { called = true }))
	ctx := context.Background()
	started, err := f.svc.Start(ctx, f.startInput("100"))
	require.NoError(t, err)

	_, err = f.svc.End(ctx, started.ID, service.EndTripInput{EndKm: "1"})

	require.Error(t, err)
	assert.False(t, called)
}

// ---- queries ---------------------------------------------------------------

func TestTripService_Active_NoneIsNotFound(t *testing.T) {
	f := newTripFixture(t)

	_, err := f.svc.Active(context.Background())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripService_List_EmptyIsNonNil(t *testing.T) {
	f := newTripFixture(t)

	got, err := f.svc.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// seedCompleted writes n completed trips followed by one active trip, most recent first.
func seedCompleted(t *testing.T, f tripFixture, n int) []domain.Trip {
	t.Helper()
	ctx := context.Background()
	for i := range n {
		started, err := f.svc.Start(ctx, f.startInput("100"))
		require.NoError(t, err)
		_, err = f.svc.End(ctx, started.ID, service.EndTripInput{EndKm: strconv.Itoa(110 + 10*i)})
		require.NoError(t, err)
	}
	_, err := f.svc.Start(ctx, f.startInput("500"))
	require.NoError(t, err)
	all, err := f.svc.List(ctx)
	require.NoError(t, err)
	return all
}

func TestTripService_Recent_OnlyCompletedAndCapped(t *testing.T) {
	f := newTripFixture(t)
	all := seedCompleted(t, f, 7)

	got, err := f.svc.Recent(context.Background(), 5)

	require.NoError(t, err)
	require.Len(t, got, 5)
	for i, trip := range got {
		assert.Equal(t, domain.TripCompleted, trip.Status)
		assert.Equal(t, all[i+1].ID, trip.ID, "order must follow the log")
	}
}

func TestTripService_ListPaged(t *testing.T) {
	f := newTripFixture(t)
	all := seedCompleted(t, f, 4) // 5 trips in total

	page, limit := 2, 2
	got, total, err := f.svc.ListPaged(context.Background(), domain.NewPaginationParams(&page, &limit))

	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, got, 2)
	assert.Equal(t, all[2].ID, got[0].ID)
	assert.Equal(t, all[3].ID, got[1].ID)

	page = 9
	got, total, err = f.svc.ListPaged(context.Background(), domain.NewPaginationParams(&page, &limit))
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Empty(t, got)
}

func TestTripService_GetByID_NotFound(t *testing.T) {
	f := newTripFixture(t)

	_, err := f.svc.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
