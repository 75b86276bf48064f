package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/prociv-logbook/internal/domain"
	"github.com/pkordes/prociv-logbook/internal/repo"
)

func TestMemoryTripRepo_LoadEmptyIsNonNil(t *testing.T) {
	r := repo.NewMemoryTripRepo()

	got, err := r.Load(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// TestMemoryTripRepo_DoesNotAlias verifies that mutating a loaded or saved
// slice does not change what the store holds.
func TestMemoryTripRepo_DoesNotAlias(t *testing.T) {
	r := repo.NewMemoryTripRepo()
	ctx := context.Background()

	saved := []domain.Trip{{ID: uuid.New(), Destination: "Base"}}
	require.NoError(t, r.Save(ctx, saved))
	saved[0].Destination = "changed after save"

	loaded, err := r.Load(ctx)
	require.NoError(t, err)
	loaded[0].Destination = "changed after load"

	again, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Base", again[0].Destination)
}

func TestMemoryVehicleRepo_SaveLoad(t *testing.T) {
	r := repo.NewMemoryVehicleRepo()
	ctx := context.Background()

	v := domain.Vehicle{ID: uuid.New(), Plate: "AB123CD", Model: "Panda 4x4"}
	require.NoError(t, r.Save(ctx, []domain.Vehicle{v}))

	got, err := r.Load(ctx)

	require.NoError(t, err)
	assert.Equal(t, []domain.Vehicle{v}, got)
}

func TestMemorySettingsRepo_SeededValue(t *testing.T) {
	r := repo.NewMemorySettingsRepo(domain.Settings{SinkURL: "https://sink.example"})
	ctx := context.Background()

	got, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://sink.example", got.SinkURL)

	require.NoError(t, r.Save(ctx, domain.Settings{}))
	got, err = r.Load(ctx)
	require.NoError(t, err)
	assert.False(t, got.SyncEnabled())
}

func TestMemorySettingsRepo_Seed(t *testing.T) {
	ctx := context.Background()
	r := repo.NewMemorySettingsRepo(domain.Settings{})

	wrote, err := r.Seed(ctx, domain.Settings{SinkURL: "https://seed.example"})
	require.NoError(t, err)
	assert.True(t, wrote)

	require.NoError(t, r.Save(ctx, domain.Settings{}))
	wrote, err = r.Seed(ctx, domain.Settings{SinkURL: "https://seed.example"})
	require.NoError(t, err)
	assert.False(t, wrote)
	got, err := r.Load(ctx)
	require.NoError(t, err)
	assert.False(t, got.SyncEnabled())
}
