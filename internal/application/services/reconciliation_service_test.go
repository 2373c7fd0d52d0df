package services

import (
	"context"
	"testing"

	"github.com/neststop/backend/internal/adapters/memory"
	"github.com/neststop/backend/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindOrCreate_CreatesNewStation(t *testing.T) {
	store := memory.NewStationStore()
	svc := NewReconciliationService(store)

	candidate := &entities.PlaceCandidate{
		ExternalID: "fsq:abc123",
		Name:       "Joe's Diner",
		Address:    "100 Main St",
		Location:   entities.Location{Latitude: 36.1513, Longitude: -86.8025},
	}

	station, err := svc.FindOrCreate(context.Background(), candidate)
	require.NoError(t, err)

	assert.Equal(t, "fsq:abc123", station.ID)
	assert.Equal(t, "Joe's Diner", station.Name)
	assert.Equal(t, entities.TriUnknown, station.Accessibility)
	assert.Equal(t, entities.TriUnknown, station.Supplies)
	assert.Equal(t, entities.TriUnknown, station.Open)
	assert.False(t, station.Privacy)
	assert.False(t, station.Verified)
	assert.False(t, station.GuaranteedChain)
	assert.Equal(t, entities.TriTrue, station.HasChangingStation)
	assert.Equal(t, 0.0, station.Rating)
	assert.Equal(t, 0, station.ReviewCount)
}

func TestFindOrCreate_IdempotentWithinEpsilon(t *testing.T) {
	store := memory.NewStationStore()
	svc := NewReconciliationService(store)

	first := &entities.PlaceCandidate{
		ExternalID: "fsq:abc123",
		Name:       "Joe's Diner",
		Location:   entities.Location{Latitude: 36.15130, Longitude: -86.80250},
	}
	// Same physical location reported with slightly different coordinates
	// and metadata.
	second := &entities.PlaceCandidate{
		ExternalID: "fsq:other",
		Name:       "Joes Diner",
		Location:   entities.Location{Latitude: 36.15135, Longitude: -86.80245},
	}

	a, err := svc.FindOrCreate(context.Background(), first)
	require.NoError(t, err)
	b, err := svc.FindOrCreate(context.Background(), second)
	require.NoError(t, err)

	// First writer wins on identity: the second call returns the existing
	// station unchanged.
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, "Joe's Diner", b.Name)

	all, err := store.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFindOrCreate_NewStationBeyondEpsilon(t *testing.T) {
	store := memory.NewStationStore()
	svc := NewReconciliationService(store)

	first := &entities.PlaceCandidate{
		Name:     "Joe's Diner",
		Location: entities.Location{Latitude: 36.1513, Longitude: -86.8025},
	}
	// ~0.0005 degrees away, well past the tolerance.
	second := &entities.PlaceCandidate{
		Name:     "Corner Cafe",
		Location: entities.Location{Latitude: 36.1518, Longitude: -86.8025},
	}

	a, err := svc.FindOrCreate(context.Background(), first)
	require.NoError(t, err)
	b, err := svc.FindOrCreate(context.Background(), second)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)

	all, err := store.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestFindOrCreate_GuaranteedChainFlag(t *testing.T) {
	store := memory.NewStationStore()
	svc := NewReconciliationService(store)

	station, err := svc.FindOrCreate(context.Background(), &entities.PlaceCandidate{
		Name:     "Target Store T-2841",
		Location: entities.Location{Latitude: 36.10, Longitude: -86.80},
	})
	require.NoError(t, err)

	assert.True(t, station.GuaranteedChain)
}

func TestFindOrCreate_CopiesOpenFromCandidate(t *testing.T) {
	store := memory.NewStationStore()
	svc := NewReconciliationService(store)

	open := true
	station, err := svc.FindOrCreate(context.Background(), &entities.PlaceCandidate{
		Name:     "Joe's Diner",
		Location: entities.Location{Latitude: 36.10, Longitude: -86.80},
		Open:     &open,
	})
	require.NoError(t, err)

	assert.Equal(t, entities.TriTrue, station.Open)
}

func TestFindOrCreate_GeneratesIDWithoutExternalID(t *testing.T) {
	store := memory.NewStationStore()
	svc := NewReconciliationService(store)

	station, err := svc.FindOrCreate(context.Background(), &entities.PlaceCandidate{
		Name:     "Joe's Diner",
		Location: entities.Location{Latitude: 36.10, Longitude: -86.80},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, station.ID)
}

func TestFindOrCreate_RejectsInvalidCandidate(t *testing.T) {
	svc := NewReconciliationService(memory.NewStationStore())

	_, err := svc.FindOrCreate(context.Background(), nil)
	assert.Error(t, err)

	_, err = svc.FindOrCreate(context.Background(), &entities.PlaceCandidate{})
	assert.Error(t, err)
}
