package services

import (
	"context"
	"testing"

	"github.com/neststop/backend/internal/adapters/memory"
	"github.com/neststop/backend/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStation(t *testing.T, store *memory.StationStore, guaranteed bool) *entities.ChangingStation {
	t.Helper()
	station := &entities.ChangingStation{
		ID:                 "station-1",
		Name:               "Joe's Diner",
		Location:           entities.Location{Latitude: 36.15, Longitude: -86.80},
		Accessibility:      entities.TriUnknown,
		Supplies:           entities.TriUnknown,
		Open:               entities.TriUnknown,
		HasChangingStation: entities.TriTrue,
		GuaranteedChain:    guaranteed,
	}
	if guaranteed {
		station.Name = "Target"
	}
	require.NoError(t, store.Create(context.Background(), station))
	return station
}

func addReview(t *testing.T, store *memory.ReviewStore, stationID string, rating int, confirm, report bool) {
	t.Helper()
	require.NoError(t, store.Create(context.Background(), &entities.Review{
		StationID:         stationID,
		AuthorName:        "reviewer",
		Rating:            rating,
		ConfirmHasStation: confirm,
		ReportNoStation:   report,
	}))
}

func TestRecompute_ZeroReviewsResetsAggregates(t *testing.T) {
	stations := memory.NewStationStore()
	reviews := memory.NewReviewStore()
	svc := NewConsensusService(stations, reviews)

	station := seedStation(t, stations, false)
	station.Rating = 4.5
	station.ReviewCount = 9
	station.NegativeReportCount = 2
	require.NoError(t, stations.Update(context.Background(), station))

	updated, err := svc.Recompute(context.Background(), station.ID)
	require.NoError(t, err)

	assert.Equal(t, 0.0, updated.Rating)
	assert.Equal(t, 0, updated.ReviewCount)
	assert.Equal(t, 0, updated.NegativeReportCount)
	// Flags are untouched without review signal.
	assert.Equal(t, entities.TriTrue, updated.HasChangingStation)
	assert.False(t, updated.Verified)
}

func TestRecompute_AverageRatingRoundedToOneDecimal(t *testing.T) {
	stations := memory.NewStationStore()
	reviews := memory.NewReviewStore()
	svc := NewConsensusService(stations, reviews)

	station := seedStation(t, stations, false)
	addReview(t, reviews, station.ID, 3, false, false)
	addReview(t, reviews, station.ID, 4, false, false)
	addReview(t, reviews, station.ID, 5, false, false)

	updated, err := svc.Recompute(context.Background(), station.ID)
	require.NoError(t, err)

	assert.Equal(t, 4.0, updated.Rating)
	assert.Equal(t, 3, updated.ReviewCount)
	assert.Equal(t, 0, updated.NegativeReportCount)

	// (3+4+5+2+2)/5 = 3.2
	addReview(t, reviews, station.ID, 2, false, false)
	addReview(t, reviews, station.ID, 2, false, false)
	updated, err = svc.Recompute(context.Background(), station.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.2, updated.Rating)
}

func TestRecompute_ConfirmVerifiesNonGuaranteedStation(t *testing.T) {
	stations := memory.NewStationStore()
	reviews := memory.NewReviewStore()
	svc := NewConsensusService(stations, reviews)

	station := seedStation(t, stations, false)
	addReview(t, reviews, station.ID, 5, true, false)

	updated, err := svc.Recompute(context.Background(), station.ID)
	require.NoError(t, err)

	assert.Equal(t, entities.TriTrue, updated.HasChangingStation)
	assert.True(t, updated.Verified)
}

func TestRecompute_GuaranteedChainNeverCrowdVerified(t *testing.T) {
	stations := memory.NewStationStore()
	reviews := memory.NewReviewStore()
	svc := NewConsensusService(stations, reviews)

	station := seedStation(t, stations, true)
	addReview(t, reviews, station.ID, 5, true, false)

	updated, err := svc.Recompute(context.Background(), station.ID)
	require.NoError(t, err)

	assert.Equal(t, entities.TriTrue, updated.HasChangingStation)
	assert.False(t, updated.Verified)
}

func TestRecompute_NegativeMajorityFlipsHasStation(t *testing.T) {
	stations := memory.NewStationStore()
	reviews := memory.NewReviewStore()
	svc := NewConsensusService(stations, reviews)

	station := seedStation(t, stations, false)
	station.Verified = true
	require.NoError(t, stations.Update(context.Background(), station))

	addReview(t, reviews, station.ID, 1, false, true)
	addReview(t, reviews, station.ID, 2, false, true)
	addReview(t, reviews, station.ID, 5, true, false)

	updated, err := svc.Recompute(context.Background(), station.ID)
	require.NoError(t, err)

	assert.Equal(t, entities.TriFalse, updated.HasChangingStation)
	assert.Equal(t, 2, updated.NegativeReportCount)
	// Verified persists through a negative wave.
	assert.True(t, updated.Verified)
}

func TestRecompute_TieLeavesFlagsUnchanged(t *testing.T) {
	stations := memory.NewStationStore()
	reviews := memory.NewReviewStore()
	svc := NewConsensusService(stations, reviews)

	station := seedStation(t, stations, false)
	station.HasChangingStation = entities.TriUnknown
	require.NoError(t, stations.Update(context.Background(), station))

	// No confirmations, no reports: no signal either way.
	addReview(t, reviews, station.ID, 3, false, false)

	updated, err := svc.Recompute(context.Background(), station.ID)
	require.NoError(t, err)

	assert.Equal(t, entities.TriUnknown, updated.HasChangingStation)
	assert.False(t, updated.Verified)
}

func TestRecompute_EqualPositiveAndNegativeMovesNothingFromConfirm(t *testing.T) {
	stations := memory.NewStationStore()
	reviews := memory.NewReviewStore()
	svc := NewConsensusService(stations, reviews)

	station := seedStation(t, stations, false)

	// negative == positive falls to the positive > 0 branch, which is true
	// here, so the station is confirmed and verified.
	addReview(t, reviews, station.ID, 4, true, false)
	addReview(t, reviews, station.ID, 1, false, true)

	updated, err := svc.Recompute(context.Background(), station.ID)
	require.NoError(t, err)

	assert.Equal(t, entities.TriTrue, updated.HasChangingStation)
	assert.True(t, updated.Verified)
}

func TestRecompute_UnknownStation(t *testing.T) {
	svc := NewConsensusService(memory.NewStationStore(), memory.NewReviewStore())

	_, err := svc.Recompute(context.Background(), "missing")
	assert.Error(t, err)
}
