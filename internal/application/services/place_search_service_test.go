package services

import (
	"context"
	"errors"
	"testing"

	"github.com/neststop/backend/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlacesProvider struct {
	candidates []*entities.PlaceCandidate
	err        error
	gotRadius  int
	gotQuery   string
}

func (f *fakePlacesProvider) Search(ctx context.Context, lat, lng float64, radiusMeters int, query string) ([]*entities.PlaceCandidate, error) {
	f.gotRadius = radiusMeters
	f.gotQuery = query
	return f.candidates, f.err
}

func TestSearchNearby_RanksGuaranteedChainAboveCloserPlace(t *testing.T) {
	// A Target two blocks out should beat the diner across the street.
	provider := &fakePlacesProvider{
		candidates: []*entities.PlaceCandidate{
			{
				Name:           "Joe's Diner",
				Categories:     []string{"Restaurant"},
				Location:       entities.Location{Latitude: 36.1514, Longitude: -86.8026},
				DistanceMeters: floatPtr(40),
			},
			{
				Name:           "Target",
				Categories:     []string{"Department Store"},
				Location:       entities.Location{Latitude: 36.1530, Longitude: -86.8050},
				DistanceMeters: floatPtr(300),
			},
		},
	}
	svc := NewPlaceSearchService(provider, NewPlaceScoringService())

	results, err := svc.SearchNearby(context.Background(), 36.1513, -86.8025, 1000, "")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "Target", results[0].Name)
	assert.True(t, results[0].GuaranteedChain)
	assert.Equal(t, 4.0, results[0].Score)
	assert.Equal(t, "Joe's Diner", results[1].Name)
	assert.Equal(t, 2.0, results[1].Score)
}

func TestSearchNearby_ProviderFailureDegradesToEmpty(t *testing.T) {
	provider := &fakePlacesProvider{err: errors.New("upstream 503")}
	svc := NewPlaceSearchService(provider, NewPlaceScoringService())

	results, err := svc.SearchNearby(context.Background(), 36.15, -86.80, 1000, "coffee")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchNearby_DefaultsRadius(t *testing.T) {
	provider := &fakePlacesProvider{}
	svc := NewPlaceSearchService(provider, NewPlaceScoringService())

	_, err := svc.SearchNearby(context.Background(), 36.15, -86.80, 0, "park")
	require.NoError(t, err)

	assert.Equal(t, DefaultSearchRadiusMeters, provider.gotRadius)
	assert.Equal(t, "park", provider.gotQuery)
}
