package services

import (
	"context"
	"log"

	"github.com/neststop/backend/internal/domain/entities"
	"github.com/neststop/backend/internal/domain/providers"
)

// DefaultSearchRadiusMeters is used when the caller does not pass a radius.
const DefaultSearchRadiusMeters = 2000

// PlaceSearchService produces the ranked candidate list shown on the map:
// raw places from the external provider, scored and ordered by changing-table
// likelihood.
type PlaceSearchService struct {
	provider providers.PlacesProvider
	scoring  *PlaceScoringService
}

// NewPlaceSearchService creates a new place search service
func NewPlaceSearchService(provider providers.PlacesProvider, scoring *PlaceScoringService) *PlaceSearchService {
	return &PlaceSearchService{
		provider: provider,
		scoring:  scoring,
	}
}

// SearchNearby returns ranked place candidates around a point. Provider
// failures degrade to an empty list; the map simply shows fewer pins.
func (s *PlaceSearchService) SearchNearby(ctx context.Context, lat, lng float64, radiusMeters int, query string) ([]*entities.PlaceCandidate, error) {
	if radiusMeters <= 0 {
		radiusMeters = DefaultSearchRadiusMeters
	}

	candidates, err := s.provider.Search(ctx, lat, lng, radiusMeters, query)
	if err != nil {
		log.Printf("Warning: places provider search failed: %v", err)
		return []*entities.PlaceCandidate{}, nil
	}

	for _, c := range candidates {
		s.scoring.Annotate(c)
	}
	return s.scoring.Rank(candidates), nil
}
