package places

import (
	"context"
	"fmt"

	"github.com/neststop/backend/internal/domain/entities"
	"github.com/neststop/backend/internal/domain/providers"
)

// MockPlacesProvider implements a mock places provider for local development
type MockPlacesProvider struct{}

// NewMockPlacesProvider creates a new mock places provider
func NewMockPlacesProvider() providers.PlacesProvider {
	return &MockPlacesProvider{}
}

// Search returns a fixed set of candidates offset from the requested point
func (m *MockPlacesProvider) Search(ctx context.Context, lat, lng float64, radiusMeters int, query string) ([]*entities.PlaceCandidate, error) {
	distance := func(meters float64) *float64 { return &meters }

	return []*entities.PlaceCandidate{
		{
			ExternalID:     externalIDPrefix + "mock-target",
			Name:           "Target",
			Address:        fmt.Sprintf("100 Main St near %.4f, %.4f", lat, lng),
			Location:       entities.Location{Latitude: lat + 0.003, Longitude: lng + 0.001},
			Categories:     []string{"Department Store"},
			DistanceMeters: distance(350),
		},
		{
			ExternalID:     externalIDPrefix + "mock-gas",
			Name:           "Corner Fuel Stop",
			Address:        "12 Elm St",
			Location:       entities.Location{Latitude: lat + 0.001, Longitude: lng - 0.002},
			Categories:     []string{"Gas Station"},
			DistanceMeters: distance(220),
		},
		{
			ExternalID:     externalIDPrefix + "mock-diner",
			Name:           "Joe's Diner",
			Address:        "3 Oak Ave",
			Location:       entities.Location{Latitude: lat - 0.0005, Longitude: lng + 0.0004},
			Categories:     []string{"Restaurant"},
			DistanceMeters: distance(60),
		},
	}, nil
}
