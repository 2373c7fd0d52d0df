package providers

import (
	"context"

	"github.com/neststop/backend/internal/domain/entities"
)

// PlacesProvider defines the interface for the external places-search
// service. Implementations must degrade to an empty candidate list on any
// provider failure (missing credentials, non-2xx response, network error);
// a search that cannot be served is never fatal to the request.
type PlacesProvider interface {
	// Search returns raw place candidates around a point. Candidates come
	// back unscored; the caller runs them through the scorer and ranker.
	Search(ctx context.Context, lat, lng float64, radiusMeters int, query string) ([]*entities.PlaceCandidate, error)
}
