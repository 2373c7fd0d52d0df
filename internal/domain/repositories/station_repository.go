package repositories

import (
	"context"

	"github.com/neststop/backend/internal/domain/entities"
)

// StationRepository defines the interface for changing-station persistence.
// The reconciliation and consensus engines are written against this
// interface so they work identically over the in-memory store and Postgres.
type StationRepository interface {
	// Create persists a new station
	Create(ctx context.Context, station *entities.ChangingStation) error

	// GetByID retrieves a station by id
	GetByID(ctx context.Context, id string) (*entities.ChangingStation, error)

	// GetAll retrieves every station (proximity filtering is done in the
	// caller; acceptable at current data sizes)
	GetAll(ctx context.Context) ([]*entities.ChangingStation, error)

	// Update persists station mutations (aggregate fields, flags)
	Update(ctx context.Context, station *entities.ChangingStation) error

	// FindNear returns the first station whose latitude and longitude each
	// differ from the given point by less than eps degrees, or a not-found
	// error
	FindNear(ctx context.Context, lat, lng, eps float64) (*entities.ChangingStation, error)

	// SearchByText returns stations whose name or address matches the query
	SearchByText(ctx context.Context, query string, limit int) ([]*entities.ChangingStation, error)

	// Nearby returns stations within radiusKm of the point
	Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]*entities.ChangingStation, error)
}

// StationSearchRepository defines the interface for the external search
// index (e.g. Typesense). The database remains the source of truth; index
// failures degrade, they never fail the request.
type StationSearchRepository interface {
	// Index upserts a station document
	Index(ctx context.Context, station *entities.ChangingStation) error

	// Delete removes a station from the index
	Delete(ctx context.Context, id string) error

	// SearchByText searches stations by free text
	SearchByText(ctx context.Context, query string, limit int) ([]*entities.ChangingStation, error)
}
