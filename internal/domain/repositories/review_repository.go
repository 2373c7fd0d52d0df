package repositories

import (
	"context"

	"github.com/neststop/backend/internal/domain/entities"
)

// ReviewRepository defines the interface for review persistence. Reviews
// are append-only: there is no update or delete path.
type ReviewRepository interface {
	// Create inserts a review
	Create(ctx context.Context, review *entities.Review) error

	// ListByStation returns all reviews for a station, oldest first
	ListByStation(ctx context.Context, stationID string) ([]*entities.Review, error)

	// CountByStation returns the number of reviews for a station
	CountByStation(ctx context.Context, stationID string) (int, error)
}
