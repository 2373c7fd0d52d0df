package memory

import (
	"context"
	"sync"

	"github.com/neststop/backend/internal/domain/entities"
	"github.com/neststop/backend/internal/domain/repositories"
)

// ReviewStore is an in-memory, append-only ReviewRepository.
type ReviewStore struct {
	mu      sync.RWMutex
	reviews []*entities.Review
}

// NewReviewStore creates an empty in-memory review store.
func NewReviewStore() *ReviewStore {
	return &ReviewStore{}
}

var _ repositories.ReviewRepository = (*ReviewStore)(nil)

// Create inserts a review
func (s *ReviewStore) Create(ctx context.Context, review *entities.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *review
	s.reviews = append(s.reviews, &copied)
	return nil
}

// ListByStation returns all reviews for a station in insertion order
func (s *ReviewStore) ListByStation(ctx context.Context, stationID string) ([]*entities.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []*entities.Review{}
	for _, review := range s.reviews {
		if review.StationID == stationID {
			copied := *review
			results = append(results, &copied)
		}
	}
	return results, nil
}

// CountByStation returns the number of reviews for a station
func (s *ReviewStore) CountByStation(ctx context.Context, stationID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, review := range s.reviews {
		if review.StationID == stationID {
			count++
		}
	}
	return count, nil
}
