package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/neststop/backend/internal/domain/entities"
	"github.com/neststop/backend/internal/domain/providers"
	"github.com/neststop/backend/internal/domain/repositories"
	apperrors "github.com/neststop/backend/pkg/errors"
)

// SubmitReviewInput carries a new review plus the place it targets. Exactly
// one of StationID or Candidate resolves the station: an existing station id,
// or a transient search candidate that gets persisted on first review.
type SubmitReviewInput struct {
	StationID string
	Candidate *entities.PlaceCandidate
	Review    *entities.Review
}

// SubmitReviewResult is the station state after the review's consensus
// recompute, alongside the stored review.
type SubmitReviewResult struct {
	Review  *entities.Review
	Station *entities.ChangingStation
}

// ReviewService handles review submission: station resolution, insert, and
// the synchronous consensus recompute that follows every insert.
type ReviewService struct {
	reviews    repositories.ReviewRepository
	stations   repositories.StationRepository
	searchRepo repositories.StationSearchRepository
	reconciler *ReconciliationService
	consensus  *ConsensusService
	eventBus   providers.EventBus
}

// NewReviewService creates a new review service
func NewReviewService(
	reviews repositories.ReviewRepository,
	stations repositories.StationRepository,
	searchRepo repositories.StationSearchRepository,
	reconciler *ReconciliationService,
	consensus *ConsensusService,
	eventBus providers.EventBus,
) *ReviewService {
	return &ReviewService{
		reviews:    reviews,
		stations:   stations,
		searchRepo: searchRepo,
		reconciler: reconciler,
		consensus:  consensus,
		eventBus:   eventBus,
	}
}

// Submit stores a review and recomputes the station's consensus. The
// returned station reflects the post-review aggregate.
func (s *ReviewService) Submit(ctx context.Context, input *SubmitReviewInput) (*SubmitReviewResult, error) {
	if input == nil || input.Review == nil {
		return nil, apperrors.NewValidationError("review is required")
	}
	if input.Review.Rating < 1 || input.Review.Rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5")
	}

	station, err := s.resolveStation(ctx, input)
	if err != nil {
		return nil, err
	}

	review := *input.Review
	review.ID = uuid.New().String()
	review.StationID = station.ID
	review.CreatedAt = time.Now().UTC()

	if err := s.reviews.Create(ctx, &review); err != nil {
		return nil, err
	}

	updated, err := s.consensus.Recompute(ctx, station.ID)
	if err != nil {
		return nil, err
	}

	if s.searchRepo != nil {
		if err := s.searchRepo.Index(ctx, updated); err != nil {
			log.Printf("Warning: Failed to index station %s: %v", updated.ID, err)
		}
	}
	publishStationEvent(ctx, s.eventBus, entities.StationEventConsensusUpdated, updated)

	return &SubmitReviewResult{Review: &review, Station: updated}, nil
}

// ListByStation returns all reviews for a station.
func (s *ReviewService) ListByStation(ctx context.Context, stationID string) ([]*entities.Review, error) {
	if _, err := s.stations.GetByID(ctx, stationID); err != nil {
		return nil, err
	}
	return s.reviews.ListByStation(ctx, stationID)
}

// resolveStation maps the input to a persisted station. A candidate only
// comes into play when no station id is given; the first review against a
// candidate is what persists it.
func (s *ReviewService) resolveStation(ctx context.Context, input *SubmitReviewInput) (*entities.ChangingStation, error) {
	if input.StationID != "" {
		return s.stations.GetByID(ctx, input.StationID)
	}
	if input.Candidate == nil {
		return nil, apperrors.NewValidationError("station_id or candidate is required")
	}
	return s.reconciler.FindOrCreate(ctx, input.Candidate)
}
