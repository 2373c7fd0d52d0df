package services

import (
	"context"
	"math"
	"time"

	"github.com/neststop/backend/internal/domain/entities"
	"github.com/neststop/backend/internal/domain/repositories"
)

// ConsensusService recomputes a station's aggregate rating and verification
// flags from its accumulated reviews. It is invoked synchronously after
// every review insert for the station.
type ConsensusService struct {
	stations repositories.StationRepository
	reviews  repositories.ReviewRepository
	locks    *keyedMutex
}

// NewConsensusService creates a new consensus service.
func NewConsensusService(stations repositories.StationRepository, reviews repositories.ReviewRepository) *ConsensusService {
	return &ConsensusService{
		stations: stations,
		reviews:  reviews,
		locks:    newKeyedMutex(),
	}
}

// Recompute reloads all reviews for a station and rewrites its aggregate
// fields. The read-modify-write is serialized per station so concurrent
// submissions cannot lose updates; the final aggregate always reflects the
// full review set.
func (s *ConsensusService) Recompute(ctx context.Context, stationID string) (*entities.ChangingStation, error) {
	unlock := s.locks.Lock(stationID)
	defer unlock()

	station, err := s.stations.GetByID(ctx, stationID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ListByStation(ctx, stationID)
	if err != nil {
		return nil, err
	}

	applyConsensus(station, reviews)
	station.UpdatedAt = time.Now().UTC()

	if err := s.stations.Update(ctx, station); err != nil {
		return nil, err
	}
	return station, nil
}

// applyConsensus mutates the station's aggregate fields in place.
//
// Verification is deliberately asymmetric: a negative majority flips
// has-changing-station back to false but never clears verified, so a wave
// of stale negative reviews cannot erase prior crowd confirmation.
// Guaranteed chains are already authoritative and are never marked
// crowd-verified.
func applyConsensus(station *entities.ChangingStation, reviews []*entities.Review) {
	if len(reviews) == 0 {
		station.Rating = 0
		station.ReviewCount = 0
		station.NegativeReportCount = 0
		return
	}

	sum := 0
	positive := 0
	negative := 0
	for _, review := range reviews {
		sum += review.Rating
		if review.ConfirmHasStation {
			positive++
		}
		if review.ReportNoStation {
			negative++
		}
	}

	station.Rating = roundToOneDecimal(float64(sum) / float64(len(reviews)))
	station.ReviewCount = len(reviews)
	station.NegativeReportCount = negative

	switch {
	case negative > positive:
		station.HasChangingStation = entities.TriFalse
	case positive > 0:
		station.HasChangingStation = entities.TriTrue
		if !station.GuaranteedChain {
			station.Verified = true
		}
	}
	// No signal either way (positive == 0, negative <= positive): flags
	// stay as they are.
}

func roundToOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
