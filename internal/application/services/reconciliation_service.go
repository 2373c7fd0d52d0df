package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/neststop/backend/internal/domain/chains"
	"github.com/neststop/backend/internal/domain/entities"
	"github.com/neststop/backend/internal/domain/repositories"
	apperrors "github.com/neststop/backend/pkg/errors"
)

// CoordinateEpsilon is the dedup tolerance in degrees. Two points whose
// latitude and longitude each differ by less than this are treated as the
// same physical location (~11m at mid-latitudes).
const CoordinateEpsilon = 0.0001

// ReconciliationService matches externally-sourced place candidates to
// persisted stations. It is the single dedup chokepoint: every path that
// turns a candidate into a station goes through FindOrCreate.
type ReconciliationService struct {
	stations repositories.StationRepository
	locks    *keyedMutex
}

// NewReconciliationService creates a new reconciliation service.
func NewReconciliationService(stations repositories.StationRepository) *ReconciliationService {
	return &ReconciliationService{
		stations: stations,
		locks:    newKeyedMutex(),
	}
}

// FindOrCreate returns the station already persisted at the candidate's
// coordinates, or creates one. An existing match is returned unchanged:
// first writer wins on identity, no field merging. The scan-then-create
// sequence is serialized per quantized coordinate bucket so two
// near-simultaneous first sightings of the same location cannot create
// duplicates.
func (s *ReconciliationService) FindOrCreate(ctx context.Context, candidate *entities.PlaceCandidate) (*entities.ChangingStation, error) {
	if candidate == nil {
		return nil, apperrors.NewValidationError("candidate is required")
	}
	if candidate.Name == "" {
		return nil, apperrors.NewValidationError("candidate name is required")
	}

	unlock := s.locks.Lock(coordinateBucket(candidate.Location))
	defer unlock()

	existing, err := s.stations.FindNear(ctx, candidate.Location.Latitude, candidate.Location.Longitude, CoordinateEpsilon)
	if err == nil {
		return existing, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, err
	}

	station := newStationFromCandidate(candidate)
	if err := s.stations.Create(ctx, station); err != nil {
		return nil, err
	}
	return station, nil
}

func newStationFromCandidate(candidate *entities.PlaceCandidate) *entities.ChangingStation {
	id := candidate.ExternalID
	if id == "" {
		id = uuid.New().String()
	}

	now := time.Now().UTC()
	return &entities.ChangingStation{
		ID:            id,
		Name:          candidate.Name,
		Address:       candidate.Address,
		Location:      candidate.Location,
		Accessibility: entities.TriUnknown,
		Supplies:      entities.TriUnknown,
		Privacy:       false,
		Hours:         candidate.Hours,
		Open:          entities.TriFromBoolPtr(candidate.Open),
		Rating:        0,
		ReviewCount:   0,
		// Optimistic default: assume the station exists until negative
		// reports outweigh confirmations.
		HasChangingStation: entities.TriTrue,
		Verified:           false,
		GuaranteedChain:    chains.IsGuaranteed(candidate.Name),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// coordinateBucket quantizes a location to the epsilon grid so all
// candidates for the same physical spot contend on one lock.
func coordinateBucket(loc entities.Location) string {
	return fmt.Sprintf("%.4f:%.4f", loc.Latitude, loc.Longitude)
}
