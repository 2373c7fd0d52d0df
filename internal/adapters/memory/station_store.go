package memory

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/neststop/backend/internal/domain/entities"
	"github.com/neststop/backend/internal/domain/repositories"
	apperrors "github.com/neststop/backend/pkg/errors"
	"github.com/neststop/backend/pkg/geo"
)

// StationStore is an in-memory StationRepository. It backs the test suite
// and local development; the Postgres adapter is the durable twin behind
// the same interface.
type StationStore struct {
	mu       sync.RWMutex
	stations map[string]*entities.ChangingStation
	order    []string
}

// NewStationStore creates an empty in-memory station store.
func NewStationStore() *StationStore {
	return &StationStore{
		stations: make(map[string]*entities.ChangingStation),
	}
}

var _ repositories.StationRepository = (*StationStore)(nil)

// Create persists a new station
func (s *StationStore) Create(ctx context.Context, station *entities.ChangingStation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.stations[station.ID]; exists {
		return apperrors.NewConflictError(fmt.Sprintf("station with id %s already exists", station.ID))
	}

	copied := *station
	s.stations[station.ID] = &copied
	s.order = append(s.order, station.ID)
	return nil
}

// GetByID retrieves a station by id
func (s *StationStore) GetByID(ctx context.Context, id string) (*entities.ChangingStation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	station, ok := s.stations[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("station with id %s not found", id))
	}
	copied := *station
	return &copied, nil
}

// GetAll retrieves every station in insertion order
func (s *StationStore) GetAll(ctx context.Context) ([]*entities.ChangingStation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stations := make([]*entities.ChangingStation, 0, len(s.order))
	for _, id := range s.order {
		copied := *s.stations[id]
		stations = append(stations, &copied)
	}
	return stations, nil
}

// Update persists station mutations
func (s *StationStore) Update(ctx context.Context, station *entities.ChangingStation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stations[station.ID]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("station with id %s not found", station.ID))
	}
	copied := *station
	s.stations[station.ID] = &copied
	return nil
}

// FindNear returns the first station within eps degrees on both axes
func (s *StationStore) FindNear(ctx context.Context, lat, lng, eps float64) (*entities.ChangingStation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		station := s.stations[id]
		if math.Abs(station.Location.Latitude-lat) < eps && math.Abs(station.Location.Longitude-lng) < eps {
			copied := *station
			return &copied, nil
		}
	}
	return nil, apperrors.NewNotFoundError("no station near coordinates")
}

// SearchByText returns stations whose name or address contains the query
func (s *StationStore) SearchByText(ctx context.Context, query string, limit int) ([]*entities.ChangingStation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lower := strings.ToLower(query)
	results := []*entities.ChangingStation{}
	for _, id := range s.order {
		station := s.stations[id]
		if strings.Contains(strings.ToLower(station.Name), lower) ||
			strings.Contains(strings.ToLower(station.Address), lower) {
			copied := *station
			results = append(results, &copied)
			if limit > 0 && len(results) >= limit {
				break
			}
		}
	}
	return results, nil
}

// Nearby returns stations within radiusKm of the point
func (s *StationStore) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]*entities.ChangingStation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []*entities.ChangingStation{}
	for _, id := range s.order {
		station := s.stations[id]
		if geo.DistanceKm(lat, lng, station.Location.Latitude, station.Location.Longitude) <= radiusKm {
			copied := *station
			results = append(results, &copied)
		}
	}
	return results, nil
}
