package services

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/neststop/backend/internal/domain/entities"
	"github.com/neststop/backend/internal/domain/providers"
	"github.com/neststop/backend/internal/domain/repositories"
	apperrors "github.com/neststop/backend/pkg/errors"
	"github.com/neststop/backend/pkg/geo"
)

// StationService handles business logic for persisted changing stations.
type StationService struct {
	repo       repositories.StationRepository
	searchRepo repositories.StationSearchRepository
	reconciler *ReconciliationService
	eventBus   providers.EventBus
}

// NewStationService creates a new station service
func NewStationService(
	repo repositories.StationRepository,
	searchRepo repositories.StationSearchRepository,
	reconciler *ReconciliationService,
	eventBus providers.EventBus,
) *StationService {
	return &StationService{
		repo:       repo,
		searchRepo: searchRepo,
		reconciler: reconciler,
		eventBus:   eventBus,
	}
}

// GetByID retrieves a station by ID
func (s *StationService) GetByID(ctx context.Context, id string) (*entities.ChangingStation, error) {
	return s.repo.GetByID(ctx, id)
}

// GetAll retrieves every station
func (s *StationService) GetAll(ctx context.Context) ([]*entities.ChangingStation, error) {
	return s.repo.GetAll(ctx)
}

// Nearby returns stations within radiusKm of the point, nearest first.
func (s *StationService) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]*entities.ChangingStation, error) {
	if radiusKm <= 0 {
		return nil, apperrors.NewValidationError("radius must be positive")
	}

	stations, err := s.repo.Nearby(ctx, lat, lng, radiusKm)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(stations, func(i, j int) bool {
		di := geo.DistanceKm(lat, lng, stations[i].Location.Latitude, stations[i].Location.Longitude)
		dj := geo.DistanceKm(lat, lng, stations[j].Location.Latitude, stations[j].Location.Longitude)
		return di < dj
	})
	return stations, nil
}

// SearchByText searches stations using the search engine if available,
// falling back to the database on index failure.
func (s *StationService) SearchByText(ctx context.Context, query string, limit int) ([]*entities.ChangingStation, error) {
	if limit <= 0 {
		limit = 20
	}

	if s.searchRepo != nil {
		results, err := s.searchRepo.SearchByText(ctx, query, limit)
		if err == nil {
			return results, nil
		}
		log.Printf("Warning: search index query failed, falling back to database: %v", err)
	}
	return s.repo.SearchByText(ctx, query, limit)
}

// Create persists a station for a user-submitted place. The candidate goes
// through reconciliation, so adding a place that already exists returns the
// existing station instead of a duplicate.
func (s *StationService) Create(ctx context.Context, candidate *entities.PlaceCandidate) (*entities.ChangingStation, error) {
	station, err := s.reconciler.FindOrCreate(ctx, candidate)
	if err != nil {
		return nil, err
	}

	s.index(ctx, station)
	s.publish(ctx, entities.StationEventCreated, station)
	return station, nil
}

// Reindex re-upserts a station into the search index.
func (s *StationService) Reindex(ctx context.Context, station *entities.ChangingStation) {
	s.index(ctx, station)
}

func (s *StationService) index(ctx context.Context, station *entities.ChangingStation) {
	if s.searchRepo == nil {
		return
	}
	if err := s.searchRepo.Index(ctx, station); err != nil {
		// Eventual consistency: the indexer catches up later.
		log.Printf("Warning: Failed to index station %s: %v", station.ID, err)
	}
}

func (s *StationService) publish(ctx context.Context, eventType entities.StationEventType, station *entities.ChangingStation) {
	publishStationEvent(ctx, s.eventBus, eventType, station)
}

// publishStationEvent broadcasts an event on the global channel and the
// station's own channel. Publish failures are logged, never propagated.
func publishStationEvent(ctx context.Context, bus providers.EventBus, eventType entities.StationEventType, station *entities.ChangingStation) {
	if bus == nil {
		return
	}

	event := &entities.StationEvent{
		ID:        uuid.New().String(),
		EventType: eventType,
		StationID: station.ID,
		Location:  station.Location,
		Station:   station,
		Timestamp: time.Now().UTC(),
	}

	if err := bus.Publish(ctx, providers.EventChannelStationUpdates, event); err != nil {
		log.Printf("Warning: Failed to publish %s event for station %s: %v", eventType, station.ID, err)
	}
	if err := bus.Publish(ctx, providers.GetStationChannel(station.ID), event); err != nil {
		log.Printf("Warning: Failed to publish %s event to station channel %s: %v", eventType, station.ID, err)
	}
}
