package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/neststop/backend/internal/domain/entities"
	"github.com/neststop/backend/internal/domain/providers"
	"github.com/neststop/backend/internal/domain/repositories"
)

// CachedStationAdapter wraps a StationRepository with read-through caching.
// Only the whole-entity reads are cached; FindNear always hits the
// underlying store because reconciliation must never dedupe against a stale
// snapshot.
type CachedStationAdapter struct {
	adapter repositories.StationRepository
	cache   providers.CacheProvider
}

// NewCachedStationAdapter creates a new cached station adapter
func NewCachedStationAdapter(adapter repositories.StationRepository, cache providers.CacheProvider) repositories.StationRepository {
	return &CachedStationAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds)
const (
	stationByIDTTL  = 300 // 5 minutes for single station
	stationsListTTL = 180 // 3 minutes for the full list
)

func stationCacheKey(id string) string {
	return fmt.Sprintf("station:%s", id)
}

const stationsListCacheKey = "stations:list:all"

// GetByID retrieves a station by ID with caching
func (a *CachedStationAdapter) GetByID(ctx context.Context, id string) (*entities.ChangingStation, error) {
	cacheKey := stationCacheKey(id)

	// Try to get from cache first
	if cached, err := a.cache.Get(ctx, cacheKey); err == nil && len(cached) > 0 {
		var station entities.ChangingStation
		if err := json.Unmarshal(cached, &station); err == nil {
			return &station, nil
		}
		// If unmarshal fails, continue to fetch from DB
		log.Printf("Failed to unmarshal cached station %s: %v", id, err)
	}

	// Cache miss - fetch from database
	station, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Fill the cache before returning. A deferred fill could land after a
	// later Update's invalidation and resurrect the pre-update snapshot,
	// which would let a consensus recompute write stale flags back.
	if data, err := json.Marshal(station); err == nil {
		if err := a.cache.Set(ctx, cacheKey, data, stationByIDTTL); err != nil {
			log.Printf("Failed to cache station %s: %v", id, err)
		}
	}

	return station, nil
}

// GetAll retrieves every station with caching
func (a *CachedStationAdapter) GetAll(ctx context.Context) ([]*entities.ChangingStation, error) {
	// Try to get from cache first
	if cached, err := a.cache.Get(ctx, stationsListCacheKey); err == nil && len(cached) > 0 {
		var stations []*entities.ChangingStation
		if err := json.Unmarshal(cached, &stations); err == nil {
			return stations, nil
		}
		log.Printf("Failed to unmarshal cached station list: %v", err)
	}

	// Cache miss - fetch from database
	stations, err := a.adapter.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	// Fill before returning, same ordering guarantee as GetByID.
	if data, err := json.Marshal(stations); err == nil {
		if err := a.cache.Set(ctx, stationsListCacheKey, data, stationsListTTL); err != nil {
			log.Printf("Failed to cache station list: %v", err)
		}
	}

	return stations, nil
}

// Create creates a station and invalidates the list cache
func (a *CachedStationAdapter) Create(ctx context.Context, station *entities.ChangingStation) error {
	if err := a.adapter.Create(ctx, station); err != nil {
		return err
	}

	if err := a.cache.Delete(ctx, stationsListCacheKey); err != nil {
		log.Printf("Failed to invalidate station list cache: %v", err)
	}

	return nil
}

// Update updates a station and invalidates its caches before returning, so
// a read issued after Update never sees the pre-update entry.
func (a *CachedStationAdapter) Update(ctx context.Context, station *entities.ChangingStation) error {
	if err := a.adapter.Update(ctx, station); err != nil {
		return err
	}

	if err := a.cache.Delete(ctx, stationCacheKey(station.ID)); err != nil {
		log.Printf("Failed to invalidate station cache %s: %v", station.ID, err)
	}
	if err := a.cache.Delete(ctx, stationsListCacheKey); err != nil {
		log.Printf("Failed to invalidate station list cache: %v", err)
	}

	return nil
}

// FindNear always reads the underlying store. Caching here would let two
// near-simultaneous submissions create duplicate stations.
func (a *CachedStationAdapter) FindNear(ctx context.Context, lat, lng, eps float64) (*entities.ChangingStation, error) {
	return a.adapter.FindNear(ctx, lat, lng, eps)
}

// SearchByText passes through; text search is covered by the HTTP response
// cache with a short TTL.
func (a *CachedStationAdapter) SearchByText(ctx context.Context, query string, limit int) ([]*entities.ChangingStation, error) {
	return a.adapter.SearchByText(ctx, query, limit)
}

// Nearby passes through for the same reason as SearchByText.
func (a *CachedStationAdapter) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]*entities.ChangingStation, error) {
	return a.adapter.Nearby(ctx, lat, lng, radiusKm)
}
