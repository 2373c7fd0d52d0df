package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/neststop/backend/internal/domain/providers"
	"github.com/neststop/backend/internal/domain/repositories"
)

// CacheWarmingService pre-populates the cache with the station data every
// map load reads.
type CacheWarmingService struct {
	stationRepo repositories.StationRepository
	cache       providers.CacheProvider
}

// NewCacheWarmingService creates a new cache warming service
func NewCacheWarmingService(
	stationRepo repositories.StationRepository,
	cache providers.CacheProvider,
) *CacheWarmingService {
	return &CacheWarmingService{
		stationRepo: stationRepo,
		cache:       cache,
	}
}

// WarmCache warms the cache with frequently accessed data
func (s *CacheWarmingService) WarmCache(ctx context.Context) error {
	log.Println("Starting cache warming...")

	stations, err := s.stationRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch stations: %w", err)
	}

	// Cache each station individually using batch operation
	items := make(map[string][]byte)
	for _, station := range stations {
		data, err := json.Marshal(station)
		if err != nil {
			log.Printf("Failed to marshal station %s: %v", station.ID, err)
			continue
		}
		items[fmt.Sprintf("station:%s", station.ID)] = data
	}

	// Batch set to cache with 5 minute TTL
	if len(items) > 0 {
		if err := s.cache.SetMulti(ctx, items, 300); err != nil {
			return fmt.Errorf("failed to cache stations: %w", err)
		}
		log.Printf("Warmed cache with %d stations", len(items))
	}

	// Cache the full list as served by GET /api/stations
	if data, err := json.Marshal(stations); err == nil {
		if err := s.cache.Set(ctx, "stations:list:all", data, 180); err != nil {
			log.Printf("Failed to cache station list: %v", err)
		}
	}

	log.Println("Cache warming completed")
	return nil
}

// StartPeriodicWarming starts a background goroutine that periodically warms the cache
func (s *CacheWarmingService) StartPeriodicWarming(ctx context.Context, interval time.Duration) {
	// Initial warming
	if err := s.WarmCache(ctx); err != nil {
		log.Printf("Initial cache warming failed: %v", err)
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Println("Stopping cache warming service")
				return
			case <-ticker.C:
				if err := s.WarmCache(context.Background()); err != nil {
					log.Printf("Periodic cache warming failed: %v", err)
				}
			}
		}
	}()
	log.Printf("Started periodic cache warming every %v", interval)
}

// WarmSpecificStation warms cache for a single station
func (s *CacheWarmingService) WarmSpecificStation(ctx context.Context, stationID string) error {
	station, err := s.stationRepo.GetByID(ctx, stationID)
	if err != nil {
		return fmt.Errorf("failed to fetch station: %w", err)
	}

	data, err := json.Marshal(station)
	if err != nil {
		return fmt.Errorf("failed to marshal station: %w", err)
	}

	if err := s.cache.Set(ctx, fmt.Sprintf("station:%s", stationID), data, 300); err != nil {
		return fmt.Errorf("failed to cache station data: %w", err)
	}

	log.Printf("Warmed cache for station %s", stationID)
	return nil
}

// InvalidateCache invalidates all cached station data (useful after bulk updates)
func (s *CacheWarmingService) InvalidateCache(ctx context.Context) error {
	patterns := []string{
		"station:*",
		"stations:*",
	}

	for _, pattern := range patterns {
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			log.Printf("Failed to invalidate cache pattern %s: %v", pattern, err)
		}
	}

	log.Println("Cache invalidated")
	return nil
}
