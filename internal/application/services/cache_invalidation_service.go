package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/neststop/backend/internal/domain/entities"
	"github.com/neststop/backend/internal/domain/providers"
)

// CacheInvalidationService handles cache invalidation based on events
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins listening for events and invalidating cache
func (s *CacheInvalidationService) Start() error {
	// Subscribe to global station updates
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelStationUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to station updates: %w", err)
	}

	go s.processEvents(eventChan)
	log.Println("Cache invalidation service started")
	return nil
}

// Stop stops the cache invalidation service
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	log.Println("Cache invalidation service stopped")
}

// processEvents processes station events and invalidates cache accordingly
func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.StationEvent) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event := <-eventChan:
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

// handleEvent handles a single station event
func (s *CacheInvalidationService) handleEvent(event *entities.StationEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Printf("Processing cache invalidation for event: %s (station: %s, type: %s)",
		event.ID, event.StationID, event.EventType)

	// Only the station detail cache is invalidated for immediate consistency.
	// Search and nearby caches carry short TTLs and refresh naturally;
	// clearing them on every consensus update would cause a cache stampede.
	// Connected clients get the update over SSE either way.
	stationPattern := fmt.Sprintf("http:cache:*stations/%s*", event.StationID)
	if err := s.cache.DeletePattern(ctx, stationPattern); err != nil {
		log.Printf("Warning: Failed to invalidate station cache for %s: %v", event.StationID, err)
	} else {
		log.Printf("Invalidated station cache for %s", event.StationID)
	}
}

// InvalidateSearchCaches invalidates all search-related caches
// This should only be called during maintenance or major data updates
func (s *CacheInvalidationService) InvalidateSearchCaches(ctx context.Context) error {
	patterns := []string{
		"http:cache:*search*",
		"http:cache:*nearby*",
	}

	for _, pattern := range patterns {
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			return fmt.Errorf("failed to invalidate pattern %s: %w", pattern, err)
		}
		log.Printf("Invalidated cache pattern: %s", pattern)
	}

	return nil
}

// InvalidateStationCache invalidates cache for a specific station
func (s *CacheInvalidationService) InvalidateStationCache(ctx context.Context, stationID string) error {
	pattern := fmt.Sprintf("http:cache:*stations/%s*", stationID)
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		return fmt.Errorf("failed to invalidate station cache: %w", err)
	}
	log.Printf("Invalidated station cache for %s", stationID)
	return nil
}
