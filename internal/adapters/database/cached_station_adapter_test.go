package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neststop/backend/internal/adapters/memory"
	"github.com/neststop/backend/internal/domain/entities"
	"github.com/neststop/backend/internal/domain/repositories"
)

// mapCache is an in-memory CacheProvider. setDelay simulates a slow cache
// write so ordering between fills and invalidations is observable.
type mapCache struct {
	mu       sync.Mutex
	entries  map[string][]byte
	setDelay time.Duration
	getCalls int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]byte)}
}

func (c *mapCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.getCalls++
	if value, ok := c.entries[key]; ok {
		return value, nil
	}
	return nil, assert.AnError
}

func (c *mapCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	if c.setDelay > 0 {
		time.Sleep(c.setDelay)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *mapCache) GetMulti(ctx context.Context, keys []string) (map[string][]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make(map[string][]byte)
	for _, key := range keys {
		if value, ok := c.entries[key]; ok {
			result[key] = value
		}
	}
	return result, nil
}

func (c *mapCache) SetMulti(ctx context.Context, items map[string][]byte, expirationSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, value := range items {
		c.entries[key] = value
	}
	return nil
}

func (c *mapCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *mapCache) DeletePattern(ctx context.Context, pattern string) error {
	return nil
}

func (c *mapCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok, nil
}

func (c *mapCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	return 0, nil
}

// countingStationRepo counts reads that reach the underlying store.
type countingStationRepo struct {
	repositories.StationRepository
	getByIDCalls int
}

func (r *countingStationRepo) GetByID(ctx context.Context, id string) (*entities.ChangingStation, error) {
	r.getByIDCalls++
	return r.StationRepository.GetByID(ctx, id)
}

func seedCachedStation(t *testing.T, store *memory.StationStore) *entities.ChangingStation {
	t.Helper()

	station := &entities.ChangingStation{
		ID:                 "st_001",
		Name:               "Joe's Diner",
		Location:           entities.Location{Latitude: 36.1513, Longitude: -86.8025},
		HasChangingStation: entities.TriTrue,
		CreatedAt:          time.Now().UTC(),
		UpdatedAt:          time.Now().UTC(),
	}
	require.NoError(t, store.Create(context.Background(), station))
	return station
}

func TestCachedStationAdapter_GetByID_ServesSecondReadFromCache(t *testing.T) {
	store := memory.NewStationStore()
	seedCachedStation(t, store)

	counting := &countingStationRepo{StationRepository: store}
	cache := newMapCache()
	adapter := NewCachedStationAdapter(counting, cache)

	first, err := adapter.GetByID(context.Background(), "st_001")
	require.NoError(t, err)
	second, err := adapter.GetByID(context.Background(), "st_001")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, counting.getByIDCalls)
}

// A read issued after Update must see the updated row even when the cache
// write for an earlier read is slow. The fill happens before GetByID
// returns, so it can never land after a later invalidation and resurrect
// a pre-update snapshot.
func TestCachedStationAdapter_UpdateWinsOverSlowCacheFill(t *testing.T) {
	store := memory.NewStationStore()
	station := seedCachedStation(t, store)

	cache := newMapCache()
	cache.setDelay = 30 * time.Millisecond
	adapter := NewCachedStationAdapter(store, cache)

	// Warm the cache with the unverified snapshot.
	_, err := adapter.GetByID(context.Background(), "st_001")
	require.NoError(t, err)

	// Crowd verification flips the flags and invalidates.
	station.Verified = true
	station.HasChangingStation = entities.TriTrue
	require.NoError(t, adapter.Update(context.Background(), station))

	// Wait out the window in which a deferred fill could have landed.
	time.Sleep(100 * time.Millisecond)

	got, err := adapter.GetByID(context.Background(), "st_001")
	require.NoError(t, err)
	assert.True(t, got.Verified, "update must not be shadowed by an earlier read's cache fill")
}

func TestCachedStationAdapter_FindNearBypassesCache(t *testing.T) {
	store := memory.NewStationStore()
	seedCachedStation(t, store)

	cache := newMapCache()
	adapter := NewCachedStationAdapter(store, cache)

	found, err := adapter.FindNear(context.Background(), 36.1513, -86.8025, 0.0001)
	require.NoError(t, err)
	assert.Equal(t, "st_001", found.ID)
	assert.Zero(t, cache.getCalls)
}
