package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchPayload = `{
	"results": [
		{
			"fsq_id": "abc123",
			"name": "Target",
			"distance": 350,
			"location": {"formatted_address": "100 Main St, Nashville, TN"},
			"geocodes": {"main": {"latitude": 36.1513, "longitude": -86.8025}},
			"categories": [{"name": "Department Store"}],
			"chains": [{"id": "chain-1", "name": "Target"}],
			"hours": {"open_now": true}
		},
		{
			"fsq_id": "def456",
			"name": "Joe's Diner",
			"location": {"formatted_address": "3 Oak Ave"},
			"geocodes": {"main": {"latitude": 36.1514, "longitude": -86.8026}},
			"categories": [{"name": "Restaurant"}]
		}
	]
}`

func TestFoursquareSearch_MapsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.URL.Query().Get("ll"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchPayload))
	}))
	defer server.Close()

	provider := NewFoursquarePlacesProviderWithOptions("test-key", nil, server.URL, server.Client())

	candidates, err := provider.Search(context.Background(), 36.1513, -86.8025, 1000, "")
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	target := candidates[0]
	assert.Equal(t, "fsq:abc123", target.ExternalID)
	assert.Equal(t, "Target", target.Name)
	assert.Equal(t, "100 Main St, Nashville, TN", target.Address)
	assert.Equal(t, 36.1513, target.Location.Latitude)
	assert.Equal(t, []string{"Department Store"}, target.Categories)
	assert.Equal(t, []string{"chain-1"}, target.ChainIDs)
	require.NotNil(t, target.DistanceMeters)
	assert.Equal(t, 350.0, *target.DistanceMeters)
	require.NotNil(t, target.Open)
	assert.True(t, *target.Open)

	diner := candidates[1]
	assert.Equal(t, "fsq:def456", diner.ExternalID)
	assert.Nil(t, diner.DistanceMeters)
	assert.Nil(t, diner.Open)
}

func TestFoursquareSearch_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := NewFoursquarePlacesProviderWithOptions("test-key", nil, server.URL, server.Client())

	_, err := provider.Search(context.Background(), 36.15, -86.80, 1000, "")
	assert.Error(t, err)
}

func TestFoursquareSearch_MissingAPIKey(t *testing.T) {
	provider := NewFoursquarePlacesProviderWithOptions("", nil, "http://unreachable.invalid", nil)

	candidates, err := provider.Search(context.Background(), 36.15, -86.80, 1000, "")
	require.NoError(t, err)
	assert.Empty(t, candidates)
}
