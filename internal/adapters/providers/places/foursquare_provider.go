package places

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/neststop/backend/internal/domain/entities"
	"github.com/neststop/backend/internal/domain/providers"
)

const (
	foursquareSearchURL   = "https://api.foursquare.com/v3/places/search"
	searchCacheTTLSeconds = 300
	defaultHTTPTimeout    = 8 * time.Second
	maxResults            = 50

	// externalIDPrefix marks candidate ids as Foursquare-sourced so station
	// ids stay unambiguous if another provider is added.
	externalIDPrefix = "fsq:"
)

// FoursquarePlacesProvider implements PlacesProvider using the Foursquare
// Places API. Responses are cached briefly so map pans over the same area
// don't re-hit the API.
type FoursquarePlacesProvider struct {
	apiKey     string
	httpClient *http.Client
	cache      providers.CacheProvider
	baseURL    string
}

// NewFoursquarePlacesProvider creates a new Foursquare places provider.
func NewFoursquarePlacesProvider(apiKey string, cache providers.CacheProvider) providers.PlacesProvider {
	return NewFoursquarePlacesProviderWithOptions(apiKey, cache, foursquareSearchURL, nil)
}

// NewFoursquarePlacesProviderWithOptions allows overriding base URL and HTTP client (used for tests).
func NewFoursquarePlacesProviderWithOptions(apiKey string, cache providers.CacheProvider, baseURL string, httpClient *http.Client) providers.PlacesProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = foursquareSearchURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &FoursquarePlacesProvider{
		apiKey:     apiKey,
		httpClient: httpClient,
		cache:      cache,
		baseURL:    baseURL,
	}
}

// Search returns place candidates around a point.
func (p *FoursquarePlacesProvider) Search(ctx context.Context, lat, lng float64, radiusMeters int, query string) ([]*entities.PlaceCandidate, error) {
	if p.apiKey == "" {
		// No credentials: behave as an empty provider rather than erroring
		// on every request.
		return []*entities.PlaceCandidate{}, nil
	}

	cacheKey := "places:v1:search:" + hashKey(fmt.Sprintf("%.4f:%.4f:%d:%s", lat, lng, radiusMeters, strings.ToLower(query)))
	if p.cache != nil {
		if cached, err := p.cache.Get(ctx, cacheKey); err == nil && len(cached) > 0 {
			var candidates []*entities.PlaceCandidate
			if err := json.Unmarshal(cached, &candidates); err == nil {
				return candidates, nil
			}
		}
	}

	params := url.Values{}
	params.Set("ll", fmt.Sprintf("%f,%f", lat, lng))
	params.Set("radius", strconv.Itoa(radiusMeters))
	params.Set("limit", strconv.Itoa(maxResults))
	params.Set("fields", "fsq_id,name,location,geocodes,categories,chains,distance,hours")
	if query != "" {
		params.Set("query", query)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build places request: %w", err)
	}
	req.Header.Set("Authorization", p.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("places API returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload foursquareSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode places response: %w", err)
	}

	candidates := make([]*entities.PlaceCandidate, 0, len(payload.Results))
	for _, result := range payload.Results {
		candidates = append(candidates, candidateFromResult(result))
	}

	if p.cache != nil {
		if data, err := json.Marshal(candidates); err == nil {
			_ = p.cache.Set(ctx, cacheKey, data, searchCacheTTLSeconds)
		}
	}

	return candidates, nil
}

type foursquareSearchResponse struct {
	Results []foursquareResult `json:"results"`
}

type foursquareResult struct {
	FsqID    string `json:"fsq_id"`
	Name     string `json:"name"`
	Distance *int   `json:"distance,omitempty"`
	Location struct {
		FormattedAddress string `json:"formatted_address"`
	} `json:"location"`
	Geocodes struct {
		Main struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"main"`
	} `json:"geocodes"`
	Categories []struct {
		Name string `json:"name"`
	} `json:"categories"`
	Chains []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"chains"`
	Hours *struct {
		OpenNow *bool           `json:"open_now,omitempty"`
		Display string          `json:"display,omitempty"`
		Regular json.RawMessage `json:"regular,omitempty"`
	} `json:"hours,omitempty"`
}

func candidateFromResult(result foursquareResult) *entities.PlaceCandidate {
	candidate := &entities.PlaceCandidate{
		ExternalID: externalIDPrefix + result.FsqID,
		Name:       result.Name,
		Address:    result.Location.FormattedAddress,
		Location: entities.Location{
			Latitude:  result.Geocodes.Main.Latitude,
			Longitude: result.Geocodes.Main.Longitude,
		},
	}

	for _, category := range result.Categories {
		candidate.Categories = append(candidate.Categories, category.Name)
	}
	for _, chain := range result.Chains {
		candidate.ChainIDs = append(candidate.ChainIDs, chain.ID)
	}
	if result.Distance != nil {
		meters := float64(*result.Distance)
		candidate.DistanceMeters = &meters
	}
	if result.Hours != nil {
		candidate.Open = result.Hours.OpenNow
		if len(result.Hours.Regular) > 0 {
			candidate.Hours = result.Hours.Regular
		}
	}

	return candidate
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
