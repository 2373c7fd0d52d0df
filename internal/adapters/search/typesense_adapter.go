package search

import (
	"context"
	"fmt"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/neststop/backend/internal/domain/entities"
	"github.com/neststop/backend/internal/domain/repositories"
	tsclient "github.com/neststop/backend/internal/infrastructure/clients/typesense"
)

const collectionName = tsclient.StationsCollection

// TypesenseAdapter implements station text search using Typesense. The
// database remains the source of truth; this index only serves queries.
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ repositories.StationSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// Index upserts a station document
func (a *TypesenseAdapter) Index(ctx context.Context, station *entities.ChangingStation) error {
	document := StationDocument(station)

	_, err := a.client.Client().Collection(collectionName).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index station: %w", err)
	}

	return nil
}

// Delete removes a station from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(collectionName).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete station from index: %w", err)
	}
	return nil
}

// SearchByText searches stations by free text over name and address
func (a *TypesenseAdapter) SearchByText(ctx context.Context, query string, limit int) ([]*entities.ChangingStation, error) {
	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("name,address"),
		PerPage: pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search stations: %w", err)
	}

	stations := []*entities.ChangingStation{}
	if result.Hits == nil {
		return stations, nil
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		stations = append(stations, stationFromDocument(*hit.Document))
	}

	return stations, nil
}

// StationDocument maps a station to its index document
func StationDocument(station *entities.ChangingStation) map[string]interface{} {
	return map[string]interface{}{
		"id":                   station.ID,
		"name":                 station.Name,
		"address":              station.Address,
		"location":             []float64{station.Location.Latitude, station.Location.Longitude},
		"rating":               station.Rating,
		"review_count":         station.ReviewCount,
		"verified":             station.Verified,
		"guaranteed_chain":     station.GuaranteedChain,
		"has_changing_station": string(station.HasChangingStation),
		"created_at":           station.CreatedAt.Unix(),
	}
}

func stationFromDocument(doc map[string]interface{}) *entities.ChangingStation {
	station := &entities.ChangingStation{
		Accessibility: entities.TriUnknown,
		Supplies:      entities.TriUnknown,
		Open:          entities.TriUnknown,
	}

	if v, ok := doc["id"].(string); ok {
		station.ID = v
	}
	if v, ok := doc["name"].(string); ok {
		station.Name = v
	}
	if v, ok := doc["address"].(string); ok {
		station.Address = v
	}
	if loc, ok := doc["location"].([]interface{}); ok && len(loc) == 2 {
		if lat, ok := loc[0].(float64); ok {
			station.Location.Latitude = lat
		}
		if lng, ok := loc[1].(float64); ok {
			station.Location.Longitude = lng
		}
	}
	if v, ok := doc["rating"].(float64); ok {
		station.Rating = v
	}
	if v, ok := doc["review_count"].(float64); ok {
		station.ReviewCount = int(v)
	}
	if v, ok := doc["verified"].(bool); ok {
		station.Verified = v
	}
	if v, ok := doc["guaranteed_chain"].(bool); ok {
		station.GuaranteedChain = v
	}
	if v, ok := doc["has_changing_station"].(string); ok {
		station.HasChangingStation = entities.TriState(v)
	}

	return station
}
