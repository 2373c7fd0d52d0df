package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neststop/backend/internal/adapters/memory"
	"github.com/neststop/backend/internal/api/handlers"
	"github.com/neststop/backend/internal/application/services"
	"github.com/neststop/backend/internal/domain/entities"
)

type reviewHandlerFixture struct {
	stations *memory.StationStore
	reviews  *memory.ReviewStore
	handler  *handlers.ReviewHandler
}

func newReviewHandlerFixture(t *testing.T) *reviewHandlerFixture {
	t.Helper()

	stations := memory.NewStationStore()
	reviews := memory.NewReviewStore()

	reconciler := services.NewReconciliationService(stations)
	consensus := services.NewConsensusService(stations, reviews)
	reviewService := services.NewReviewService(reviews, stations, nil, reconciler, consensus, nil)

	return &reviewHandlerFixture{
		stations: stations,
		reviews:  reviews,
		handler:  handlers.NewReviewHandler(reviewService),
	}
}

func TestReviewHandler_SubmitReview_ExistingStation(t *testing.T) {
	f := newReviewHandlerFixture(t)

	station := &entities.ChangingStation{
		ID:                 "st_001",
		Name:               "Joe's Diner",
		Location:           entities.Location{Latitude: 36.1513, Longitude: -86.8025},
		HasChangingStation: entities.TriTrue,
		CreatedAt:          time.Now().UTC(),
	}
	require.NoError(t, f.stations.Create(context.Background(), station))

	body := `{
		"station_id": "st_001",
		"review": {"rating": 5, "content": "Spotless", "confirm_has_station": true}
	}`
	req := httptest.NewRequest("POST", "/api/reviews", strings.NewReader(body))
	w := httptest.NewRecorder()

	f.handler.SubmitReview(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Review  *entities.Review          `json:"review"`
		Station *entities.ChangingStation `json:"station"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.NotEmpty(t, response.Review.ID)
	assert.Equal(t, "st_001", response.Review.StationID)
	assert.Equal(t, 5.0, response.Station.Rating)
	assert.Equal(t, 1, response.Station.ReviewCount)
	assert.True(t, response.Station.Verified)
}

func TestReviewHandler_SubmitReview_WithCandidate(t *testing.T) {
	f := newReviewHandlerFixture(t)

	body := `{
		"candidate": {
			"external_id": "fsq:abc123",
			"name": "Corner Fuel Stop",
			"location": {"latitude": 36.1513, "longitude": -86.8025}
		},
		"review": {"rating": 4}
	}`
	req := httptest.NewRequest("POST", "/api/reviews", strings.NewReader(body))
	w := httptest.NewRecorder()

	f.handler.SubmitReview(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Review  *entities.Review          `json:"review"`
		Station *entities.ChangingStation `json:"station"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "fsq:abc123", response.Station.ID)
	assert.Equal(t, response.Station.ID, response.Review.StationID)

	stations, err := f.stations.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, stations, 1)
}

func TestReviewHandler_SubmitReview_InvalidRating(t *testing.T) {
	f := newReviewHandlerFixture(t)

	body := `{"station_id": "st_001", "review": {"rating": 6}}`
	req := httptest.NewRequest("POST", "/api/reviews", strings.NewReader(body))
	w := httptest.NewRecorder()

	f.handler.SubmitReview(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewHandler_SubmitReview_UnknownStation(t *testing.T) {
	f := newReviewHandlerFixture(t)

	body := `{"station_id": "st_missing", "review": {"rating": 3}}`
	req := httptest.NewRequest("POST", "/api/reviews", strings.NewReader(body))
	w := httptest.NewRecorder()

	f.handler.SubmitReview(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReviewHandler_SubmitReview_MalformedBody(t *testing.T) {
	f := newReviewHandlerFixture(t)

	req := httptest.NewRequest("POST", "/api/reviews", strings.NewReader("{"))
	w := httptest.NewRecorder()

	f.handler.SubmitReview(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
