package handlers

import (
	"net/http"
	"strconv"

	"github.com/neststop/backend/internal/application/services"
)

// CandidateHandler serves the ranked place-candidate search behind the map
// view.
type CandidateHandler struct {
	searchService *services.PlaceSearchService
}

// NewCandidateHandler creates a new candidate handler
func NewCandidateHandler(searchService *services.PlaceSearchService) *CandidateHandler {
	return &CandidateHandler{
		searchService: searchService,
	}
}

// SearchCandidates handles GET /api/candidates/search
func (h *CandidateHandler) SearchCandidates(w http.ResponseWriter, r *http.Request) {
	lat, lng, ok := parseCoordinates(w, r)
	if !ok {
		return
	}

	radiusMeters := 0
	if raw := r.URL.Query().Get("radius_km"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 || parsed > 100 {
			respondWithError(w, http.StatusBadRequest, "radius_km must be greater than 0 and at most 100")
			return
		}
		radiusMeters = int(parsed * 1000)
	}

	candidates, err := h.searchService.SearchNearby(r.Context(), lat, lng, radiusMeters, r.URL.Query().Get("query"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to search places")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"candidates": candidates,
		"count":      len(candidates),
	})
}
