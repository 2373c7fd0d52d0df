package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/neststop/backend/internal/application/services"
	"github.com/neststop/backend/internal/domain/entities"
)

// ReviewHandler handles review submissions.
type ReviewHandler struct {
	reviewService *services.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

type submitReviewRequest struct {
	StationID string                   `json:"station_id,omitempty"`
	Candidate *entities.PlaceCandidate `json:"candidate,omitempty"`
	Review    *entities.Review         `json:"review"`
}

// SubmitReview handles POST /api/reviews
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var payload submitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.reviewService.Submit(r.Context(), &services.SubmitReviewInput{
		StationID: payload.StationID,
		Candidate: payload.Candidate,
		Review:    payload.Review,
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"review":  result.Review,
		"station": result.Station,
	})
}
