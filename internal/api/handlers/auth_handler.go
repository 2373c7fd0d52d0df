package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/neststop/backend/internal/application/services"
)

// AuthHandler handles sign-in requests.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type appleSignInRequest struct {
	IdentityToken string `json:"identity_token"`
	Name          string `json:"name,omitempty"`
}

// AppleSignIn handles POST /api/auth/apple
func (h *AuthHandler) AppleSignIn(w http.ResponseWriter, r *http.Request) {
	var payload appleSignInRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := h.authService.SignIn(r.Context(), payload.IdentityToken, payload.Name)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}
