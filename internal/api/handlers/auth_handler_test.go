package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neststop/backend/internal/adapters/memory"
	"github.com/neststop/backend/internal/api/handlers"
	"github.com/neststop/backend/internal/application/services"
	"github.com/neststop/backend/internal/domain/entities"
	"github.com/neststop/backend/internal/domain/providers"
)

type stubIdentityProvider struct {
	identity *providers.Identity
	err      error
}

func (s *stubIdentityProvider) Verify(ctx context.Context, token string) (*providers.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.identity, nil
}

func TestAuthHandler_AppleSignIn(t *testing.T) {
	identity := &stubIdentityProvider{
		identity: &providers.Identity{ExternalID: "001234.abcdef", Email: "parent@example.com"},
	}
	authService := services.NewAuthService(identity, memory.NewUserStore())
	handler := handlers.NewAuthHandler(authService)

	body := `{"identity_token": "header.payload.sig", "name": "Jamie"}`
	req := httptest.NewRequest("POST", "/api/auth/apple", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.AppleSignIn(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var user entities.User
	require.NoError(t, json.NewDecoder(w.Body).Decode(&user))
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "001234.abcdef", user.ExternalID)
	assert.Equal(t, "Jamie", user.Name)
	assert.Equal(t, "parent@example.com", user.Email)
}

func TestAuthHandler_AppleSignIn_InvalidToken(t *testing.T) {
	identity := &stubIdentityProvider{err: errors.New("signature mismatch")}
	authService := services.NewAuthService(identity, memory.NewUserStore())
	handler := handlers.NewAuthHandler(authService)

	body := `{"identity_token": "bad.token.here"}`
	req := httptest.NewRequest("POST", "/api/auth/apple", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.AppleSignIn(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_AppleSignIn_MissingToken(t *testing.T) {
	authService := services.NewAuthService(&stubIdentityProvider{}, memory.NewUserStore())
	handler := handlers.NewAuthHandler(authService)

	req := httptest.NewRequest("POST", "/api/auth/apple", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	handler.AppleSignIn(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
