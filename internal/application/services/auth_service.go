package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/neststop/backend/internal/domain/entities"
	"github.com/neststop/backend/internal/domain/providers"
	"github.com/neststop/backend/internal/domain/repositories"
	apperrors "github.com/neststop/backend/pkg/errors"
)

// AuthService exchanges a provider identity token for a local user account.
type AuthService struct {
	identity providers.IdentityProvider
	users    repositories.UserRepository
}

// NewAuthService creates a new auth service
func NewAuthService(identity providers.IdentityProvider, users repositories.UserRepository) *AuthService {
	return &AuthService{
		identity: identity,
		users:    users,
	}
}

// SignIn verifies the identity token and upserts the user. The display name
// is only provided by Apple on first sign-in, so an empty name never
// overwrites a stored one; the repository keeps the existing value.
func (s *AuthService) SignIn(ctx context.Context, identityToken, name string) (*entities.User, error) {
	if identityToken == "" {
		return nil, apperrors.NewValidationError("identity token is required")
	}

	identity, err := s.identity.Verify(ctx, identityToken)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("identity token verification failed")
	}

	now := time.Now().UTC()
	user := &entities.User{
		ID:         uuid.New().String(),
		ExternalID: identity.ExternalID,
		Name:       name,
		Email:      identity.Email,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return s.users.UpsertByExternalID(ctx, user)
}
