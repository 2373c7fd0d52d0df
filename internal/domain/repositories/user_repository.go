package repositories

import (
	"context"

	"github.com/neststop/backend/internal/domain/entities"
)

// UserRepository defines user persistence keyed by the identity provider's
// stable external id.
type UserRepository interface {
	// UpsertByExternalID creates or refreshes the user row for an external id
	UpsertByExternalID(ctx context.Context, user *entities.User) (*entities.User, error)

	// GetByExternalID retrieves a user by external id
	GetByExternalID(ctx context.Context, externalID string) (*entities.User, error)
}
