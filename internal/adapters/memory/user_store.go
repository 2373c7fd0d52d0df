package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/neststop/backend/internal/domain/entities"
	"github.com/neststop/backend/internal/domain/repositories"
	apperrors "github.com/neststop/backend/pkg/errors"
)

// UserStore is an in-memory UserRepository keyed by external id.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]*entities.User
}

// NewUserStore creates an empty in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]*entities.User)}
}

var _ repositories.UserRepository = (*UserStore)(nil)

// UpsertByExternalID creates or refreshes the user row for an external id.
// An empty incoming name keeps the stored one.
func (s *UserStore) UpsertByExternalID(ctx context.Context, user *entities.User) (*entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.users[user.ExternalID]; ok {
		updated := *existing
		if user.Name != "" {
			updated.Name = user.Name
		}
		if user.Email != "" {
			updated.Email = user.Email
		}
		updated.UpdatedAt = user.UpdatedAt
		s.users[user.ExternalID] = &updated
		copied := updated
		return &copied, nil
	}

	copied := *user
	s.users[user.ExternalID] = &copied
	result := copied
	return &result, nil
}

// GetByExternalID retrieves a user by external id
func (s *UserStore) GetByExternalID(ctx context.Context, externalID string) (*entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[externalID]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user with external id %s not found", externalID))
	}
	copied := *user
	return &copied, nil
}
