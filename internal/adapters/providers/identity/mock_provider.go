package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/neststop/backend/internal/domain/providers"
)

// MockIdentityProvider accepts any non-empty token for local development.
// The external id is derived from the token so repeat sign-ins map to the
// same user.
type MockIdentityProvider struct{}

// NewMockIdentityProvider creates a new mock identity provider
func NewMockIdentityProvider() providers.IdentityProvider {
	return &MockIdentityProvider{}
}

// Verify accepts the token and derives a stable external id from it
func (m *MockIdentityProvider) Verify(ctx context.Context, identityToken string) (*providers.Identity, error) {
	if identityToken == "" {
		return nil, fmt.Errorf("identity token is required")
	}

	sum := sha256.Sum256([]byte(identityToken))
	return &providers.Identity{
		ExternalID: "mock-" + hex.EncodeToString(sum[:8]),
	}, nil
}
