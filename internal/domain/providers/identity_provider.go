package providers

import "context"

// Identity is the verified result of an identity assertion.
type Identity struct {
	ExternalID string
	Email      string
}

// IdentityProvider verifies a signed identity assertion (e.g. a Sign in
// with Apple identity token) and yields the stable external user id. Token
// validation internals are the provider's problem; the core only consumes
// the resulting id.
type IdentityProvider interface {
	Verify(ctx context.Context, identityToken string) (*Identity, error)
}
