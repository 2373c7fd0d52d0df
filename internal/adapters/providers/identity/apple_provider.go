package identity

import (
	"context"
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/neststop/backend/internal/domain/providers"
)

const (
	appleKeysURL    = "https://appleid.apple.com/auth/keys"
	appleIssuer     = "https://appleid.apple.com"
	keysCacheMaxAge = time.Hour
)

// AppleIdentityProvider verifies Sign in with Apple identity tokens against
// Apple's published JWKS. Keys are cached in-process and refreshed on a
// cache miss, so a key rotation costs one extra fetch.
type AppleIdentityProvider struct {
	bundleID   string
	httpClient *http.Client
	keysURL    string

	mu        sync.Mutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

// NewAppleIdentityProvider creates a new Apple identity provider.
func NewAppleIdentityProvider(bundleID string) providers.IdentityProvider {
	return NewAppleIdentityProviderWithOptions(bundleID, appleKeysURL, nil)
}

// NewAppleIdentityProviderWithOptions allows overriding the JWKS URL and HTTP client (used for tests).
func NewAppleIdentityProviderWithOptions(bundleID, keysURL string, httpClient *http.Client) providers.IdentityProvider {
	if keysURL == "" {
		keysURL = appleKeysURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 8 * time.Second}
	}
	return &AppleIdentityProvider{
		bundleID:   bundleID,
		httpClient: httpClient,
		keysURL:    keysURL,
		keys:       make(map[string]*rsa.PublicKey),
	}
}

type appleTokenHeader struct {
	Alg string `json:"alg"`
	Kid string `json:"kid"`
}

type appleTokenClaims struct {
	Issuer   string `json:"iss"`
	Audience string `json:"aud"`
	Subject  string `json:"sub"`
	Email    string `json:"email"`
	Expiry   int64  `json:"exp"`
}

// Verify validates the identity token's signature and claims and returns
// the stable Apple user id.
func (p *AppleIdentityProvider) Verify(ctx context.Context, identityToken string) (*providers.Identity, error) {
	parts := strings.Split(identityToken, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("malformed identity token")
	}

	headerBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, fmt.Errorf("malformed token header: %w", err)
	}
	var header appleTokenHeader
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, fmt.Errorf("malformed token header: %w", err)
	}
	if header.Alg != "RS256" {
		return nil, fmt.Errorf("unexpected token algorithm %q", header.Alg)
	}

	key, err := p.publicKey(ctx, header.Kid)
	if err != nil {
		return nil, err
	}

	signature, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("malformed token signature: %w", err)
	}
	digest := sha256.Sum256([]byte(parts[0] + "." + parts[1]))
	if err := rsa.VerifyPKCS1v15(key, crypto.SHA256, digest[:], signature); err != nil {
		return nil, fmt.Errorf("invalid token signature")
	}

	claimBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("malformed token claims: %w", err)
	}
	var claims appleTokenClaims
	if err := json.Unmarshal(claimBytes, &claims); err != nil {
		return nil, fmt.Errorf("malformed token claims: %w", err)
	}

	if claims.Issuer != appleIssuer {
		return nil, fmt.Errorf("unexpected token issuer %q", claims.Issuer)
	}
	if p.bundleID != "" && claims.Audience != p.bundleID {
		return nil, fmt.Errorf("token audience mismatch")
	}
	if time.Unix(claims.Expiry, 0).Before(time.Now()) {
		return nil, fmt.Errorf("token expired")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token missing subject")
	}

	return &providers.Identity{
		ExternalID: claims.Subject,
		Email:      claims.Email,
	}, nil
}

// publicKey resolves a signing key by kid, refreshing the JWKS cache when
// the kid is unknown or the cache is stale.
func (p *AppleIdentityProvider) publicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if key, ok := p.keys[kid]; ok && time.Since(p.fetchedAt) < keysCacheMaxAge {
		return key, nil
	}

	if err := p.refreshKeys(ctx); err != nil {
		return nil, err
	}

	key, ok := p.keys[kid]
	if !ok {
		return nil, fmt.Errorf("unknown signing key %q", kid)
	}
	return key, nil
}

type jwksResponse struct {
	Keys []struct {
		Kid string `json:"kid"`
		Kty string `json:"kty"`
		N   string `json:"n"`
		E   string `json:"e"`
	} `json:"keys"`
}

func (p *AppleIdentityProvider) refreshKeys(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.keysURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build JWKS request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch signing keys: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("signing keys endpoint returned status %d", resp.StatusCode)
	}

	var jwks jwksResponse
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return fmt.Errorf("failed to decode signing keys: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(jwks.Keys))
	for _, k := range jwks.Keys {
		if k.Kty != "RSA" {
			continue
		}
		nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
		if err != nil {
			continue
		}
		eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
		if err != nil {
			continue
		}
		keys[k.Kid] = &rsa.PublicKey{
			N: new(big.Int).SetBytes(nBytes),
			E: int(new(big.Int).SetBytes(eBytes).Int64()),
		}
	}

	if len(keys) == 0 {
		return fmt.Errorf("no usable signing keys returned")
	}

	p.keys = keys
	p.fetchedAt = time.Now()
	return nil
}
