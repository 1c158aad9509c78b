// Package identity obtains and caches Entra ID access tokens for
// authenticating against Azure Cache for Redis with a managed identity.
package identity

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"cacheapi/internal/logging"
)

// refreshWindow is how long before expiry a held token is considered
// stale and refreshed.
const refreshWindow = 5 * time.Minute

// defaultUsername is the store auth username used when none is configured
// and the token carries no object ID claim.
const defaultUsername = "default"

// Credential is a username/token pair accepted by the store's AUTH command.
type Credential struct {
	Username string
	Token    string
}

// TokenSource issues access tokens. The production implementation is the
// IMDS client; tests substitute a fake.
type TokenSource interface {
	Token(ctx context.Context) (*oauth2.Token, error)
}

// AuthError indicates the identity service could not issue a token.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return "identity: " + e.Message + ": " + e.Err.Error()
	}
	return "identity: " + e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Provider hands out credentials for store authentication, refreshing the
// underlying token before it expires. Safe for concurrent use; at most one
// refresh is in flight at a time and concurrent callers during a refresh
// wait for its result.
type Provider struct {
	source   TokenSource
	username string // configured username; empty means derive from token

	mu       sync.RWMutex
	token    *oauth2.Token
	resolved string // username resolved for the held token

	logger zerolog.Logger
}

// NewProvider creates a credential provider backed by the given token source.
func NewProvider(source TokenSource, username string) *Provider {
	return &Provider{
		source:   source,
		username: username,
		logger:   logging.NewLogger("identity"),
	}
}

// Credentials returns a credential valid for at least the refresh window.
// A fresh token is requested when none is held or the held one is within
// five minutes of expiry. A failed refresh returns an AuthError and leaves
// no stale credential behind.
func (p *Provider) Credentials(ctx context.Context) (Credential, error) {
	p.mu.RLock()
	if cred, ok := p.held(); ok {
		p.mu.RUnlock()
		return cred, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock
	if cred, ok := p.held(); ok {
		return cred, nil
	}

	token, err := p.source.Token(ctx)
	if err != nil {
		TokenRefreshFailures.Inc()
		p.logger.Error().Err(err).Msg("failed to obtain Entra ID token")
		var authErr *AuthError
		if errors.As(err, &authErr) {
			return Credential{}, err
		}
		return Credential{}, &AuthError{Message: "token request failed", Err: err}
	}

	p.token = token
	p.resolved = resolveUsername(p.username, token.AccessToken)
	TokenRefreshes.Inc()

	p.logger.Info().
		Time("expires_at", token.Expiry).
		Str("username", p.resolved).
		Msg("obtained new Entra ID token")

	return Credential{Username: p.resolved, Token: token.AccessToken}, nil
}

// held returns the cached credential while it is still outside the
// refresh window. Callers must hold at least a read lock.
func (p *Provider) held() (Credential, bool) {
	if p.token == nil {
		return Credential{}, false
	}
	if !time.Now().Before(p.token.Expiry.Add(-refreshWindow)) {
		return Credential{}, false
	}
	return Credential{Username: p.resolved, Token: p.token.AccessToken}, true
}

// resolveUsername picks the auth username for a token: a configured value
// wins; otherwise the token's oid claim names the managed identity;
// "default" is the last resort.
func resolveUsername(configured, accessToken string) string {
	if configured != "" {
		return configured
	}
	if oid := objectIDFromToken(accessToken); oid != "" {
		return oid
	}
	return defaultUsername
}

// objectIDFromToken extracts the oid claim without verifying the signature.
// Verification is the store's job; the claim is only used as a username hint.
func objectIDFromToken(accessToken string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return ""
	}
	oid, _ := claims["oid"].(string)
	return oid
}
