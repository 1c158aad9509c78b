package identity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type fakeSource struct {
	mu    sync.Mutex
	calls int
	token *oauth2.Token
	err   error
}

func (f *fakeSource) Token(ctx context.Context) (*oauth2.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.token, nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeSource) set(token *oauth2.Token, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
	f.err = err
}

func freshToken(value string) *oauth2.Token {
	return &oauth2.Token{
		AccessToken: value,
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}
}

func signedTokenWithOID(t *testing.T, oid string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"oid": oid})
	signed, err := token.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return signed
}

func TestCredentialsRequestsTokenOnFirstCall(t *testing.T) {
	source := &fakeSource{token: freshToken("token-1")}
	provider := NewProvider(source, "cache-user")

	cred, err := provider.Credentials(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "token-1", cred.Token)
	assert.Equal(t, "cache-user", cred.Username)
	assert.Equal(t, 1, source.callCount())
}

func TestCredentialsReusesHeldToken(t *testing.T) {
	source := &fakeSource{token: freshToken("token-1")}
	provider := NewProvider(source, "cache-user")

	first, err := provider.Credentials(context.Background())
	require.NoError(t, err)

	source.set(freshToken("token-2"), nil)

	second, err := provider.Credentials(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Token, second.Token)
	assert.Equal(t, 1, source.callCount(), "held token should be reused without a refresh")
}

func TestCredentialsRefreshesInsideWindow(t *testing.T) {
	expiring := &oauth2.Token{
		AccessToken: "old-token",
		Expiry:      time.Now().Add(2 * time.Minute), // inside the 5 minute window
	}
	source := &fakeSource{token: expiring}
	provider := NewProvider(source, "cache-user")

	_, err := provider.Credentials(context.Background())
	require.NoError(t, err)

	source.set(freshToken("new-token"), nil)

	cred, err := provider.Credentials(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "new-token", cred.Token)
	assert.Equal(t, 2, source.callCount())
}

func TestCredentialsFailureReturnsAuthError(t *testing.T) {
	source := &fakeSource{err: errors.New("imds unreachable")}
	provider := NewProvider(source, "cache-user")

	_, err := provider.Credentials(context.Background())
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, authErr.Error(), "imds unreachable")

	// A later successful refresh recovers without restart.
	source.set(freshToken("recovered"), nil)

	cred, err := provider.Credentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "recovered", cred.Token)
}

func TestCredentialsSingleRefreshUnderConcurrency(t *testing.T) {
	source := &fakeSource{token: freshToken("shared-token")}
	provider := NewProvider(source, "cache-user")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cred, err := provider.Credentials(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "shared-token", cred.Token)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, source.callCount(), "concurrent callers should share one refresh")
}

func TestUsernameResolution(t *testing.T) {
	withOID := signedTokenWithOID(t, "11111111-2222-3333-4444-555555555555")

	tests := []struct {
		name       string
		configured string
		token      string
		want       string
	}{
		{
			name:       "configured username wins",
			configured: "cache-user",
			token:      withOID,
			want:       "cache-user",
		},
		{
			name:  "oid claim used when unconfigured",
			token: withOID,
			want:  "11111111-2222-3333-4444-555555555555",
		},
		{
			name:  "opaque token falls back to default",
			token: "not-a-jwt",
			want:  defaultUsername,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveUsername(tt.configured, tt.token))
		})
	}
}
