package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "Redis Cache API", cfg.AppName)
	assert.Equal(t, "1.0.0", cfg.AppVersion)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "default", cfg.DefaultKey)

	assert.Equal(t, "localhost", cfg.RedisHost)
	assert.Equal(t, 6379, cfg.RedisPort)
	assert.Empty(t, cfg.RedisPassword)
	assert.False(t, cfg.RedisSSL)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.False(t, cfg.RedisUseEntraID)

	assert.Equal(t, 5*time.Second, cfg.RedisConnectTimeout)
	assert.Equal(t, 5*time.Second, cfg.RedisRequestTimeout)
	assert.Equal(t, 30*time.Second, cfg.RedisLivenessInterval)

	assert.Equal(t, "http://169.254.169.254/metadata/identity/oauth2/token", cfg.IdentityEndpoint)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("APP_NAME", "test-cache")
	t.Setenv("DEBUG", "true")
	t.Setenv("DEFAULT_KEY", "greeting")
	t.Setenv("REDIS_HOST", "cache.example.net")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_PASSWORD", "s3cret")
	t.Setenv("REDIS_SSL", "true")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_CONNECT_TIMEOUT", "2s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "test-cache", cfg.AppName)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "greeting", cfg.DefaultKey)
	assert.Equal(t, "cache.example.net", cfg.RedisHost)
	assert.Equal(t, 6380, cfg.RedisPort)
	assert.Equal(t, "s3cret", cfg.RedisPassword)
	assert.True(t, cfg.RedisSSL)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 2*time.Second, cfg.RedisConnectTimeout)
	assert.Equal(t, "cache.example.net:6380", cfg.RedisAddr())
}

func TestLoad_EntraID(t *testing.T) {
	clearEnv(t)
	t.Setenv("REDIS_USE_ENTRAID", "true")
	t.Setenv("REDIS_USERNAME", "00000000-0000-0000-0000-000000000001")
	t.Setenv("AZURE_CLIENT_ID", "11111111-1111-1111-1111-111111111111")
	t.Setenv("IDENTITY_ENDPOINT", "http://localhost:9999/token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.RedisUseEntraID)
	assert.Equal(t, "00000000-0000-0000-0000-000000000001", cfg.RedisUsername)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", cfg.AzureClientID)
	assert.Equal(t, "http://localhost:9999/token", cfg.IdentityEndpoint)
}

func TestLoad_RejectsConflictingAuth(t *testing.T) {
	clearEnv(t)
	t.Setenv("REDIS_USE_ENTRAID", "true")
	t.Setenv("REDIS_PASSWORD", "s3cret")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestLoad_RejectsBadPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("REDIS_PORT", "70000")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

// clearEnv removes every variable Load reads so test runs don't inherit
// ambient configuration from the developer's shell.
func clearEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"PORT", "APP_NAME", "APP_VERSION", "DEBUG", "DEFAULT_KEY",
		"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_USERNAME",
		"REDIS_SSL", "REDIS_DB", "REDIS_CONNECT_TIMEOUT",
		"REDIS_REQUEST_TIMEOUT", "REDIS_LIVENESS_INTERVAL",
		"REDIS_USE_ENTRAID", "AZURE_CLIENT_ID", "IDENTITY_ENDPOINT",
	}
	for _, v := range vars {
		if val, ok := os.LookupEnv(v); ok {
			t.Setenv(v, val) // restore after test
			os.Unsetenv(v)
		}
	}
}
