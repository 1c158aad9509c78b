package cache

import (
	"context"
	"crypto/tls"
	"net"
	"sync"

	"github.com/rs/zerolog"
	"github.com/valkey-io/valkey-go"

	"cacheapi/internal/config"
	"cacheapi/internal/identity"
	"cacheapi/internal/logging"
)

// connState tracks the lifecycle of the shared client.
type connState int

const (
	stateUninitialized connState = iota
	stateConnecting
	stateReady
	stateFailed
)

func (s connState) String() string {
	switch s {
	case stateConnecting:
		return "connecting"
	case stateReady:
		return "ready"
	case stateFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// CredentialProvider supplies store credentials. The managed identity
// provider implements it; password auth does not need one.
type CredentialProvider interface {
	Credentials(ctx context.Context) (identity.Credential, error)
}

// ConnectionManager owns the process-wide store client. The client is
// built lazily on first use, validated with a ping before it is shared,
// and rebuilt on the next call after a failed attempt. All methods are
// safe for concurrent use; at most one connection attempt runs at a time
// and callers arriving during an attempt wait for its outcome.
type ConnectionManager struct {
	cfg      *config.Config
	provider CredentialProvider // nil selects password or anonymous auth

	// Seams for tests; production uses valkey.NewClient and a PING.
	dial     func(valkey.ClientOption) (valkey.Client, error)
	validate func(ctx context.Context, client valkey.Client) error

	mu     sync.RWMutex
	state  connState
	client valkey.Client

	logger zerolog.Logger
}

// NewConnectionManager creates a manager for the configured store. provider
// may be nil when Entra ID auth is not in use.
func NewConnectionManager(cfg *config.Config, provider CredentialProvider) *ConnectionManager {
	return &ConnectionManager{
		cfg:      cfg,
		provider: provider,
		dial:     valkey.NewClient,
		validate: pingClient,
		logger:   logging.NewLogger("cache"),
	}
}

func pingClient(ctx context.Context, client valkey.Client) error {
	return client.Do(ctx, client.B().Ping().Build()).Error()
}

// Client returns the shared store client, establishing it on first use.
// A failed attempt leaves the manager retryable: the next call starts a
// fresh attempt. All failures surface as *ConnectionError; credential
// failures keep the *identity.AuthError in the unwrap chain.
func (m *ConnectionManager) Client(ctx context.Context) (valkey.Client, error) {
	m.mu.RLock()
	if m.state == stateReady {
		client := m.client
		m.mu.RUnlock()
		return client, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Another caller may have connected while we waited for the lock
	if m.state == stateReady {
		return m.client, nil
	}

	m.state = stateConnecting
	ConnectionAttempts.Inc()
	m.logger.Info().
		Str("addr", m.cfg.RedisAddr()).
		Bool("tls", m.cfg.RedisSSL).
		Bool("entra_id", m.provider != nil).
		Msg("establishing cache connection")

	option, err := m.clientOption(ctx)
	if err != nil {
		m.state = stateFailed
		ConnectionFailures.Inc()
		m.logger.Error().Err(err).Msg("cache credentials unavailable")
		return nil, &ConnectionError{Stage: "auth", Err: err}
	}

	client, err := m.dial(option)
	if err != nil {
		m.state = stateFailed
		ConnectionFailures.Inc()
		m.logger.Error().Err(err).Msg("cache dial failed")
		return nil, &ConnectionError{Stage: "dial", Err: err}
	}

	if err := m.validate(ctx, client); err != nil {
		client.Close()
		m.state = stateFailed
		ConnectionFailures.Inc()
		m.logger.Error().Err(err).Msg("cache connection validation failed")
		return nil, &ConnectionError{Stage: "ping", Err: err}
	}

	m.client = client
	m.state = stateReady
	m.logger.Info().Str("addr", m.cfg.RedisAddr()).Msg("cache connection established")

	return client, nil
}

// clientOption maps the configuration onto a client option, resolving
// credentials when a provider is present.
func (m *ConnectionManager) clientOption(ctx context.Context) (valkey.ClientOption, error) {
	option := valkey.ClientOption{
		InitAddress: []string{m.cfg.RedisAddr()},
		SelectDB:    m.cfg.RedisDB,
		Dialer: net.Dialer{
			Timeout:   m.cfg.RedisConnectTimeout,
			KeepAlive: m.cfg.RedisLivenessInterval,
		},
		ConnWriteTimeout: m.cfg.RedisRequestTimeout,
	}

	if m.cfg.RedisSSL {
		option.TLSConfig = &tls.Config{
			ServerName: m.cfg.RedisHost,
			MinVersion: tls.VersionTLS12,
		}
	}

	if m.cfg.RedisUsername != "" {
		option.Username = m.cfg.RedisUsername
	}

	if m.provider != nil {
		cred, err := m.provider.Credentials(ctx)
		if err != nil {
			return valkey.ClientOption{}, err
		}
		option.Username = cred.Username
		option.Password = cred.Token

		// The client calls this on every reconnect; credentials are
		// resolved fresh rather than pinned from startup.
		provider := m.provider
		option.AuthCredentialsFn = func(valkey.AuthCredentialsContext) (valkey.AuthCredentials, error) {
			cred, err := provider.Credentials(context.Background())
			if err != nil {
				return valkey.AuthCredentials{}, err
			}
			return valkey.AuthCredentials{Username: cred.Username, Password: cred.Token}, nil
		}
	} else if m.cfg.RedisPassword != "" {
		option.Password = m.cfg.RedisPassword
	}

	return option, nil
}

// State reports the current lifecycle state.
func (m *ConnectionManager) State() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.String()
}

// Close tears down the shared client and returns the manager to its
// initial state, so a later call reconnects.
func (m *ConnectionManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client != nil {
		m.client.Close()
		m.client = nil
	}
	m.state = stateUninitialized

	return nil
}
