// Package cache provides the store-facing facade: a lazily established,
// shared connection to a Redis-compatible server and typed operations
// over it.
package cache

import (
	"context"
	"time"
)

// Store health states as reported by Health.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Cache defines the interface for store operations
type Cache interface {
	// Get retrieves a value. A missing key is (_, false, nil), not an error.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set stores a value. ttl == 0 means no expiry. ok is false without an
	// error when the store declined the write.
	Set(ctx context.Context, key, value string, ttl time.Duration) (ok bool, err error)

	// Delete removes a key. deleted reports whether the key existed.
	Delete(ctx context.Context, key string) (deleted bool, err error)

	// Health probes the store. It never returns an error; failures are
	// carried in the report.
	Health(ctx context.Context) HealthReport

	// Close releases the store connection
	Close() error
}

// HealthReport describes the store's condition for health endpoints.
// Fields beyond Status are filled only when obtainable.
type HealthReport struct {
	Status           string `json:"status"`
	Ping             bool   `json:"ping,omitempty"`
	ConnectedClients int    `json:"connected_clients,omitempty"`
	UsedMemory       string `json:"used_memory_human,omitempty"`
	Version          string `json:"redis_version,omitempty"`
	Error            string `json:"error,omitempty"`
}

// Healthy reports whether the store answered its probes.
func (r HealthReport) Healthy() bool {
	return r.Status == StatusHealthy
}

// CacheError represents a cache operation error
type CacheError struct {
	Operation string
	Key       string
	Err       error
}

func (e *CacheError) Error() string {
	return "cache " + e.Operation + " failed for key '" + e.Key + "': " + e.Err.Error()
}

func (e *CacheError) Unwrap() error {
	return e.Err
}

// ConnectionError indicates the shared connection could not be established.
type ConnectionError struct {
	Stage string // "auth", "dial" or "ping"
	Err   error
}

func (e *ConnectionError) Error() string {
	return "cache connection failed during " + e.Stage + ": " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
