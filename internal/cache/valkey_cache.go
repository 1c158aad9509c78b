package cache

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/valkey-io/valkey-go"

	"cacheapi/internal/logging"
)

// Bounds match the request validation limits. Handlers reject out-of-range
// input before it reaches the facade; these checks cover direct callers.
const (
	maxKeyLength   = 255
	maxValueLength = 10000
)

var (
	errKeyLength   = errors.New("key must be between 1 and 255 characters")
	errValueLength = errors.New("value must be at most 10000 characters")
)

func checkKey(op, key string) error {
	if key == "" || utf8.RuneCountInString(key) > maxKeyLength {
		return &CacheError{Operation: op, Key: key, Err: errKeyLength}
	}
	return nil
}

// valkeyCache implements Cache over the shared connection manager.
type valkeyCache struct {
	manager *ConnectionManager
	logger  zerolog.Logger
}

// NewValkeyCache creates the store facade. The connection is not
// established here; the first operation triggers it.
func NewValkeyCache(manager *ConnectionManager) Cache {
	return &valkeyCache{
		manager: manager,
		logger:  logging.NewLogger("cache"),
	}
}

// Get retrieves a value. A missing key reports found=false with no error.
func (c *valkeyCache) Get(ctx context.Context, key string) (string, bool, error) {
	if err := checkKey("get", key); err != nil {
		return "", false, err
	}

	client, err := c.manager.Client(ctx)
	if err != nil {
		return "", false, err
	}

	result := client.Do(ctx, client.B().Get().Key(key).Build())
	if err := result.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			Operations.WithLabelValues("get", "miss").Inc()
			return "", false, nil
		}
		Operations.WithLabelValues("get", "error").Inc()
		return "", false, &CacheError{Operation: "get", Key: key, Err: err}
	}

	value, err := result.ToString()
	if err != nil {
		Operations.WithLabelValues("get", "error").Inc()
		return "", false, &CacheError{Operation: "get", Key: key, Err: err}
	}

	Operations.WithLabelValues("get", "hit").Inc()
	return value, true, nil
}

// Set stores a value, with expiry when ttl > 0. A nil reply from the store
// reports ok=false without an error.
func (c *valkeyCache) Set(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if err := checkKey("set", key); err != nil {
		return false, err
	}
	if utf8.RuneCountInString(value) > maxValueLength {
		return false, &CacheError{Operation: "set", Key: key, Err: errValueLength}
	}

	client, err := c.manager.Client(ctx)
	if err != nil {
		return false, err
	}

	var cmd valkey.Completed
	if ttl > 0 {
		cmd = client.B().Set().Key(key).Value(value).Ex(ttl).Build()
	} else {
		cmd = client.B().Set().Key(key).Value(value).Build()
	}

	result := client.Do(ctx, cmd)
	if err := result.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			Operations.WithLabelValues("set", "declined").Inc()
			return false, nil
		}
		Operations.WithLabelValues("set", "error").Inc()
		return false, &CacheError{Operation: "set", Key: key, Err: err}
	}

	Operations.WithLabelValues("set", "stored").Inc()
	return true, nil
}

// Delete removes a key and reports whether it existed.
func (c *valkeyCache) Delete(ctx context.Context, key string) (bool, error) {
	if err := checkKey("delete", key); err != nil {
		return false, err
	}

	client, err := c.manager.Client(ctx)
	if err != nil {
		return false, err
	}

	result := client.Do(ctx, client.B().Del().Key(key).Build())
	if err := result.Error(); err != nil {
		Operations.WithLabelValues("delete", "error").Inc()
		return false, &CacheError{Operation: "delete", Key: key, Err: err}
	}

	count, err := result.AsInt64()
	if err != nil {
		Operations.WithLabelValues("delete", "error").Inc()
		return false, &CacheError{Operation: "delete", Key: key, Err: err}
	}

	if count > 0 {
		Operations.WithLabelValues("delete", "deleted").Inc()
		return true, nil
	}
	Operations.WithLabelValues("delete", "miss").Inc()
	return false, nil
}

// Health pings the store and gathers server details from INFO. Any
// failure, including an unavailable connection, yields an unhealthy
// report rather than an error.
func (c *valkeyCache) Health(ctx context.Context) HealthReport {
	client, err := c.manager.Client(ctx)
	if err != nil {
		return HealthReport{Status: StatusUnhealthy, Error: err.Error()}
	}

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		return HealthReport{Status: StatusUnhealthy, Error: err.Error()}
	}

	info, err := client.Do(ctx, client.B().Info().Build()).ToString()
	if err != nil {
		return HealthReport{Status: StatusUnhealthy, Error: err.Error()}
	}

	fields := parseInfo(info)
	clients, _ := strconv.Atoi(fields["connected_clients"])
	return HealthReport{
		Status:           StatusHealthy,
		Ping:             true,
		ConnectedClients: clients,
		UsedMemory:       infoField(fields, "used_memory_human"),
		Version:          infoField(fields, "redis_version"),
	}
}

// Close releases the underlying connection.
func (c *valkeyCache) Close() error {
	return c.manager.Close()
}

func infoField(fields map[string]string, key string) string {
	if v := fields[key]; v != "" {
		return v
	}
	return "unknown"
}

// parseInfo splits an INFO reply into key/value fields, skipping section
// headers and blank lines.
func parseInfo(raw string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fields[key] = value
	}
	return fields
}
