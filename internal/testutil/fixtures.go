package testutil

import (
	"cacheapi/internal/cache"
	"cacheapi/internal/models"
)

// CacheItemBuilder provides a fluent interface for creating test cache items
type CacheItemBuilder struct {
	item *models.CacheItem
}

// NewCacheItemBuilder creates a new cache item builder with default values
func NewCacheItemBuilder() *CacheItemBuilder {
	return &CacheItemBuilder{
		item: &models.CacheItem{
			Key:   TestKey,
			Value: TestValue,
		},
	}
}

// WithKey sets the key
func (b *CacheItemBuilder) WithKey(key string) *CacheItemBuilder {
	b.item.Key = key
	return b
}

// WithValue sets the value
func (b *CacheItemBuilder) WithValue(value string) *CacheItemBuilder {
	b.item.Value = value
	return b
}

// WithTTL sets the time to live in seconds
func (b *CacheItemBuilder) WithTTL(seconds int) *CacheItemBuilder {
	b.item.TTL = &seconds
	return b
}

// Build returns the constructed cache item
func (b *CacheItemBuilder) Build() *models.CacheItem {
	return b.item
}

// Common test data
var (
	TestKey   = "greeting"
	TestValue = "hello world"

	// A key long enough to fail the 255 character limit
	OverlongKey = func() string {
		key := make([]byte, 256)
		for i := range key {
			key[i] = 'k'
		}
		return string(key)
	}()
)

// CreateTestItem creates a basic cache item with default values
func CreateTestItem() *models.CacheItem {
	return NewCacheItemBuilder().Build()
}

// CreateTestItemWithTTL creates a cache item carrying a TTL
func CreateTestItemWithTTL(seconds int) *models.CacheItem {
	return NewCacheItemBuilder().WithTTL(seconds).Build()
}

// HealthyReport returns a store report with server details filled in
func HealthyReport() cache.HealthReport {
	return cache.HealthReport{
		Status:           cache.StatusHealthy,
		Ping:             true,
		ConnectedClients: 2,
		UsedMemory:       "1.04M",
		Version:          "7.2.4",
	}
}

// UnhealthyReport returns a failing store report
func UnhealthyReport(errMsg string) cache.HealthReport {
	return cache.HealthReport{
		Status: cache.StatusUnhealthy,
		Error:  errMsg,
	}
}
