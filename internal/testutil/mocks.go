package testutil

import (
	"context"
	"time"

	"cacheapi/internal/cache"

	"github.com/stretchr/testify/mock"
)

// MockCache is a mock implementation of cache.Cache for testing
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Delete(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Health(ctx context.Context) cache.HealthReport {
	args := m.Called(ctx)
	return args.Get(0).(cache.HealthReport)
}

func (m *MockCache) Close() error {
	args := m.Called()
	return args.Error(0)
}

// Helper functions for setting up mock expectations

// ExpectCacheGet sets up expectation for Get
func ExpectCacheGet(mockCache *MockCache, key, value string, found bool, err error) {
	mockCache.On("Get", mock.Anything, key).Return(value, found, err)
}

// ExpectCacheSet sets up expectation for Set with any TTL
func ExpectCacheSet(mockCache *MockCache, key, value string, ok bool, err error) {
	mockCache.On("Set", mock.Anything, key, value, mock.Anything).Return(ok, err)
}

// ExpectCacheDelete sets up expectation for Delete
func ExpectCacheDelete(mockCache *MockCache, key string, deleted bool, err error) {
	mockCache.On("Delete", mock.Anything, key).Return(deleted, err)
}

// ExpectCacheHealth sets up expectation for Health
func ExpectCacheHealth(mockCache *MockCache, report cache.HealthReport) {
	mockCache.On("Health", mock.Anything).Return(report)
}
