package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"cacheapi/internal/cache"
)

// staticStore answers every operation without touching a network.
type staticStore struct {
	value string
}

func (s *staticStore) Get(ctx context.Context, key string) (string, bool, error) {
	return s.value, true, nil
}

func (s *staticStore) Set(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return true, nil
}

func (s *staticStore) Delete(ctx context.Context, key string) (bool, error) {
	return true, nil
}

func (s *staticStore) Health(ctx context.Context) cache.HealthReport {
	return cache.HealthReport{Status: cache.StatusHealthy, Ping: true}
}

func (s *staticStore) Close() error { return nil }

func BenchmarkCacheHandlers_GetValue(b *testing.B) {
	gin.SetMode(gin.ReleaseMode)

	handler := NewCacheHandler(&staticStore{value: "hello world"}, "default")
	router := gin.New()
	router.GET("/cache/:key", handler.GetValue)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			req := httptest.NewRequest("GET", "/cache/greeting", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				b.Fatalf("Expected status 200, got %d", w.Code)
			}
		}
	})
}

func BenchmarkCacheHandlers_SetValue(b *testing.B) {
	gin.SetMode(gin.ReleaseMode)

	handler := NewCacheHandler(&staticStore{}, "default")
	router := gin.New()
	router.POST("/cache", handler.SetValue)

	requestBody := map[string]interface{}{
		"key":   "greeting",
		"value": "hello world",
		"ttl":   60,
	}
	bodyBytes, _ := json.Marshal(requestBody)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			req := httptest.NewRequest("POST", "/cache", bytes.NewReader(bodyBytes))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				b.Fatalf("Expected status 200, got %d", w.Code)
			}
		}
	})
}
