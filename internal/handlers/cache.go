package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"cacheapi/internal/cache"
	"cacheapi/internal/logging"
	"cacheapi/internal/models"
)

// CacheHandler handles the key-value endpoints
type CacheHandler struct {
	store      cache.Cache
	defaultKey string
	logger     zerolog.Logger
}

// NewCacheHandler creates a new cache handler
func NewCacheHandler(store cache.Cache, defaultKey string) *CacheHandler {
	return &CacheHandler{
		store:      store,
		defaultKey: defaultKey,
		logger:     logging.NewLogger("handlers"),
	}
}

// GetValue handles GET /cache/:key
func (h *CacheHandler) GetValue(c *gin.Context) {
	h.respondWithValue(c, c.Param("key"))
}

// GetDefault handles GET /cache. The key comes from the query string,
// falling back to the configured default key.
func (h *CacheHandler) GetDefault(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		key = h.defaultKey
	}
	h.respondWithValue(c, key)
}

func (h *CacheHandler) respondWithValue(c *gin.Context, key string) {
	value, found, err := h.store.Get(c.Request.Context(), key)
	if err != nil {
		h.logger.Error().Err(err).Str("key", key).Msg("cache get failed")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			"Cache Error", "Failed to get cache value: "+err.Error()))
		return
	}

	if !found {
		c.JSON(http.StatusOK, models.CacheResponse{
			Key:     key,
			Found:   false,
			Message: "Key not found in cache",
		})
		return
	}

	c.JSON(http.StatusOK, models.CacheResponse{
		Key:     key,
		Value:   &value,
		Found:   true,
		Message: "Value retrieved successfully",
	})
}

// SetValue handles POST /cache
func (h *CacheHandler) SetValue(c *gin.Context) {
	var item models.CacheItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			"Validation Error", err.Error()))
		return
	}

	ok, err := h.store.Set(c.Request.Context(), item.Key, item.Value, item.TTLDuration())
	if err != nil {
		h.logger.Error().Err(err).Str("key", item.Key).Msg("cache set failed")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			"Cache Error", "Failed to set cache value: "+err.Error()))
		return
	}

	if !ok {
		h.logger.Error().Str("key", item.Key).Msg("store declined write")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			"Cache Error", "Failed to store value in cache"))
		return
	}

	c.JSON(http.StatusOK, models.CacheResponse{
		Key:     item.Key,
		Value:   &item.Value,
		Found:   true,
		Message: "Value stored successfully",
	})
}

// DeleteValue handles DELETE /cache/:key
func (h *CacheHandler) DeleteValue(c *gin.Context) {
	key := c.Param("key")

	deleted, err := h.store.Delete(c.Request.Context(), key)
	if err != nil {
		h.logger.Error().Err(err).Str("key", key).Msg("cache delete failed")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			"Cache Error", "Failed to delete cache value: "+err.Error()))
		return
	}

	if !deleted {
		c.JSON(http.StatusOK, models.CacheResponse{
			Key:     key,
			Found:   false,
			Message: "Key not found in cache",
		})
		return
	}

	c.JSON(http.StatusOK, models.CacheResponse{
		Key:     key,
		Found:   true,
		Message: "Value deleted successfully",
	})
}
