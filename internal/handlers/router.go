// Package handlers wires the HTTP surface: key-value endpoints, health
// probes and the metrics exposition.
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cacheapi/internal/cache"
	"cacheapi/internal/config"
)

// NewRouter builds the gin engine with all routes and middleware attached.
// The caller owns gin's mode; main sets it from the debug flag.
func NewRouter(cfg *config.Config, store cache.Cache) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(), Metrics(), Recovery())

	cacheHandler := NewCacheHandler(store, cfg.DefaultKey)
	healthHandler := NewHealthHandler(store, cfg.AppName, cfg.AppVersion)

	router.GET("/", healthHandler.Root)

	router.GET("/cache", cacheHandler.GetDefault)
	router.POST("/cache", cacheHandler.SetValue)
	router.GET("/cache/:key", cacheHandler.GetValue)
	router.DELETE("/cache/:key", cacheHandler.DeleteValue)

	router.GET("/health", healthHandler.Health)
	router.GET("/health/live", healthHandler.Live)
	router.GET("/health/ready", healthHandler.Ready)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
