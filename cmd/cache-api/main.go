package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"cacheapi/internal/cache"
	"cacheapi/internal/config"
	"cacheapi/internal/handlers"
	"cacheapi/internal/identity"
	"cacheapi/internal/logging"
)

func main() {
	// A .env file is optional; deployments configure via the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := logging.Setup(logging.Config{Debug: cfg.Debug})

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Entra ID auth swaps the static password for managed identity tokens
	var provider cache.CredentialProvider
	if cfg.RedisUseEntraID {
		source := identity.NewIMDSClient(cfg.IdentityEndpoint, cfg.AzureClientID)
		provider = identity.NewProvider(source, cfg.RedisUsername)
	}

	// The store connection is established lazily by the first request
	manager := cache.NewConnectionManager(cfg, provider)
	store := cache.NewValkeyCache(manager)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(cfg, store),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().
			Str("addr", server.Addr).
			Str("app", cfg.AppName).
			Str("version", cfg.AppVersion).
			Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}

	if err := store.Close(); err != nil {
		logger.Error().Err(err).Msg("closing cache connection")
	}
	logger.Info().Msg("stopped")
}
