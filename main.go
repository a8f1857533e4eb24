package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/cache"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/config"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/dataloader"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/event"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/handler"
	appLogger "github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/logger"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/middleware"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/report"
	approuter "github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/router"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/state"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg := config.MustLoadConfig()

	// Initialize logger
	appLogger.Initialize(cfg.WebServer.Debug)
	log.Info().Msg("Configuration loaded successfully")

	// Tutorial progress persistence (if enabled)
	var persister state.Persister
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Address,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		})

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Redis.OperationTimeout)*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("Redis unreachable, tutorial progress will not persist")
			rdb = nil
		} else {
			persister = state.NewRedisPersister(rdb, time.Duration(cfg.Redis.OperationTimeout)*time.Second)
			log.Info().Str("address", cfg.Redis.Address).Msg("Redis persistence enabled")
		}
		cancel()
	}

	// Initialize cache (if enabled)
	var cacheClient *cache.Cache
	if cfg.Cache.Enabled {
		var err error
		cacheClient, err = cache.New(cfg.Cache)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize cache")
		}
	} else {
		log.Info().Msg("Cache disabled in configuration")
	}

	// Wire the dashboard core
	bus := event.NewBus()
	store := state.NewStore(bus, persister)
	loader := dataloader.NewLoader(store, bus, cacheClient, cfg.Data)

	baseURL := cfg.WebServer.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("%s://%s:%s/", cfg.WebServer.Scheme, cfg.WebServer.IP, cfg.WebServer.Port)
	}
	urlRouter := approuter.NewRouter(store, bus, approuter.NewMemoryHistory(baseURL))
	urlRouter.Init()

	llmClient := report.NewClient(cfg.LLM)
	log.Info().
		Bool("report_generation_enabled", llmClient.Configured()).
		Bool("demo_fallback", cfg.Data.DemoFallback).
		Msg("Dashboard core initialized")

	// Create handler with dependency injection
	dashboardHandler := handler.NewDashboardHandler(store, loader, urlRouter, llmClient, cacheClient)

	// Set up router
	r := mux.NewRouter()

	// Apply global middleware
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	r.Use(middleware.CORS)
	r.Use(middleware.RequestLogger)
	r.Use(rateLimiter.Limit)

	// Register routes
	dashboardHandler.Register(r)

	// Configure HTTP server
	serverAddress := fmt.Sprintf("%s:%s", cfg.WebServer.IP, cfg.WebServer.Port)
	server := &http.Server{
		Addr:         serverAddress,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.WebServer.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WebServer.WriteTimeout) * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("address", serverAddress).
			Str("scheme", cfg.WebServer.Scheme).
			Msg("Starting server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.WebServer.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Close cache
	if cacheClient != nil {
		cacheClient.Close()
	}

	// Close Redis connection
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Redis connection")
		}
	}

	log.Info().Msg("Server stopped gracefully")
}
