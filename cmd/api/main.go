package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/wellnessintake/backend/internal/adapters/cache"
	"github.com/zatekoja/wellnessintake/backend/internal/adapters/database"
	"github.com/zatekoja/wellnessintake/backend/internal/adapters/events"
	"github.com/zatekoja/wellnessintake/backend/internal/api/handlers"
	"github.com/zatekoja/wellnessintake/backend/internal/api/routes"
	"github.com/zatekoja/wellnessintake/backend/internal/application/services"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/providers"
	"github.com/zatekoja/wellnessintake/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/wellnessintake/backend/internal/infrastructure/clients/redis"
	"github.com/zatekoja/wellnessintake/backend/internal/infrastructure/observability"
	"github.com/zatekoja/wellnessintake/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := observability.InitLogger(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	var (
		cacheProvider providers.CacheProvider
		eventBus      providers.EventBus
	)
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			// Overrides are read straight from Postgres without Redis.
			log.Warn().Err(err).Msg("Redis unavailable, running without override cache")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
			eventBus = events.NewRedisEventBus(redisClient)
		}
	}

	schemaAdapter := database.NewFormSchemaAdapter(pgClient)
	promptAdapter := database.NewPromptAdapter(pgClient)
	sessionAdapter := database.NewWellnessSessionAdapter(pgClient)
	coachAdapter := database.NewCoachAdapter(pgClient)

	baseOverrideAdapter := database.NewOverrideAdapter(pgClient)
	overrideAdapter := baseOverrideAdapter
	var invalidation *services.CacheInvalidationService
	if cacheProvider != nil {
		overrideAdapter = database.NewCachedOverrideAdapter(
			baseOverrideAdapter, cacheProvider, eventBus, metrics, cfg.Cache.OverrideTTLSeconds)
		log.Info().Int("ttl_seconds", cfg.Cache.OverrideTTLSeconds).Msg("override adapter wrapped with cache")

		invalidation = services.NewCacheInvalidationService(cacheProvider, eventBus)
		if eventBus != nil {
			if err := invalidation.Start(); err != nil {
				log.Warn().Err(err).Msg("failed to start cache invalidation service")
			}
		}

		// rows may have changed while no instance was running
		if err := invalidation.InvalidateAll(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to reset override cache")
		}
		warmer := services.NewCacheWarmingService(baseOverrideAdapter, cacheProvider, cfg.Cache.OverrideTTLSeconds)
		go warmer.StartPeriodicWarming(ctx, time.Duration(cfg.Cache.WarmIntervalSeconds)*time.Second)
	}

	resolutionService := services.NewResolutionService(
		schemaAdapter, promptAdapter, overrideAdapter, metrics, cfg.App.DefaultLocale)
	lifecycleService := services.NewLifecycleService(schemaAdapter, promptAdapter, cfg.App.DefaultLocale)
	overrideService := services.NewOverrideService(overrideAdapter, resolutionService)
	importService := services.NewImportService(schemaAdapter, promptAdapter, coachAdapter, cfg.App.DefaultLocale)
	sessionService := services.NewWellnessSessionService(sessionAdapter)
	coachService := services.NewCoachService(coachAdapter)

	router := routes.NewRouter(
		handlers.NewFormSchemaHandler(resolutionService, lifecycleService, importService),
		handlers.NewPromptHandler(resolutionService, lifecycleService, overrideService, importService),
		handlers.NewWellnessSessionHandler(sessionService),
		handlers.NewCoachHandler(coachService),
		cfg.App.AllowedOrigins,
		metrics,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	if invalidation != nil {
		invalidation.Stop()
	}
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("error closing event bus")
		}
	}

	log.Info().Msg("server stopped")
}
