package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carepulse/healthcare-analytics/backend/internal/adapters/cache"
	"github.com/carepulse/healthcare-analytics/backend/internal/adapters/database"
	"github.com/carepulse/healthcare-analytics/backend/internal/api/handlers"
	"github.com/carepulse/healthcare-analytics/backend/internal/api/middleware"
	"github.com/carepulse/healthcare-analytics/backend/internal/api/routes"
	"github.com/carepulse/healthcare-analytics/backend/internal/application/services"
	"github.com/carepulse/healthcare-analytics/backend/internal/domain/providers"
	"github.com/carepulse/healthcare-analytics/backend/internal/infrastructure/clients/openai"
	"github.com/carepulse/healthcare-analytics/backend/internal/infrastructure/clients/postgres"
	"github.com/carepulse/healthcare-analytics/backend/internal/infrastructure/clients/redis"
	"github.com/carepulse/healthcare-analytics/backend/internal/infrastructure/observability"
	"github.com/carepulse/healthcare-analytics/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("APP_ENV"))
	logger := observability.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	logger.Info().Msg("PostgreSQL client initialized")

	// Initialize Redis client; the application works without caching
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialize Redis client, continuing without cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
		logger.Info().Msg("Redis client initialized")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize adapters
	episodeAdapter := database.NewEpisodeAdapter(pgClient)
	incidentAdapter := database.NewIncidentAdapter(pgClient)
	qualityIssueAdapter := database.NewQualityIssueAdapter(pgClient)

	// Initialize text generator; without a key, insight generation endpoints
	// fail fast with a configuration error
	var textGenerator providers.TextGenerator
	if cfg.OpenAI.APIKey == "" {
		logger.Warn().Msg("OPENAI_API_KEY is not set; insight generation disabled")
	} else {
		openaiClient, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialize OpenAI client")
		} else {
			textGenerator = openaiClient
			logger.Info().Str("model", cfg.OpenAI.Model).Msg("text generator initialized")
		}
	}

	// Initialize services
	metricsService := services.NewMetricsService(episodeAdapter, incidentAdapter, qualityIssueAdapter, cacheProvider, metrics)
	insightService := services.NewInsightService(episodeAdapter, textGenerator, metrics)

	// Initialize handlers
	metricsHandler := handlers.NewMetricsHandler(metricsService)
	episodeHandler := handlers.NewEpisodeHandler(metricsService)
	incidentHandler := handlers.NewIncidentHandler(metricsService)
	qualityHandler := handlers.NewQualityHandler(metricsService)
	insightHandler := handlers.NewInsightHandler(insightService)

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, metrics)
		logger.Info().Msg("cache middleware initialized")
	}

	// Set up router
	router := routes.NewRouter(
		metricsHandler,
		episodeHandler,
		incidentHandler,
		qualityHandler,
		insightHandler,
		cacheMiddleware,
		metrics,
		cfg.CORS.AllowedOrigins,
	)

	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
	}

	logger.Info().Msg("server stopped")
}
