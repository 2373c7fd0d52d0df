package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neststop/backend/internal/adapters/cache"
	"github.com/neststop/backend/internal/adapters/database"
	"github.com/neststop/backend/internal/adapters/events"
	"github.com/neststop/backend/internal/adapters/providers/identity"
	"github.com/neststop/backend/internal/adapters/providers/places"
	"github.com/neststop/backend/internal/adapters/search"
	"github.com/neststop/backend/internal/api/handlers"
	"github.com/neststop/backend/internal/api/middleware"
	"github.com/neststop/backend/internal/api/routes"
	"github.com/neststop/backend/internal/application/services"
	"github.com/neststop/backend/internal/domain/providers"
	"github.com/neststop/backend/internal/domain/repositories"
	"github.com/neststop/backend/internal/infrastructure/clients/postgres"
	"github.com/neststop/backend/internal/infrastructure/clients/redis"
	"github.com/neststop/backend/internal/infrastructure/clients/typesense"
	"github.com/neststop/backend/internal/infrastructure/notifications"
	"github.com/neststop/backend/internal/infrastructure/observability"
	"github.com/neststop/backend/pkg/config"
)

func main() {

	// Load configuration

	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)
	observability.GetLogger().Info().
		Str("service", cfg.OTEL.ServiceName).
		Str("version", cfg.OTEL.ServiceVersion).
		Str("env", cfg.Server.Env).
		Msg("Starting API server")

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		// Continue without Redis - the application can work without caching
	} else {
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	}

	// Initialize Typesense client
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Printf("Warning: Failed to initialize Typesense client: %v", err)
	} else {
		log.Println("Typesense client initialized successfully")
	}

	// Initialize adapters

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Create base station adapter, wrapped with caching when Redis is up
	baseStationAdapter := database.NewStationAdapter(pgClient)

	var stationAdapter repositories.StationRepository
	if cacheProvider != nil {
		stationAdapter = database.NewCachedStationAdapter(baseStationAdapter, cacheProvider)
		log.Println("Station adapter wrapped with caching layer")
	} else {
		stationAdapter = baseStationAdapter
		log.Println("Station adapter running without cache (Redis unavailable)")
	}

	reviewAdapter := database.NewReviewAdapter(pgClient)
	navigationAdapter := database.NewNavigationAdapter(pgClient)
	userAdapter := database.NewUserAdapter(pgClient)

	var searchRepo repositories.StationSearchRepository

	if typesenseClient != nil {

		// Ensure schema exists

		if err := typesenseClient.InitSchema(context.Background()); err != nil {

			log.Printf("Warning: Failed to init Typesense schema: %v", err)

		}

		searchRepo = search.NewTypesenseAdapter(typesenseClient)

	}

	// Initialize event bus for real-time updates
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Println("Event bus initialized successfully")
	} else {
		log.Println("Event bus disabled (Redis not available)")
	}

	var placesProvider providers.PlacesProvider
	switch cfg.Places.Provider {
	case "foursquare":
		if cfg.Places.APIKey == "" {
			log.Println("Warning: PLACES_API_KEY is not set; using mock places provider")
			placesProvider = places.NewMockPlacesProvider()
		} else {
			placesProvider = places.NewFoursquarePlacesProvider(cfg.Places.APIKey, cacheProvider)
		}
	default:
		placesProvider = places.NewMockPlacesProvider()
	}

	var identityProvider providers.IdentityProvider
	if cfg.Apple.BundleID == "" {
		log.Println("Warning: APPLE_BUNDLE_ID is not set; using mock identity provider")
		identityProvider = identity.NewMockIdentityProvider()
	} else {
		identityProvider = identity.NewAppleIdentityProvider(cfg.Apple.BundleID)
	}

	var pushProvider providers.PushProvider
	if cfg.Push.ServerKey == "" {
		log.Println("Warning: PUSH_SERVER_KEY is not set; review reminders will not be delivered")
	} else {
		sender, err := notifications.NewFCMSender(cfg.Push.ServerKey)
		if err != nil {
			log.Printf("Warning: Failed to initialize FCM sender: %v", err)
		} else {
			pushProvider = sender
		}
	}

	// Initialize services

	scoringService := services.NewPlaceScoringService()
	placeSearchService := services.NewPlaceSearchService(placesProvider, scoringService)

	// Reconciliation and consensus are serialized read-modify-write flows;
	// they must read the row as the database has it, never a cached copy.
	reconciliationService := services.NewReconciliationService(baseStationAdapter)
	consensusService := services.NewConsensusService(baseStationAdapter, reviewAdapter)

	stationService := services.NewStationService(
		stationAdapter,
		searchRepo,
		reconciliationService,
		eventBus,
	)

	reviewService := services.NewReviewService(
		reviewAdapter,
		stationAdapter,
		searchRepo,
		reconciliationService,
		consensusService,
		eventBus,
	)

	// Initialize cache invalidation service
	var cacheInvalidationService *services.CacheInvalidationService
	if cacheProvider != nil && eventBus != nil {
		cacheInvalidationService = services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := cacheInvalidationService.Start(); err != nil {
			log.Printf("Warning: Failed to start cache invalidation service: %v", err)
		} else {
			log.Println("Cache invalidation service started successfully")
		}
	}

	// Start cache warming service for improved read performance
	if cacheProvider != nil {
		warmingService := services.NewCacheWarmingService(
			stationAdapter, // Use cached adapter to warm cache
			cacheProvider,
		)
		go warmingService.StartPeriodicWarming(ctx, 5*time.Minute)
		log.Println("Cache warming service started (refreshes every 5 minutes)")
	}

	authService := services.NewAuthService(identityProvider, userAdapter)

	reminderService := services.NewReminderService(
		navigationAdapter,
		stationAdapter,
		pushProvider,
		cfg.Reminder.ScanInterval,
		cfg.Reminder.Delay,
	)

	// Start the reminder scanner in the background
	go reminderService.Start(ctx)

	// Initialize handlers

	stationHandler := handlers.NewStationHandler(stationService, reviewService)

	candidateHandler := handlers.NewCandidateHandler(placeSearchService)

	reviewHandler := handlers.NewReviewHandler(reviewService)

	authHandler := handlers.NewAuthHandler(authService)

	deviceHandler := handlers.NewDeviceHandler(reminderService)

	// Initialize cache middleware
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
		log.Println("Cache middleware initialized successfully")
	}

	// Set up router

	router := routes.NewRouter(
		stationHandler,
		candidateHandler,
		reviewHandler,
		authHandler,
		deviceHandler,
		cacheMiddleware,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Printf("Error closing event bus: %v", err)
		}
	}

	// Stop cache invalidation service
	if cacheInvalidationService != nil {
		cacheInvalidationService.Stop()
	}

	log.Println("Server stopped")
}
