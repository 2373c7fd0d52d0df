package routes

import (
	"net/http"

	"github.com/neststop/backend/internal/api/handlers"
	"github.com/neststop/backend/internal/api/middleware"
	"github.com/neststop/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	stationHandler   *handlers.StationHandler
	candidateHandler *handlers.CandidateHandler
	reviewHandler    *handlers.ReviewHandler
	authHandler      *handlers.AuthHandler
	deviceHandler    *handlers.DeviceHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	stationHandler *handlers.StationHandler,
	candidateHandler *handlers.CandidateHandler,
	reviewHandler *handlers.ReviewHandler,
	authHandler *handlers.AuthHandler,
	deviceHandler *handlers.DeviceHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		stationHandler:   stationHandler,
		candidateHandler: candidateHandler,
		reviewHandler:    reviewHandler,
		authHandler:      authHandler,
		deviceHandler:    deviceHandler,

		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)

		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Candidate search (external places, scored and ranked)
	r.mux.HandleFunc("GET /api/candidates/search", r.candidateHandler.SearchCandidates)

	// Station endpoints
	r.mux.HandleFunc("GET /api/stations", r.stationHandler.ListStations)
	r.mux.HandleFunc("POST /api/stations", r.stationHandler.CreateStation)
	r.mux.HandleFunc("GET /api/stations/nearby", r.stationHandler.NearbyStations)
	r.mux.HandleFunc("GET /api/stations/search", r.stationHandler.SearchStations)
	r.mux.HandleFunc("GET /api/stations/{id}", r.stationHandler.GetStation)
	r.mux.HandleFunc("GET /api/stations/{id}/reviews", r.stationHandler.ListStationReviews)

	// Review endpoints
	r.mux.HandleFunc("POST /api/reviews", r.reviewHandler.SubmitReview)

	// Auth endpoints
	r.mux.HandleFunc("POST /api/auth/apple", r.authHandler.AppleSignIn)

	// Device and navigation endpoints
	r.mux.HandleFunc("POST /api/devices", r.deviceHandler.RegisterDevice)
	r.mux.HandleFunc("POST /api/navigations", r.deviceHandler.StartNavigation)

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so cached responses also get CORS headers.

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	// Apply cache middleware if available
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// Apply HTTP performance optimizations (compression, ETag, cache headers)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}
