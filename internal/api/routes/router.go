package routes

import (
	"net/http"
	"time"

	"github.com/carepulse/healthcare-analytics/backend/internal/api/handlers"
	"github.com/carepulse/healthcare-analytics/backend/internal/api/middleware"
	"github.com/carepulse/healthcare-analytics/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	metricsHandler  *handlers.MetricsHandler
	episodeHandler  *handlers.EpisodeHandler
	incidentHandler *handlers.IncidentHandler
	qualityHandler  *handlers.QualityHandler
	insightHandler  *handlers.InsightHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
	allowedOrigins  []string
}

// NewRouter creates a new router
func NewRouter(
	metricsHandler *handlers.MetricsHandler,
	episodeHandler *handlers.EpisodeHandler,
	incidentHandler *handlers.IncidentHandler,
	qualityHandler *handlers.QualityHandler,
	insightHandler *handlers.InsightHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
	allowedOrigins []string,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		metricsHandler:  metricsHandler,
		episodeHandler:  episodeHandler,
		incidentHandler: incidentHandler,
		qualityHandler:  qualityHandler,
		insightHandler:  insightHandler,

		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
		allowedOrigins:  allowedOrigins,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","timestamp":"` + time.Now().UTC().Format(time.RFC3339) + `"}`))
	})

	// Dashboard metric endpoints
	r.mux.HandleFunc("GET /overview-metrics", r.metricsHandler.Overview)
	r.mux.HandleFunc("GET /risk-distribution", r.metricsHandler.RiskDistribution)
	r.mux.HandleFunc("GET /health-trends", r.metricsHandler.HealthTrends)

	// Readmission episode endpoints
	r.mux.HandleFunc("GET /readmissions/list", r.episodeHandler.List)
	r.mux.HandleFunc("GET /readmissions/high-risk", r.episodeHandler.HighRisk)
	r.mux.HandleFunc("GET /readmissions/{id}", r.episodeHandler.Get)

	// Safety incident endpoints
	r.mux.HandleFunc("GET /quality/incidents", r.incidentHandler.List)
	r.mux.HandleFunc("GET /quality/incidents/summary", r.incidentHandler.Summary)

	// Data quality endpoints
	r.mux.HandleFunc("GET /data-quality/issues", r.qualityHandler.ListIssues)
	r.mux.HandleFunc("GET /data-quality/metrics", r.qualityHandler.Metrics)

	// Insight generation endpoints
	r.mux.HandleFunc("POST /llm/summary/{id}", r.insightHandler.Summary)
	r.mux.HandleFunc("POST /llm/risk-explanation/{id}", r.insightHandler.RiskExplanation)
	r.mux.HandleFunc("POST /llm/recommendations/{id}", r.insightHandler.Recommendations)
	r.mux.HandleFunc("POST /llm/generate-all/{id}", r.insightHandler.GenerateAll)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
