package handlers

import (
	"context"
	"net/http"

	"github.com/carepulse/healthcare-analytics/backend/internal/domain/entities"
)

// DashboardMetricsService defines the handler dependency for the aggregate
// dashboard metrics.
type DashboardMetricsService interface {
	Overview(ctx context.Context) (*entities.OverviewMetrics, error)
	RiskDistribution(ctx context.Context) ([]entities.RiskBucket, error)
	HealthTrends(ctx context.Context) ([]entities.TrendPoint, error)
}

// MetricsHandler handles dashboard metric requests
type MetricsHandler struct {
	service DashboardMetricsService
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(service DashboardMetricsService) *MetricsHandler {
	return &MetricsHandler{service: service}
}

// Overview handles GET /overview-metrics
func (h *MetricsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.service.Overview(r.Context())
	if err != nil {
		respondWithAppError(w, err, "failed to compute overview metrics")
		return
	}

	respondWithJSON(w, http.StatusOK, metrics)
}

// RiskDistribution handles GET /risk-distribution
func (h *MetricsHandler) RiskDistribution(w http.ResponseWriter, r *http.Request) {
	buckets, err := h.service.RiskDistribution(r.Context())
	if err != nil {
		respondWithAppError(w, err, "failed to compute risk distribution")
		return
	}

	respondWithJSON(w, http.StatusOK, buckets)
}

// HealthTrends handles GET /health-trends
func (h *MetricsHandler) HealthTrends(w http.ResponseWriter, r *http.Request) {
	points, err := h.service.HealthTrends(r.Context())
	if err != nil {
		respondWithAppError(w, err, "failed to compute health trends")
		return
	}

	respondWithJSON(w, http.StatusOK, points)
}
