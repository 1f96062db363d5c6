package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/carepulse/healthcare-analytics/backend/internal/api/handlers"
	"github.com/carepulse/healthcare-analytics/backend/internal/domain/entities"
	apperrors "github.com/carepulse/healthcare-analytics/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type stubMetricsService struct {
	overview *entities.OverviewMetrics
	buckets  []entities.RiskBucket
	points   []entities.TrendPoint
	err      error
}

func (s *stubMetricsService) Overview(ctx context.Context) (*entities.OverviewMetrics, error) {
	return s.overview, s.err
}

func (s *stubMetricsService) RiskDistribution(ctx context.Context) ([]entities.RiskBucket, error) {
	return s.buckets, s.err
}

func (s *stubMetricsService) HealthTrends(ctx context.Context) ([]entities.TrendPoint, error) {
	return s.points, s.err
}

func TestMetricsHandler_Overview(t *testing.T) {
	service := &stubMetricsService{
		overview: &entities.OverviewMetrics{
			ReadmissionRate: entities.KPI{
				Label:     "30-Day Readmission Rate",
				Value:     "14.2%",
				RiskLevel: entities.RiskMedium,
				Change:    "+1.3%",
			},
		},
	}
	handler := handlers.NewMetricsHandler(service)

	req := httptest.NewRequest("GET", "/overview-metrics", nil)
	w := httptest.NewRecorder()

	handler.Overview(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var response map[string]map[string]string
	err := json.NewDecoder(w.Body).Decode(&response)
	assert.NoError(t, err)
	assert.Equal(t, "14.2%", response["readmissionRate"]["value"])
	assert.Equal(t, "Medium", response["readmissionRate"]["riskLevel"])
	assert.Equal(t, "+1.3%", response["readmissionRate"]["change"])
}

func TestMetricsHandler_Overview_InternalError(t *testing.T) {
	service := &stubMetricsService{err: apperrors.NewInternalError("failed to list episodes", assert.AnError)}
	handler := handlers.NewMetricsHandler(service)

	req := httptest.NewRequest("GET", "/overview-metrics", nil)
	w := httptest.NewRecorder()

	handler.Overview(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestMetricsHandler_RiskDistribution(t *testing.T) {
	service := &stubMetricsService{
		buckets: []entities.RiskBucket{
			{Name: entities.RiskLow, Value: 250, Color: "#10b981"},
			{Name: entities.RiskMedium, Value: 150, Color: "#f59e0b"},
			{Name: entities.RiskHigh, Value: 100, Color: "#ef4444"},
		},
	}
	handler := handlers.NewMetricsHandler(service)

	req := httptest.NewRequest("GET", "/risk-distribution", nil)
	w := httptest.NewRecorder()

	handler.RiskDistribution(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&response)
	assert.NoError(t, err)
	assert.Len(t, response, 3)
	assert.Equal(t, "Low", response[0]["name"])
	assert.Equal(t, float64(250), response[0]["value"])
	assert.Equal(t, "#10b981", response[0]["color"])
}

func TestMetricsHandler_HealthTrends(t *testing.T) {
	service := &stubMetricsService{
		points: []entities.TrendPoint{
			{Name: "Mar", Episodes: 80, Readmissions: 12},
			{Name: "Apr", Episodes: 95, Readmissions: 9},
		},
	}
	handler := handlers.NewMetricsHandler(service)

	req := httptest.NewRequest("GET", "/health-trends", nil)
	w := httptest.NewRecorder()

	handler.HealthTrends(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&response)
	assert.NoError(t, err)
	assert.Len(t, response, 2)
	assert.Equal(t, "Mar", response[0]["name"])
	assert.Equal(t, float64(80), response[0]["episodes"])
}
