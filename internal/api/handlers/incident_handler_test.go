package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/carepulse/healthcare-analytics/backend/internal/api/handlers"
	"github.com/carepulse/healthcare-analytics/backend/internal/domain/entities"
	"github.com/stretchr/testify/assert"
)

type stubIncidentService struct {
	incidents []*entities.SafetyIncident
	summary   *entities.IncidentSummary
	err       error
}

func (s *stubIncidentService) ListIncidents(ctx context.Context) ([]*entities.SafetyIncident, error) {
	return s.incidents, s.err
}

func (s *stubIncidentService) IncidentSummary(ctx context.Context) (*entities.IncidentSummary, error) {
	return s.summary, s.err
}

func TestIncidentHandler_List(t *testing.T) {
	episodeID := "EP000007"
	service := &stubIncidentService{
		incidents: []*entities.SafetyIncident{
			{
				IncidentID:  "SI000001",
				EpisodeID:   &episodeID,
				Date:        time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
				Unit:        "Cardiology",
				Category:    entities.IncidentCategoryFalls,
				Severity:    entities.IncidentSeverityMedium,
				Status:      entities.IncidentStatusActive,
				Description: "Patient fall during transfer",
			},
		},
	}
	handler := handlers.NewIncidentHandler(service)

	req := httptest.NewRequest("GET", "/quality/incidents", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&response)
	assert.NoError(t, err)
	assert.Len(t, response, 1)
	assert.Equal(t, "SI000001", response[0]["id"])
	assert.Equal(t, "EP000007", response[0]["episodeId"])
	assert.Equal(t, "2026-03-14", response[0]["date"])
	assert.Equal(t, "Falls", response[0]["category"])
}

func TestIncidentHandler_Summary_NestsKPIs(t *testing.T) {
	service := &stubIncidentService{
		summary: &entities.IncidentSummary{
			KPIs: entities.IncidentKPIs{
				Falls:     entities.KPI{Label: "Falls (30d)", Value: "6", RiskLevel: entities.RiskMedium},
				MedErrors: entities.KPI{Label: "Medication Errors (30d)", Value: "2", RiskLevel: entities.RiskLow},
				Incidents: entities.KPI{Label: "Safety Incidents (30d)", Value: "9", RiskLevel: entities.RiskLow},
			},
			CategoryData: []entities.CategoryCount{
				{Name: "Falls", Value: 6, Fill: "#ef4444"},
			},
		},
	}
	handler := handlers.NewIncidentHandler(service)

	req := httptest.NewRequest("GET", "/quality/incidents/summary", nil)
	w := httptest.NewRecorder()

	handler.Summary(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&response)
	assert.NoError(t, err)

	kpis, ok := response["kpis"].(map[string]interface{})
	assert.True(t, ok, "kpis key must hold the KPI object")
	falls := kpis["falls"].(map[string]interface{})
	assert.Equal(t, "6", falls["value"])
	assert.Equal(t, "Medium", falls["riskLevel"])
	assert.Contains(t, kpis, "medErrors")
	assert.Contains(t, kpis, "incidents")

	categoryData, ok := response["categoryData"].([]interface{})
	assert.True(t, ok, "categoryData must sit beside kpis")
	first := categoryData[0].(map[string]interface{})
	assert.Equal(t, "Falls", first["name"])
	assert.Equal(t, "#ef4444", first["fill"])
}

func TestIncidentHandler_Summary_ServiceError(t *testing.T) {
	service := &stubIncidentService{err: assert.AnError}
	handler := handlers.NewIncidentHandler(service)

	req := httptest.NewRequest("GET", "/quality/incidents/summary", nil)
	w := httptest.NewRecorder()

	handler.Summary(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
