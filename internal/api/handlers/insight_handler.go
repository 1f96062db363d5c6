package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/carepulse/healthcare-analytics/backend/internal/application/services"
)

// InsightGenerationService defines the handler dependency for insight
// generation.
type InsightGenerationService interface {
	GenerateSummary(ctx context.Context, episodeID string) (*services.GeneratedInsight, error)
	GenerateRiskExplanation(ctx context.Context, episodeID string) (*services.GeneratedInsight, error)
	GenerateRecommendation(ctx context.Context, episodeID string) (*services.GeneratedInsight, error)
	GenerateAll(ctx context.Context, episodeID string) (*services.GeneratedInsights, error)
}

// InsightHandler handles insight generation requests
type InsightHandler struct {
	service InsightGenerationService
}

// NewInsightHandler creates a new insight handler
func NewInsightHandler(service InsightGenerationService) *InsightHandler {
	return &InsightHandler{service: service}
}

func generatedAt(t time.Time) string {
	return t.Format(time.RFC3339)
}

// Summary handles POST /llm/summary/{id}
func (h *InsightHandler) Summary(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "episode ID is required")
		return
	}

	result, err := h.service.GenerateSummary(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err, "failed to generate summary")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"episode_id":   result.EpisodeID,
		"summary":      result.Insight.Text,
		"source":       string(result.Insight.Source),
		"generated_at": generatedAt(result.GeneratedAt),
	})
}

// RiskExplanation handles POST /llm/risk-explanation/{id}
func (h *InsightHandler) RiskExplanation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "episode ID is required")
		return
	}

	result, err := h.service.GenerateRiskExplanation(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err, "failed to generate risk explanation")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"episode_id":       result.EpisodeID,
		"risk_explanation": result.Insight.Text,
		"source":           string(result.Insight.Source),
		"generated_at":     generatedAt(result.GeneratedAt),
	})
}

// Recommendations handles POST /llm/recommendations/{id}
func (h *InsightHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "episode ID is required")
		return
	}

	result, err := h.service.GenerateRecommendation(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err, "failed to generate recommendations")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"episode_id":      result.EpisodeID,
		"recommendations": result.Insight.Text,
		"source":          string(result.Insight.Source),
		"generated_at":    generatedAt(result.GeneratedAt),
	})
}

// GenerateAll handles POST /llm/generate-all/{id}
func (h *InsightHandler) GenerateAll(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "episode ID is required")
		return
	}

	result, err := h.service.GenerateAll(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err, "failed to generate insights")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"episode_id":              result.EpisodeID,
		"summary":                 result.Summary.Text,
		"summary_source":          string(result.Summary.Source),
		"risk_explanation":        result.RiskExplanation.Text,
		"risk_explanation_source": string(result.RiskExplanation.Source),
		"recommendations":         result.RecommendedAction.Text,
		"recommendations_source":  string(result.RecommendedAction.Source),
		"generated_at":            generatedAt(result.GeneratedAt),
	})
}
