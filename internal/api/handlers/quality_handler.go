package handlers

import (
	"context"
	"net/http"

	"github.com/carepulse/healthcare-analytics/backend/internal/domain/entities"
)

// QualityQueryService defines the handler dependency for data quality views.
type QualityQueryService interface {
	ListIssues(ctx context.Context) ([]*entities.DataQualityIssue, error)
	DataQualityMetrics(ctx context.Context) (*entities.DataQualityMetrics, error)
}

// QualityHandler handles data quality requests
type QualityHandler struct {
	service QualityQueryService
}

// NewQualityHandler creates a new quality handler
func NewQualityHandler(service QualityQueryService) *QualityHandler {
	return &QualityHandler{service: service}
}

type issueResponse struct {
	ID          string `json:"id"`
	RecordType  string `json:"recordType"`
	RecordID    string `json:"recordId"`
	Unit        string `json:"unit"`
	IssueType   string `json:"issueType"`
	Field       string `json:"field"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	LastUpdated string `json:"lastUpdated"`
}

// ListIssues handles GET /data-quality/issues
func (h *QualityHandler) ListIssues(w http.ResponseWriter, r *http.Request) {
	issues, err := h.service.ListIssues(r.Context())
	if err != nil {
		respondWithAppError(w, err, "failed to list data quality issues")
		return
	}

	responses := make([]issueResponse, 0, len(issues))
	for _, issue := range issues {
		responses = append(responses, issueResponse{
			ID:          issue.DisplayID(),
			RecordType:  issue.RecordType,
			RecordID:    issue.RecordID,
			Unit:        issue.Unit,
			IssueType:   string(issue.IssueType),
			Field:       issue.Field,
			Severity:    string(issue.Severity),
			Description: issue.Description,
			LastUpdated: issue.LastUpdated.Format("2006-01-02"),
		})
	}

	respondWithJSON(w, http.StatusOK, responses)
}

// Metrics handles GET /data-quality/metrics
func (h *QualityHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.service.DataQualityMetrics(r.Context())
	if err != nil {
		respondWithAppError(w, err, "failed to compute data quality metrics")
		return
	}

	respondWithJSON(w, http.StatusOK, metrics)
}
