package handlers

import (
	"context"
	"net/http"

	"github.com/carepulse/healthcare-analytics/backend/internal/domain/entities"
)

// IncidentQueryService defines the handler dependency for safety incidents.
type IncidentQueryService interface {
	ListIncidents(ctx context.Context) ([]*entities.SafetyIncident, error)
	IncidentSummary(ctx context.Context) (*entities.IncidentSummary, error)
}

// IncidentHandler handles safety incident requests
type IncidentHandler struct {
	service IncidentQueryService
}

// NewIncidentHandler creates a new incident handler
func NewIncidentHandler(service IncidentQueryService) *IncidentHandler {
	return &IncidentHandler{service: service}
}

type incidentResponse struct {
	ID          string  `json:"id"`
	EpisodeID   *string `json:"episodeId"`
	Date        string  `json:"date"`
	Unit        string  `json:"unit"`
	Category    string  `json:"category"`
	Severity    string  `json:"severity"`
	Status      string  `json:"status"`
	Description string  `json:"description"`
}

// List handles GET /quality/incidents
func (h *IncidentHandler) List(w http.ResponseWriter, r *http.Request) {
	incidents, err := h.service.ListIncidents(r.Context())
	if err != nil {
		respondWithAppError(w, err, "failed to list incidents")
		return
	}

	responses := make([]incidentResponse, 0, len(incidents))
	for _, inc := range incidents {
		responses = append(responses, incidentResponse{
			ID:          inc.IncidentID,
			EpisodeID:   inc.EpisodeID,
			Date:        inc.Date.Format("2006-01-02"),
			Unit:        inc.Unit,
			Category:    string(inc.Category),
			Severity:    string(inc.Severity),
			Status:      string(inc.Status),
			Description: inc.Description,
		})
	}

	respondWithJSON(w, http.StatusOK, responses)
}

// Summary handles GET /quality/incidents/summary
func (h *IncidentHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.IncidentSummary(r.Context())
	if err != nil {
		respondWithAppError(w, err, "failed to compute incident summary")
		return
	}

	respondWithJSON(w, http.StatusOK, summary)
}
