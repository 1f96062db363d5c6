package handlers

import (
	"context"
	"net/http"

	"github.com/carepulse/healthcare-analytics/backend/internal/domain/entities"
)

// EpisodeQueryService defines the handler dependency for episode listings.
type EpisodeQueryService interface {
	ListEpisodes(ctx context.Context, unit, riskLevel string) ([]*entities.Episode, error)
	HighRiskEpisodes(ctx context.Context) ([]*entities.Episode, error)
	GetEpisode(ctx context.Context, episodeID string) (*entities.Episode, error)
}

// EpisodeHandler handles readmission episode requests
type EpisodeHandler struct {
	service EpisodeQueryService
}

// NewEpisodeHandler creates a new episode handler
func NewEpisodeHandler(service EpisodeQueryService) *EpisodeHandler {
	return &EpisodeHandler{service: service}
}

// episodeResponse is the dashboard projection of an episode.
type episodeResponse struct {
	ID              string   `json:"id"`
	PatientID       string   `json:"patientId"`
	PatientName     string   `json:"patientName"`
	Unit            string   `json:"unit"`
	AdmissionDate   string   `json:"admissionDate"`
	DischargeDate   *string  `json:"dischargeDate"`
	RiskLevel       string   `json:"riskLevel"`
	LOS             *float64 `json:"los"`
	Diagnosis       string   `json:"diagnosis"`
	Summary         string   `json:"summary"`
	RiskExplanation string   `json:"riskExplanation"`
	NextBestAction  string   `json:"nextBestAction"`
}

func toEpisodeResponse(e *entities.Episode) episodeResponse {
	var dischargeDate *string
	if e.DischargeDate != nil {
		formatted := e.DischargeDate.Format("2006-01-02")
		dischargeDate = &formatted
	}

	return episodeResponse{
		ID:              e.EpisodeID,
		PatientID:       e.PatientID,
		PatientName:     e.PatientName,
		Unit:            e.Unit,
		AdmissionDate:   e.AdmitDate.Format("2006-01-02"),
		DischargeDate:   dischargeDate,
		RiskLevel:       string(e.RiskTier()),
		LOS:             e.LengthOfStay,
		Diagnosis:       e.PrimaryDiagnosis,
		Summary:         e.Summary.Text,
		RiskExplanation: e.RiskExplanation.Text,
		NextBestAction:  e.RecommendedAction.Text,
	}
}

func toEpisodeResponses(episodes []*entities.Episode) []episodeResponse {
	responses := make([]episodeResponse, 0, len(episodes))
	for _, e := range episodes {
		responses = append(responses, toEpisodeResponse(e))
	}
	return responses
}

// List handles GET /readmissions/list
func (h *EpisodeHandler) List(w http.ResponseWriter, r *http.Request) {
	unit := r.URL.Query().Get("unit")
	riskLevel := r.URL.Query().Get("risk_level")

	episodes, err := h.service.ListEpisodes(r.Context(), unit, riskLevel)
	if err != nil {
		respondWithAppError(w, err, "failed to list episodes")
		return
	}

	respondWithJSON(w, http.StatusOK, toEpisodeResponses(episodes))
}

// HighRisk handles GET /readmissions/high-risk
func (h *EpisodeHandler) HighRisk(w http.ResponseWriter, r *http.Request) {
	episodes, err := h.service.HighRiskEpisodes(r.Context())
	if err != nil {
		respondWithAppError(w, err, "failed to list high-risk episodes")
		return
	}

	respondWithJSON(w, http.StatusOK, toEpisodeResponses(episodes))
}

// Get handles GET /readmissions/{id}
func (h *EpisodeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "episode ID is required")
		return
	}

	episode, err := h.service.GetEpisode(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err, "failed to get episode")
		return
	}

	respondWithJSON(w, http.StatusOK, toEpisodeResponse(episode))
}
