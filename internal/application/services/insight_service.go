package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/carepulse/healthcare-analytics/backend/internal/domain/entities"
	"github.com/carepulse/healthcare-analytics/backend/internal/domain/providers"
	"github.com/carepulse/healthcare-analytics/backend/internal/domain/repositories"
	"github.com/carepulse/healthcare-analytics/backend/internal/infrastructure/observability"
	apperrors "github.com/carepulse/healthcare-analytics/backend/pkg/errors"
)

// GeneratedInsight is the result of generating one insight for an episode.
type GeneratedInsight struct {
	EpisodeID   string
	Kind        entities.InsightKind
	Insight     entities.Insight
	GeneratedAt time.Time
}

// GeneratedInsights is the result of generating all three insights at once.
// The timestamp is shared across the three fields.
type GeneratedInsights struct {
	EpisodeID         string
	Summary           entities.Insight
	RiskExplanation   entities.Insight
	RecommendedAction entities.Insight
	GeneratedAt       time.Time
}

// InsightService generates clinical insight text for episodes and persists
// it. A nil generator means the deployment is not configured for generation;
// every generate call then fails fast without touching stored data. A
// generator call that fails for any other reason than credentials degrades
// to deterministic fallback text so the dashboard is never blocked on the
// model.
type InsightService struct {
	episodes  repositories.EpisodeRepository
	generator providers.TextGenerator
	metrics   *observability.Metrics
	now       func() time.Time
}

// NewInsightService creates a new insight service
func NewInsightService(episodes repositories.EpisodeRepository, generator providers.TextGenerator, metrics *observability.Metrics) *InsightService {
	return &InsightService{
		episodes:  episodes,
		generator: generator,
		metrics:   metrics,
		now:       time.Now,
	}
}

// GenerateSummary generates and persists the episode summary.
func (s *InsightService) GenerateSummary(ctx context.Context, episodeID string) (*GeneratedInsight, error) {
	return s.generateOne(ctx, entities.InsightKindSummary, episodeID)
}

// GenerateRiskExplanation generates and persists the readmission risk
// explanation.
func (s *InsightService) GenerateRiskExplanation(ctx context.Context, episodeID string) (*GeneratedInsight, error) {
	return s.generateOne(ctx, entities.InsightKindRiskExplanation, episodeID)
}

// GenerateRecommendation generates and persists the next-best-action
// recommendations.
func (s *InsightService) GenerateRecommendation(ctx context.Context, episodeID string) (*GeneratedInsight, error) {
	return s.generateOne(ctx, entities.InsightKindRecommendation, episodeID)
}

// GenerateAll generates all three insights for an episode and persists them
// in one write with a single shared timestamp.
func (s *InsightService) GenerateAll(ctx context.Context, episodeID string) (*GeneratedInsights, error) {
	episode, err := s.episodes.GetByEpisodeID(ctx, episodeID)
	if err != nil {
		return nil, err
	}
	if s.generator == nil {
		return nil, apperrors.NewMisconfiguredError("text generation is not configured")
	}

	summary, err := s.generate(ctx, entities.InsightKindSummary, episode)
	if err != nil {
		return nil, err
	}
	explanation, err := s.generate(ctx, entities.InsightKindRiskExplanation, episode)
	if err != nil {
		return nil, err
	}
	recommendation, err := s.generate(ctx, entities.InsightKindRecommendation, episode)
	if err != nil {
		return nil, err
	}

	generatedAt := s.now().UTC()
	update := repositories.InsightUpdate{
		Summary:           &summary,
		RiskExplanation:   &explanation,
		RecommendedAction: &recommendation,
		GeneratedAt:       generatedAt,
	}
	if err := s.episodes.UpdateInsights(ctx, episodeID, update); err != nil {
		return nil, err
	}

	return &GeneratedInsights{
		EpisodeID:         episodeID,
		Summary:           summary,
		RiskExplanation:   explanation,
		RecommendedAction: recommendation,
		GeneratedAt:       generatedAt,
	}, nil
}

func (s *InsightService) generateOne(ctx context.Context, kind entities.InsightKind, episodeID string) (*GeneratedInsight, error) {
	episode, err := s.episodes.GetByEpisodeID(ctx, episodeID)
	if err != nil {
		return nil, err
	}
	if s.generator == nil {
		return nil, apperrors.NewMisconfiguredError("text generation is not configured")
	}

	insight, err := s.generate(ctx, kind, episode)
	if err != nil {
		return nil, err
	}

	generatedAt := s.now().UTC()
	update := repositories.InsightUpdate{GeneratedAt: generatedAt}
	switch kind {
	case entities.InsightKindSummary:
		update.Summary = &insight
	case entities.InsightKindRiskExplanation:
		update.RiskExplanation = &insight
	case entities.InsightKindRecommendation:
		update.RecommendedAction = &insight
	}
	if err := s.episodes.UpdateInsights(ctx, episodeID, update); err != nil {
		return nil, err
	}

	return &GeneratedInsight{
		EpisodeID:   episodeID,
		Kind:        kind,
		Insight:     insight,
		GeneratedAt: generatedAt,
	}, nil
}

// generate calls the model for one insight kind. Credential failures are a
// deployment problem and surface as errors; any other failure degrades to
// the deterministic fallback text.
func (s *InsightService) generate(ctx context.Context, kind entities.InsightKind, episode *entities.Episode) (entities.Insight, error) {
	var systemPrompt, userPrompt, fallback string
	switch kind {
	case entities.InsightKindSummary:
		systemPrompt = summarySystemPrompt
		userPrompt = summaryUserPrompt(episode)
		fallback = summaryFallback(episode)
	case entities.InsightKindRiskExplanation:
		systemPrompt = riskExplanationSystemPrompt
		userPrompt = riskExplanationUserPrompt(episode)
		fallback = riskExplanationFallback(episode)
	case entities.InsightKindRecommendation:
		systemPrompt = recommendationSystemPrompt
		userPrompt = recommendationUserPrompt(episode)
		fallback = recommendationFallback(episode)
	default:
		return entities.Insight{}, apperrors.NewValidationError("unknown insight kind")
	}

	text, err := s.generator.Generate(ctx, systemPrompt, userPrompt)
	if errors.Is(err, providers.ErrTextGeneratorUnauthorized) {
		return entities.Insight{}, apperrors.NewMisconfiguredError("text generation credentials rejected")
	}
	if err != nil || strings.TrimSpace(text) == "" {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("episode_id", episode.EpisodeID).
			Str("kind", string(kind)).
			Msg("text generation failed, using fallback")
		observability.RecordInsightMetric(ctx, s.metrics, string(kind), string(entities.InsightSourceFallback))
		return entities.Insight{Text: fallback, Source: entities.InsightSourceFallback}, nil
	}

	observability.RecordInsightMetric(ctx, s.metrics, string(kind), string(entities.InsightSourceGenerated))
	return entities.Insight{Text: strings.TrimSpace(text), Source: entities.InsightSourceGenerated}, nil
}
