package repositories

import (
	"context"
	"time"

	"github.com/carepulse/healthcare-analytics/backend/internal/domain/entities"
)

// EpisodeFilter narrows episode listings. The zero value (or the "All"
// sentinel) means no filtering on that dimension.
type EpisodeFilter struct {
	Unit      string
	RiskLevel entities.RiskLevel
	Limit     int
}

// InsightUpdate carries the insight fields to write onto an episode. Nil
// fields are left untouched; the write is a single statement so concurrent
// generations cannot interleave partial updates.
type InsightUpdate struct {
	Summary           *entities.Insight
	RiskExplanation   *entities.Insight
	RecommendedAction *entities.Insight
	GeneratedAt       time.Time
}

// EpisodeRepository persists patient episodes.
type EpisodeRepository interface {
	Create(ctx context.Context, episode *entities.Episode) error
	GetByEpisodeID(ctx context.Context, episodeID string) (*entities.Episode, error)

	// List returns filtered episodes ordered by risk score descending with
	// missing scores last.
	List(ctx context.Context, filter EpisodeFilter) ([]*entities.Episode, error)

	// ListAll returns every episode for aggregation.
	ListAll(ctx context.Context) ([]*entities.Episode, error)

	// UpdateInsights writes generated insight text and the shared generation
	// timestamp onto the episode row.
	UpdateInsights(ctx context.Context, episodeID string, update InsightUpdate) error
}
