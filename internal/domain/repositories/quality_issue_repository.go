package repositories

import (
	"context"

	"github.com/carepulse/healthcare-analytics/backend/internal/domain/entities"
)

// QualityIssueRepository persists data quality issues.
type QualityIssueRepository interface {
	Create(ctx context.Context, issue *entities.DataQualityIssue) error

	// List returns all issues ordered by severity (High first), then by
	// last update descending.
	List(ctx context.Context) ([]*entities.DataQualityIssue, error)
}
