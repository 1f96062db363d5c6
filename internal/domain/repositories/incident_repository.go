package repositories

import (
	"context"

	"github.com/carepulse/healthcare-analytics/backend/internal/domain/entities"
)

// IncidentRepository persists safety incidents.
type IncidentRepository interface {
	Create(ctx context.Context, incident *entities.SafetyIncident) error

	// List returns all incidents ordered by date descending.
	List(ctx context.Context) ([]*entities.SafetyIncident, error)
}
