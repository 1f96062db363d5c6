package database

import (
	"context"

	"github.com/carepulse/healthcare-analytics/backend/internal/domain/entities"
	"github.com/carepulse/healthcare-analytics/backend/internal/domain/repositories"
	"github.com/carepulse/healthcare-analytics/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/carepulse/healthcare-analytics/backend/pkg/errors"
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
)

// IncidentAdapter implements IncidentRepository in Postgres.
type IncidentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewIncidentAdapter creates a new incident adapter
func NewIncidentAdapter(client *postgres.Client) repositories.IncidentRepository {
	return &IncidentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a safety incident.
func (a *IncidentAdapter) Create(ctx context.Context, incident *entities.SafetyIncident) error {
	record := goqu.Record{
		"incident_id": incident.IncidentID,
		"episode_id":  incident.EpisodeID,
		"date":        incident.Date,
		"unit":        incident.Unit,
		"category":    string(incident.Category),
		"severity":    string(incident.Severity),
		"status":      string(incident.Status),
		"description": incident.Description,
		"created_at":  incident.CreatedAt,
	}

	query, args, err := a.db.Insert("safety_incidents").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build incident insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create incident", err)
	}

	return nil
}

// List retrieves all safety incidents, most recent first.
func (a *IncidentAdapter) List(ctx context.Context) ([]*entities.SafetyIncident, error) {
	query, args, err := a.db.Select(
		"id", "incident_id", "episode_id", "date", "unit",
		"category", "severity", "status", "description", "created_at",
	).
		From("safety_incidents").
		Order(goqu.I("date").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build incident list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list incidents", err)
	}
	defer rows.Close()

	var incidents []*entities.SafetyIncident
	for rows.Next() {
		incident := &entities.SafetyIncident{}
		err := rows.Scan(
			&incident.ID,
			&incident.IncidentID,
			&incident.EpisodeID,
			&incident.Date,
			&incident.Unit,
			&incident.Category,
			&incident.Severity,
			&incident.Status,
			&incident.Description,
			&incident.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan incident", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating incidents", err)
	}

	return incidents, nil
}
