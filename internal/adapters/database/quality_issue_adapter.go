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

// QualityIssueAdapter implements QualityIssueRepository in Postgres.
type QualityIssueAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewQualityIssueAdapter creates a new quality issue adapter
func NewQualityIssueAdapter(client *postgres.Client) repositories.QualityIssueRepository {
	return &QualityIssueAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a data quality issue.
func (a *QualityIssueAdapter) Create(ctx context.Context, issue *entities.DataQualityIssue) error {
	record := goqu.Record{
		"record_type":  issue.RecordType,
		"record_id":    issue.RecordID,
		"unit":         issue.Unit,
		"issue_type":   string(issue.IssueType),
		"field":        issue.Field,
		"severity":     string(issue.Severity),
		"description":  issue.Description,
		"last_updated": issue.LastUpdated,
		"created_at":   issue.CreatedAt,
	}

	query, args, err := a.db.Insert("data_quality_issues").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build issue insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create issue", err)
	}

	return nil
}

// List retrieves all data quality issues, highest severity first and most
// recently updated within a severity.
func (a *QualityIssueAdapter) List(ctx context.Context) ([]*entities.DataQualityIssue, error) {
	severityRank := goqu.Case().
		When(goqu.C("severity").Eq(string(entities.IssueSeverityHigh)), 0).
		When(goqu.C("severity").Eq(string(entities.IssueSeverityMedium)), 1).
		Else(2)

	query, args, err := a.db.Select(
		"id", "record_type", "record_id", "unit", "issue_type",
		"field", "severity", "description", "last_updated", "created_at",
	).
		From("data_quality_issues").
		Order(severityRank.Asc(), goqu.I("last_updated").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build issue list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list issues", err)
	}
	defer rows.Close()

	var issues []*entities.DataQualityIssue
	for rows.Next() {
		issue := &entities.DataQualityIssue{}
		err := rows.Scan(
			&issue.ID,
			&issue.RecordType,
			&issue.RecordID,
			&issue.Unit,
			&issue.IssueType,
			&issue.Field,
			&issue.Severity,
			&issue.Description,
			&issue.LastUpdated,
			&issue.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan issue", err)
		}
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating issues", err)
	}

	return issues, nil
}
