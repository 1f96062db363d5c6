package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/carepulse/healthcare-analytics/backend/internal/domain/entities"
	"github.com/carepulse/healthcare-analytics/backend/internal/domain/repositories"
	"github.com/carepulse/healthcare-analytics/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/carepulse/healthcare-analytics/backend/pkg/errors"
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
)

var episodeColumns = []interface{}{
	"id", "episode_id", "patient_id", "patient_name", "unit",
	"admit_date", "discharge_date", "length_of_stay", "primary_diagnosis",
	"readmitted_30d", "risk_score",
	"summary", "summary_source",
	"risk_explanation", "risk_explanation_source",
	"recommended_action", "recommended_action_source",
	"ai_generated_at", "created_at",
}

// EpisodeAdapter implements EpisodeRepository in Postgres.
type EpisodeAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewEpisodeAdapter creates a new episode adapter
func NewEpisodeAdapter(client *postgres.Client) repositories.EpisodeRepository {
	return &EpisodeAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a patient episode.
func (a *EpisodeAdapter) Create(ctx context.Context, episode *entities.Episode) error {
	record := goqu.Record{
		"episode_id":                episode.EpisodeID,
		"patient_id":                episode.PatientID,
		"patient_name":              episode.PatientName,
		"unit":                      episode.Unit,
		"admit_date":                episode.AdmitDate,
		"discharge_date":            episode.DischargeDate,
		"length_of_stay":            episode.LengthOfStay,
		"primary_diagnosis":         episode.PrimaryDiagnosis,
		"readmitted_30d":            episode.ReadmittedWithin30Days,
		"risk_score":                episode.RiskScore,
		"summary":                   nullInsightText(episode.Summary),
		"summary_source":            nullInsightSource(episode.Summary),
		"risk_explanation":          nullInsightText(episode.RiskExplanation),
		"risk_explanation_source":   nullInsightSource(episode.RiskExplanation),
		"recommended_action":        nullInsightText(episode.RecommendedAction),
		"recommended_action_source": nullInsightSource(episode.RecommendedAction),
		"ai_generated_at":           episode.AIGeneratedAt,
		"created_at":                episode.CreatedAt,
	}

	query, args, err := a.db.Insert("patient_episodes").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build episode insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create episode", err)
	}

	return nil
}

// GetByEpisodeID retrieves an episode by its external identifier.
func (a *EpisodeAdapter) GetByEpisodeID(ctx context.Context, episodeID string) (*entities.Episode, error) {
	query, args, err := a.db.Select(episodeColumns...).
		From("patient_episodes").
		Where(goqu.Ex{"episode_id": episodeID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build episode query", err)
	}

	row := a.client.DB().QueryRowContext(ctx, query, args...)
	episode, err := scanEpisode(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("episode %s not found", episodeID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get episode", err)
	}

	return episode, nil
}

// List retrieves episodes matching the filter, ordered by risk score
// descending with missing scores last.
func (a *EpisodeAdapter) List(ctx context.Context, filter repositories.EpisodeFilter) ([]*entities.Episode, error) {
	ds := a.db.Select(episodeColumns...).From("patient_episodes")

	if filter.Unit != "" && filter.Unit != "All" {
		ds = ds.Where(goqu.Ex{"unit": filter.Unit})
	}

	switch filter.RiskLevel {
	case entities.RiskHigh:
		ds = ds.Where(goqu.C("risk_score").Gte(entities.RiskScoreHighThreshold))
	case entities.RiskMedium:
		ds = ds.Where(
			goqu.C("risk_score").Gte(entities.RiskScoreMediumThreshold),
			goqu.C("risk_score").Lt(entities.RiskScoreHighThreshold),
		)
	case entities.RiskLow:
		ds = ds.Where(goqu.Or(
			goqu.C("risk_score").Lt(entities.RiskScoreMediumThreshold),
			goqu.C("risk_score").IsNull(),
		))
	}

	ds = ds.Order(goqu.I("risk_score").Desc().NullsLast())

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build episode list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list episodes", err)
	}
	defer rows.Close()

	var episodes []*entities.Episode
	for rows.Next() {
		episode, err := scanEpisode(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan episode", err)
		}
		episodes = append(episodes, episode)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating episodes", err)
	}

	return episodes, nil
}

// ListAll retrieves every episode for aggregation.
func (a *EpisodeAdapter) ListAll(ctx context.Context) ([]*entities.Episode, error) {
	return a.List(ctx, repositories.EpisodeFilter{})
}

// UpdateInsights writes the generated insight fields and the shared
// generation timestamp in a single statement.
func (a *EpisodeAdapter) UpdateInsights(ctx context.Context, episodeID string, update repositories.InsightUpdate) error {
	record := goqu.Record{
		"ai_generated_at": update.GeneratedAt,
	}

	fields := 0
	if update.Summary != nil {
		record["summary"] = update.Summary.Text
		record["summary_source"] = string(update.Summary.Source)
		fields++
	}
	if update.RiskExplanation != nil {
		record["risk_explanation"] = update.RiskExplanation.Text
		record["risk_explanation_source"] = string(update.RiskExplanation.Source)
		fields++
	}
	if update.RecommendedAction != nil {
		record["recommended_action"] = update.RecommendedAction.Text
		record["recommended_action_source"] = string(update.RecommendedAction.Source)
		fields++
	}
	if fields == 0 {
		return apperrors.NewValidationError("insight update has no fields")
	}

	query, args, err := a.db.Update("patient_episodes").
		Set(record).
		Where(goqu.Ex{"episode_id": episodeID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insight update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update episode insights", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("episode %s not found", episodeID))
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEpisode(row rowScanner) (*entities.Episode, error) {
	episode := &entities.Episode{}
	var (
		dischargeDate sql.NullTime
		lengthOfStay  sql.NullFloat64
		riskScore     sql.NullFloat64
		aiGeneratedAt sql.NullTime

		summary, summarySource       sql.NullString
		explanation, explanationSrc  sql.NullString
		action, actionSource         sql.NullString
	)

	err := row.Scan(
		&episode.ID,
		&episode.EpisodeID,
		&episode.PatientID,
		&episode.PatientName,
		&episode.Unit,
		&episode.AdmitDate,
		&dischargeDate,
		&lengthOfStay,
		&episode.PrimaryDiagnosis,
		&episode.ReadmittedWithin30Days,
		&riskScore,
		&summary,
		&summarySource,
		&explanation,
		&explanationSrc,
		&action,
		&actionSource,
		&aiGeneratedAt,
		&episode.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if dischargeDate.Valid {
		episode.DischargeDate = &dischargeDate.Time
	}
	if lengthOfStay.Valid {
		episode.LengthOfStay = &lengthOfStay.Float64
	}
	if riskScore.Valid {
		episode.RiskScore = &riskScore.Float64
	}
	if aiGeneratedAt.Valid {
		episode.AIGeneratedAt = &aiGeneratedAt.Time
	}

	episode.Summary = insightFromColumns(summary, summarySource)
	episode.RiskExplanation = insightFromColumns(explanation, explanationSrc)
	episode.RecommendedAction = insightFromColumns(action, actionSource)

	return episode, nil
}

func insightFromColumns(text, source sql.NullString) entities.Insight {
	if !text.Valid || text.String == "" {
		return entities.Insight{}
	}
	src := entities.InsightSource(source.String)
	if src == "" {
		src = entities.InsightSourceManual
	}
	return entities.Insight{Text: text.String, Source: src}
}

func nullInsightText(insight entities.Insight) sql.NullString {
	return sql.NullString{String: insight.Text, Valid: insight.Text != ""}
}

func nullInsightSource(insight entities.Insight) sql.NullString {
	return sql.NullString{String: string(insight.Source), Valid: insight.Text != ""}
}
