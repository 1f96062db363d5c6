package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/carepulse/healthcare-analytics/backend/internal/domain/entities"
	"github.com/carepulse/healthcare-analytics/backend/internal/domain/providers"
	"github.com/carepulse/healthcare-analytics/backend/internal/domain/repositories"
	"github.com/carepulse/healthcare-analytics/backend/internal/infrastructure/observability"
	apperrors "github.com/carepulse/healthcare-analytics/backend/pkg/errors"
)

const (
	snapshotKeyPrefix = "metrics:snapshot:"

	safetyWindowDays = 30
	trendWindowDays  = 180
	trendBuckets     = 6
	highRiskLimit    = 20
)

// Chart colors the dashboard frontend expects.
var riskBucketColors = map[entities.RiskLevel]string{
	entities.RiskLow:    "#10b981",
	entities.RiskMedium: "#f59e0b",
	entities.RiskHigh:   "#ef4444",
}

var categoryFills = map[entities.IncidentCategory]string{
	entities.IncidentCategoryFalls:           "#ef4444",
	entities.IncidentCategoryMedicationError: "#f59e0b",
	entities.IncidentCategoryPressureInjury:  "#8b5cf6",
	entities.IncidentCategoryInfection:       "#3b82f6",
}

const categoryFillDefault = "#6b7280"

// MetricsService aggregates stored episodes, incidents and quality issues
// into the dashboard metric payloads. The snapshot cache is optional; without
// it KPI change indicators stay empty.
type MetricsService struct {
	episodes  repositories.EpisodeRepository
	incidents repositories.IncidentRepository
	issues    repositories.QualityIssueRepository
	snapshots providers.CacheProvider
	metrics   *observability.Metrics
	now       func() time.Time
}

// NewMetricsService creates a new metrics service
func NewMetricsService(
	episodes repositories.EpisodeRepository,
	incidents repositories.IncidentRepository,
	issues repositories.QualityIssueRepository,
	snapshots providers.CacheProvider,
	metrics *observability.Metrics,
) *MetricsService {
	return &MetricsService{
		episodes:  episodes,
		incidents: incidents,
		issues:    issues,
		snapshots: snapshots,
		metrics:   metrics,
		now:       time.Now,
	}
}

type overviewSnapshot struct {
	ReadmissionRate float64 `json:"readmission_rate"`
	AvgLOS          float64 `json:"avg_los"`
	SafetyEvents    int     `json:"safety_events"`
	QualityScore    float64 `json:"quality_score"`
}

// Overview computes the four top-line dashboard KPIs.
func (s *MetricsService) Overview(ctx context.Context) (*entities.OverviewMetrics, error) {
	ctx, span := observability.StartSpan(ctx, "metrics.overview")
	defer span.End()
	start := time.Now()

	episodes, err := s.episodes.ListAll(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	incidents, err := s.incidents.List(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	issues, err := s.issues.List(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	var discharged, readmitted int
	var losSum float64
	var losCount int
	for _, e := range episodes {
		if e.Discharged() {
			discharged++
			if e.ReadmittedWithin30Days {
				readmitted++
			}
		}
		if e.LengthOfStay != nil {
			losSum += *e.LengthOfStay
			losCount++
		}
	}

	readmissionRate := 0.0
	if discharged > 0 {
		readmissionRate = round1(float64(readmitted) / float64(discharged) * 100)
	}

	avgLOS := 0.0
	if losCount > 0 {
		avgLOS = round1(losSum / float64(losCount))
	}

	safetyCutoff := s.now().AddDate(0, 0, -safetyWindowDays)
	safetyEvents := 0
	for _, inc := range incidents {
		if inc.Date.After(safetyCutoff) {
			safetyEvents++
		}
	}

	qualityScore := dataQualityScore(issues)

	var prior overviewSnapshot
	hasPrior := s.loadSnapshot(ctx, "overview", &prior)

	metrics := &entities.OverviewMetrics{
		ReadmissionRate: entities.KPI{
			Label:     "30-Day Readmission Rate",
			Value:     fmt.Sprintf("%.1f%%", readmissionRate),
			RiskLevel: entities.LevelForValue(readmissionRate, entities.ReadmissionRateLowThreshold, entities.ReadmissionRateHighThreshold),
		},
		AvgLOS: entities.KPI{
			Label:     "Avg Length of Stay",
			Value:     fmt.Sprintf("%.1f days", avgLOS),
			RiskLevel: entities.LevelForValue(avgLOS, entities.AvgLOSLowThreshold, entities.AvgLOSHighThreshold),
		},
		SafetyEvents: entities.KPI{
			Label:     "Patient Safety Events",
			Value:     strconv.Itoa(safetyEvents),
			RiskLevel: entities.LevelForValue(float64(safetyEvents), entities.SafetyEventsLowThreshold, entities.SafetyEventsHighThreshold),
		},
		DataQualityScore: entities.KPI{
			Label:     "Data Quality Score",
			Value:     fmt.Sprintf("%.1f%%", qualityScore),
			RiskLevel: entities.LevelForValue(100-qualityScore, entities.QualityDeficitLowThreshold, entities.QualityDeficitHighThreshold),
		},
	}

	if hasPrior {
		metrics.ReadmissionRate.Change = fmt.Sprintf("%+.1f%%", readmissionRate-prior.ReadmissionRate)
		metrics.AvgLOS.Change = fmt.Sprintf("%+.1f days", avgLOS-prior.AvgLOS)
		metrics.SafetyEvents.Change = fmt.Sprintf("%+d", safetyEvents-prior.SafetyEvents)
		metrics.DataQualityScore.Change = fmt.Sprintf("%+.1f%%", qualityScore-prior.QualityScore)
	}

	s.storeSnapshot(ctx, "overview", overviewSnapshot{
		ReadmissionRate: readmissionRate,
		AvgLOS:          avgLOS,
		SafetyEvents:    safetyEvents,
		QualityScore:    qualityScore,
	})

	observability.RecordAggregationMetric(ctx, s.metrics, "overview", time.Since(start))
	return metrics, nil
}

// ListEpisodes returns episodes filtered by unit and risk tier. "All" (or
// empty) disables a filter; any other unrecognized tier is rejected.
func (s *MetricsService) ListEpisodes(ctx context.Context, unit, riskLevel string) ([]*entities.Episode, error) {
	filter := repositories.EpisodeFilter{Unit: unit}

	switch riskLevel {
	case "", "All":
	case string(entities.RiskLow), string(entities.RiskMedium), string(entities.RiskHigh):
		filter.RiskLevel = entities.RiskLevel(riskLevel)
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown risk level: %s", riskLevel))
	}

	return s.episodes.List(ctx, filter)
}

// HighRiskEpisodes returns the top high-tier episodes by risk score.
func (s *MetricsService) HighRiskEpisodes(ctx context.Context) ([]*entities.Episode, error) {
	return s.episodes.List(ctx, repositories.EpisodeFilter{
		RiskLevel: entities.RiskHigh,
		Limit:     highRiskLimit,
	})
}

// GetEpisode retrieves a single episode by its external identifier.
func (s *MetricsService) GetEpisode(ctx context.Context, episodeID string) (*entities.Episode, error) {
	return s.episodes.GetByEpisodeID(ctx, episodeID)
}

// ListIncidents returns all safety incidents, most recent first.
func (s *MetricsService) ListIncidents(ctx context.Context) ([]*entities.SafetyIncident, error) {
	return s.incidents.List(ctx)
}

type incidentSnapshot struct {
	Falls     int `json:"falls"`
	MedErrors int `json:"med_errors"`
	Incidents int `json:"incidents"`
}

// IncidentSummary computes the trailing-30-day safety KPIs and category
// breakdown.
func (s *MetricsService) IncidentSummary(ctx context.Context) (*entities.IncidentSummary, error) {
	ctx, span := observability.StartSpan(ctx, "metrics.incident_summary")
	defer span.End()
	start := time.Now()

	incidents, err := s.incidents.List(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	cutoff := s.now().AddDate(0, 0, -safetyWindowDays)
	counts := map[entities.IncidentCategory]int{}
	total := 0
	for _, inc := range incidents {
		if !inc.Date.After(cutoff) {
			continue
		}
		counts[inc.Category]++
		total++
	}

	falls := counts[entities.IncidentCategoryFalls]
	medErrors := counts[entities.IncidentCategoryMedicationError]

	var prior incidentSnapshot
	hasPrior := s.loadSnapshot(ctx, "incidents", &prior)

	summary := &entities.IncidentSummary{
		KPIs: entities.IncidentKPIs{
			Falls: entities.KPI{
				Label:     "Falls (30d)",
				Value:     strconv.Itoa(falls),
				RiskLevel: entities.LevelForCount(falls, entities.FallsMediumCutoff),
			},
			MedErrors: entities.KPI{
				Label:     "Medication Errors (30d)",
				Value:     strconv.Itoa(medErrors),
				RiskLevel: entities.LevelForCount(medErrors, entities.MedErrorsMediumCutoff),
			},
			Incidents: entities.KPI{
				Label:     "Safety Incidents (30d)",
				Value:     strconv.Itoa(total),
				RiskLevel: entities.LevelForCount(total, entities.IncidentsMediumCutoff),
			},
		},
		CategoryData: categoryBreakdown(counts),
	}

	if hasPrior {
		summary.KPIs.Falls.Change = fmt.Sprintf("%+d", falls-prior.Falls)
		summary.KPIs.MedErrors.Change = fmt.Sprintf("%+d", medErrors-prior.MedErrors)
		summary.KPIs.Incidents.Change = fmt.Sprintf("%+d", total-prior.Incidents)
	}

	s.storeSnapshot(ctx, "incidents", incidentSnapshot{
		Falls:     falls,
		MedErrors: medErrors,
		Incidents: total,
	})

	observability.RecordAggregationMetric(ctx, s.metrics, "incident_summary", time.Since(start))
	return summary, nil
}

// ListIssues returns all data quality issues, highest severity first.
func (s *MetricsService) ListIssues(ctx context.Context) ([]*entities.DataQualityIssue, error) {
	return s.issues.List(ctx)
}

type qualitySnapshot struct {
	Invalid    int `json:"invalid"`
	Missing    int `json:"missing"`
	Duplicates int `json:"duplicates"`
	Stale      int `json:"stale"`
}

// DataQualityMetrics computes the data quality KPIs and per-unit breakdown.
func (s *MetricsService) DataQualityMetrics(ctx context.Context) (*entities.DataQualityMetrics, error) {
	ctx, span := observability.StartSpan(ctx, "metrics.data_quality")
	defer span.End()
	start := time.Now()

	issues, err := s.issues.List(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	typeCounts := map[entities.IssueType]int{}
	unitCounts := map[string]*entities.UnitIssueCounts{}
	for _, issue := range issues {
		typeCounts[issue.IssueType]++

		unit, ok := unitCounts[issue.Unit]
		if !ok {
			unit = &entities.UnitIssueCounts{Name: issue.Unit}
			unitCounts[issue.Unit] = unit
		}
		switch issue.IssueType {
		case entities.IssueTypeInvalid:
			unit.Invalid++
		case entities.IssueTypeMissing:
			unit.Missing++
		case entities.IssueTypeDuplicate:
			unit.Duplicates++
		case entities.IssueTypeStale:
			unit.Stale++
		}
	}

	byUnit := make([]entities.UnitIssueCounts, 0, len(unitCounts))
	for _, unit := range unitCounts {
		byUnit = append(byUnit, *unit)
	}
	sort.Slice(byUnit, func(i, j int) bool { return byUnit[i].Name < byUnit[j].Name })

	invalid := typeCounts[entities.IssueTypeInvalid]
	missing := typeCounts[entities.IssueTypeMissing]
	duplicates := typeCounts[entities.IssueTypeDuplicate]
	stale := typeCounts[entities.IssueTypeStale]

	var prior qualitySnapshot
	hasPrior := s.loadSnapshot(ctx, "quality", &prior)

	metrics := &entities.DataQualityMetrics{
		KPIs: entities.DataQualityKPIs{
			InvalidRecords: entities.KPI{
				Label:     "Invalid Records",
				Value:     strconv.Itoa(invalid),
				RiskLevel: entities.LevelForCount(invalid, entities.InvalidMediumCutoff),
			},
			MissingFields: entities.KPI{
				Label:     "Missing Fields",
				Value:     strconv.Itoa(missing),
				RiskLevel: entities.LevelForCount(missing, entities.MissingMediumCutoff),
			},
			Duplicates: entities.KPI{
				Label:     "Duplicate Records",
				Value:     strconv.Itoa(duplicates),
				RiskLevel: entities.LevelForCount(duplicates, entities.DuplicatesMediumCutoff),
			},
			StaleEpisodes: entities.KPI{
				Label:     "Stale Episodes",
				Value:     strconv.Itoa(stale),
				RiskLevel: entities.LevelForCount(stale, entities.StaleMediumCutoff),
			},
		},
		ByUnit: byUnit,
	}

	if hasPrior {
		metrics.KPIs.InvalidRecords.Change = fmt.Sprintf("%+d", invalid-prior.Invalid)
		metrics.KPIs.MissingFields.Change = fmt.Sprintf("%+d", missing-prior.Missing)
		metrics.KPIs.Duplicates.Change = fmt.Sprintf("%+d", duplicates-prior.Duplicates)
		metrics.KPIs.StaleEpisodes.Change = fmt.Sprintf("%+d", stale-prior.Stale)
	}

	s.storeSnapshot(ctx, "quality", qualitySnapshot{
		Invalid:    invalid,
		Missing:    missing,
		Duplicates: duplicates,
		Stale:      stale,
	})

	observability.RecordAggregationMetric(ctx, s.metrics, "data_quality", time.Since(start))
	return metrics, nil
}

// RiskDistribution partitions all episodes into the three risk tiers.
func (s *MetricsService) RiskDistribution(ctx context.Context) ([]entities.RiskBucket, error) {
	ctx, span := observability.StartSpan(ctx, "metrics.risk_distribution")
	defer span.End()
	start := time.Now()

	episodes, err := s.episodes.ListAll(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	counts := map[entities.RiskLevel]int{}
	for _, e := range episodes {
		counts[e.RiskTier()]++
	}

	levels := []entities.RiskLevel{entities.RiskLow, entities.RiskMedium, entities.RiskHigh}
	buckets := make([]entities.RiskBucket, 0, len(levels))
	for _, level := range levels {
		buckets = append(buckets, entities.RiskBucket{
			Name:  level,
			Value: counts[level],
			Color: riskBucketColors[level],
		})
	}

	observability.RecordAggregationMetric(ctx, s.metrics, "risk_distribution", time.Since(start))
	return buckets, nil
}

// HealthTrends groups episodes admitted in the trailing six months by admit
// month and reports per-month admissions and readmissions.
func (s *MetricsService) HealthTrends(ctx context.Context) ([]entities.TrendPoint, error) {
	ctx, span := observability.StartSpan(ctx, "metrics.health_trends")
	defer span.End()
	start := time.Now()

	episodes, err := s.episodes.ListAll(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	cutoff := s.now().AddDate(0, 0, -trendWindowDays)
	type monthCounts struct {
		episodes     int
		readmissions int
	}
	months := map[string]*monthCounts{}
	for _, e := range episodes {
		if e.AdmitDate.Before(cutoff) {
			continue
		}
		key := e.AdmitDate.Format("2006-01")
		counts, ok := months[key]
		if !ok {
			counts = &monthCounts{}
			months[key] = counts
		}
		counts.episodes++
		if e.ReadmittedWithin30Days {
			counts.readmissions++
		}
	}

	keys := make([]string, 0, len(months))
	for key := range months {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	if len(keys) > trendBuckets {
		keys = keys[len(keys)-trendBuckets:]
	}

	points := make([]entities.TrendPoint, 0, len(keys))
	for _, key := range keys {
		month, err := time.Parse("2006-01", key)
		if err != nil {
			observability.RecordError(span, err)
			return nil, apperrors.NewInternalError("failed to parse trend bucket", err)
		}
		counts := months[key]
		points = append(points, entities.TrendPoint{
			Name:         month.Format("Jan"),
			Episodes:     counts.episodes,
			Readmissions: counts.readmissions,
		})
	}

	observability.RecordAggregationMetric(ctx, s.metrics, "health_trends", time.Since(start))
	return points, nil
}

func (s *MetricsService) loadSnapshot(ctx context.Context, name string, v interface{}) bool {
	if s.snapshots == nil {
		return false
	}
	data, err := s.snapshots.Get(ctx, snapshotKeyPrefix+name)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

func (s *MetricsService) storeSnapshot(ctx context.Context, name string, v interface{}) {
	if s.snapshots == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.snapshots.Set(ctx, snapshotKeyPrefix+name, data, 0); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("snapshot", name).Msg("failed to store KPI snapshot")
	}
}

// dataQualityScore derives the composite quality score from open issues:
// heavy penalty for high-severity issues, light penalty for volume, clamped
// to [0,100].
func dataQualityScore(issues []*entities.DataQualityIssue) float64 {
	high := 0
	for _, issue := range issues {
		if issue.Severity == entities.IssueSeverityHigh {
			high++
		}
	}
	score := 100 - 2*float64(high) - 0.1*float64(len(issues))
	return round1(math.Max(0, math.Min(100, score)))
}

func categoryBreakdown(counts map[entities.IncidentCategory]int) []entities.CategoryCount {
	order := []entities.IncidentCategory{
		entities.IncidentCategoryFalls,
		entities.IncidentCategoryMedicationError,
		entities.IncidentCategoryPressureInjury,
		entities.IncidentCategoryInfection,
		entities.IncidentCategoryOther,
	}

	breakdown := make([]entities.CategoryCount, 0, len(order))
	for _, category := range order {
		count, ok := counts[category]
		if !ok {
			continue
		}
		fill, ok := categoryFills[category]
		if !ok {
			fill = categoryFillDefault
		}
		breakdown = append(breakdown, entities.CategoryCount{
			Name:  string(category),
			Value: count,
			Fill:  fill,
		})
	}

	return breakdown
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
