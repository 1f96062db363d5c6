package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/carepulse/healthcare-analytics/backend/internal/application/services"
	"github.com/carepulse/healthcare-analytics/backend/internal/domain/entities"
	"github.com/carepulse/healthcare-analytics/backend/internal/domain/repositories"
	"github.com/carepulse/healthcare-analytics/backend/internal/infrastructure/observability"
	apperrors "github.com/carepulse/healthcare-analytics/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mocks

type MockEpisodeRepository struct {
	mock.Mock
}

func (m *MockEpisodeRepository) Create(ctx context.Context, episode *entities.Episode) error {
	return nil
}

func (m *MockEpisodeRepository) GetByEpisodeID(ctx context.Context, episodeID string) (*entities.Episode, error) {
	args := m.Called(ctx, episodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Episode), args.Error(1)
}

func (m *MockEpisodeRepository) List(ctx context.Context, filter repositories.EpisodeFilter) ([]*entities.Episode, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Episode), args.Error(1)
}

func (m *MockEpisodeRepository) ListAll(ctx context.Context) ([]*entities.Episode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Episode), args.Error(1)
}

func (m *MockEpisodeRepository) UpdateInsights(ctx context.Context, episodeID string, update repositories.InsightUpdate) error {
	args := m.Called(ctx, episodeID, update)
	return args.Error(0)
}

type MockIncidentRepository struct {
	mock.Mock
}

func (m *MockIncidentRepository) Create(ctx context.Context, incident *entities.SafetyIncident) error {
	return nil
}

func (m *MockIncidentRepository) List(ctx context.Context) ([]*entities.SafetyIncident, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.SafetyIncident), args.Error(1)
}

type MockQualityIssueRepository struct {
	mock.Mock
}

func (m *MockQualityIssueRepository) Create(ctx context.Context, issue *entities.DataQualityIssue) error {
	return nil
}

func (m *MockQualityIssueRepository) List(ctx context.Context) ([]*entities.DataQualityIssue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.DataQualityIssue), args.Error(1)
}

// memoryCache is an in-process CacheProvider for snapshot tests.
type memoryCache struct {
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, ok := c.data[key]
	if !ok {
		return nil, assert.AnError
	}
	return value, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.data[key]
	return ok, nil
}

// Helpers

func floatPtr(v float64) *float64 { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func discharged(unit string, los float64, readmitted bool) *entities.Episode {
	now := time.Now()
	return &entities.Episode{
		Unit:                   unit,
		AdmitDate:              now.AddDate(0, 0, -int(los)-1),
		DischargeDate:          timePtr(now.AddDate(0, 0, -1)),
		LengthOfStay:           floatPtr(los),
		ReadmittedWithin30Days: readmitted,
	}
}

// Tests

func TestMetricsService_Overview(t *testing.T) {
	ctx := context.Background()

	episodes := new(MockEpisodeRepository)
	incidents := new(MockIncidentRepository)
	issues := new(MockQualityIssueRepository)
	metrics, err := observability.InitMetrics()
	require.NoError(t, err)
	service := services.NewMetricsService(episodes, incidents, issues, nil, metrics)

	episodes.On("ListAll", mock.Anything).Return([]*entities.Episode{
		discharged("Cardiology", 4, true),
		discharged("Cardiology", 6, false),
		discharged("Oncology", 8, false),
		{Unit: "Cardiology", AdmitDate: time.Now().AddDate(0, 0, -2)}, // still admitted
	}, nil)

	incidents.On("List", mock.Anything).Return([]*entities.SafetyIncident{
		{Date: time.Now().AddDate(0, 0, -5), Category: entities.IncidentCategoryFalls},
		{Date: time.Now().AddDate(0, 0, -10), Category: entities.IncidentCategoryInfection},
		{Date: time.Now().AddDate(0, 0, -45), Category: entities.IncidentCategoryFalls}, // outside window
	}, nil)

	issues.On("List", mock.Anything).Return([]*entities.DataQualityIssue{
		{Severity: entities.IssueSeverityHigh},
		{Severity: entities.IssueSeverityHigh},
		{Severity: entities.IssueSeverityLow},
		{Severity: entities.IssueSeverityLow},
		{Severity: entities.IssueSeverityMedium},
	}, nil)

	overview, err := service.Overview(ctx)

	assert.NoError(t, err)
	// 1 readmission out of 3 discharged
	assert.Equal(t, "33.3%", overview.ReadmissionRate.Value)
	assert.Equal(t, entities.RiskHigh, overview.ReadmissionRate.RiskLevel)
	// mean of 4, 6, 8
	assert.Equal(t, "6.0 days", overview.AvgLOS.Value)
	assert.Equal(t, entities.RiskHigh, overview.AvgLOS.RiskLevel)
	// 2 incidents inside the trailing 30 days
	assert.Equal(t, "2", overview.SafetyEvents.Value)
	assert.Equal(t, entities.RiskLow, overview.SafetyEvents.RiskLevel)
	// 100 - 2*2 - 0.1*5 = 95.5
	assert.Equal(t, "95.5%", overview.DataQualityScore.Value)
	assert.Equal(t, entities.RiskLow, overview.DataQualityScore.RiskLevel)
	// no snapshot cache, so no change indicators
	assert.Empty(t, overview.ReadmissionRate.Change)
	assert.Empty(t, overview.AvgLOS.Change)
}

func TestMetricsService_Overview_NoDischargedEpisodes(t *testing.T) {
	ctx := context.Background()

	episodes := new(MockEpisodeRepository)
	incidents := new(MockIncidentRepository)
	issues := new(MockQualityIssueRepository)
	service := services.NewMetricsService(episodes, incidents, issues, nil, nil)

	episodes.On("ListAll", mock.Anything).Return([]*entities.Episode{
		{Unit: "Cardiology", AdmitDate: time.Now().AddDate(0, 0, -2)},
	}, nil)
	incidents.On("List", mock.Anything).Return([]*entities.SafetyIncident{}, nil)
	issues.On("List", mock.Anything).Return([]*entities.DataQualityIssue{}, nil)

	metrics, err := service.Overview(ctx)

	assert.NoError(t, err)
	assert.Equal(t, "0.0%", metrics.ReadmissionRate.Value)
	assert.Equal(t, "0.0 days", metrics.AvgLOS.Value)
	assert.Equal(t, "100.0%", metrics.DataQualityScore.Value)
}

func TestMetricsService_Overview_QualityScoreClampsAtZero(t *testing.T) {
	ctx := context.Background()

	episodes := new(MockEpisodeRepository)
	incidents := new(MockIncidentRepository)
	issues := new(MockQualityIssueRepository)
	service := services.NewMetricsService(episodes, incidents, issues, nil, nil)

	episodes.On("ListAll", mock.Anything).Return([]*entities.Episode{}, nil)
	incidents.On("List", mock.Anything).Return([]*entities.SafetyIncident{}, nil)

	many := make([]*entities.DataQualityIssue, 60)
	for i := range many {
		many[i] = &entities.DataQualityIssue{Severity: entities.IssueSeverityHigh}
	}
	issues.On("List", mock.Anything).Return(many, nil)

	metrics, err := service.Overview(ctx)

	assert.NoError(t, err)
	assert.Equal(t, "0.0%", metrics.DataQualityScore.Value)
	assert.Equal(t, entities.RiskHigh, metrics.DataQualityScore.RiskLevel)
}

func TestMetricsService_Overview_ChangeFromSnapshot(t *testing.T) {
	ctx := context.Background()

	episodes := new(MockEpisodeRepository)
	incidents := new(MockIncidentRepository)
	issues := new(MockQualityIssueRepository)
	snapshots := newMemoryCache()
	service := services.NewMetricsService(episodes, incidents, issues, snapshots, nil)

	episodes.On("ListAll", mock.Anything).Return([]*entities.Episode{
		discharged("Cardiology", 5, true),
		discharged("Cardiology", 5, false),
	}, nil)
	incidents.On("List", mock.Anything).Return([]*entities.SafetyIncident{}, nil)
	issues.On("List", mock.Anything).Return([]*entities.DataQualityIssue{}, nil)

	snapshots.Set(ctx, "metrics:snapshot:overview",
		[]byte(`{"readmission_rate":40.0,"avg_los":4.5,"safety_events":3,"quality_score":100.0}`), 0)

	metrics, err := service.Overview(ctx)

	assert.NoError(t, err)
	// current rate 50.0 vs prior 40.0
	assert.Equal(t, "+10.0%", metrics.ReadmissionRate.Change)
	assert.Equal(t, "+0.5 days", metrics.AvgLOS.Change)
	assert.Equal(t, "-3", metrics.SafetyEvents.Change)
	assert.Equal(t, "+0.0%", metrics.DataQualityScore.Change)

	// snapshot replaced for the next comparison
	stored, err := snapshots.Get(ctx, "metrics:snapshot:overview")
	assert.NoError(t, err)
	assert.Contains(t, string(stored), `"readmission_rate":50`)
}

func TestMetricsService_ListEpisodes(t *testing.T) {
	t.Run("passes unit and tier through to the repository", func(t *testing.T) {
		episodes := new(MockEpisodeRepository)
		service := services.NewMetricsService(episodes, nil, nil, nil, nil)

		episodes.On("List", mock.Anything, repositories.EpisodeFilter{
			Unit:      "Cardiology",
			RiskLevel: entities.RiskHigh,
		}).Return([]*entities.Episode{}, nil)

		_, err := service.ListEpisodes(context.Background(), "Cardiology", "High")
		assert.NoError(t, err)
		episodes.AssertExpectations(t)
	})

	t.Run("treats All as no tier filter", func(t *testing.T) {
		episodes := new(MockEpisodeRepository)
		service := services.NewMetricsService(episodes, nil, nil, nil, nil)

		episodes.On("List", mock.Anything, repositories.EpisodeFilter{Unit: "All"}).
			Return([]*entities.Episode{}, nil)

		_, err := service.ListEpisodes(context.Background(), "All", "All")
		assert.NoError(t, err)
	})

	t.Run("rejects unknown tier", func(t *testing.T) {
		episodes := new(MockEpisodeRepository)
		service := services.NewMetricsService(episodes, nil, nil, nil, nil)

		_, err := service.ListEpisodes(context.Background(), "", "Extreme")
		assert.Error(t, err)
		appErr, ok := err.(*apperrors.AppError)
		assert.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	})
}

func TestMetricsService_HighRiskEpisodes_CapsAtTwenty(t *testing.T) {
	episodes := new(MockEpisodeRepository)
	service := services.NewMetricsService(episodes, nil, nil, nil, nil)

	episodes.On("List", mock.Anything, repositories.EpisodeFilter{
		RiskLevel: entities.RiskHigh,
		Limit:     20,
	}).Return([]*entities.Episode{}, nil)

	_, err := service.HighRiskEpisodes(context.Background())
	assert.NoError(t, err)
	episodes.AssertExpectations(t)
}

func TestMetricsService_IncidentSummary(t *testing.T) {
	ctx := context.Background()

	incidents := new(MockIncidentRepository)
	service := services.NewMetricsService(nil, incidents, nil, nil, nil)

	recent := func(category entities.IncidentCategory, daysAgo int) *entities.SafetyIncident {
		return &entities.SafetyIncident{
			Date:     time.Now().AddDate(0, 0, -daysAgo),
			Category: category,
		}
	}

	data := []*entities.SafetyIncident{}
	for i := 0; i < 6; i++ {
		data = append(data, recent(entities.IncidentCategoryFalls, i+1))
	}
	data = append(data,
		recent(entities.IncidentCategoryMedicationError, 3),
		recent(entities.IncidentCategoryMedicationError, 7),
		recent(entities.IncidentCategoryPressureInjury, 9),
		recent(entities.IncidentCategoryFalls, 50), // outside window
	)
	incidents.On("List", mock.Anything).Return(data, nil)

	summary, err := service.IncidentSummary(ctx)

	assert.NoError(t, err)
	assert.Equal(t, "6", summary.KPIs.Falls.Value)
	assert.Equal(t, entities.RiskMedium, summary.KPIs.Falls.RiskLevel)
	assert.Equal(t, "2", summary.KPIs.MedErrors.Value)
	assert.Equal(t, entities.RiskLow, summary.KPIs.MedErrors.RiskLevel)
	assert.Equal(t, "9", summary.KPIs.Incidents.Value)
	assert.Equal(t, entities.RiskLow, summary.KPIs.Incidents.RiskLevel)

	assert.Len(t, summary.CategoryData, 3)
	assert.Equal(t, "Falls", summary.CategoryData[0].Name)
	assert.Equal(t, 6, summary.CategoryData[0].Value)
	assert.Equal(t, "#ef4444", summary.CategoryData[0].Fill)
}

func TestMetricsService_DataQualityMetrics(t *testing.T) {
	ctx := context.Background()

	issues := new(MockQualityIssueRepository)
	service := services.NewMetricsService(nil, nil, issues, nil, nil)

	issues.On("List", mock.Anything).Return([]*entities.DataQualityIssue{
		{Unit: "Cardiology", IssueType: entities.IssueTypeInvalid},
		{Unit: "Cardiology", IssueType: entities.IssueTypeMissing},
		{Unit: "Cardiology", IssueType: entities.IssueTypeMissing},
		{Unit: "Oncology", IssueType: entities.IssueTypeDuplicate},
		{Unit: "Oncology", IssueType: entities.IssueTypeStale},
	}, nil)

	metrics, err := service.DataQualityMetrics(ctx)

	assert.NoError(t, err)
	assert.Equal(t, "1", metrics.KPIs.InvalidRecords.Value)
	assert.Equal(t, "2", metrics.KPIs.MissingFields.Value)
	assert.Equal(t, "1", metrics.KPIs.Duplicates.Value)
	assert.Equal(t, "1", metrics.KPIs.StaleEpisodes.Value)
	assert.Equal(t, entities.RiskLow, metrics.KPIs.InvalidRecords.RiskLevel)

	assert.Len(t, metrics.ByUnit, 2)
	assert.Equal(t, "Cardiology", metrics.ByUnit[0].Name)
	assert.Equal(t, 1, metrics.ByUnit[0].Invalid)
	assert.Equal(t, 2, metrics.ByUnit[0].Missing)
	assert.Equal(t, "Oncology", metrics.ByUnit[1].Name)
	assert.Equal(t, 1, metrics.ByUnit[1].Duplicates)
	assert.Equal(t, 1, metrics.ByUnit[1].Stale)
}

func TestMetricsService_RiskDistribution(t *testing.T) {
	ctx := context.Background()

	episodes := new(MockEpisodeRepository)
	service := services.NewMetricsService(episodes, nil, nil, nil, nil)

	episodes.On("ListAll", mock.Anything).Return([]*entities.Episode{
		{RiskScore: floatPtr(0.2)},
		{RiskScore: floatPtr(0.5)},
		{RiskScore: floatPtr(0.85)},
		{RiskScore: nil}, // missing score counts as Low
	}, nil)

	buckets, err := service.RiskDistribution(ctx)

	assert.NoError(t, err)
	assert.Len(t, buckets, 3)
	assert.Equal(t, entities.RiskLow, buckets[0].Name)
	assert.Equal(t, 2, buckets[0].Value)
	assert.Equal(t, "#10b981", buckets[0].Color)
	assert.Equal(t, entities.RiskMedium, buckets[1].Name)
	assert.Equal(t, 1, buckets[1].Value)
	assert.Equal(t, "#f59e0b", buckets[1].Color)
	assert.Equal(t, entities.RiskHigh, buckets[2].Name)
	assert.Equal(t, 1, buckets[2].Value)
	assert.Equal(t, "#ef4444", buckets[2].Color)
}

func TestMetricsService_HealthTrends(t *testing.T) {
	ctx := context.Background()

	episodes := new(MockEpisodeRepository)
	service := services.NewMetricsService(episodes, nil, nil, nil, nil)

	now := time.Now()
	episodes.On("ListAll", mock.Anything).Return([]*entities.Episode{
		{AdmitDate: now, ReadmittedWithin30Days: true},
		{AdmitDate: now},
		{AdmitDate: now.AddDate(0, 0, -200)}, // outside the trailing window
	}, nil)

	points, err := service.HealthTrends(ctx)

	assert.NoError(t, err)
	assert.Len(t, points, 1)
	assert.Equal(t, now.Format("Jan"), points[0].Name)
	assert.Equal(t, 2, points[0].Episodes)
	assert.Equal(t, 1, points[0].Readmissions)
}
