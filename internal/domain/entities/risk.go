package entities

// RiskLevel is one of the three dashboard risk tiers.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Readmission risk score tier boundaries. Every tier filter and tier label in
// the system derives from this single pair; do not restate the literals.
const (
	RiskScoreMediumThreshold = 0.4
	RiskScoreHighThreshold   = 0.7
)

// KPI tile thresholds for overview metrics coloring.
const (
	ReadmissionRateLowThreshold  = 10.0
	ReadmissionRateHighThreshold = 15.0

	AvgLOSLowThreshold  = 4.0
	AvgLOSHighThreshold = 6.0

	SafetyEventsLowThreshold  = 20.0
	SafetyEventsHighThreshold = 30.0

	// The data quality KPI is colored on its deficit (100 - score).
	QualityDeficitLowThreshold  = 5.0
	QualityDeficitHighThreshold = 10.0
)

// Count cutoffs for incident and data-quality KPI tiles. A count above the
// cutoff moves the tile from Low to Medium.
const (
	FallsMediumCutoff      = 5
	MedErrorsMediumCutoff  = 2
	IncidentsMediumCutoff  = 15
	InvalidMediumCutoff    = 100
	MissingMediumCutoff    = 99
	DuplicatesMediumCutoff = 49
	StaleMediumCutoff      = 50
)

// ClassifyRiskScore maps a readmission risk score to its tier. A missing
// score classifies as Low.
func ClassifyRiskScore(score *float64) RiskLevel {
	if score == nil {
		return RiskLow
	}
	switch {
	case *score >= RiskScoreHighThreshold:
		return RiskHigh
	case *score >= RiskScoreMediumThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}

// LevelForValue maps a KPI value to a tier using the given boundaries.
func LevelForValue(value, low, high float64) RiskLevel {
	switch {
	case value >= high:
		return RiskHigh
	case value >= low:
		return RiskMedium
	default:
		return RiskLow
	}
}

// LevelForCount colors a count KPI: above the cutoff is Medium, else Low.
func LevelForCount(count, mediumCutoff int) RiskLevel {
	if count > mediumCutoff {
		return RiskMedium
	}
	return RiskLow
}
