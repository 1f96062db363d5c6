package entities

import "time"

// InsightSource tags the provenance of a piece of clinical text on an
// episode. Fallback text must stay distinguishable from model output for
// audit purposes.
type InsightSource string

const (
	InsightSourceManual    InsightSource = "Manual"
	InsightSourceGenerated InsightSource = "Generated"
	InsightSourceFallback  InsightSource = "Fallback"
)

// InsightKind selects which clinical text to generate for an episode.
type InsightKind string

const (
	InsightKindSummary         InsightKind = "summary"
	InsightKindRiskExplanation InsightKind = "risk_explanation"
	InsightKindRecommendation  InsightKind = "recommendation"
)

// Insight is one canonical piece of clinical text plus its provenance.
type Insight struct {
	Text   string        `json:"text"`
	Source InsightSource `json:"source"`
}

// Episode is one hospital admission-to-discharge record for a patient.
type Episode struct {
	ID                     int64      `json:"-" db:"id"`
	EpisodeID              string     `json:"episode_id" db:"episode_id"`
	PatientID              string     `json:"patient_id" db:"patient_id"`
	PatientName            string     `json:"patient_name" db:"patient_name"`
	Unit                   string     `json:"unit" db:"unit"`
	AdmitDate              time.Time  `json:"admit_date" db:"admit_date"`
	DischargeDate          *time.Time `json:"discharge_date" db:"discharge_date"`
	LengthOfStay           *float64   `json:"length_of_stay" db:"length_of_stay"`
	PrimaryDiagnosis       string     `json:"primary_diagnosis" db:"primary_diagnosis"`
	ReadmittedWithin30Days bool       `json:"readmitted_30d" db:"readmitted_30d"`
	RiskScore              *float64   `json:"risk_score" db:"risk_score"`

	Summary           Insight `json:"summary"`
	RiskExplanation   Insight `json:"risk_explanation"`
	RecommendedAction Insight `json:"recommended_action"`

	// AIGeneratedAt is shared across the three insight fields; it is set
	// whenever any of them is written by generation.
	AIGeneratedAt *time.Time `json:"ai_generated_at" db:"ai_generated_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// RiskTier returns the episode's tier derived from its risk score.
func (e *Episode) RiskTier() RiskLevel {
	return ClassifyRiskScore(e.RiskScore)
}

// Discharged reports whether the episode has a discharge date.
func (e *Episode) Discharged() bool {
	return e.DischargeDate != nil
}
