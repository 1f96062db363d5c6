package entities

import "time"

// IncidentCategory classifies a safety incident.
type IncidentCategory string

const (
	IncidentCategoryFalls           IncidentCategory = "Falls"
	IncidentCategoryMedicationError IncidentCategory = "Medication Error"
	IncidentCategoryPressureInjury  IncidentCategory = "Pressure Injury"
	IncidentCategoryInfection       IncidentCategory = "Infection"
	IncidentCategoryOther           IncidentCategory = "Other"
)

// IncidentSeverity grades a safety incident.
type IncidentSeverity string

const (
	IncidentSeverityLow      IncidentSeverity = "Low"
	IncidentSeverityMedium   IncidentSeverity = "Medium"
	IncidentSeverityHigh     IncidentSeverity = "High"
	IncidentSeverityCritical IncidentSeverity = "Critical"
)

// IncidentStatus tracks the review state of a safety incident.
type IncidentStatus string

const (
	IncidentStatusResolved    IncidentStatus = "Resolved"
	IncidentStatusUnderReview IncidentStatus = "Under Review"
	IncidentStatusMonitoring  IncidentStatus = "Monitoring"
	IncidentStatusActive      IncidentStatus = "Active"
)

// SafetyIncident is a reported patient-safety event. It may reference the
// episode it occurred during; the reference is optional and weak.
type SafetyIncident struct {
	ID          int64            `json:"-" db:"id"`
	IncidentID  string           `json:"incident_id" db:"incident_id"`
	EpisodeID   *string          `json:"episode_id" db:"episode_id"`
	Date        time.Time        `json:"date" db:"date"`
	Unit        string           `json:"unit" db:"unit"`
	Category    IncidentCategory `json:"category" db:"category"`
	Severity    IncidentSeverity `json:"severity" db:"severity"`
	Status      IncidentStatus   `json:"status" db:"status"`
	Description string           `json:"description" db:"description"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
}
