package entities

import (
	"fmt"
	"time"
)

// IssueType classifies a data quality issue.
type IssueType string

const (
	IssueTypeInvalid   IssueType = "Invalid"
	IssueTypeMissing   IssueType = "Missing"
	IssueTypeDuplicate IssueType = "Duplicate"
	IssueTypeStale     IssueType = "Stale"
)

// IssueSeverity grades a data quality issue.
type IssueSeverity string

const (
	IssueSeverityLow    IssueSeverity = "Low"
	IssueSeverityMedium IssueSeverity = "Medium"
	IssueSeverityHigh   IssueSeverity = "High"
)

// DataQualityIssue flags a problem found in a stored record. RecordID
// references an episode loosely; no foreign key is enforced.
type DataQualityIssue struct {
	ID          int64         `json:"-" db:"id"`
	RecordType  string        `json:"record_type" db:"record_type"`
	RecordID    string        `json:"record_id" db:"record_id"`
	Unit        string        `json:"unit" db:"unit"`
	IssueType   IssueType     `json:"issue_type" db:"issue_type"`
	Field       string        `json:"field" db:"field"`
	Severity    IssueSeverity `json:"severity" db:"severity"`
	Description string        `json:"description" db:"description"`
	LastUpdated time.Time     `json:"last_updated" db:"last_updated"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
}

// DisplayID returns the dashboard-facing issue identifier.
func (i *DataQualityIssue) DisplayID() string {
	return fmt.Sprintf("DQ%06d", i.ID)
}
