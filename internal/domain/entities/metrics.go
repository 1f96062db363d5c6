package entities

// KPI is a single labeled dashboard metric with its tier and change
// indicator. Change is empty when no prior snapshot exists to compare
// against.
type KPI struct {
	Label     string    `json:"label"`
	Value     string    `json:"value"`
	RiskLevel RiskLevel `json:"riskLevel"`
	Change    string    `json:"change"`
}

// OverviewMetrics holds the four overview dashboard KPIs.
type OverviewMetrics struct {
	ReadmissionRate  KPI `json:"readmissionRate"`
	AvgLOS           KPI `json:"avgLOS"`
	SafetyEvents     KPI `json:"safetyEvents"`
	DataQualityScore KPI `json:"dataQualityScore"`
}

// CategoryCount is one slice of the incident category breakdown chart.
type CategoryCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Fill  string `json:"fill"`
}

// IncidentKPIs groups the three trailing-30-day safety KPIs.
type IncidentKPIs struct {
	Falls     KPI `json:"falls"`
	MedErrors KPI `json:"medErrors"`
	Incidents KPI `json:"incidents"`
}

// IncidentSummary holds the safety KPIs and the trailing-30-day category
// breakdown. The KPIs nest under a kpis key in the response body.
type IncidentSummary struct {
	KPIs         IncidentKPIs    `json:"kpis"`
	CategoryData []CategoryCount `json:"categoryData"`
}

// UnitIssueCounts is the per-unit data quality breakdown for charting.
type UnitIssueCounts struct {
	Name       string `json:"name"`
	Invalid    int    `json:"invalid"`
	Missing    int    `json:"missing"`
	Duplicates int    `json:"duplicates"`
	Stale      int    `json:"stale"`
}

// DataQualityKPIs groups the four data quality KPIs.
type DataQualityKPIs struct {
	InvalidRecords KPI `json:"invalidRecords"`
	MissingFields  KPI `json:"missingFields"`
	Duplicates     KPI `json:"duplicates"`
	StaleEpisodes  KPI `json:"staleEpisodes"`
}

// DataQualityMetrics holds the data quality KPIs plus the per-unit
// breakdown. The KPIs nest under a kpis key in the response body.
type DataQualityMetrics struct {
	KPIs   DataQualityKPIs   `json:"kpis"`
	ByUnit []UnitIssueCounts `json:"byUnit"`
}

// RiskBucket is one slice of the risk distribution chart.
type RiskBucket struct {
	Name  RiskLevel `json:"name"`
	Value int       `json:"value"`
	Color string    `json:"color"`
}

// TrendPoint is one month of the health trends series.
type TrendPoint struct {
	Name         string `json:"name"`
	Episodes     int    `json:"episodes"`
	Readmissions int    `json:"readmissions"`
}
