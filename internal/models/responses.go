package models

// ClusterResult is the payload of one risk-zone clustering run
type ClusterResult struct {
	K          int              `json:"k"`
	Inertia    float64          `json:"inertia"`
	LabelsByID map[string]int   `json:"labels_by_id"`
	Profiles   []ClusterProfile `json:"profiles"`
}

// ClusterProfile describes one non-empty cluster
type ClusterProfile struct {
	Cluster    int        `json:"cluster"`
	Title      string     `json:"title"`
	Subtitle   string     `json:"subtitle"`
	Count      int        `json:"count"`
	InjuredSum int        `json:"injured_sum"`
	DeadSum    int        `json:"dead_sum"`
	Center     [2]float64 `json:"center"` // [lat, lon]
}

// EventsResponse represents a paginated list of incidents
type EventsResponse struct {
	Items  []Incident `json:"items"`
	Total  int64      `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

// LabelCount is one row of a categorical breakdown
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DayCount is the number of incidents on one calendar day
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// StatsSummary aggregates incidents over a date range
type StatsSummary struct {
	From       string       `json:"from"`
	To         string       `json:"to"`
	Total      int          `json:"total"`
	Injured    int          `json:"injured"`
	Dead       int          `json:"dead"`
	Victims    int          `json:"victims"`
	PerDay     []DayCount   `json:"perDay"`
	Severity   []LabelCount `json:"severity"`
	Categories []LabelCount `json:"categories"`
	Districts  []LabelCount `json:"districts"`
	Conditions []LabelCount `json:"conditions"` // weather and road tags combined
}

// SearchResponse lists region or category suggestions
type SearchResponse struct {
	Items []string `json:"items"`
}
