package models

// ClusterQuery represents query parameters for the risk-zone clustering endpoint
type ClusterQuery struct {
	Limit    int    `form:"limit"`    // Working-set size, clamped to [500, 10000]
	Region   string `form:"region"`   // Exact match
	Category string `form:"category"` // Exact match
}

// EventFilter represents filter parameters for listing incidents
type EventFilter struct {
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
	Region   string `form:"region"`
	Category string `form:"category"`
}

// SearchQuery represents parameters for region/category prefix suggestions
type SearchQuery struct {
	Type  string `form:"type"` // regions, categories
	Q     string `form:"q"`
	Limit int    `form:"limit"`
}

// StatsQuery represents the date range of a statistics summary
type StatsQuery struct {
	From string `form:"from"` // YYYY-MM-DD
	To   string `form:"to"`   // YYYY-MM-DD, inclusive
}
