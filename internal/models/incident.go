package models

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// Incident represents one recorded traffic accident (ДТП) with location, time and road conditions
type Incident struct {
	ID                int64     `json:"id" db:"id"`
	OccurredAt        time.Time `json:"occurred_at" db:"occurred_at"`
	Light             string    `json:"light,omitempty" db:"light"`
	Category          string    `json:"category,omitempty" db:"category"`
	Severity          string    `json:"severity,omitempty" db:"severity"`
	InjuredCount      int       `json:"injured_count" db:"injured_count"`
	DeadCount         int       `json:"dead_count" db:"dead_count"`
	ParticipantsCount int       `json:"participants_count" db:"participants_count"`
	Region            string    `json:"region,omitempty" db:"region"`
	ParentRegion      string    `json:"parent_region,omitempty" db:"parent_region"`
	Address           string    `json:"address,omitempty" db:"address"`
	Lat               float64   `json:"lat" db:"lat"`
	Lon               float64   `json:"lon" db:"lon"`

	// Multi-valued condition tags, stored as JSON lists
	Weather        TagSet `json:"weather" db:"weather"`
	RoadConditions TagSet `json:"road_conditions" db:"road_conditions"`
}

// Hour returns the hour of day (0-23) the incident occurred at
func (i Incident) Hour() int {
	return i.OccurredAt.Hour()
}

// TagSet is a deduplicated set of free-text condition labels.
// Values keep their first-seen order so JSON output is stable.
type TagSet []string

// NewTagSet builds a set from raw values, trimming whitespace and dropping
// empty strings, duplicates and any of the ignored values
func NewTagSet(values []string, ignored ...string) TagSet {
	set := make(TagSet, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if contains(ignored, v) {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		set = append(set, v)
	}
	return set
}

// ParseTagSet decodes a JSON list column. Null, empty or malformed JSON
// yields an empty set; non-string elements are ignored.
func ParseTagSet(raw string, ignored ...string) TagSet {
	if strings.TrimSpace(raw) == "" {
		return TagSet{}
	}

	var items []any
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return TagSet{}
	}

	values := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			values = append(values, s)
		}
	}
	return NewTagSet(values, ignored...)
}

// Has reports whether the set contains the value
func (s TagSet) Has(value string) bool {
	return contains(s, value)
}

// Sorted returns a lexicographically sorted copy
func (s TagSet) Sorted() []string {
	out := make([]string, len(s))
	copy(out, s)
	sort.Strings(out)
	return out
}

// JSON encodes the set as a JSON list for storage
func (s TagSet) JSON() string {
	if s == nil {
		s = TagSet{}
	}
	b, _ := json.Marshal([]string(s))
	return string(b)
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
