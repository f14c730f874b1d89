package main

import (
	"strings"
	"testing"

	"github.com/jengzang/riskzones-backend-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeIncidents(t *testing.T) {
	input := `[
		{"id": 7, "occurred_at": "2024-01-05 21:40:00", "region": "Арбат", "lat": 55.75, "lon": 37.59,
		 "weather": ["Снегопад", "Снегопад", " "], "road_conditions": ["Гололедица"], "injured_count": 2},
		{"id": 8, "occurred_at": "2024-01-06T07:00:00+03:00", "lat": 55.7, "lon": 37.6}
	]`

	incidents, err := decodeIncidents(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, incidents, 2)

	assert.Equal(t, int64(7), incidents[0].ID)
	assert.Equal(t, 21, incidents[0].Hour())
	assert.Equal(t, models.TagSet{"Снегопад"}, incidents[0].Weather)
	assert.Equal(t, models.TagSet{"Гололедица"}, incidents[0].RoadConditions)
	assert.Equal(t, 2, incidents[0].InjuredCount)
	assert.Equal(t, 55.75, incidents[0].Lat)
	assert.Equal(t, 37.59, incidents[0].Lon)

	assert.Equal(t, 7, incidents[1].Hour())
	assert.Empty(t, incidents[1].Weather)
}

func TestDecodeIncidentsDropsIgnoredTags(t *testing.T) {
	input := `[{"id": 1, "occurred_at": "2024-01-01 08:00:00", "lat": 55.7, "lon": 37.6, "weather": ["Ясно", "Не установлено"]}]`

	incidents, err := decodeIncidents(strings.NewReader(input), "Не установлено")
	require.NoError(t, err)
	require.Len(t, incidents, 1)
	assert.Equal(t, models.TagSet{"Ясно"}, incidents[0].Weather)
}

func TestDecodeIncidentsErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"not json", `{`, "failed to decode"},
		{"not an array", `{"id": 1}`, "failed to decode"},
		{"missing id", `[{"occurred_at": "2024-01-01 00:00:00", "lat": 55.7, "lon": 37.6}]`, "missing id"},
		{"bad time", `[{"id": 1, "occurred_at": "yesterday", "lat": 55.7, "lon": 37.6}]`, "invalid occurred_at"},
		{"no coordinates", `[{"id": 7, "occurred_at": "2024-01-01 10:00:00"}]`, "missing coordinates"},
		{"no longitude", `[{"id": 7, "occurred_at": "2024-01-01 10:00:00", "lat": 55.7}]`, "missing coordinates"},
		{"null latitude", `[{"id": 7, "occurred_at": "2024-01-01 10:00:00", "lat": null, "lon": 37.6}]`, "missing coordinates"},
		{"latitude out of range", `[{"id": 7, "occurred_at": "2024-01-01 10:00:00", "lat": 123, "lon": 37.6}]`, "invalid coordinates"},
		{"negative injured", `[{"id": 7, "occurred_at": "2024-01-01 10:00:00", "lat": 55.7, "lon": 37.6, "injured_count": -1}]`, "negative count"},
		{"negative dead", `[{"id": 7, "occurred_at": "2024-01-01 10:00:00", "lat": 55.7, "lon": 37.6, "dead_count": -2}]`, "negative count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			incidents, err := decodeIncidents(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Nil(t, incidents)
		})
	}
}
