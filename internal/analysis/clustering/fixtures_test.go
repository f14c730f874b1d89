package clustering

import (
	"math/rand"
	"time"

	"github.com/jengzang/riskzones-backend-go/internal/models"
)

// englishConfig is the default weighting with English tag values and labels,
// so a second profile is exercised next to the production one
func englishConfig() Config {
	cfg := DefaultConfig()
	cfg.Tags = TagConfig{
		BenignWeather: []string{"clear", "overcast"},
		BenignRoad:    []string{"dry"},
		Ignored:       []string{"no change"},

		PlainSubtitles: []string{"clear"},
	}
	cfg.Labels = LabelConfig{
		Ordinary:      "ordinary conditions",
		NoData:        "no data",
		AllDay:        "all-day",
		Outskirts:     "outskirts",
		UnknownRegion: "unknown",
		Night:         "night",
		Morning:       "morning",
		Day:           "day",
		Evening:       "evening",
		North:         "north",
		East:          "east",
		South:         "south",
		West:          "west",
	}
	return cfg
}

func incident(id int64, lat, lon float64, hour int, weather, road []string) models.Incident {
	return models.Incident{
		ID:             id,
		OccurredAt:     time.Date(2024, 1, 15, hour, 30, 0, 0, time.UTC),
		Lat:            lat,
		Lon:            lon,
		Weather:        models.NewTagSet(weather),
		RoadConditions: models.NewTagSet(road),
	}
}

// randomIncidents generates a varied working set around the reference point
func randomIncidents(n int, seed int64) []models.Incident {
	rng := rand.New(rand.NewSource(seed))
	weather := []string{"clear", "overcast", "rain", "snow", "fog"}
	road := []string{"dry", "wet", "ice", "snowy"}
	regions := []string{"Arbat", "Tverskoy", "Presnensky", ""}

	out := make([]models.Incident, n)
	for i := range out {
		r := incident(int64(i+1),
			55.751244+rng.NormFloat64()*0.06,
			37.618423+rng.NormFloat64()*0.09,
			rng.Intn(24),
			[]string{weather[rng.Intn(len(weather))]},
			[]string{road[rng.Intn(len(road))]},
		)
		r.Region = regions[rng.Intn(len(regions))]
		r.InjuredCount = rng.Intn(3)
		r.DeadCount = rng.Intn(2)
		out[i] = r
	}
	return out
}

// scriptedRand replays fixed values; it panics when exhausted
type scriptedRand struct {
	ints   []int
	floats []float64
}

func (s *scriptedRand) Intn(n int) int {
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *scriptedRand) Float64() float64 {
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}
