package clustering

import (
	"math"

	"github.com/jengzang/riskzones-backend-go/internal/models"
	"github.com/jengzang/riskzones-backend-go/internal/stats"
)

// Encoder turns incidents into fixed-length weighted feature vectors:
//
//	[lat, lon, sin(hour), cos(hour), weather_0..weather_n, road_0..road_m]
type Encoder struct {
	weights Weights
	lat     stats.Standardization
	lon     stats.Standardization
	weather Vocabulary
	road    Vocabulary

	// per-entry indicator values, already boosted for adverse conditions
	weatherValues []float64
	roadValues    []float64
}

// NewEncoder builds an encoder from precomputed standardization parameters
// and vocabularies
func NewEncoder(cfg Config, lat, lon stats.Standardization, weather, road Vocabulary) *Encoder {
	e := &Encoder{
		weights: cfg.Weights,
		lat:     lat,
		lon:     lon,
		weather: weather,
		road:    road,
	}

	e.weatherValues = make([]float64, weather.Len())
	for i, term := range weather.terms {
		boost := 1.0
		if !cfg.isBenignWeather(term) {
			boost = cfg.AdverseBoost
		}
		e.weatherValues[i] = cfg.Weights.Weather * boost
	}

	e.roadValues = make([]float64, road.Len())
	for i, term := range road.terms {
		boost := 1.0
		if !cfg.isBenignRoad(term) {
			boost = cfg.AdverseBoost
		}
		e.roadValues[i] = cfg.Weights.Road * boost
	}

	return e
}

// FitEncoder derives vocabularies and standardization from the same records
// that will later be encoded
func FitEncoder(cfg Config, records []models.Incident) *Encoder {
	lats := make([]float64, len(records))
	lons := make([]float64, len(records))
	weatherSets := make([]models.TagSet, len(records))
	roadSets := make([]models.TagSet, len(records))
	for i, r := range records {
		lats[i] = r.Lat
		lons[i] = r.Lon
		weatherSets[i] = r.Weather
		roadSets[i] = r.RoadConditions
	}

	return NewEncoder(cfg,
		stats.Standardize(lats),
		stats.Standardize(lons),
		BuildVocabulary(weatherSets, cfg.Vocabulary.MaxSize, cfg.Vocabulary.MinSupport),
		BuildVocabulary(roadSets, cfg.Vocabulary.MaxSize, cfg.Vocabulary.MinSupport),
	)
}

// Dim returns the length of every encoded vector
func (e *Encoder) Dim() int {
	return 4 + e.weather.Len() + e.road.Len()
}

// WeatherVocabulary returns the weather vocabulary in use
func (e *Encoder) WeatherVocabulary() Vocabulary { return e.weather }

// RoadVocabulary returns the road-condition vocabulary in use
func (e *Encoder) RoadVocabulary() Vocabulary { return e.road }

// Encode produces the feature vector of one incident
func (e *Encoder) Encode(r models.Incident) []float64 {
	vec := make([]float64, 0, e.Dim())

	vec = append(vec,
		e.weights.Geo*e.lat.Apply(r.Lat),
		e.weights.Geo*e.lon.Apply(r.Lon),
	)

	sin, cos := CyclicalHour(r.Hour())
	vec = append(vec, e.weights.Time*sin, e.weights.Time*cos)

	for i, term := range e.weather.terms {
		if r.Weather.Has(term) {
			vec = append(vec, e.weatherValues[i])
		} else {
			vec = append(vec, 0)
		}
	}
	for i, term := range e.road.terms {
		if r.RoadConditions.Has(term) {
			vec = append(vec, e.roadValues[i])
		} else {
			vec = append(vec, 0)
		}
	}

	return vec
}

// EncodeAll encodes every record in order
func (e *Encoder) EncodeAll(records []models.Incident) [][]float64 {
	out := make([][]float64, len(records))
	for i, r := range records {
		out[i] = e.Encode(r)
	}
	return out
}

// CyclicalHour maps an hour of day onto the unit circle so that 23:00 and
// 00:00 are neighbours
func CyclicalHour(h int) (sin, cos float64) {
	angle := 2 * math.Pi * float64(h) / 24
	return math.Sin(angle), math.Cos(angle)
}
