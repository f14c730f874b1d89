package clustering

import (
	"errors"
	"fmt"
)

// Config is the complete, immutable weighting and naming profile of a
// clustering run. It is passed by value to the encoder, the model selector
// and the namer; nothing in this package reads process-wide settings.
type Config struct {
	Weights      Weights          `yaml:"weights"`
	AdverseBoost float64          `yaml:"adverseBoost"` // multiplier for non-benign tag indicators
	Vocabulary   VocabularyConfig `yaml:"vocabulary"`
	KMeans       KMeansConfig     `yaml:"kmeans"`
	Salience     SalienceConfig   `yaml:"salience"`
	Reference    ReferencePoint   `yaml:"reference"`
	Tags         TagConfig        `yaml:"tags"`
	Labels       LabelConfig      `yaml:"labels"`
	MinRecords   int              `yaml:"minRecords"` // smallest working set that may be clustered
}

// Weights scale each feature group of the embedding
type Weights struct {
	Geo     float64 `yaml:"geo"`
	Time    float64 `yaml:"time"`
	Weather float64 `yaml:"weather"`
	Road    float64 `yaml:"road"`
}

// VocabularyConfig bounds the one-hot vocabularies
type VocabularyConfig struct {
	MaxSize    int `yaml:"maxSize"`
	MinSupport int `yaml:"minSupport"`
}

// KMeansConfig controls the Lloyd iterations and the model selection range
type KMeansConfig struct {
	MinK          int     `yaml:"minK"`
	MaxK          int     `yaml:"maxK"`
	MaxIterations int     `yaml:"maxIterations"`
	Penalty       float64 `yaml:"penalty"` // score(k) = -inertia - penalty*k*inertia
}

// SalienceConfig holds the lift thresholds used for naming
type SalienceConfig struct {
	WeatherLift     float64 `yaml:"weatherLift"`
	RoadLift        float64 `yaml:"roadLift"`
	MinLocalShare   float64 `yaml:"minLocalShare"`
	TimeLift        float64 `yaml:"timeLift"`
	RegionShare     float64 `yaml:"regionShare"`
	OutskirtsRadius float64 `yaml:"outskirtsRadius"` // coordinate degrees from the reference point
}

// ReferencePoint is the metro-area centre used for compass naming
type ReferencePoint struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

// TagConfig lists the dataset-specific tag values with special meaning
type TagConfig struct {
	BenignWeather []string `yaml:"benignWeather"`
	BenignRoad    []string `yaml:"benignRoad"`
	Ignored       []string `yaml:"ignored"` // dropped at ingestion

	// PlainSubtitles are condition labels that, like Labels.Ordinary, do not
	// move a cluster ahead of the others when profiles are ordered
	PlainSubtitles []string `yaml:"plainSubtitles"`
}

// LabelConfig holds every human-readable string a cluster name is built from
type LabelConfig struct {
	Ordinary      string `yaml:"ordinary"`
	NoData        string `yaml:"noData"`
	AllDay        string `yaml:"allDay"`
	Outskirts     string `yaml:"outskirts"`
	UnknownRegion string `yaml:"unknownRegion"`
	Night         string `yaml:"night"`
	Morning       string `yaml:"morning"`
	Day           string `yaml:"day"`
	Evening       string `yaml:"evening"`
	North         string `yaml:"north"`
	East          string `yaml:"east"`
	South         string `yaml:"south"`
	West          string `yaml:"west"`
}

// DefaultConfig returns the production profile for the Moscow ДТП dataset
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Geo:     1.0,
			Time:    2.5,
			Weather: 4.0,
			Road:    4.0,
		},
		AdverseBoost: 1.5,
		Vocabulary: VocabularyConfig{
			MaxSize:    20,
			MinSupport: 5,
		},
		KMeans: KMeansConfig{
			MinK:          5,
			MaxK:          9,
			MaxIterations: 15,
			Penalty:       0.05,
		},
		Salience: SalienceConfig{
			WeatherLift:     2.0,
			RoadLift:        1.8,
			MinLocalShare:   0.15,
			TimeLift:        1.3,
			RegionShare:     0.4,
			OutskirtsRadius: 0.15,
		},
		Reference: ReferencePoint{Lat: 55.751244, Lon: 37.618423},
		Tags: TagConfig{
			BenignWeather: []string{"Ясно", "Пасмурно"},
			BenignRoad:    []string{"Сухое"},
			Ignored:       []string{"Режим движения не изменялся"},

			PlainSubtitles: []string{"Ясно"},
		},
		Labels: LabelConfig{
			Ordinary:      "Обычные условия",
			NoData:        "Нет данных",
			AllDay:        "Сутки",
			Outskirts:     "МКАД/Окраины",
			UnknownRegion: "Неизвестно",
			Night:         "Ночь",
			Morning:       "Утро",
			Day:           "День",
			Evening:       "Вечер",
			North:         "Север",
			East:          "Восток",
			South:         "Юг",
			West:          "Запад",
		},
		MinRecords: 50,
	}
}

// Validate checks that the profile can drive a clustering run
func (c Config) Validate() error {
	var errs []error
	if c.Weights.Geo < 0 || c.Weights.Time < 0 || c.Weights.Weather < 0 || c.Weights.Road < 0 {
		errs = append(errs, errors.New("weights must be non-negative"))
	}
	if c.AdverseBoost <= 0 {
		errs = append(errs, errors.New("adverseBoost must be positive"))
	}
	if c.Vocabulary.MaxSize < 0 || c.Vocabulary.MinSupport < 1 {
		errs = append(errs, errors.New("vocabulary maxSize must be >= 0 and minSupport >= 1"))
	}
	if c.KMeans.MinK < 1 || c.KMeans.MaxK < c.KMeans.MinK {
		errs = append(errs, fmt.Errorf("invalid k range [%d, %d]", c.KMeans.MinK, c.KMeans.MaxK))
	}
	if c.KMeans.MaxIterations < 1 {
		errs = append(errs, errors.New("kmeans maxIterations must be >= 1"))
	}
	if c.MinRecords < c.KMeans.MinK {
		errs = append(errs, fmt.Errorf("minRecords %d is below minK %d", c.MinRecords, c.KMeans.MinK))
	}
	return errors.Join(errs...)
}

func (c Config) isBenignWeather(tag string) bool {
	return containsString(c.Tags.BenignWeather, tag)
}

func (c Config) isBenignRoad(tag string) bool {
	return containsString(c.Tags.BenignRoad, tag)
}

func containsString(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
