package clustering

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/jengzang/riskzones-backend-go/internal/models"
	"github.com/jengzang/riskzones-backend-go/internal/spatial"
)

// ErrInsufficientData is returned when the working set is too small to cluster
var ErrInsufficientData = errors.New("not enough incidents to cluster")

// Report is the result of a pipeline run together with its diagnostics
type Report struct {
	Result     models.ClusterResult
	Candidates []Candidate
	Dim        int
	Excluded   int // records dropped for missing or invalid coordinates

	// vocabularies the feature vectors were built with, in index order
	WeatherTerms []string
	RoadTerms    []string
}

// Pipeline sequences encoding, model selection and naming
type Pipeline struct {
	cfg Config
}

// NewPipeline creates a pipeline bound to one configuration profile
func NewPipeline(cfg Config) *Pipeline {
	return &Pipeline{cfg: cfg}
}

// Run clusters the working set and names every non-empty cluster. Either a
// complete result or an error is returned.
func (p *Pipeline) Run(records []models.Incident, rng Rand) (*Report, error) {
	working := make([]models.Incident, 0, len(records))
	for _, r := range records {
		if spatial.ValidCoordinate(r.Lat, r.Lon) {
			working = append(working, r)
		}
	}
	excluded := len(records) - len(working)

	if len(working) < p.cfg.MinRecords {
		return nil, fmt.Errorf("%w: got %d, need at least %d", ErrInsufficientData, len(working), p.cfg.MinRecords)
	}

	global := Aggregate(working)
	encoder := FitEncoder(p.cfg, working)
	points := encoder.EncodeAll(working)

	sel, err := SelectModel(points, p.cfg.KMeans, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to select model: %w", err)
	}

	members := make([][]models.Incident, sel.K)
	for i, label := range sel.Labels {
		members[label] = append(members[label], working[i])
	}

	namer := NewNamer(p.cfg, global)
	labelsByID := make(map[string]int, len(working))
	profiles := make([]models.ClusterProfile, 0, sel.K)
	for c, rows := range members {
		if len(rows) == 0 {
			continue
		}
		for _, r := range rows {
			labelsByID[strconv.FormatInt(r.ID, 10)] = c
		}
		profiles = append(profiles, p.profile(c, rows, namer))
	}

	p.sortProfiles(profiles)

	return &Report{
		Result: models.ClusterResult{
			K:          sel.K,
			Inertia:    sel.Inertia,
			LabelsByID: labelsByID,
			Profiles:   profiles,
		},
		Candidates:   sel.Candidates,
		Dim:          encoder.Dim(),
		Excluded:     excluded,
		WeatherTerms: encoder.WeatherVocabulary().Terms(),
		RoadTerms:    encoder.RoadVocabulary().Terms(),
	}, nil
}

func (p *Pipeline) profile(cluster int, rows []models.Incident, namer *Namer) models.ClusterProfile {
	title, subtitle := namer.Name(rows)

	prof := models.ClusterProfile{
		Cluster:  cluster,
		Title:    title,
		Subtitle: subtitle,
		Count:    len(rows),
	}

	var sumLat, sumLon float64
	for _, r := range rows {
		sumLat += r.Lat
		sumLon += r.Lon
		prof.InjuredSum += r.InjuredCount
		prof.DeadSum += r.DeadCount
	}
	n := float64(len(rows))
	prof.Center = [2]float64{sumLat / n, sumLon / n}
	return prof
}

// sortProfiles puts clusters with a telling subtitle first, then larger
// clusters, then lower cluster indices
func (p *Pipeline) sortProfiles(profiles []models.ClusterProfile) {
	sort.SliceStable(profiles, func(i, j int) bool {
		a, b := p.interesting(profiles[i]), p.interesting(profiles[j])
		if a != b {
			return a
		}
		if profiles[i].Count != profiles[j].Count {
			return profiles[i].Count > profiles[j].Count
		}
		return profiles[i].Cluster < profiles[j].Cluster
	})
}

func (p *Pipeline) interesting(prof models.ClusterProfile) bool {
	return prof.Subtitle != p.cfg.Labels.Ordinary && !containsString(p.cfg.Tags.PlainSubtitles, prof.Subtitle)
}
