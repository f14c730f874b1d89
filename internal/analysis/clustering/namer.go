package clustering

import (
	"fmt"
	"sort"

	"github.com/golang/geo/s2"
	"github.com/jengzang/riskzones-backend-go/internal/models"
	"github.com/jengzang/riskzones-backend-go/internal/spatial"
)

// Salience is a condition tag that is over-represented in a cluster
type Salience struct {
	Tag        string
	LocalShare float64
	Lift       float64
}

// Namer explains clusters by comparing their statistics with the baseline
type Namer struct {
	cfg       Config
	global    Statistics
	reference s2.LatLng
}

// NewNamer creates a namer for one run
func NewNamer(cfg Config, global Statistics) *Namer {
	return &Namer{
		cfg:       cfg,
		global:    global,
		reference: s2.LatLngFromDegrees(cfg.Reference.Lat, cfg.Reference.Lon),
	}
}

// Name returns the title ("<area> — <time of day>") and the subtitle
// (the most salient condition) of a cluster
func (n *Namer) Name(members []models.Incident) (title, subtitle string) {
	if len(members) == 0 {
		return n.cfg.Labels.UnknownRegion, n.cfg.Labels.NoData
	}

	local := Aggregate(members)
	title = fmt.Sprintf("%s — %s", n.geoLabel(members), n.timeLabel(local))
	return title, n.conditionLabel(local)
}

// NotableConditions returns the weather and road tags whose lift and local
// share pass the salience thresholds, highest lift first
func (n *Namer) NotableConditions(local Statistics) []Salience {
	th := n.cfg.Salience
	var notable []Salience

	for tag, count := range local.Weather {
		share := float64(count) / float64(local.Total)
		lift := Lift(count, local.Total, n.global.Weather[tag], n.global.Total)
		if lift > th.WeatherLift && share > th.MinLocalShare {
			notable = append(notable, Salience{Tag: tag, LocalShare: share, Lift: lift})
		}
	}
	for tag, count := range local.Road {
		if n.cfg.isBenignRoad(tag) {
			continue
		}
		share := float64(count) / float64(local.Total)
		lift := Lift(count, local.Total, n.global.Road[tag], n.global.Total)
		if lift > th.RoadLift && share > th.MinLocalShare {
			notable = append(notable, Salience{Tag: tag, LocalShare: share, Lift: lift})
		}
	}

	sort.Slice(notable, func(i, j int) bool {
		if notable[i].Lift != notable[j].Lift {
			return notable[i].Lift > notable[j].Lift
		}
		return notable[i].Tag < notable[j].Tag
	})
	return notable
}

func (n *Namer) conditionLabel(local Statistics) string {
	if notable := n.NotableConditions(local); len(notable) > 0 {
		return notable[0].Tag
	}

	top, ok := mostFrequent(local.Weather)
	if !ok || n.cfg.isBenignWeather(top) {
		return n.cfg.Labels.Ordinary
	}
	return top
}

func (n *Namer) timeLabel(local Statistics) string {
	best := Day
	bestLift := 0.0
	for _, b := range TimeBuckets {
		lift := Lift(local.Time[b], local.Total, n.global.Time[b], n.global.Total)
		if lift > bestLift {
			bestLift = lift
			best = b
		}
	}

	if bestLift < n.cfg.Salience.TimeLift {
		return n.cfg.Labels.AllDay
	}
	return n.bucketLabel(best)
}

func (n *Namer) bucketLabel(b TimeBucket) string {
	switch b {
	case Night:
		return n.cfg.Labels.Night
	case Morning:
		return n.cfg.Labels.Morning
	case Day:
		return n.cfg.Labels.Day
	default:
		return n.cfg.Labels.Evening
	}
}

func (n *Namer) geoLabel(members []models.Incident) string {
	regions := make(map[string]int)
	var sumLat, sumLon float64
	for _, m := range members {
		region := m.Region
		if region == "" {
			region = n.cfg.Labels.UnknownRegion
		}
		regions[region]++
		sumLat += m.Lat
		sumLon += m.Lon
	}

	top, _ := mostFrequent(regions)
	if float64(regions[top])/float64(len(members)) >= n.cfg.Salience.RegionShare {
		return top
	}

	count := float64(len(members))
	offset := spatial.OffsetFrom(n.reference, sumLat/count, sumLon/count)
	if offset.Degrees() > n.cfg.Salience.OutskirtsRadius {
		return n.cfg.Labels.Outskirts
	}

	switch offset.Quadrant() {
	case spatial.North:
		return n.cfg.Labels.North
	case spatial.East:
		return n.cfg.Labels.East
	case spatial.South:
		return n.cfg.Labels.South
	default:
		return n.cfg.Labels.West
	}
}

// mostFrequent returns the key with the highest count, the smallest key on ties
func mostFrequent(counts map[string]int) (string, bool) {
	best := ""
	bestCount := 0
	for k, c := range counts {
		if c > bestCount || (c == bestCount && k < best) {
			best = k
			bestCount = c
		}
	}
	return best, bestCount > 0
}
