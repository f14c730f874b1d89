package clustering

import "github.com/jengzang/riskzones-backend-go/internal/models"

// TimeBucket is a coarse time-of-day period
type TimeBucket int

const (
	Night   TimeBucket = iota // [0, 6)
	Morning                   // [6, 11)
	Day                       // [11, 17)
	Evening                   // [17, 24)
)

// TimeBuckets lists the buckets in scan order
var TimeBuckets = [...]TimeBucket{Night, Morning, Day, Evening}

// BucketForHour maps an hour of day onto its period
func BucketForHour(h int) TimeBucket {
	switch {
	case h < 6:
		return Night
	case h < 11:
		return Morning
	case h < 17:
		return Day
	default:
		return Evening
	}
}

// Statistics are tag and time-of-day frequencies over a set of incidents.
// Computed once for the whole working set it is the salience baseline; the
// namer computes the same thing per cluster.
type Statistics struct {
	Total   int
	Weather map[string]int
	Road    map[string]int
	Time    [4]int // indexed by TimeBucket
}

// Aggregate counts every weather and road tag occurrence and exactly one
// time bucket per incident
func Aggregate(records []models.Incident) Statistics {
	s := Statistics{
		Total:   len(records),
		Weather: make(map[string]int),
		Road:    make(map[string]int),
	}
	for _, r := range records {
		for _, w := range r.Weather {
			s.Weather[w]++
		}
		for _, rd := range r.RoadConditions {
			s.Road[rd]++
		}
		s.Time[BucketForHour(r.Hour())]++
	}
	return s
}

// Lift compares the share of a feature inside a cluster with its share in
// the baseline. A feature never seen in the baseline counts as seen once.
func Lift(localCount, localTotal, globalCount, globalTotal int) float64 {
	if localTotal == 0 || globalTotal == 0 {
		return 0
	}
	if globalCount == 0 {
		globalCount = 1
	}
	localShare := float64(localCount) / float64(localTotal)
	globalShare := float64(globalCount) / float64(globalTotal)
	return localShare / globalShare
}
