package clustering

import (
	"testing"

	"github.com/jengzang/riskzones-backend-go/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestBucketForHour(t *testing.T) {
	cases := map[int]TimeBucket{
		0: Night, 5: Night,
		6: Morning, 10: Morning,
		11: Day, 16: Day,
		17: Evening, 23: Evening,
	}
	for h, want := range cases {
		assert.Equal(t, want, BucketForHour(h), "hour %d", h)
	}
}

func TestAggregate(t *testing.T) {
	records := []models.Incident{
		incident(1, 55.7, 37.6, 2, []string{"snow", "fog"}, []string{"ice"}),
		incident(2, 55.7, 37.6, 8, []string{"snow"}, nil),
		incident(3, 55.7, 37.6, 13, nil, []string{"ice", "wet"}),
		incident(4, 55.7, 37.6, 20, []string{"clear"}, []string{"dry"}),
		incident(5, 55.7, 37.6, 23, []string{"clear"}, []string{"dry"}),
	}

	s := Aggregate(records)

	assert.Equal(t, 5, s.Total)
	assert.Equal(t, map[string]int{"snow": 2, "fog": 1, "clear": 2}, s.Weather)
	assert.Equal(t, map[string]int{"ice": 2, "wet": 1, "dry": 2}, s.Road)
	assert.Equal(t, [4]int{1, 1, 1, 2}, s.Time)
}

func TestLift(t *testing.T) {
	// 100% locally vs 5% globally
	assert.InDelta(t, 20.0, Lift(10, 10, 5, 100), 1e-12)
	// equal shares
	assert.InDelta(t, 1.0, Lift(3, 10, 30, 100), 1e-12)
	// unseen globally counts as one occurrence
	assert.InDelta(t, 10.0, Lift(1, 10, 0, 100), 1e-12)
	assert.Equal(t, 0.0, Lift(1, 0, 5, 100))
	assert.Equal(t, 0.0, Lift(1, 10, 5, 0))
}
