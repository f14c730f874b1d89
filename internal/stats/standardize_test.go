package stats

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat"
)

func TestStandardize(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		s := Standardize(nil)
		assert.Equal(t, 0.0, s.Mean)
		assert.Equal(t, 1.0, s.StdDev)
	})

	t.Run("single sample", func(t *testing.T) {
		s := Standardize([]float64{55.7})
		assert.Equal(t, 55.7, s.Mean)
		assert.Equal(t, 1.0, s.StdDev)
	})

	t.Run("zero variance", func(t *testing.T) {
		s := Standardize([]float64{3, 3, 3, 3})
		assert.Equal(t, 3.0, s.Mean)
		assert.Equal(t, 1.0, s.StdDev)
	})

	t.Run("sample standard deviation", func(t *testing.T) {
		s := Standardize([]float64{2, 4, 4, 4, 5, 5, 7, 9})
		assert.InDelta(t, 5.0, s.Mean, 1e-12)
		// population std is 2; sample std uses n-1
		assert.InDelta(t, 2.138089935, s.StdDev, 1e-9)
	})
}

func TestStandardizeApplyYieldsUnitScale(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	values := make([]float64, 500)
	for i := range values {
		values[i] = 55.75 + rng.NormFloat64()*0.08
	}

	s := Standardize(values)
	scaled := make([]float64, len(values))
	for i, v := range values {
		scaled[i] = s.Apply(v)
	}

	mean, std := stat.MeanStdDev(scaled, nil)
	assert.InDelta(t, 0.0, mean, 1e-9)
	assert.InDelta(t, 1.0, std, 1e-9)
}
