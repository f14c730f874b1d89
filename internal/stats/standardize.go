package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Standardization holds z-score parameters for one continuous feature
type Standardization struct {
	Mean   float64
	StdDev float64
}

// Standardize computes the mean and sample (n-1) standard deviation of values.
// The standard deviation is floored to 1.0 when fewer than two samples are
// given or the variance is zero, so Apply never divides by zero.
func Standardize(values []float64) Standardization {
	switch len(values) {
	case 0:
		return Standardization{Mean: 0, StdDev: 1}
	case 1:
		return Standardization{Mean: values[0], StdDev: 1}
	}

	mean, std := stat.MeanStdDev(values, nil)
	if std == 0 || math.IsNaN(std) {
		std = 1
	}
	return Standardization{Mean: mean, StdDev: std}
}

// Apply returns the z-score of v
func (s Standardization) Apply(v float64) float64 {
	return (v - s.Mean) / s.StdDev
}
