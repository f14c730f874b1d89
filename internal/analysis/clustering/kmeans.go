package clustering

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Rand is the random source used for k-means++ seeding. *math/rand.Rand
// satisfies it; tests inject a seeded one.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// KMeansResult is the outcome of one k-means run
type KMeansResult struct {
	K          int
	Labels     []int
	Centroids  [][]float64
	Inertia    float64
	Iterations int
}

// ErrTooFewPoints is returned when fewer points than clusters are given
var ErrTooFewPoints = errors.New("kmeans: fewer points than clusters")

// KMeans partitions points into k groups: k-means++ seeding followed by at
// most maxIter Lloyd iterations. Every iteration produces fresh label and
// centroid slices; points are never modified.
func KMeans(points [][]float64, k, maxIter int, rng Rand) (KMeansResult, error) {
	if k < 1 {
		return KMeansResult{}, fmt.Errorf("kmeans: invalid k %d", k)
	}
	if len(points) < k {
		return KMeansResult{}, fmt.Errorf("%w: n=%d k=%d", ErrTooFewPoints, len(points), k)
	}

	centroids := SeedPlusPlus(points, k, rng)

	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}

	iterations := 0
	for iter := 0; iter < maxIter; iter++ {
		iterations++

		next, changed := Assign(points, centroids, labels)
		labels = next
		if !changed {
			break
		}
		centroids = UpdateCentroids(points, labels, centroids)
	}

	return KMeansResult{
		K:          k,
		Labels:     labels,
		Centroids:  centroids,
		Inertia:    Inertia(points, labels, centroids),
		Iterations: iterations,
	}, nil
}

// SeedPlusPlus chooses k initial centroids: the first uniformly at random,
// each following one with probability proportional to its squared distance
// from the nearest centroid chosen so far
func SeedPlusPlus(points [][]float64, k int, rng Rand) [][]float64 {
	n := len(points)
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clone(points[rng.Intn(n)]))

	nearest := make([]float64, n)
	for i := range nearest {
		nearest[i] = math.Inf(1)
	}

	for len(centroids) < k {
		last := centroids[len(centroids)-1]
		var total float64
		for i, p := range points {
			if d := squaredDistance(p, last); d < nearest[i] {
				nearest[i] = d
			}
			total += nearest[i]
		}

		// every point coincides with a centroid
		if total == 0 {
			centroids = append(centroids, clone(points[rng.Intn(n)]))
			continue
		}

		target := rng.Float64() * total
		chosen := n - 1
		var cumulative float64
		for i, d := range nearest {
			cumulative += d
			if cumulative > target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, clone(points[chosen]))
	}

	return centroids
}

// Assign labels every point with its nearest centroid; ties go to the lowest
// centroid index. It reports whether any label differs from prev.
func Assign(points, centroids [][]float64, prev []int) ([]int, bool) {
	labels := make([]int, len(points))
	changed := false
	for i, p := range points {
		best := 0
		bestDist := math.Inf(1)
		for c, centroid := range centroids {
			if d := squaredDistance(p, centroid); d < bestDist {
				bestDist = d
				best = c
			}
		}
		labels[i] = best
		if prev == nil || prev[i] != best {
			changed = true
		}
	}
	return labels, changed
}

// UpdateCentroids returns the componentwise mean of each cluster's members.
// A cluster without members keeps its previous centroid.
func UpdateCentroids(points [][]float64, labels []int, prev [][]float64) [][]float64 {
	k := len(prev)
	dim := len(prev[0])

	sums := make([][]float64, k)
	counts := make([]int, k)
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	for i, p := range points {
		floats.Add(sums[labels[i]], p)
		counts[labels[i]]++
	}

	next := make([][]float64, k)
	for c := range next {
		if counts[c] == 0 {
			next[c] = clone(prev[c])
			continue
		}
		floats.Scale(1/float64(counts[c]), sums[c])
		next[c] = sums[c]
	}
	return next
}

// Inertia is the sum of squared distances from each point to its centroid
func Inertia(points [][]float64, labels []int, centroids [][]float64) float64 {
	var total float64
	for i, p := range points {
		total += squaredDistance(p, centroids[labels[i]])
	}
	return total
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
