package clustering

import (
	"fmt"
	"math"
)

// Candidate records the score of one k tried by the selector
type Candidate struct {
	K       int     `json:"k"`
	Inertia float64 `json:"inertia"`
	Score   float64 `json:"score"`
}

// Selection is the model chosen by SelectModel
type Selection struct {
	KMeansResult
	Score      float64
	Candidates []Candidate
}

// Score is the penalized-inertia criterion: higher is better. It stands in
// for a silhouette computation, which is too slow to run per request.
func Score(inertia float64, k int, penalty float64) float64 {
	return -inertia - penalty*float64(k)*inertia
}

// SelectModel runs k-means for every k in [MinK, MaxK] and keeps the one with
// the highest score; on equal scores the smallest k wins. Values of k larger
// than the number of points are skipped.
func SelectModel(points [][]float64, cfg KMeansConfig, rng Rand) (Selection, error) {
	var best Selection
	bestScore := math.Inf(-1)
	found := false

	for k := cfg.MinK; k <= cfg.MaxK; k++ {
		if k > len(points) {
			break
		}

		res, err := KMeans(points, k, cfg.MaxIterations, rng)
		if err != nil {
			return Selection{}, fmt.Errorf("failed to run kmeans with k=%d: %w", k, err)
		}

		score := Score(res.Inertia, k, cfg.Penalty)
		best.Candidates = append(best.Candidates, Candidate{K: k, Inertia: res.Inertia, Score: score})

		if !found || score > bestScore {
			found = true
			bestScore = score
			best.KMeansResult = res
			best.Score = score
		}
	}

	if !found {
		return Selection{}, fmt.Errorf("%w: n=%d minK=%d", ErrTooFewPoints, len(points), cfg.MinK)
	}
	return best, nil
}
