package clustering

import (
	"sort"

	"github.com/jengzang/riskzones-backend-go/internal/models"
)

// Vocabulary maps categorical tag values to stable feature indices
type Vocabulary struct {
	terms []string
	index map[string]int
}

type termCount struct {
	term  string
	count int
}

// BuildVocabulary counts every tag across the per-incident sets and keeps the
// most frequent ones. Entries are ordered by descending count with ties broken
// by ascending tag value; the walk stops at the first count below minSupport
// or once maxSize entries have been taken.
func BuildVocabulary(sets []models.TagSet, maxSize, minSupport int) Vocabulary {
	counts := make(map[string]int)
	for _, set := range sets {
		for _, tag := range set {
			counts[tag]++
		}
	}

	ranked := make([]termCount, 0, len(counts))
	for term, n := range counts {
		ranked = append(ranked, termCount{term: term, count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].term < ranked[j].term
	})

	v := Vocabulary{index: make(map[string]int)}
	for _, tc := range ranked {
		if len(v.terms) >= maxSize || tc.count < minSupport {
			break
		}
		v.index[tc.term] = len(v.terms)
		v.terms = append(v.terms, tc.term)
	}
	return v
}

// Len returns the number of entries
func (v Vocabulary) Len() int {
	return len(v.terms)
}

// Terms returns the entries in index order
func (v Vocabulary) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// Index returns the feature index of term
func (v Vocabulary) Index(term string) (int, bool) {
	i, ok := v.index[term]
	return i, ok
}
