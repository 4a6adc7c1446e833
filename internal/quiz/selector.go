package quiz

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
)

// Selector draws a question index with probability proportional to its
// weight. Each draw is independent.
type Selector struct {
	rng *rand.Rand
}

// NewSelector creates a selector using rng. A nil rng is seeded randomly.
func NewSelector(rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Selector{rng: rng}
}

// Select returns one index drawn from weights. Zero-weight entries are never
// returned. Negative or non-finite weights, an empty vector, and an all-zero
// vector are configuration errors; the last wraps ErrAllWeightsZero.
func (s *Selector) Select(weights []float64) (int, error) {
	if len(weights) == 0 {
		return 0, &ConfigurationError{Message: "empty weight vector"}
	}

	prefix := make([]float64, len(weights))
	total := 0.0
	for i, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return 0, &ConfigurationError{Message: fmt.Sprintf("weight %d is %v", i, w)}
		}
		total += w
		prefix[i] = total
	}
	if math.IsInf(total, 0) {
		return 0, &ConfigurationError{Message: "weight sum overflows"}
	}
	if total == 0 {
		return 0, &ConfigurationError{Message: "cannot sample", Err: ErrAllWeightsZero}
	}

	r := s.rng.Float64() * total
	// First index whose cumulative weight exceeds r. Zero-weight entries
	// share the previous prefix value and can never be the first to exceed it.
	idx := sort.Search(len(prefix), func(i int) bool { return prefix[i] > r })
	if idx == len(prefix) {
		// r rounded up to total; fall back to the last selectable entry.
		idx = len(weights) - 1
		for weights[idx] == 0 {
			idx--
		}
	}
	return idx, nil
}

// Shuffle returns a random permutation of [0, n) used as a display order.
func (s *Selector) Shuffle(n int) []int {
	return s.rng.Perm(n)
}
