package realize

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler draws one category per cell from the cell's non-negative
// category weights. It wraps a reusable categorical distribution so a
// full-grid pass performs no per-cell allocation.
type Sampler struct {
	dist distuv.Categorical
	k    int
}

// NewSampler creates a sampler over k categories drawing from src.
// It panics if k is not positive.
func NewSampler(k int, src rand.Source) *Sampler {
	w := make([]float64, k)
	for i := range w {
		w[i] = 1
	}
	return &Sampler{dist: distuv.NewCategorical(w, src), k: k}
}

// Draw samples a category index in [0,k) proportionally to weights.
// It reports false when the weights sum to zero; such a cell realizes
// as missing. A single positive weight is returned directly, so a fully
// homogeneous cell is deterministic and consumes no randomness.
func (s *Sampler) Draw(weights []float64) (int, bool) {
	var sum float64
	last := -1
	positive := 0
	for i, w := range weights {
		if w > 0 {
			sum += w
			last = i
			positive++
		}
	}
	if sum == 0 {
		return 0, false
	}
	if positive == 1 {
		return last, true
	}
	s.dist.ReweightAll(weights)
	return int(s.dist.Rand()), true
}
