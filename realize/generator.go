package realize

import (
	"fmt"
	"math/rand/v2"

	"github.com/pattern-data/mosaic"
	"github.com/pattern-data/mosaic/raster"
)

// Generator produces independent categorical realizations of one stack.
// The stack is shared read-only; each realization is drawn from its own
// PCG stream keyed by (seed, realization index).
type Generator struct {
	stack *raster.Stack
	seed  uint64
}

// NewGenerator creates a Generator for stack with the given run seed.
func NewGenerator(stack *raster.Stack, seed uint64) *Generator {
	return &Generator{stack: stack, seed: seed}
}

// Realize draws realization i. Cells whose category values are all zero
// or all missing come out missing. The result is a pure function of
// (stack, seed, i).
func (g *Generator) Realize(i int) *raster.ClassGrid {
	s := NewSampler(g.stack.Categories(), rand.NewPCG(g.seed, uint64(i)))
	out := raster.NewClassGrid(g.stack.Rows(), g.stack.Cols())
	weights := make([]float64, g.stack.Categories())
	for r := 0; r < g.stack.Rows(); r++ {
		for c := 0; c < g.stack.Cols(); c++ {
			w, ok := g.stack.CellWeights(r, c, weights)
			if !ok {
				continue
			}
			if class, ok := s.Draw(w); ok {
				out.Set(r, c, class)
			}
		}
	}
	return out
}

// Generate draws n independent realizations in index order.
// n < 1 wraps ErrInvalidParameter.
func (g *Generator) Generate(n int) ([]*raster.ClassGrid, error) {
	if n < 1 {
		return nil, fmt.Errorf("realize: n must be >= 1, got %d: %w", n, mosaic.ErrInvalidParameter)
	}
	out := make([]*raster.ClassGrid, n)
	for i := range out {
		out[i] = g.Realize(i)
	}
	return out, nil
}
