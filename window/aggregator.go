package window

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/pattern-data/mosaic"
	"github.com/pattern-data/mosaic/raster"
)

// Fun selects the per-window aggregation statistic.
type Fun string

const (
	// Mean is the arithmetic mean of the present window values.
	Mean Fun = "mean"
	// GeometricMean is the geometric mean of the positive window values.
	// Zero-valued cells are excluded from both the product and the
	// denominator; a window with no positive values aggregates to 0.
	GeometricMean Fun = "geometric_mean"
	// Focal is the center cell's own value with no spatial aggregation,
	// the degenerate baseline.
	Focal Fun = "focal"
)

// ParseFun maps a configuration string onto a Fun.
// Unrecognized values wrap ErrInvalidParameter.
func ParseFun(s string) (Fun, error) {
	switch Fun(s) {
	case Mean, GeometricMean, Focal:
		return Fun(s), nil
	default:
		return "", fmt.Errorf("window: unrecognized fun %q: %w", s, mosaic.ErrInvalidParameter)
	}
}

// Aggregator computes windowed per-category density aggregates.
type Aggregator struct {
	fun  Fun
	size int
}

// NewAggregator creates an Aggregator with the given statistic and window
// side length in cells. size < 1 wraps ErrInvalidParameter. Odd sizes
// center exactly on the target cell; even sizes extend one extra cell
// south and east.
func NewAggregator(fun Fun, size int) (*Aggregator, error) {
	if _, err := ParseFun(string(fun)); err != nil {
		return nil, err
	}
	if size < 1 {
		return nil, fmt.Errorf("window: window_size must be >= 1, got %d: %w", size, mosaic.ErrInvalidParameter)
	}
	return &Aggregator{fun: fun, size: size}, nil
}

// Fun returns the configured statistic.
func (a *Aggregator) Fun() Fun { return a.fun }

// Size returns the configured window side length.
func (a *Aggregator) Size() int { return a.size }

// Result holds the per-realization neighborhood aggregates.
type Result struct {
	// Density is the own-category local density: for each realized cell,
	// the window aggregate of the stack layer matching the cell's
	// realized category. Missing wherever the realization is missing or
	// the window holds no present values for that layer.
	Density *raster.FloatGrid
	// Dominant is the locally dominant category: the argmax over
	// categories of the per-category window aggregates, lowest index on
	// ties. Missing wherever the realization is missing.
	Dominant *raster.ClassGrid
}

// Aggregate evaluates the window statistic for every realized cell of
// realization over the stack's category layers. The realization must share
// the stack's shape; a mismatch wraps ErrShapeMismatch.
func (a *Aggregator) Aggregate(stack *raster.Stack, realization *raster.ClassGrid) (*Result, error) {
	if realization.Rows() != stack.Rows() || realization.Cols() != stack.Cols() {
		return nil, fmt.Errorf("window: realization is %dx%d, stack is %dx%d: %w",
			realization.Rows(), realization.Cols(), stack.Rows(), stack.Cols(), mosaic.ErrShapeMismatch)
	}

	rows, cols, k := stack.Rows(), stack.Cols(), stack.Categories()
	res := &Result{
		Density:  raster.NewFloatGrid(rows, cols),
		Dominant: raster.NewClassGrid(rows, cols),
	}

	// Window offsets: odd sizes are symmetric, even sizes take the extra
	// cell south and east.
	lo := -(a.size - 1) / 2
	hi := a.size / 2

	vals := make([]float64, 0, a.size*a.size)
	aggs := make([]float64, k)
	oks := make([]bool, k)

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			class, ok := realization.At(r, c)
			if !ok {
				continue
			}
			for layer := 0; layer < k; layer++ {
				aggs[layer], oks[layer] = a.aggregateCell(stack.Layer(layer), r, c, lo, hi, &vals)
			}
			if oks[class] {
				res.Density.Set(r, c, aggs[class])
			}
			dominant, found := -1, false
			for layer := 0; layer < k; layer++ {
				if !oks[layer] {
					continue
				}
				if !found || aggs[layer] > aggs[dominant] {
					dominant, found = layer, true
				}
			}
			if found {
				res.Dominant.Set(r, c, dominant)
			}
		}
	}
	return res, nil
}

// aggregateCell evaluates the statistic for one layer in the truncated
// window around (r, c). ok is false when the window holds no present
// values (or, for Focal, the center value is missing).
func (a *Aggregator) aggregateCell(layer *raster.FloatGrid, r, c, lo, hi int, scratch *[]float64) (float64, bool) {
	if a.fun == Focal {
		return layer.At(r, c)
	}

	vals := (*scratch)[:0]
	for dr := lo; dr <= hi; dr++ {
		rr := r + dr
		if rr < 0 || rr >= layer.Rows() {
			continue
		}
		for dc := lo; dc <= hi; dc++ {
			cc := c + dc
			if cc < 0 || cc >= layer.Cols() {
				continue
			}
			if v, ok := layer.At(rr, cc); ok {
				vals = append(vals, v)
			}
		}
	}
	*scratch = vals
	if len(vals) == 0 {
		return 0, false
	}

	switch a.fun {
	case GeometricMean:
		positive := vals[:0]
		for _, v := range vals {
			if v > 0 {
				positive = append(positive, v)
			}
		}
		if len(positive) == 0 {
			return 0, true
		}
		return stat.GeometricMean(positive, nil), true
	default: // Mean
		return stat.Mean(vals, nil), true
	}
}
