// Package exposure builds, per spatial extent, the joint probability
// distribution relating a cell's realized category to the composition of
// its neighborhood.
//
// The neighborhood axis is the locally dominant category: the category
// whose windowed density aggregate is largest around the cell. The joint
// table is therefore K×K for K categories; the discretization rule is
// fixed for a whole run so tiles stay comparable.
package exposure

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/pattern-data/mosaic"
	"github.com/pattern-data/mosaic/raster"
)

// Builder assembles joint distributions over cell blocks.
type Builder struct {
	categories int
	threshold  float64
}

// NewBuilder creates a Builder for k categories. threshold is the minimum
// share of present cells an extent needs for its metrics to be computed;
// the boundary is inclusive. k < 1 or threshold outside [0,1] wraps
// ErrInvalidParameter.
func NewBuilder(k int, threshold float64) (*Builder, error) {
	if k < 1 {
		return nil, fmt.Errorf("exposure: need at least one category, got %d: %w", k, mosaic.ErrInvalidParameter)
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("exposure: threshold must be in [0,1], got %g: %w", threshold, mosaic.ErrInvalidParameter)
	}
	return &Builder{categories: k, threshold: threshold}, nil
}

// BuildJoint builds the normalized joint frequency table of (realized
// category, dominant neighborhood category) over the cells of block. Cells
// with a missing realization are discarded; when the share of usable cells
// falls below the threshold (or no cell is usable at all) the extent is
// invalid and the error wraps ErrInsufficientData.
func (b *Builder) BuildJoint(realization, dominant *raster.ClassGrid, block raster.Block) (*mat.Dense, error) {
	if realization.Rows() != dominant.Rows() || realization.Cols() != dominant.Cols() {
		return nil, fmt.Errorf("exposure: realization is %dx%d, dominant is %dx%d: %w",
			realization.Rows(), realization.Cols(), dominant.Rows(), dominant.Cols(), mosaic.ErrShapeMismatch)
	}

	total := block.NumCells()
	if total == 0 {
		return nil, fmt.Errorf("exposure: empty extent: %w", mosaic.ErrInsufficientData)
	}

	counts := mat.NewDense(b.categories, b.categories, nil)
	usable := 0
	for r := block.Row0; r < block.Row0+block.Rows; r++ {
		for c := block.Col0; c < block.Col0+block.Cols; c++ {
			class, ok := realization.At(r, c)
			if !ok {
				continue
			}
			neighbor, ok := dominant.At(r, c)
			if !ok {
				continue
			}
			counts.Set(class, neighbor, counts.At(class, neighbor)+1)
			usable++
		}
	}

	fraction := float64(usable) / float64(total)
	if usable == 0 || fraction < b.threshold {
		return nil, fmt.Errorf("exposure: %d of %d cells present (%.3f < threshold %.3f): %w",
			usable, total, fraction, b.threshold, mosaic.ErrInsufficientData)
	}

	counts.Scale(1/float64(usable), counts)
	return counts, nil
}
