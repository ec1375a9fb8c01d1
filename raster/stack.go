package raster

import (
	"fmt"
	"math"

	"github.com/pattern-data/mosaic"
)

// Stack is the immutable input to the pipeline: K co-registered category
// layers of identical shape, each cell holding a non-negative population
// count or density for that category. A Stack is read-only after
// construction and safe to share across realizations.
type Stack struct {
	rows, cols int
	transform  Transform
	names      []string
	layers     []*FloatGrid
}

// NewStack validates and assembles a category stack. All layers must share
// the shape of the first one; the transform must have positive cell sizes;
// every present cell value must be non-negative and finite. Shape and
// georeference violations wrap ErrShapeMismatch.
func NewStack(tr Transform, names []string, layers []*FloatGrid) (*Stack, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("raster: stack needs at least one category layer: %w", mosaic.ErrShapeMismatch)
	}
	if len(names) != len(layers) {
		return nil, fmt.Errorf("raster: %d names for %d layers: %w", len(names), len(layers), mosaic.ErrShapeMismatch)
	}
	if tr.CellWidth <= 0 || tr.CellHeight <= 0 {
		return nil, fmt.Errorf("raster: non-positive cell size %gx%g: %w", tr.CellWidth, tr.CellHeight, mosaic.ErrShapeMismatch)
	}
	rows, cols := layers[0].Rows(), layers[0].Cols()
	for k, layer := range layers {
		if layer.Rows() != rows || layer.Cols() != cols {
			return nil, fmt.Errorf("raster: layer %q is %dx%d, want %dx%d: %w",
				names[k], layer.Rows(), layer.Cols(), rows, cols, mosaic.ErrShapeMismatch)
		}
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				v, ok := layer.At(r, c)
				if !ok {
					continue
				}
				if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
					return nil, fmt.Errorf("raster: layer %q cell (%d,%d) holds %g, want non-negative finite", names[k], r, c, v)
				}
			}
		}
	}
	return &Stack{
		rows:      rows,
		cols:      cols,
		transform: tr,
		names:     append([]string(nil), names...),
		layers:    append([]*FloatGrid(nil), layers...),
	}, nil
}

// Rows returns the number of grid rows.
func (s *Stack) Rows() int { return s.rows }

// Cols returns the number of grid columns.
func (s *Stack) Cols() int { return s.cols }

// Categories returns the number of category layers K.
func (s *Stack) Categories() int { return len(s.layers) }

// Name returns the name of category layer k.
func (s *Stack) Name(k int) string { return s.names[k] }

// Layer returns category layer k. Callers must treat it as read-only.
func (s *Stack) Layer(k int) *FloatGrid { return s.layers[k] }

// Transform returns the stack's affine georeference.
func (s *Stack) Transform() Transform { return s.transform }

// Whole returns the block covering the full grid.
func (s *Stack) Whole() Block {
	return Block{Row0: 0, Col0: 0, Rows: s.rows, Cols: s.cols}
}

// CellWeights fills dst with the raw per-category values at (row, col),
// treating missing layer values as absent. It reports false when every
// category is missing or the total is zero; such a cell has no defined
// categorical distribution and realizes as missing.
func (s *Stack) CellWeights(row, col int, dst []float64) ([]float64, bool) {
	if cap(dst) < len(s.layers) {
		dst = make([]float64, len(s.layers))
	}
	dst = dst[:len(s.layers)]
	var sum float64
	any := false
	for k, layer := range s.layers {
		v, ok := layer.At(row, col)
		if !ok {
			dst[k] = 0
			continue
		}
		any = true
		dst[k] = v
		sum += v
	}
	if !any || sum == 0 {
		return dst, false
	}
	return dst, true
}
