package raster

import "fmt"

// FloatGrid is a dense rows×cols grid of float64 values with per-cell
// missing-value tagging. The backing storage is a flat row-major slice.
type FloatGrid struct {
	rows, cols int
	vals       []float64
	present    []bool
}

// NewFloatGrid creates a FloatGrid with every cell missing.
// It panics if rows or cols is not positive.
func NewFloatGrid(rows, cols int) *FloatGrid {
	if rows < 1 || cols < 1 {
		panic(fmt.Sprintf("raster: non-positive grid shape %dx%d", rows, cols))
	}
	return &FloatGrid{
		rows:    rows,
		cols:    cols,
		vals:    make([]float64, rows*cols),
		present: make([]bool, rows*cols),
	}
}

// Rows returns the number of grid rows.
func (g *FloatGrid) Rows() int { return g.rows }

// Cols returns the number of grid columns.
func (g *FloatGrid) Cols() int { return g.cols }

// At returns the value at (row, col) and whether it is present.
func (g *FloatGrid) At(row, col int) (float64, bool) {
	i := g.index(row, col)
	return g.vals[i], g.present[i]
}

// Set stores a present value at (row, col).
func (g *FloatGrid) Set(row, col int, v float64) {
	i := g.index(row, col)
	g.vals[i] = v
	g.present[i] = true
}

// Clear marks (row, col) as missing.
func (g *FloatGrid) Clear(row, col int) {
	i := g.index(row, col)
	g.vals[i] = 0
	g.present[i] = false
}

func (g *FloatGrid) index(row, col int) int {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		panic(fmt.Sprintf("raster: cell (%d,%d) out of %dx%d grid", row, col, g.rows, g.cols))
	}
	return row*g.cols + col
}

// ClassGrid is a dense rows×cols grid of category indices with per-cell
// missing-value tagging. Category indices are zero-based layer indices
// into the Stack that produced the grid.
type ClassGrid struct {
	rows, cols int
	vals       []int
	present    []bool
}

// NewClassGrid creates a ClassGrid with every cell missing.
// It panics if rows or cols is not positive.
func NewClassGrid(rows, cols int) *ClassGrid {
	if rows < 1 || cols < 1 {
		panic(fmt.Sprintf("raster: non-positive grid shape %dx%d", rows, cols))
	}
	return &ClassGrid{
		rows:    rows,
		cols:    cols,
		vals:    make([]int, rows*cols),
		present: make([]bool, rows*cols),
	}
}

// Rows returns the number of grid rows.
func (g *ClassGrid) Rows() int { return g.rows }

// Cols returns the number of grid columns.
func (g *ClassGrid) Cols() int { return g.cols }

// At returns the category at (row, col) and whether it is present.
func (g *ClassGrid) At(row, col int) (int, bool) {
	i := g.index(row, col)
	return g.vals[i], g.present[i]
}

// Set stores a present category at (row, col).
func (g *ClassGrid) Set(row, col int, class int) {
	i := g.index(row, col)
	g.vals[i] = class
	g.present[i] = true
}

// Clear marks (row, col) as missing.
func (g *ClassGrid) Clear(row, col int) {
	i := g.index(row, col)
	g.vals[i] = 0
	g.present[i] = false
}

func (g *ClassGrid) index(row, col int) int {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		panic(fmt.Sprintf("raster: cell (%d,%d) out of %dx%d grid", row, col, g.rows, g.cols))
	}
	return row*g.cols + col
}

// Block is a rectangular range of cells in grid index space.
type Block struct {
	Row0, Col0 int // top-left cell, inclusive
	Rows, Cols int // block extent in cells
}

// NumCells returns the number of cells covered by the block.
func (b Block) NumCells() int { return b.Rows * b.Cols }
