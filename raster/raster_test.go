package raster

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pattern-data/mosaic"
)

func testTransform() Transform {
	return Transform{OriginX: 100, OriginY: 200, CellWidth: 10, CellHeight: 10}
}

func TestFloatGrid_SetClearAt(t *testing.T) {
	t.Parallel()

	g := NewFloatGrid(2, 3)
	_, ok := g.At(0, 0)
	assert.False(t, ok, "new grid cells start missing")

	g.Set(1, 2, 4.5)
	v, ok := g.At(1, 2)
	require.True(t, ok)
	assert.Equal(t, 4.5, v)

	g.Clear(1, 2)
	_, ok = g.At(1, 2)
	assert.False(t, ok)
}

func TestFloatGrid_OutOfBoundsPanics(t *testing.T) {
	t.Parallel()

	g := NewFloatGrid(2, 2)
	assert.Panics(t, func() { g.At(2, 0) })
	assert.Panics(t, func() { g.Set(0, -1, 1) })
}

func TestClassGrid_SetClearAt(t *testing.T) {
	t.Parallel()

	g := NewClassGrid(2, 2)
	_, ok := g.At(0, 1)
	assert.False(t, ok)

	g.Set(0, 1, 3)
	class, ok := g.At(0, 1)
	require.True(t, ok)
	assert.Equal(t, 3, class)

	g.Clear(0, 1)
	_, ok = g.At(0, 1)
	assert.False(t, ok)
}

func TestNewStack_Valid(t *testing.T) {
	t.Parallel()

	a := NewFloatGrid(2, 2)
	b := NewFloatGrid(2, 2)
	a.Set(0, 0, 1)
	b.Set(0, 0, 2)

	s, err := NewStack(testTransform(), []string{"a", "b"}, []*FloatGrid{a, b})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Rows())
	assert.Equal(t, 2, s.Cols())
	assert.Equal(t, 2, s.Categories())
	assert.Equal(t, "b", s.Name(1))
	assert.Equal(t, Block{Row0: 0, Col0: 0, Rows: 2, Cols: 2}, s.Whole())
}

func TestNewStack_ShapeMismatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		tr     Transform
		names  []string
		layers []*FloatGrid
	}{
		{"no layers", testTransform(), nil, nil},
		{"name count", testTransform(), []string{"a"}, []*FloatGrid{NewFloatGrid(2, 2), NewFloatGrid(2, 2)}},
		{"layer shape", testTransform(), []string{"a", "b"}, []*FloatGrid{NewFloatGrid(2, 2), NewFloatGrid(3, 2)}},
		{"cell size", Transform{CellWidth: 0, CellHeight: 10}, []string{"a"}, []*FloatGrid{NewFloatGrid(2, 2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewStack(tt.tr, tt.names, tt.layers)
			assert.ErrorIs(t, err, mosaic.ErrShapeMismatch)
		})
	}
}

func TestNewStack_RejectsNegativeValues(t *testing.T) {
	t.Parallel()

	a := NewFloatGrid(1, 2)
	a.Set(0, 0, 1)
	a.Set(0, 1, -0.5)
	_, err := NewStack(testTransform(), []string{"a"}, []*FloatGrid{a})
	require.Error(t, err)
	assert.False(t, errors.Is(err, mosaic.ErrShapeMismatch), "data error, not a shape error")
}

func TestStack_CellWeights(t *testing.T) {
	t.Parallel()

	a := NewFloatGrid(1, 3)
	b := NewFloatGrid(1, 3)
	// (0,0): normal cell. (0,1): all zero. (0,2): all missing.
	a.Set(0, 0, 3)
	b.Set(0, 0, 1)
	a.Set(0, 1, 0)
	b.Set(0, 1, 0)

	s, err := NewStack(testTransform(), []string{"a", "b"}, []*FloatGrid{a, b})
	require.NoError(t, err)

	w, ok := s.CellWeights(0, 0, nil)
	require.True(t, ok)
	assert.Equal(t, []float64{3, 1}, w)

	_, ok = s.CellWeights(0, 1, w)
	assert.False(t, ok, "all-zero cell has no categorical distribution")

	_, ok = s.CellWeights(0, 2, w)
	assert.False(t, ok, "all-missing cell has no categorical distribution")
}

func TestTransform_BlockBounds(t *testing.T) {
	t.Parallel()

	tr := testTransform()
	b := Block{Row0: 1, Col0: 2, Rows: 2, Cols: 3}
	r := tr.BlockBounds(b)
	// Columns advance east, rows advance south from the origin corner.
	assert.Equal(t, 120.0, r.MinX)
	assert.Equal(t, 150.0, r.MaxX)
	assert.Equal(t, 190.0, r.MaxY)
	assert.Equal(t, 170.0, r.MinY)
}
