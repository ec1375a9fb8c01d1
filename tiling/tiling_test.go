package tiling

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pattern-data/mosaic"
	"github.com/pattern-data/mosaic/raster"
)

func TestNewTiler_ValidatesSize(t *testing.T) {
	t.Parallel()

	_, err := NewTiler(0)
	assert.ErrorIs(t, err, mosaic.ErrInvalidParameter)

	tiler, err := NewTiler(2)
	require.NoError(t, err)
	assert.Equal(t, 2, tiler.Size())
}

func TestTiles_ExactPartition(t *testing.T) {
	t.Parallel()

	tiler, err := NewTiler(2)
	require.NoError(t, err)
	tiles := tiler.Tiles(4, 4)
	require.Len(t, tiles, 4)

	want := []Tile{
		{Row: 0, Col: 0, Block: raster.Block{Row0: 0, Col0: 0, Rows: 2, Cols: 2}},
		{Row: 0, Col: 1, Block: raster.Block{Row0: 0, Col0: 2, Rows: 2, Cols: 2}},
		{Row: 1, Col: 0, Block: raster.Block{Row0: 2, Col0: 0, Rows: 2, Cols: 2}},
		{Row: 1, Col: 1, Block: raster.Block{Row0: 2, Col0: 2, Rows: 2, Cols: 2}},
	}
	if diff := cmp.Diff(want, tiles); diff != "" {
		t.Errorf("tile partition mismatch (-want +got):\n%s", diff)
	}
}

func TestTiles_TruncatedEdgeTilesIncluded(t *testing.T) {
	t.Parallel()

	tiler, err := NewTiler(3)
	require.NoError(t, err)
	tiles := tiler.Tiles(5, 4)
	require.Len(t, tiles, 4)

	// South-east corner tile covers only the 2x1 remainder.
	last := tiles[len(tiles)-1]
	assert.Equal(t, 1, last.Row)
	assert.Equal(t, 1, last.Col)
	assert.Equal(t, raster.Block{Row0: 3, Col0: 3, Rows: 2, Cols: 1}, last.Block)
}

func TestTile_Polygon(t *testing.T) {
	t.Parallel()

	tr := raster.Transform{OriginX: 1000, OriginY: 2000, CellWidth: 30, CellHeight: 30}
	tile := Tile{Row: 1, Col: 0, Block: raster.Block{Row0: 2, Col0: 0, Rows: 2, Cols: 2}}

	ring := tile.Polygon(tr)
	require.Len(t, ring, 5)
	assert.Equal(t, ring[0], ring[4], "ring is closed")

	want := Ring{
		{1000, 1880},
		{1060, 1880},
		{1060, 1940},
		{1000, 1940},
		{1000, 1880},
	}
	if diff := cmp.Diff(want, ring); diff != "" {
		t.Errorf("polygon mismatch (-want +got):\n%s", diff)
	}
}
