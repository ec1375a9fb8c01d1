// Package tiling partitions a raster into non-overlapping square tiles in
// cell-index space and derives each tile's world-coordinate polygon from
// the raster's affine transform.
package tiling

import (
	"fmt"

	"github.com/pattern-data/mosaic"
	"github.com/pattern-data/mosaic/raster"
)

// Tile is one block of the partition. Row and Col are zero-based,
// row-major tile indices; tiles along the south and east edges may cover
// truncated blocks but are still included.
type Tile struct {
	Row, Col int
	Block    raster.Block
}

// Ring is a closed axis-aligned polygon ring in world coordinates,
// first vertex repeated last.
type Ring [][2]float64

// Polygon returns the tile's rectangle in world coordinates under tr,
// wound counter-clockwise from the south-west corner.
func (t Tile) Polygon(tr raster.Transform) Ring {
	b := tr.BlockBounds(t.Block)
	return Ring{
		{b.MinX, b.MinY},
		{b.MaxX, b.MinY},
		{b.MaxX, b.MaxY},
		{b.MinX, b.MaxY},
		{b.MinX, b.MinY},
	}
}

// Tiler partitions grids into square tiles of a fixed side length.
// Tiles depend only on the grid shape, so one Tiler's output is shared
// read-only by every realization.
type Tiler struct {
	size int
}

// NewTiler creates a Tiler with the given tile side length in cells.
// size < 1 wraps ErrInvalidParameter.
func NewTiler(size int) (*Tiler, error) {
	if size < 1 {
		return nil, fmt.Errorf("tiling: size must be >= 1, got %d: %w", size, mosaic.ErrInvalidParameter)
	}
	return &Tiler{size: size}, nil
}

// Size returns the tile side length in cells.
func (t *Tiler) Size() int { return t.size }

// Tiles enumerates the partition of a rows×cols grid in row-major order.
func (t *Tiler) Tiles(rows, cols int) []Tile {
	tileRows := (rows + t.size - 1) / t.size
	tileCols := (cols + t.size - 1) / t.size
	tiles := make([]Tile, 0, tileRows*tileCols)
	for tr := 0; tr < tileRows; tr++ {
		for tc := 0; tc < tileCols; tc++ {
			b := raster.Block{
				Row0: tr * t.size,
				Col0: tc * t.size,
				Rows: min(t.size, rows-tr*t.size),
				Cols: min(t.size, cols-tc*t.size),
			}
			tiles = append(tiles, Tile{Row: tr, Col: tc, Block: b})
		}
	}
	return tiles
}
