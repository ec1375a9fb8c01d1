package raster

// Transform is the affine georeference of a north-up grid: the world
// coordinate of the outer corner of cell (0,0) plus the cell size. Columns
// advance east (+X), rows advance south (-Y). Rotated or sheared grids are
// out of scope; the raster I/O collaborator is expected to resample them.
type Transform struct {
	OriginX    float64 `json:"origin_x"`
	OriginY    float64 `json:"origin_y"`
	CellWidth  float64 `json:"cell_width"`
	CellHeight float64 `json:"cell_height"`
}

// Rect is an axis-aligned rectangle in world coordinates.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// CellCorner returns the world coordinate of the north-west corner of the
// cell at (row, col).
func (t Transform) CellCorner(row, col int) (x, y float64) {
	return t.OriginX + float64(col)*t.CellWidth, t.OriginY - float64(row)*t.CellHeight
}

// BlockBounds returns the world-coordinate bounding rectangle of a cell
// block.
func (t Transform) BlockBounds(b Block) Rect {
	maxX, minY := t.CellCorner(b.Row0+b.Rows, b.Col0+b.Cols)
	minX, maxY := t.CellCorner(b.Row0, b.Col0)
	return Rect{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}
