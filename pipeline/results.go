package pipeline

import (
	"gonum.org/v1/gonum/stat"

	"github.com/pattern-data/mosaic/infotheory"
	"github.com/pattern-data/mosaic/raster"
	"github.com/pattern-data/mosaic/tiling"
)

// MetricsRecord is one row of the flat result table: the metrics of one
// (realization, extent) pair. TileRow and TileCol are nil for the
// whole-area extent. Valid is false when the extent failed the
// present-cell threshold in this realization; the metric fields are then
// zero and must be ignored.
type MetricsRecord struct {
	Realization int  `json:"realization"`
	TileRow     *int `json:"tile_row,omitempty"`
	TileCol     *int `json:"tile_col,omitempty"`
	Valid       bool `json:"valid"`

	infotheory.Metrics
}

// AggregatedResult is one row of the final table: per extent, the mean and
// sample variance of each metric across the realizations in which the
// extent was valid. Valid is false when the extent was invalid in every
// realization. Geometry is the tile's world polygon, nil for the
// whole-area extent.
type AggregatedResult struct {
	TileRow *int `json:"tile_row,omitempty"`
	TileCol *int `json:"tile_col,omitempty"`
	Valid   bool `json:"valid"`

	// ValidRealizations counts the realizations the averages cover.
	ValidRealizations int `json:"valid_realizations"`

	Mean     infotheory.Metrics `json:"mean"`
	Variance infotheory.Metrics `json:"variance"`

	Geometry tiling.Ring `json:"geometry,omitempty"`
}

// Aggregate groups records by extent and averages each metric across the
// realizations where the extent was valid. tiles must be the tiling the
// records were produced over, in the same order, or nil for the
// whole-area case; tr supplies the tile geometry.
func Aggregate(records []MetricsRecord, tiles []tiling.Tile, tr raster.Transform) []AggregatedResult {
	if len(tiles) == 0 {
		whole := make([]MetricsRecord, 0, len(records))
		for _, rec := range records {
			if rec.TileRow == nil {
				whole = append(whole, rec)
			}
		}
		return []AggregatedResult{reduceExtent(whole, nil, nil, nil)}
	}

	byTile := make(map[[2]int][]MetricsRecord, len(tiles))
	for _, rec := range records {
		if rec.TileRow == nil || rec.TileCol == nil {
			continue
		}
		key := [2]int{*rec.TileRow, *rec.TileCol}
		byTile[key] = append(byTile[key], rec)
	}

	out := make([]AggregatedResult, 0, len(tiles))
	for _, tile := range tiles {
		tile := tile
		recs := byTile[[2]int{tile.Row, tile.Col}]
		out = append(out, reduceExtent(recs, &tile.Row, &tile.Col, tile.Polygon(tr)))
	}
	return out
}

// reduceExtent averages one extent's records over its valid realizations.
func reduceExtent(recs []MetricsRecord, tileRow, tileCol *int, geom tiling.Ring) AggregatedResult {
	ent := make([]float64, 0, len(recs))
	joinEnt := make([]float64, 0, len(recs))
	condEnt := make([]float64, 0, len(recs))
	mutInf := make([]float64, 0, len(recs))
	for _, rec := range recs {
		if !rec.Valid {
			continue
		}
		ent = append(ent, rec.Ent)
		joinEnt = append(joinEnt, rec.JoinEnt)
		condEnt = append(condEnt, rec.CondEnt)
		mutInf = append(mutInf, rec.MutInf)
	}

	res := AggregatedResult{
		TileRow:           tileRow,
		TileCol:           tileCol,
		ValidRealizations: len(ent),
		Geometry:          geom,
	}
	if len(ent) == 0 {
		return res
	}

	res.Valid = true
	res.Mean.Ent, res.Variance.Ent = meanVariance(ent)
	res.Mean.JoinEnt, res.Variance.JoinEnt = meanVariance(joinEnt)
	res.Mean.CondEnt, res.Variance.CondEnt = meanVariance(condEnt)
	res.Mean.MutInf, res.Variance.MutInf = meanVariance(mutInf)
	return res
}

// meanVariance is stat.MeanVariance with a zero sample variance for a
// single observation instead of NaN.
func meanVariance(xs []float64) (mean, variance float64) {
	if len(xs) < 2 {
		return stat.Mean(xs, nil), 0
	}
	return stat.MeanVariance(xs, nil)
}
