// Package mosaic computes zoneless, pattern-based measures of ethnic and
// racial diversity and segregation directly from raster population grids.
//
// The input is a stack of co-registered rasters, one per race/ethnicity
// category, each cell holding a population count or density. The pipeline
// draws n stochastic categorical realizations of the grid, aggregates local
// category densities in a square neighborhood around every cell, builds a
// joint probability table relating a cell's realized category to the
// composition of its surroundings, and derives entropy (diversity) and
// mutual information (segregation) from that table, optionally summarized
// over a regular tiling of the raster.
//
// Working directly on raster cells avoids the modifiable-areal-unit bias of
// zone-based (census-tract) segregation statistics. Results are Monte-Carlo
// estimates; their variance across realizations is part of the output.
//
// Subpackages:
//
//	raster     grids, missing-value tagging, category stacks, affine transform
//	realize    categorical sampling and realization generation
//	window     neighborhood aggregation (mean, geometric mean, focal)
//	exposure   joint distributions per spatial extent
//	infotheory entropy and mutual information
//	tiling     non-overlapping square tiles and their world polygons
//	pipeline   end-to-end orchestration and cross-realization aggregation
//	store      sqlite persistence for runs and result tables
//
// Raster and vector I/O, CRS handling, rendering, and report generation are
// external collaborators; the pipeline consumes and emits plain arrays and
// tables.
package mosaic
