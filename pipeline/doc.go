// Package pipeline orchestrates the end-to-end mosaic computation: n
// categorical realizations of a category stack, windowed neighborhood
// aggregation per realization, joint distributions and information
// metrics per extent (whole raster or tile), and averaging of the metrics
// across realizations.
//
// The pipeline does not own domain logic: it delegates to realize,
// window, exposure, infotheory and tiling, and is the sole point where
// per-realization results are merged.
package pipeline
