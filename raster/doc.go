// Package raster provides the grid primitives shared by the mosaic
// pipeline: dense 2D grids with per-cell missing-value tagging, the
// immutable Stack of co-registered category layers, and the affine
// Transform mapping cell indices to world coordinates.
//
// Missing cells are tagged (value, present) pairs rather than numeric
// sentinels, so a population count of 0 and an absent observation can
// never be confused.
package raster
