// Package realize turns the fractional per-category counts of a raster
// stack into discrete categorical realizations.
//
// Each cell's category is an independent draw from the categorical
// distribution defined by the cell's normalized category proportions.
// Every realization owns an independently seeded random stream, so a run
// is bit-for-bit reproducible under a fixed seed regardless of how
// realizations are scheduled across workers.
package realize
