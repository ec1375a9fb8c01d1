package mosaic

import "errors"

// Error taxonomy shared by all subpackages.
//
// Invalid parameters and shape mismatches are fatal: they are raised before
// (or at the first consumption of) any computation and abort the whole run
// with no partial results. Insufficient data is localized: the affected
// extent's metrics become missing values for that realization and the rest
// of the computation continues.
var (
	// ErrInvalidParameter reports a configuration value outside its
	// documented range (n < 1, window_size < 1, size < 1, threshold
	// outside [0,1], unrecognized fun).
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInsufficientData reports an extent whose share of present cells
	// is below the configured threshold.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrShapeMismatch reports input layers that differ in grid shape or
	// georeferencing.
	ErrShapeMismatch = errors.New("shape mismatch")
)
