package quant

import "errors"

// Structural contract violations surface as errors and abort the computation.
// Degenerate numeric situations (zero volatility, empty series) yield defined
// values instead.
var (
	ErrInvalidInput       = errors.New("invalid input shape")
	ErrInsufficientAssets = errors.New("at least two assets required")
	ErrNoFeasibleSolution = errors.New("solver failed to converge")
	ErrDimensionMismatch  = errors.New("dimension mismatch")
)
