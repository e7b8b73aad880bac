package geom

import "errors"

// Sentinel errors for geometry operations.
var (
	ErrEmptySeries  = errors.New("empty point series")
	ErrRaggedSeries = errors.New("series columns differ in length")
)
