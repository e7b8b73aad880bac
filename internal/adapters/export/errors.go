package export

import "errors"

// Sentinel errors for export operations.
var (
	ErrNoOutputDir = errors.New("no output directory configured")
)
