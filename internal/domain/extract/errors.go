package extract

import "errors"

// Sentinel errors for per-driver extraction. Any of these drops the driver
// without failing the run.
var (
	ErrMissingChannel = errors.New("required channel missing")
	ErrEmptyTrack     = errors.New("no positional samples")
	ErrColumnMismatch = errors.New("channel length does not match time axis")
	ErrBadTimestamp   = errors.New("unparseable session timestamp")
)
