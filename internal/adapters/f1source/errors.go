package f1source

import "errors"

// Sentinel errors for the upstream source. ErrUnavailable and ErrNotFound
// are fatal to the run; the pipeline cannot proceed without the session.
var (
	ErrUnavailable = errors.New("upstream telemetry source unavailable")
	ErrNotFound    = errors.New("session or series not found upstream")
	ErrNoStore     = errors.New("no cache store configured")
	ErrNoCacheDir  = errors.New("no cache directory configured")
)
