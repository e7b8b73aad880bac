package config

import "errors"

// Sentinel errors for configuration validation.
var (
	ErrInvalidYear        = errors.New("year must be positive")
	ErrMissingGrandPrix   = errors.New("grand_prix must not be empty")
	ErrMissingSessionType = errors.New("session_type must not be empty")
	ErrInvalidPathRule    = errors.New("track_path_rule must be first or longest")
)
