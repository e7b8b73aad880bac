package app

import "errors"

// Sentinel errors for dataset assembly.
var (
	// ErrNoUsableTelemetry means every driver in the session was dropped;
	// the pipeline fails loudly rather than emit an empty dataset.
	ErrNoUsableTelemetry = errors.New("no usable telemetry data")
)
