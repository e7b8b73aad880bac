package metrics

import "errors"

// Sentinel errors for metrics operations.
var (
	ErrNoGateway = errors.New("no pushgateway configured")
)
