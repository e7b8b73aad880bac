package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus/push"
)

// PushJobName identifies this batch job on the Pushgateway.
const PushJobName = "racedata_pipeline"

// Push sends the private registry to a Pushgateway. Intended to be called
// once, after the run finishes; a batch job has no /metrics endpoint to
// scrape.
func Push(ctx context.Context, gatewayURL string) error {
	if gatewayURL == "" {
		return ErrNoGateway
	}
	if err := push.New(gatewayURL, PushJobName).
		Gatherer(registry).
		PushContext(ctx); err != nil {
		return fmt.Errorf("pushing metrics to %s: %w", gatewayURL, err)
	}
	return nil
}
