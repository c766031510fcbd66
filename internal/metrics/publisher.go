package metrics

import (
	"code-execution-sandbox/internal/sandbox"
)

// Publisher records every completed execution into the execution metrics.
type Publisher struct{}

func (Publisher) Publish(event *sandbox.ExecutionEvent) error {
	ExecutionsTotal.WithLabelValues(event.Language, event.Status).Inc()
	ExecutionDuration.WithLabelValues(event.Language).Observe(event.Duration.Seconds())

	return nil
}
