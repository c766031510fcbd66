package queue

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"code-execution-sandbox/internal/sandbox"
)

// Publisher is an event publisher that holds on to a connection which must be
// released on shutdown.
type Publisher interface {
	sandbox.EventPublisher
	Stop()
}

// NewPublisher returns an NSQ publisher when an address is configured,
// otherwise events are only written to the log.
func NewPublisher(params *NsqParams) (Publisher, error) {
	if params.NsqAddress == "" {
		return NewLogPublisher(log.Logger), nil
	}

	return NewNsqPublisher(params)
}

type LogPublisher struct {
	logger zerolog.Logger
}

func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (l *LogPublisher) Publish(event *sandbox.ExecutionEvent) error {
	l.logger.Info().
		Str("id", event.ID).
		Str("language", event.Language).
		Str("status", event.Status).
		Bool("succeeded", event.Succeeded).
		Int64("durationMs", event.DurationMs).
		Msg("execution event")

	return nil
}

func (l *LogPublisher) Stop() {}
