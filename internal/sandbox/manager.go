package sandbox

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Runner executes a single request, the Executor is the production
// implementation.
type Runner interface {
	Execute(ctx context.Context, request *Request) (*Response, error)
}

// EventPublisher receives a summary of every request that was executed.
type EventPublisher interface {
	Publish(event *ExecutionEvent) error
}

// ExecutionEvent summarises a completed execution. It never carries the
// source code, output or error text of the execution.
type ExecutionEvent struct {
	ID          string        `json:"id"`
	Language    string        `json:"language"`
	Status      string        `json:"status"`
	Succeeded   bool          `json:"succeeded"`
	DurationMs  int64         `json:"duration_ms"`
	CompletedAt time.Time     `json:"completed_at"`
	Duration    time.Duration `json:"-"`
}

type ExecutionManager struct {
	// the limiter is a buffered channel used to bound the number of
	// executions running at any one time. Pushing blocks until a running
	// execution pops its slot. Nil when executions are unbounded.
	limiter    chan struct{}
	runner     Runner
	publishers []EventPublisher

	inFlight atomic.Int64
	wg       sync.WaitGroup
}

// NewExecutionManager wraps the runner, a maxConcurrentExecutions of zero or
// less leaves executions unbounded.
func NewExecutionManager(runner Runner, maxConcurrentExecutions int, publishers ...EventPublisher) *ExecutionManager {
	manager := &ExecutionManager{
		runner:     runner,
		publishers: publishers,
	}

	if maxConcurrentExecutions > 0 {
		manager.limiter = make(chan struct{}, maxConcurrentExecutions)
	}

	return manager
}

// Execute runs the request once a slot is available. Requests without an id
// are given one.
func (m *ExecutionManager) Execute(ctx context.Context, request *Request) (*Response, error) {
	if request == nil {
		return nil, ErrMissingRequest
	}

	m.wg.Add(1)
	defer m.wg.Done()

	req := *request

	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	if err := m.acquire(ctx); err != nil {
		return nil, err
	}

	defer m.release()

	m.inFlight.Add(1)
	defer m.inFlight.Add(-1)

	start := time.Now()
	response, err := m.runner.Execute(ctx, &req)

	if err != nil {
		return nil, err
	}

	duration := time.Since(start)

	m.publish(&ExecutionEvent{
		ID:          req.ID,
		Language:    req.Language,
		Status:      response.Status.String(),
		Succeeded:   response.Succeeded,
		DurationMs:  duration.Milliseconds(),
		CompletedAt: time.Now().UTC(),
		Duration:    duration,
	})

	return response, nil
}

// InFlight is the number of executions currently running.
func (m *ExecutionManager) InFlight() int64 {
	return m.inFlight.Load()
}

// Wait blocks until every execution has returned, it is used once the
// service has stopped accepting requests.
func (m *ExecutionManager) Wait() {
	m.wg.Wait()
}

func (m *ExecutionManager) acquire(ctx context.Context) error {
	if m.limiter == nil {
		return nil
	}

	select {
	case m.limiter <- struct{}{}:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "gave up waiting for an execution slot")
	}
}

func (m *ExecutionManager) release() {
	if m.limiter != nil {
		<-m.limiter
	}
}

func (m *ExecutionManager) publish(event *ExecutionEvent) {
	for _, publisher := range m.publishers {
		if err := publisher.Publish(event); err != nil {
			log.Err(err).
				Str("id", event.ID).
				Msg("failed to publish execution event")
		}
	}
}
