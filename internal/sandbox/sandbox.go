package sandbox

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"code-execution-sandbox/internal/files"
)

type ExecutionStatus int
type ExecutionState int

const (
	// NotRan - The execution has not yet produced an outcome. This is the
	// default status and is replaced once the execution finishes or fails.
	NotRan ExecutionStatus = iota

	Finished
	WriteFailed
	CompilationFailed
	RunTimeError
	TimeLimitExceeded
)

func (s ExecutionStatus) String() string {
	switch s {
	case NotRan:
		return "NotRan"
	case Finished:
		return "Finished"
	case WriteFailed:
		return "WriteFailed"
	case CompilationFailed:
		return "CompilationFailed"
	case RunTimeError:
		return "RunTimeError"
	case TimeLimitExceeded:
		return "TimeLimitExceeded"
	default:
		return fmt.Sprintf("ExecutionStatus(%d)", int(s))
	}
}

// Description is the message reported for the status when the execution
// captured nothing more specific.
func (s ExecutionStatus) Description() string {
	switch s {
	case Finished:
		return "execution finished"
	case WriteFailed:
		return "failed to write temporary file"
	case CompilationFailed:
		return "compilation failed"
	case RunTimeError:
		return "execution failed"
	case TimeLimitExceeded:
		return "execution timed out"
	default:
		return "execution did not run"
	}
}

const (
	Idle ExecutionState = iota
	Writing
	Compiling
	Running
	CaptureComplete
	CleaningUp
	Done
)

func (s ExecutionState) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Writing:
		return "Writing"
	case Compiling:
		return "Compiling"
	case Running:
		return "Running"
	case CaptureComplete:
		return "CaptureComplete"
	case CleaningUp:
		return "CleaningUp"
	case Done:
		return "Done"
	default:
		return fmt.Sprintf("ExecutionState(%d)", int(s))
	}
}

type Request struct {
	// The id used to correlate the logs and events of the request, it plays
	// no part in naming any file.
	ID string
	// The source code that will be executed, written verbatim to the
	// workspace source file.
	SourceCode string
	// The raw language identifier provided by the caller, e.g. python.
	Language string
}

func (r *Request) MarshalZerologObject(e *zerolog.Event) {
	e.Str("id", r.ID).
		Str("language", r.Language).
		Int("sourceBytes", len(r.SourceCode))
}

// Executor runs a single request through the write, compile, run and clean
// up sequence. It holds no per-request state and is safe for concurrent use.
type Executor struct {
	scratch     *ScratchDirectory
	fileHandler files.Files
	profile     *Profile
}

// NewExecutor requires the scratch directory to have been created, which is
// done once at startup by NewScratchDirectory.
func NewExecutor(scratch *ScratchDirectory, fileHandler files.Files, profile *Profile) *Executor {
	return &Executor{
		scratch:     scratch,
		fileHandler: fileHandler,
		profile:     profile,
	}
}

func (e *Executor) Profile() Profile {
	return *e.profile
}

// Execute runs the request and always returns a Response unless the request
// is invalid, in which case nothing has been written or started.
func (e *Executor) Execute(ctx context.Context, request *Request) (*Response, error) {
	compiler, err := validateRequest(request)

	if err != nil {
		return nil, err
	}

	workspace := e.scratch.Allocate(compiler)
	pipeline, err := compiler.Pipeline(workspace, e.profile.KillGracePeriod)

	if err != nil {
		return nil, errors.Wrap(err, "invalid language configuration")
	}

	d := &execution{
		request:     request,
		workspace:   workspace,
		pipeline:    pipeline,
		fileHandler: e.fileHandler,
		timeout:     e.profile.Timeout,
		state:       Idle,
	}

	return d.run(ctx), nil
}

func validateRequest(request *Request) (LanguageCompiler, error) {
	if request == nil {
		return LanguageCompiler{}, ErrMissingRequest
	}

	compiler, err := LookupCompiler(request.Language)

	if err != nil {
		return LanguageCompiler{}, err
	}

	if request.SourceCode == "" {
		return LanguageCompiler{}, ErrMissingSourceCode
	}

	return compiler, nil
}

// execution is the state of a single in-flight request. It is owned by the
// goroutine running it and never shared.
type execution struct {
	request     *Request
	workspace   *Workspace
	pipeline    *Pipeline
	fileHandler files.Files
	timeout     time.Duration

	state  ExecutionState
	status ExecutionStatus
	start  time.Time
}

func (d *execution) run(ctx context.Context) *Response {
	d.start = time.Now()

	// The verdict is decided before the workspace is released, releasing can
	// never change it.
	defer func() {
		d.cleanup()
		d.transition(Done)
	}()

	d.transition(Writing)

	if err := d.fileHandler.WriteFile(d.workspace.SourceFilePath, []byte(d.request.SourceCode)); err != nil {
		return d.finish(WriteFailed, "", fmt.Sprintf("failed to write temporary file: %s", err.Error()))
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if d.pipeline.Build != nil {
		d.transition(Compiling)
		result, err := d.pipeline.Build.Invoke(ctx)

		switch {
		case err != nil:
			return d.finish(CompilationFailed, "", err.Error())
		case result.TimedOut:
			return d.finish(TimeLimitExceeded, "", d.timeoutMessage())
		case !result.Succeeded():
			return d.finish(CompilationFailed, "", result.FailureMessage())
		}
	}

	d.transition(Running)
	result, err := d.pipeline.Run.Invoke(ctx)

	switch {
	case err != nil:
		return d.finish(RunTimeError, "", err.Error())
	case result.TimedOut:
		return d.finish(TimeLimitExceeded, "", d.timeoutMessage())
	case !result.Succeeded():
		return d.finish(RunTimeError, "", result.FailureMessage())
	}

	return d.finish(Finished, result.Stdout, "")
}

func (d *execution) timeoutMessage() string {
	return fmt.Sprintf("execution timed out after %s", d.timeout)
}

func (d *execution) finish(status ExecutionStatus, output, message string) *Response {
	d.transition(CaptureComplete)
	d.status = status

	log.Info().
		Object("request", d.request).
		Str("status", status.String()).
		Dur("duration", time.Since(d.start)).
		Msg("execution completed")

	return NormalizeResponse(status, output, message)
}

// cleanup removes every file of the workspace. Failures are only logged, the
// files are left for external housekeeping to reap.
func (d *execution) cleanup() {
	d.transition(CleaningUp)

	for _, err := range d.workspace.Release(d.fileHandler) {
		log.Warn().
			Err(err).
			Str("id", d.request.ID).
			Msg("failed to clean up workspace file")
	}
}

func (d *execution) transition(state ExecutionState) {
	log.Trace().
		Str("id", d.request.ID).
		Str("from", d.state.String()).
		Str("to", state.String()).
		Msg("execution state changed")

	d.state = state
}
