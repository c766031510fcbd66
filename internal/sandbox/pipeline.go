package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Pipeline is the ordered set of steps that take a source file to a finished
// program. Build is nil for interpreted languages.
type Pipeline struct {
	Build *BuildStep
	Run   *RunStep
}

// BuildStep compiles the workspace source into the workspace binary.
type BuildStep struct {
	Command         []string
	Dir             string
	KillGracePeriod time.Duration
}

// Invoke runs the compiler until it exits or the context is done. The error
// is only returned when the compiler could not be started.
func (s *BuildStep) Invoke(ctx context.Context) (*StepResult, error) {
	return invoke(ctx, s.Command, s.Dir, s.KillGracePeriod)
}

// RunStep runs the interpreter against the source file or the binary
// produced by the build step.
type RunStep struct {
	Command         []string
	Dir             string
	KillGracePeriod time.Duration
}

// Invoke runs the program until it exits or the context is done. The error
// is only returned when the program could not be started.
func (s *RunStep) Invoke(ctx context.Context) (*StepResult, error) {
	return invoke(ctx, s.Command, s.Dir, s.KillGracePeriod)
}

type StepResult struct {
	// The complete standard output of the process.
	Stdout string
	// The complete standard error output of the process.
	Stderr string
	// The exit code of the process, -1 when it was terminated by a signal.
	ExitCode int
	// The process state as reported by the operating system,
	// e.g. "exit status 1" or "signal: killed".
	State string
	// If the process was still running when the deadline of the context was
	// reached and had to be reclaimed.
	TimedOut bool
	// The wall-clock time between starting the process and it being reaped.
	Duration time.Duration
}

func (r *StepResult) Succeeded() bool {
	return !r.TimedOut && r.ExitCode == 0
}

// FailureMessage is the standard error output of the process, or a generic
// description of how it ended when it wrote nothing to standard error.
func (r *StepResult) FailureMessage() string {
	if r.Stderr != "" {
		return r.Stderr
	}

	return fmt.Sprintf("process exited unsuccessfully (%s)", r.State)
}

func invoke(ctx context.Context, command []string, dir string, killGracePeriod time.Duration) (*StepResult, error) {
	if len(command) == 0 {
		return nil, errors.New("step has no command")
	}

	if killGracePeriod <= 0 {
		killGracePeriod = DefaultKillGracePeriod
	}

	// The budget may already be spent by an earlier step of the pipeline.
	if err := ctx.Err(); err != nil {
		return &StepResult{
			ExitCode: -1,
			State:    err.Error(),
			TimedOut: errors.Is(err, context.DeadlineExceeded),
		}, nil
	}

	var stdout, stderr bytes.Buffer

	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = killGracePeriod
	configureProcessGroup(cmd)

	start := time.Now()

	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "failed to start %s", command[0])
	}

	// Nothing started by the step may outlive it, including children that
	// were left running in the background after the leader exited.
	defer func() {
		_ = killProcessGroup(cmd)
	}()

	done := make(chan error, 1)

	go func() {
		done <- cmd.Wait()
	}()

	result := &StepResult{}

	var waitErr error

	select {
	case waitErr = <-done:
	case <-ctx.Done():
		result.TimedOut = errors.Is(ctx.Err(), context.DeadlineExceeded)
		waitErr = reclaim(cmd, done, killGracePeriod)
	}

	result.Duration = time.Since(start)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
		result.State = cmd.ProcessState.String()
	} else {
		result.ExitCode = -1
		result.State = fmt.Sprint(waitErr)
	}

	log.Debug().
		Strs("command", command).
		Int("exitCode", result.ExitCode).
		Bool("timedOut", result.TimedOut).
		Dur("duration", result.Duration).
		AnErr("waitErr", waitErr).
		Msg("step finished")

	return result, nil
}

// reclaim asks the process group to terminate and kills it when it has not
// exited within the grace period.
func reclaim(cmd *exec.Cmd, done <-chan error, killGracePeriod time.Duration) error {
	if err := terminateProcessGroup(cmd); err != nil {
		log.Debug().Err(err).Int("pid", cmd.Process.Pid).Msg("failed to terminate process group")
	}

	timer := time.NewTimer(killGracePeriod)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		log.Warn().
			Int("pid", cmd.Process.Pid).
			Dur("gracePeriod", killGracePeriod).
			Msg("process group ignored termination and is being killed")

		if err := killProcessGroup(cmd); err != nil {
			log.Err(err).Int("pid", cmd.Process.Pid).Msg("failed to kill process group")
		}

		return <-done
	}
}
