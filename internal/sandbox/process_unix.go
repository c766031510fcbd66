//go:build unix

package sandbox

import (
	"os/exec"
	"syscall"

	"github.com/pkg/errors"
)

// configureProcessGroup starts the process as the leader of a new process
// group so that it and everything it spawns can be signalled together.
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func terminateProcessGroup(cmd *exec.Cmd) error {
	return signalProcessGroup(cmd, syscall.SIGTERM)
}

func killProcessGroup(cmd *exec.Cmd) error {
	return signalProcessGroup(cmd, syscall.SIGKILL)
}

func signalProcessGroup(cmd *exec.Cmd, signal syscall.Signal) error {
	if cmd.Process == nil {
		return nil
	}

	// The group id is the pid of the leader, a negative pid addresses the
	// whole group. ESRCH means every member is already gone.
	if err := syscall.Kill(-cmd.Process.Pid, signal); err != nil && !errors.Is(err, syscall.ESRCH) {
		return errors.Wrapf(err, "failed to send %s to process group %d", signal, cmd.Process.Pid)
	}

	return nil
}
