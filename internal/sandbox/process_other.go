//go:build !unix

package sandbox

import (
	"os"
	"os/exec"

	"github.com/pkg/errors"
)

func configureProcessGroup(_ *exec.Cmd) {}

// terminateProcessGroup has no graceful signal to send outside of unix, the
// process is killed straight away.
func terminateProcessGroup(cmd *exec.Cmd) error {
	return killProcessGroup(cmd)
}

func killProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}

	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return errors.Wrapf(err, "failed to kill process %d", cmd.Process.Pid)
	}

	return nil
}
