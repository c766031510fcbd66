package files

import (
	"os"

	"github.com/pkg/errors"
)

type LocalFiles struct {
	// The permissions source files are created with, only the owner of the
	// process needs to read them.
	mode os.FileMode
}

// NewLocalFiles is the handler used to write the source code and compiled
// artifacts of an execution to the local disk.
func NewLocalFiles() LocalFiles {
	return LocalFiles{mode: 0o600}
}

func (l LocalFiles) WriteFile(path string, data []byte) error {
	// O_EXCL guarantees two executions never share a file even if a name was
	// somehow produced twice.
	writeFile, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, l.mode)

	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}

	if _, writeErr := writeFile.Write(data); writeErr != nil {
		_ = writeFile.Close()
		return errors.Wrapf(writeErr, "failed to write %s", path)
	}

	if closeErr := writeFile.Close(); closeErr != nil {
		return errors.Wrapf(closeErr, "failed to close %s", path)
	}

	return nil
}

func (l LocalFiles) RemoveFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(err, "failed to remove %s", path)
	}

	return nil
}
