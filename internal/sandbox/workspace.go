package sandbox

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"code-execution-sandbox/internal/files"
)

// ScratchDirectory is the directory every workspace is allocated in. It is
// created once at startup and shared by all executions without locking.
type ScratchDirectory struct {
	path string
}

// NewScratchDirectory creates the scratch directory (and any parents) if it
// does not already exist. This must happen before the first execution.
func NewScratchDirectory(path string) (*ScratchDirectory, error) {
	absolute, err := filepath.Abs(path)

	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve scratch directory %s", path)
	}

	if err := os.MkdirAll(absolute, 0o750); err != nil {
		return nil, errors.Wrap(err, "failed to make scratch directory")
	}

	return &ScratchDirectory{path: absolute}, nil
}

func (s *ScratchDirectory) Path() string {
	return s.path
}

// Allocate computes the paths of a new workspace for the compiler. Nothing is
// written, every path embeds a freshly generated random identifier so two
// allocations never collide. The binary gets its own identifier.
func (s *ScratchDirectory) Allocate(compiler LanguageCompiler) *Workspace {
	workspace := &Workspace{
		Directory:      s.path,
		SourceFilePath: filepath.Join(s.path, fmt.Sprintf("%s.%s", uuid.NewString(), compiler.SourceExtension)),
	}

	if !compiler.Interpreted() {
		workspace.BinaryFilePath = filepath.Join(s.path, fmt.Sprintf("out_%s", uuid.NewString()))
	}

	return workspace
}

// Workspace is the set of paths owned by a single execution.
type Workspace struct {
	// The scratch directory the paths live in, also used as the working
	// directory of every step.
	Directory string
	// The path the source code is written to.
	SourceFilePath string
	// The path the compile step writes the binary to, empty for interpreted
	// languages.
	BinaryFilePath string
}

// Paths returns every file path the workspace owns.
func (w *Workspace) Paths() []string {
	paths := []string{w.SourceFilePath}

	if w.BinaryFilePath != "" {
		paths = append(paths, w.BinaryFilePath)
	}

	return paths
}

// Release attempts to remove every path of the workspace, a failure to remove
// one path does not stop the others from being removed.
func (w *Workspace) Release(fileHandler files.Files) []error {
	var errs []error

	for _, path := range w.Paths() {
		if err := fileHandler.RemoveFile(path); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}
