package files

// Files is the scratch file handler used by the sandbox, it owns every write
// and removal of a workspace path so that failures can be injected in tests.
type Files interface {
	// WriteFile creates the file at the given path with the provided data. The
	// file must not already exist.
	WriteFile(path string, data []byte) error
	// RemoveFile removes the file at the given path, a file that does not
	// exist is not an error.
	RemoveFile(path string) error
}
