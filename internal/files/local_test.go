package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFilesWriteFile(t *testing.T) {
	handler := NewLocalFiles()

	t.Run("should write the data verbatim", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "source.py")
		require.NoError(t, handler.WriteFile(path, []byte("print('hi')\r\n")))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "print('hi')\r\n", string(content))

		stats, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), stats.Mode().Perm())
	})

	t.Run("should refuse to overwrite an existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "source.py")
		require.NoError(t, handler.WriteFile(path, []byte("first")))

		assert.Error(t, handler.WriteFile(path, []byte("second")))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "first", string(content))
	})

	t.Run("should fail when the directory does not exist", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "source.py")
		assert.Error(t, handler.WriteFile(path, []byte("data")))
	})
}

func TestLocalFilesRemoveFile(t *testing.T) {
	handler := NewLocalFiles()

	t.Run("should remove an existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "source.py")
		require.NoError(t, handler.WriteFile(path, []byte("data")))

		assert.NoError(t, handler.RemoveFile(path))

		_, err := os.Stat(path)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("should not fail when the file is already gone", func(t *testing.T) {
		assert.NoError(t, handler.RemoveFile(filepath.Join(t.TempDir(), "never-written")))
	})

	t.Run("should fail when the path is a non empty directory", func(t *testing.T) {
		directory := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(directory, "child"), []byte("x"), 0o600))

		assert.Error(t, handler.RemoveFile(directory))
	})
}
