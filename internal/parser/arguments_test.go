package parser

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArguments(t *testing.T) {
	t.Run("should use the defaults", func(t *testing.T) {
		args, err := ParseArguments("sandbox-api", nil)
		require.NoError(t, err)

		assert.Equal(t, Arguments{
			Port:             5000,
			ScratchDirectory: filepath.Join(os.TempDir(), "executions"),
			MaxRequestSizeMb: 10,
			AllowedOrigins:   "*",
			NsqPort:          4150,
			NsqTopic:         "executions",
		}, args)
	})

	t.Run("should parse the command line", func(t *testing.T) {
		args, err := ParseArguments("sandbox-api", []string{
			"-port", "8080",
			"-execution-timeout", "2s",
			"-kill-grace-period", "100ms",
			"-max-concurrent-executions", "3",
			"-nsq-address", "nsqd",
		})
		require.NoError(t, err)

		assert.Equal(t, 8080, args.Port)
		assert.Equal(t, 2*time.Second, args.ExecutionTimeout)
		assert.Equal(t, 100*time.Millisecond, args.KillGracePeriod)
		assert.Equal(t, 3, args.MaxConcurrentExecutions)
		assert.Equal(t, "nsqd", args.NsqAddress)
	})

	t.Run("should read environment variables", func(t *testing.T) {
		t.Setenv("PORT", "9000")
		t.Setenv("SCRATCH_DIRECTORY", "/srv/executions")

		args, err := ParseArguments("sandbox-api", nil)
		require.NoError(t, err)

		assert.Equal(t, 9000, args.Port)
		assert.Equal(t, "/srv/executions", args.ScratchDirectory)
	})

	t.Run("should prefer the command line over the environment", func(t *testing.T) {
		t.Setenv("PORT", "9000")

		args, err := ParseArguments("sandbox-api", []string{"-port", "7000"})
		require.NoError(t, err)

		assert.Equal(t, 7000, args.Port)
	})

	t.Run("should reject invalid values", func(t *testing.T) {
		_, err := ParseArguments("sandbox-api", []string{"-port", "not-a-number"})
		assert.Error(t, err)

		_, err = ParseArguments("sandbox-api", []string{"-max-request-size-mb", "0"})
		assert.Error(t, err)
	})
}
