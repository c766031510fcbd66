package config

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureLogger(t *testing.T) {
	defer func() {
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
		log.Logger = zerolog.New(nil)
	}()

	t.Run("should log json at info level outside of development", func(t *testing.T) {
		buffer := &bytes.Buffer{}
		ConfigureLogger("production", buffer)

		log.Debug().Msg("hidden")
		log.Info().Str("language", "python").Msg("visible")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buffer.Bytes(), &entry))

		assert.Equal(t, "visible", entry["message"])
		assert.Equal(t, "python", entry["language"])
		assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	})

	t.Run("should log debug messages in development", func(t *testing.T) {
		buffer := &bytes.Buffer{}
		ConfigureLogger(DevelopmentEnvironment, buffer)

		log.Debug().Msg("shown in development")

		assert.Contains(t, buffer.String(), "shown in development")
		assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	})
}
