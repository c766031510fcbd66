package sandbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"code-execution-sandbox/internal/config"
)

func TestGetProfileForEnvironment(t *testing.T) {
	t.Run("should have a profile for every environment", func(t *testing.T) {
		for _, environment := range config.Environments {
			profile := GetProfileForEnvironment(environment)

			assert.Equal(t, DefaultTimeout, profile.Timeout, environment)
			assert.Positive(t, profile.KillGracePeriod, environment)
		}
	})

	t.Run("should fall back to the default environment", func(t *testing.T) {
		assert.Equal(t, Profiles[config.DefaultEnvironment], GetProfileForEnvironment("unknown"))
	})

	t.Run("should return a copy", func(t *testing.T) {
		profile := GetProfileForEnvironment("production")
		profile.Timeout = time.Hour

		assert.Equal(t, DefaultTimeout, Profiles["production"].Timeout)
	})
}

func TestProfileWithOverrides(t *testing.T) {
	base := Profile{Timeout: DefaultTimeout, KillGracePeriod: DefaultKillGracePeriod, MaxConcurrentExecutions: 4}

	t.Run("should keep values that are not overridden", func(t *testing.T) {
		assert.Equal(t, &base, base.WithOverrides(0, 0, 0))
	})

	t.Run("should replace every value that is set", func(t *testing.T) {
		overridden := base.WithOverrides(time.Second, time.Millisecond, 8)

		assert.Equal(t, &Profile{Timeout: time.Second, KillGracePeriod: time.Millisecond, MaxConcurrentExecutions: 8}, overridden)
		assert.Equal(t, DefaultTimeout, base.Timeout)
	})
}
