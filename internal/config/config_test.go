package config

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetCurrentEnvironment(t *testing.T) {
	tests := []struct {
		name            string
		want            string
		environmentFlag string
	}{{
		name:            "should default if not provided",
		want:            DefaultEnvironment,
		environmentFlag: "",
	}, {
		name:            "should return staging if environment is set to staging",
		want:            "staging",
		environmentFlag: "staging",
	}, {
		name:            "should return production if environment is set to production",
		want:            "production",
		environmentFlag: "production",
	}, {
		name:            "should return development if environment is set to development",
		want:            DevelopmentEnvironment,
		environmentFlag: "development",
	}, {
		name:            "should default if the casing does not match",
		want:            DefaultEnvironment,
		environmentFlag: "Production",
	}, {
		name:            "should default if value is defined but not a known environment",
		want:            DefaultEnvironment,
		environmentFlag: "invalid-value",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				currentEnvironment = ""
				envOnce = sync.Once{}
			}()

			envOnce = sync.Once{}
			t.Setenv("environment", tt.environmentFlag)

			assert.Equal(t, tt.want, GetCurrentEnvironment())
		})
	}
}

func TestGetCurrentEnvironmentIsReadOnce(t *testing.T) {
	defer func() {
		currentEnvironment = ""
		envOnce = sync.Once{}
	}()

	envOnce = sync.Once{}
	t.Setenv("environment", "staging")
	assert.Equal(t, "staging", GetCurrentEnvironment())

	t.Setenv("environment", "production")
	assert.Equal(t, "staging", GetCurrentEnvironment())
}
