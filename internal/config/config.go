package config

import (
	"os"
	"sync"
)

var currentEnvironment = ""

const DefaultEnvironment = "development"
const DevelopmentEnvironment = "development"

// Environments is every deployment environment an execution profile exists
// for.
var Environments = []string{"staging", "production", "development"}

// envOnce is used to ensure concurrent tests only pull the value once at startup. While it is
// mainly used for tests, it also ensures safely with the chance the value is overwritten during
// runtime.
var envOnce sync.Once

// GetCurrentEnvironment returns the deployment environment read from the
// `environment` variable, defaulting to development when it is missing or
// not one of the known environments.
func GetCurrentEnvironment() string {
	envOnce.Do(func() {
		currentEnvironment = os.Getenv("environment")

		if currentEnvironment == "" {
			currentEnvironment = DefaultEnvironment
			return
		}

		for _, s := range Environments {
			if currentEnvironment == s {
				currentEnvironment = s
				return
			}
		}

		currentEnvironment = DefaultEnvironment
	})

	return currentEnvironment
}
