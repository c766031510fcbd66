package sandbox

import (
	"time"

	"code-execution-sandbox/internal/config"
)

const (
	// DefaultTimeout is the wall-clock budget shared by every step of an
	// execution, for every language.
	DefaultTimeout = 5 * time.Second

	// DefaultKillGracePeriod is how long a process group is given to exit
	// after being asked to terminate before it is killed.
	DefaultKillGracePeriod = 500 * time.Millisecond
)

type Profile struct {
	// The wall-clock budget of a complete execution. The compile and run
	// steps share it, there is no separate budget per step.
	Timeout time.Duration

	// How long a process group is given to exit after receiving SIGTERM
	// before it is sent SIGKILL.
	KillGracePeriod time.Duration

	// The maximum number of executions that can be running at any one time.
	// Zero means there is no limit.
	MaxConcurrentExecutions int
}

// Profiles is a list of all currently supported profiles keyed by the
// environment they are used in.
var Profiles = map[string]*Profile{
	"development": {
		Timeout:         DefaultTimeout,
		KillGracePeriod: 250 * time.Millisecond,
	},
	"staging": {
		Timeout:         DefaultTimeout,
		KillGracePeriod: DefaultKillGracePeriod,
	},
	"production": {
		Timeout:         DefaultTimeout,
		KillGracePeriod: time.Second,
	},
}

// GetProfileForEnvironment returns a copy of the profile of the environment,
// falling back to the default environment when it has none.
func GetProfileForEnvironment(environment string) *Profile {
	profile, ok := Profiles[environment]

	if !ok {
		profile = Profiles[config.DefaultEnvironment]
	}

	copied := *profile
	return &copied
}

// WithOverrides returns a copy of the profile with every non zero value
// replacing the one of the profile.
func (p Profile) WithOverrides(timeout, killGracePeriod time.Duration, maxConcurrentExecutions int) *Profile {
	if timeout > 0 {
		p.Timeout = timeout
	}

	if killGracePeriod > 0 {
		p.KillGracePeriod = killGracePeriod
	}

	if maxConcurrentExecutions > 0 {
		p.MaxConcurrentExecutions = maxConcurrentExecutions
	}

	return &p
}
