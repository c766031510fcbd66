package parser

import (
	"os"
	"path/filepath"
	"time"

	"github.com/namsral/flag"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Arguments is the configuration of the sandbox services. Every flag can also
// be provided as an upper-cased environment variable, e.g. PORT or
// SCRATCH_DIRECTORY, with the command line taking precedence.
type Arguments struct {
	Port             int
	ScratchDirectory string

	// Zero values keep the value of the execution profile of the current
	// environment.
	ExecutionTimeout        time.Duration
	KillGracePeriod         time.Duration
	MaxConcurrentExecutions int

	MaxRequestSizeMb int
	AllowedOrigins   string

	NsqAddress string
	NsqPort    int
	NsqTopic   string
}

func ParseArguments(name string, arguments []string) (Arguments, error) {
	args := Arguments{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	fs.IntVar(&args.Port, "port", 5000, "the port the HTTP API listens on")
	fs.StringVar(&args.ScratchDirectory, "scratch-directory", filepath.Join(os.TempDir(), "executions"), "the directory source files and binaries are written to")

	fs.DurationVar(&args.ExecutionTimeout, "execution-timeout", 0, "the wall-clock budget shared by compiling and running")
	fs.DurationVar(&args.KillGracePeriod, "kill-grace-period", 0, "how long a timed out process has to exit before it is killed")
	fs.IntVar(&args.MaxConcurrentExecutions, "max-concurrent-executions", 0, "the maximum number of executions running at once")

	fs.IntVar(&args.MaxRequestSizeMb, "max-request-size-mb", 10, "the maximum size of a request body in megabytes")
	fs.StringVar(&args.AllowedOrigins, "allowed-origins", "*", "comma separated origins allowed to call the API")

	fs.StringVar(&args.NsqAddress, "nsq-address", "", "the nsqd address execution events are published to, events are logged when empty")
	fs.IntVar(&args.NsqPort, "nsq-port", 4150, "the port of the nsqd instance execution events are published to")
	fs.StringVar(&args.NsqTopic, "nsq-topic", "executions", "the topic execution events are published on")

	if err := fs.Parse(arguments); err != nil {
		return Arguments{}, errors.Wrap(err, "failed to parse arguments")
	}

	if args.MaxRequestSizeMb <= 0 {
		return Arguments{}, errors.Errorf("max-request-size-mb must be positive, got %d", args.MaxRequestSizeMb)
	}

	return args, nil
}

// ParseDefaultConfigurationArguments parses the arguments of the running
// process, exiting when they are invalid.
func ParseDefaultConfigurationArguments() Arguments {
	args, err := ParseArguments(os.Args[0], os.Args[1:])

	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	log.Info().Msgf("%+v parsed arguments", args)

	return args
}
