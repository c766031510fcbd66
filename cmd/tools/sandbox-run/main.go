package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/namsral/flag"
	"github.com/rs/zerolog/log"

	"code-execution-sandbox/internal/config"
	"code-execution-sandbox/internal/files"
	"code-execution-sandbox/internal/queue"
	"code-execution-sandbox/internal/sandbox"
)

type flags struct {
	language         string
	file             string
	scratchDirectory string
}

func configureArgs() flags {
	args := flags{}

	flag.StringVar(&args.language, "language", "python", "the language the file is written in")
	flag.StringVar(&args.file, "file", "", "the source file to execute")
	flag.StringVar(&args.scratchDirectory, "scratch-directory", filepath.Join(os.TempDir(), "executions"), "the directory source files and binaries are written to")

	flag.Parse()

	return args
}

// sandbox-run executes a single source file the same way the API does and
// prints the result, exiting with 1 when the execution did not succeed.
func main() {
	environment := config.GetCurrentEnvironment()
	config.ConfigureLogger(environment, os.Stderr)

	args := configureArgs()

	if args.file == "" {
		log.Fatal().Msg("a file to execute is required")
	}

	sourceCode, err := os.ReadFile(args.file)

	if err != nil {
		log.Fatal().Err(err).Str("file", args.file).Msg("failed to read source file")
	}

	scratch, err := sandbox.NewScratchDirectory(args.scratchDirectory)

	if err != nil {
		log.Fatal().Err(err).Msg("failed to prepare scratch directory")
	}

	executor := sandbox.NewExecutor(scratch, files.NewLocalFiles(), sandbox.GetProfileForEnvironment(environment))
	manager := sandbox.NewExecutionManager(executor, 1, queue.NewLogPublisher(log.Logger))

	response, err := manager.Execute(context.Background(), &sandbox.Request{
		SourceCode: string(sourceCode),
		Language:   args.language,
	})

	if err != nil {
		log.Fatal().Err(err).Msg("invalid execution request")
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(response)

	if !response.Succeeded {
		os.Exit(1)
	}
}
