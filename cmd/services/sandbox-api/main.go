package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"code-execution-sandbox/internal/config"
	"code-execution-sandbox/internal/files"
	"code-execution-sandbox/internal/memory"
	"code-execution-sandbox/internal/metrics"
	"code-execution-sandbox/internal/parser"
	"code-execution-sandbox/internal/queue"
	"code-execution-sandbox/internal/routing"
	"code-execution-sandbox/internal/sandbox"
	"code-execution-sandbox/internal/validation"
)

func main() {
	environment := config.GetCurrentEnvironment()
	config.ConfigureLogger(environment, os.Stderr)

	log.Info().Str("environment", environment).Msg("starting sandbox-api")
	args := parser.ParseDefaultConfigurationArguments()

	profile := sandbox.GetProfileForEnvironment(environment).
		WithOverrides(args.ExecutionTimeout, args.KillGracePeriod, args.MaxConcurrentExecutions)

	scratch, err := sandbox.NewScratchDirectory(args.ScratchDirectory)

	if err != nil {
		log.Fatal().Err(err).Msg("failed to prepare scratch directory")
	}

	publisher, err := queue.NewPublisher(&queue.NsqParams{
		Topic:      args.NsqTopic,
		NsqAddress: args.NsqAddress,
		NsqPort:    args.NsqPort,
	})

	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}

	executor := sandbox.NewExecutor(scratch, files.NewLocalFiles(), profile)
	manager := sandbox.NewExecutionManager(executor, profile.MaxConcurrentExecutions, metrics.Publisher{}, publisher)

	if err := metrics.RegisterInFlight(prometheus.DefaultRegisterer, manager.InFlight); err != nil {
		log.Fatal().Err(err).Msg("failed to register in flight metric")
	}

	translator := validation.NewTranslator()
	validate, err := validation.NewValidator(translator)

	if err != nil {
		log.Fatal().Err(err).Msg("failed to create validator")
	}

	server := &http.Server{
		Addr: fmt.Sprintf(":%d", args.Port),
		Handler: routing.NewRouter(&routing.Config{
			Executions:     manager,
			Translator:     translator,
			Validator:      validate,
			MaxRequestSize: memory.Memory(args.MaxRequestSizeMb) * memory.Megabyte,
			AllowedOrigins: strings.Split(args.AllowedOrigins, ","),
			AccessLog:      os.Stdout,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// wait for signal to exit
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("scratch", scratch.Path()).
			Dur("timeout", profile.Timeout).
			Int("maxConcurrentExecutions", profile.MaxConcurrentExecutions).
			Msg("listening")

		if listenErr := server.ListenAndServe(); listenErr != nil && listenErr != http.ErrServerClosed {
			log.Fatal().Err(listenErr).Msg("failed to listen")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	// executions are bound by their own time limit, the grace period covers
	// the longest one that could still be running.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), profile.Timeout+profile.KillGracePeriod+5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Err(err).Msg("failed to shut down cleanly")
	}

	manager.Wait()
	publisher.Stop()
}
