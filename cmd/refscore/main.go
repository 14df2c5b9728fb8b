// refscore serves the document-refinement API: a submit endpoint that
// returns the refined manuscript and a websocket stream that broadcasts
// job progress to every connected client.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cgatting/RefScore/internal/config"
	"github.com/cgatting/RefScore/internal/engine"
	"github.com/cgatting/RefScore/internal/job"
	"github.com/cgatting/RefScore/internal/progress"
	"github.com/cgatting/RefScore/internal/refiner"
	"github.com/cgatting/RefScore/internal/server"
	"github.com/cgatting/RefScore/internal/transport"
	"github.com/cgatting/RefScore/internal/ws"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:     "refscore",
		Short:   "Document refinement service with live progress streaming",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve() error {
	cfg := config.Load()

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		return fmt.Errorf("logger setup: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	registry := ws.NewRegistry(logger.Named("ws"))
	reporter := progress.NewReporter(registry, logger.Named("progress"))
	defer reporter.Close()

	engines := engine.NewCache(refiner.NewEngine, logger.Named("engine"))
	if cfg.PreloadNLP {
		engines.Preload(context.Background(), refiner.DefaultSettings())
	}

	orchestrator := job.NewOrchestrator(engines, reporter, logger.Named("job"))

	handlers := server.Handlers{
		Refine: transport.NewRefineHandler(orchestrator, logger.Named("http")),
		Stream: ws.NewHandler(registry, cfg.AllowedOrigins, cfg.IdleTimeout, logger.Named("ws")),
	}

	srv := server.New(cfg, server.NewMux(cfg, handlers, logger.Named("server")), logger.Named("server"))
	return srv.Run()
}

func newLogger(debug bool) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	if debug {
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zapConfig.Build()
}
