// Package main is the entry point for the brandprobe HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/probelab/brandprobe/internal/analyzer"
	"github.com/probelab/brandprobe/internal/config"
	"github.com/probelab/brandprobe/internal/engine"
	"github.com/probelab/brandprobe/internal/llm"
	"github.com/probelab/brandprobe/internal/server"
	"github.com/probelab/brandprobe/internal/service"
	"github.com/probelab/brandprobe/internal/storage"
)

func main() {
	// run() keeps deferred cleanup working — deferred functions don't run
	// when os.Exit is called directly.
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("BRANDPROBE_CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var logger *zap.Logger
	if cfg.Log.Level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	// Sync commonly fails on stdout/stderr; not a real problem.
	defer func() { _ = logger.Sync() }()

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}

	db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	runRepo := storage.NewRunRepository(db)
	callRepo := storage.NewProviderCallRepository(db)

	registry := llm.BuildRegistry(cfg.Providers, logger)

	var an analyzer.Analyzer = analyzer.NewRuleAnalyzer()
	judgeProvider, judgeModel := "", ""
	if cfg.Judge.Enabled {
		an = analyzer.NewJudgeAnalyzer(registry, cfg.Judge.Provider, cfg.Judge.Model, logger)
		judgeProvider, judgeModel = cfg.Judge.Provider, cfg.Judge.Model
	}

	eng := engine.New(registry, an, logger,
		engine.WithMaxConcurrency(cfg.Engine.MaxConcurrency),
		engine.WithTaskTimeout(cfg.Engine.TaskTimeout),
	)

	analysis := service.NewAnalysisService(eng, runRepo, callRepo, judgeProvider, judgeModel, logger)

	srv := server.New(cfg, server.Deps{
		Analysis: analysis,
		RunRepo:  runRepo,
		CallRepo: callRepo,
	}, logger)

	// Graceful shutdown on SIGINT (Ctrl+C) or SIGTERM (docker stop).
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	// Give in-flight requests 10 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(ctx)
}
