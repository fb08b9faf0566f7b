// Package main provides the brandprobe CLI. Cobra command tree:
//
//	brandprobe run --file analysis.yaml
//
// Runs one analysis from a YAML file, streaming task transitions to the
// terminal as they happen and printing the result collection as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/probelab/brandprobe/internal/analyzer"
	"github.com/probelab/brandprobe/internal/config"
	"github.com/probelab/brandprobe/internal/engine"
	"github.com/probelab/brandprobe/internal/llm"
	"github.com/probelab/brandprobe/internal/model"
	"github.com/probelab/brandprobe/internal/service"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "brandprobe",
		Short: "Brand visibility analysis over LLM providers",
	}

	root.AddCommand(runCmd())
	return root
}

func runCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one analysis from a YAML configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(file)
		},
	}

	cmd.Flags().StringVar(&file, "file", "analysis.yaml", "Analysis configuration file")
	return cmd
}

func runAnalysis(file string) error {
	configPath := os.Getenv("BRANDPROBE_CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading analysis file: %w", err)
	}

	var analysisCfg model.AnalysisConfig
	if err := yaml.Unmarshal(data, &analysisCfg); err != nil {
		return fmt.Errorf("parsing analysis file: %w", err)
	}

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

	// The CLI runs without a database — repositories stay nil and the
	// service skips run recording.
	analysis := service.NewAnalysisService(eng, nil, nil, judgeProvider, judgeModel, logger)

	// Ctrl+C cancels the run: no new tasks dispatch, in-flight calls are
	// abandoned, and whatever already completed is still printed.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "cancelling analysis...")
		cancel()
	}()

	out, err := analysis.Run(ctx, analysisCfg, printProgress)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\nrun %s: %d of %d tasks produced results\n",
		out.RunID, len(out.Results), len(out.Tasks))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out.Results)
}

// printProgress writes one status line per snapshot to stderr, keeping
// stdout clean for the JSON results.
func printProgress(tasks []model.Task) {
	pending, running, done, failed := 0, 0, 0, 0
	for _, t := range tasks {
		switch t.Status {
		case model.StatusPending:
			pending++
		case model.StatusRunning:
			running++
		case model.StatusDone:
			done++
		case model.StatusFailed:
			failed++
		}
	}
	fmt.Fprintf(os.Stderr, "progress: %d pending, %d running, %d done, %d failed\n",
		pending, running, done, failed)
}
