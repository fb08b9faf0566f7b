// Package engine is the analysis orchestration core. It expands an
// AnalysisConfig into a matrix of provider×prompt tasks, executes them with
// bounded concurrency against the provider adapters, isolates per-task
// failures, streams progress snapshots, and reduces completed tasks into the
// final AnalysisResult collection in deterministic order.
package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/probelab/brandprobe/internal/analyzer"
	"github.com/probelab/brandprobe/internal/llm"
	"github.com/probelab/brandprobe/internal/model"
)

const (
	defaultMaxConcurrency = 3
	defaultTaskTimeout    = 90 * time.Second
)

// Engine runs analyses. One Engine is safe for concurrent runs: all mutable
// state lives in the per-run runState.
type Engine struct {
	registry       *llm.Registry
	analyzer       analyzer.Analyzer
	maxConcurrency int
	taskTimeout    time.Duration
	logger         *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxConcurrency bounds the number of simultaneously in-flight tasks per
// run. The bound is per run, not per provider — per-provider fairness comes
// from the registry's rate limiters instead.
func WithMaxConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxConcurrency = n
		}
	}
}

// WithTaskTimeout sets the per-task adapter deadline. Exceeding it fails the
// task, never the run.
func WithTaskTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.taskTimeout = d
		}
	}
}

// New creates an Engine over the given adapter registry and analyzer.
func New(registry *llm.Registry, an analyzer.Analyzer, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		registry:       registry,
		analyzer:       an,
		maxConcurrency: defaultMaxConcurrency,
		taskTimeout:    defaultTaskTimeout,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// runState is the mutable state of one run. The mutex guards the task slice;
// snapshots are copied out AND published under the lock, so the notifier's
// queue order always matches transition order — publishing after unlock would
// let two concurrently completing tasks enqueue their snapshots inverted and
// the callback would see the terminal set shrink.
type runState struct {
	mu       sync.Mutex
	tasks    []*model.Task
	notifier *progressNotifier
}

// snapshotLocked copies all tasks by value. Extraction pointers are shared
// but immutable once attached.
func (s *runState) snapshotLocked() []model.Task {
	snap := make([]model.Task, len(s.tasks))
	for i, t := range s.tasks {
		snap[i] = *t
	}
	return snap
}

func (s *runState) markRunning(t *model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.Status = model.StatusRunning
	t.StartedAt = time.Now()
	// publish never blocks (it evicts on a full buffer), so holding the
	// lock across it is safe.
	s.notifier.publish(s.snapshotLocked())
}

func (s *runState) markDone(t *model.Task, completion *llm.Completion, ext *model.Extraction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.Status = model.StatusDone
	t.RawText = completion.Text
	t.Citations = completion.Citations
	t.Extraction = ext
	t.FinishedAt = time.Now()
	s.notifier.publish(s.snapshotLocked())
}

func (s *runState) markFailed(t *model.Task, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.Status = model.StatusFailed
	t.Error = err.Error()
	t.FinishedAt = time.Now()
	s.notifier.publish(s.snapshotLocked())
}

// Run executes one full analysis. It returns only after every task has
// reached a terminal state. The returned error is non-nil only for a
// *ConfigurationError raised before any task starts; all per-task failures
// are captured on the tasks themselves and surfaced through progress
// snapshots.
//
// Cancelling ctx stops dispatching new tasks and abandons in-flight adapter
// calls through context propagation; affected tasks reach failed and Run
// still returns the results of everything that completed first.
func (e *Engine) Run(ctx context.Context, cfg model.AnalysisConfig, onProgress ProgressFunc) ([]model.AnalysisResult, error) {
	if cerr := validate(cfg, e.registry); cerr != nil {
		return nil, cerr
	}

	tasks := expand(cfg)
	competitors := dedupeCompetitors(cfg.Competitors)

	state := &runState{
		tasks: tasks,
		// Room for every transition of every task; overflow degrades to
		// latest-wins instead of blocking.
		notifier: newProgressNotifier(onProgress, 2*len(tasks)+1),
	}

	e.logger.Info("analysis run starting",
		zap.String("brand", cfg.Brand),
		zap.Int("tasks", len(tasks)),
		zap.Int("max_concurrency", e.maxConcurrency),
	)

	// Initial snapshot: everything pending.
	state.mu.Lock()
	state.notifier.publish(state.snapshotLocked())
	state.mu.Unlock()

	eg := &errgroup.Group{}
	eg.SetLimit(e.maxConcurrency)

	for _, task := range tasks {
		eg.Go(func() error {
			e.runTask(ctx, state, task, cfg, competitors)
			return nil
		})
	}

	// Worker errors are captured on tasks; Wait only synchronizes.
	_ = eg.Wait()
	state.notifier.close()

	results := aggregate(tasks)

	e.logger.Info("analysis run finished",
		zap.String("brand", cfg.Brand),
		zap.Int("done", len(results)),
		zap.Int("failed", len(tasks)-len(results)),
	)

	return results, nil
}

// runTask drives one task from pending to a terminal state. Every failure
// path ends in markFailed — no task is ever left non-terminal.
func (e *Engine) runTask(parent context.Context, state *runState, task *model.Task, cfg model.AnalysisConfig, competitors []string) {
	// A run-level cancellation observed before dispatch fails the task
	// without touching the adapter.
	if err := parent.Err(); err != nil {
		state.markFailed(task, err)
		return
	}

	state.markRunning(task)

	ctx, cancel := context.WithTimeout(parent, e.taskTimeout)
	defer cancel()

	completion, err := e.registry.Complete(ctx, task.Provider, task.Prompt, task.Model)
	if err != nil {
		state.markFailed(task, err)
		return
	}

	ext, err := e.analyzer.Extract(ctx, completion.Text, cfg.Brand, competitors, cfg.FollowUpQuestions)
	if err != nil {
		state.markFailed(task, err)
		return
	}

	state.markDone(task, completion, ext)
}
