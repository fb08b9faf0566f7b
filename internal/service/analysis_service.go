// Package service wraps the engine with run bookkeeping: run IDs, run
// history, and per-call cost tracking. Everything the engine computes stays
// in memory; this layer is what persists.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/probelab/brandprobe/internal/engine"
	"github.com/probelab/brandprobe/internal/model"
	"github.com/probelab/brandprobe/internal/storage"
)

// RunOutput is what one analysis run hands back to the caller: the ordered
// result collection plus the terminal task snapshot, so failed tasks stay
// visible even though they are omitted from Results.
type RunOutput struct {
	RunID   string                 `json:"run_id"`
	Results []model.AnalysisResult `json:"results"`
	Tasks   []model.Task           `json:"tasks"`
}

// AnalysisService runs analyses and records their outcome.
type AnalysisService struct {
	engine        *engine.Engine
	runRepo       storage.RunRepository
	callRepo      storage.ProviderCallRepository
	judgeProvider string // empty when the judge pass is disabled
	judgeModel    string
	logger        *zap.Logger
}

// NewAnalysisService creates a service over the given engine. Repositories
// may be nil (the CLI runs without a database); recording is then skipped.
// judgeProvider/judgeModel identify the judge pass for call tracking; empty
// means extraction runs on rules alone.
func NewAnalysisService(
	eng *engine.Engine,
	runRepo storage.RunRepository,
	callRepo storage.ProviderCallRepository,
	judgeProvider string,
	judgeModel string,
	logger *zap.Logger,
) *AnalysisService {
	return &AnalysisService{
		engine:        eng,
		runRepo:       runRepo,
		callRepo:      callRepo,
		judgeProvider: judgeProvider,
		judgeModel:    judgeModel,
		logger:        logger,
	}
}

// Run executes one analysis and records it. The caller's progress callback
// is forwarded unchanged; the service additionally keeps the latest snapshot
// so the terminal task states can be returned and persisted.
func (s *AnalysisService) Run(ctx context.Context, cfg model.AnalysisConfig, onProgress engine.ProgressFunc) (*RunOutput, error) {
	runID := uuid.NewString()
	start := time.Now()

	var mu sync.Mutex
	var latest []model.Task
	capture := func(tasks []model.Task) {
		mu.Lock()
		latest = tasks
		mu.Unlock()
		if onProgress != nil {
			onProgress(tasks)
		}
	}

	results, err := s.engine.Run(ctx, cfg, capture)
	if err != nil {
		return nil, err
	}

	mu.Lock()
	tasks := latest
	mu.Unlock()

	s.record(runID, cfg, tasks, results, time.Since(start), ctx.Err() != nil)

	return &RunOutput{RunID: runID, Results: results, Tasks: tasks}, nil
}

// record persists the run and one provider_calls row per task (plus a judge
// row when the judge pass was active). Recording failures are logged, never
// surfaced — bookkeeping must not fail a finished analysis.
func (s *AnalysisService) record(runID string, cfg model.AnalysisConfig, tasks []model.Task, results []model.AnalysisResult, elapsed time.Duration, cancelled bool) {
	if s.runRepo == nil || s.callRepo == nil {
		return
	}

	// Detached context: the run context may already be cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	status := model.RunCompleted
	if cancelled {
		status = model.RunCancelled
	}

	run := &model.AnalysisRun{
		ID:          runID,
		Brand:       cfg.Brand,
		TaskCount:   len(tasks),
		DoneCount:   len(results),
		FailedCount: len(tasks) - len(results),
		Status:      status,
		DurationMs:  elapsed.Milliseconds(),
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		s.logger.Error("recording analysis run", zap.String("run_id", runID), zap.Error(err))
	}

	for _, t := range tasks {
		var durMs *int64
		if !t.StartedAt.IsZero() && !t.FinishedAt.IsZero() {
			d := t.FinishedAt.Sub(t.StartedAt).Milliseconds()
			durMs = &d
		}

		call := &model.ProviderCall{
			RunID:      runID,
			Provider:   t.Provider,
			Model:      t.Model,
			Success:    t.Status == model.StatusDone,
			DurationMs: durMs,
		}
		if err := s.callRepo.Create(ctx, call); err != nil {
			s.logger.Error("recording provider call", zap.String("run_id", runID), zap.Error(err))
		}

		// One judge call happens per completed task when the judge is on;
		// a recorded JudgeError means that call failed.
		if s.judgeProvider != "" && t.Status == model.StatusDone && t.Extraction != nil {
			judgeCall := &model.ProviderCall{
				RunID:    runID,
				Provider: s.judgeProvider,
				Model:    s.judgeModel,
				Judge:    true,
				Success:  t.Extraction.JudgeError == "",
			}
			if err := s.callRepo.Create(ctx, judgeCall); err != nil {
				s.logger.Error("recording judge call", zap.String("run_id", runID), zap.Error(err))
			}
		}
	}
}
