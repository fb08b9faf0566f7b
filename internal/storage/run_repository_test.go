package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/probelab/brandprobe/internal/model"
)

type testDeps struct {
	runRepo  RunRepository
	callRepo ProviderCallRepository
}

// setupTestDB creates a temporary SQLite database, cleaned up automatically
// when the test finishes.
func setupTestDB(t *testing.T) *testDeps {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDatabase(dbPath)
	if err != nil {
		t.Fatalf("creating test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return &testDeps{
		runRepo:  NewRunRepository(db),
		callRepo: NewProviderCallRepository(db),
	}
}

func TestRunRepository_CreateAndGet(t *testing.T) {
	deps := setupTestDB(t)
	ctx := context.Background()

	run := &model.AnalysisRun{
		ID:          "run-1",
		Brand:       "Acme",
		TaskCount:   4,
		DoneCount:   3,
		FailedCount: 1,
		Status:      model.RunCompleted,
		DurationMs:  1234,
	}
	if err := deps.runRepo.Create(ctx, run); err != nil {
		t.Fatalf("creating run: %v", err)
	}

	got, err := deps.runRepo.GetByID(ctx, "run-1")
	if err != nil {
		t.Fatalf("getting run: %v", err)
	}

	if got.Brand != "Acme" {
		t.Errorf("expected brand Acme, got %s", got.Brand)
	}
	if got.TaskCount != 4 || got.DoneCount != 3 || got.FailedCount != 1 {
		t.Errorf("unexpected counts: %+v", got)
	}
	if got.Status != model.RunCompleted {
		t.Errorf("expected status completed, got %s", got.Status)
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected created_at to be set by the database")
	}
}

func TestRunRepository_GetByID_NotFound(t *testing.T) {
	deps := setupTestDB(t)

	_, err := deps.runRepo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRunRepository_ListRecentAndCount(t *testing.T) {
	deps := setupTestDB(t)
	ctx := context.Background()

	for _, id := range []string{"run-a", "run-b", "run-c"} {
		run := &model.AnalysisRun{ID: id, Brand: "Acme", Status: model.RunCompleted}
		if err := deps.runRepo.Create(ctx, run); err != nil {
			t.Fatalf("creating run %s: %v", id, err)
		}
	}

	count, err := deps.runRepo.Count(ctx)
	if err != nil {
		t.Fatalf("counting runs: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 runs, got %d", count)
	}

	runs, err := deps.runRepo.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("listing runs: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs with limit 2, got %d", len(runs))
	}
}

func TestProviderCallRepository_CreateAndCount(t *testing.T) {
	deps := setupTestDB(t)
	ctx := context.Background()

	run := &model.AnalysisRun{ID: "run-1", Brand: "Acme", Status: model.RunCompleted}
	if err := deps.runRepo.Create(ctx, run); err != nil {
		t.Fatalf("creating run: %v", err)
	}

	duration := int64(250)
	calls := []*model.ProviderCall{
		{RunID: "run-1", Provider: "openai", Model: "gpt-4o", Success: true, DurationMs: &duration},
		{RunID: "run-1", Provider: "openai", Model: "gpt-4o-mini", Judge: true, Success: true},
		{RunID: "run-1", Provider: "gemini", Model: "gemini-2.0-flash", Success: false},
	}
	for _, call := range calls {
		if err := deps.callRepo.Create(ctx, call); err != nil {
			t.Fatalf("creating call: %v", err)
		}
		if call.ID == 0 {
			t.Error("expected call ID to be set after create")
		}
	}

	total, err := deps.callRepo.Count(ctx)
	if err != nil {
		t.Fatalf("counting calls: %v", err)
	}
	if total != 3 {
		t.Errorf("expected 3 calls, got %d", total)
	}

	openai, err := deps.callRepo.CountByProvider(ctx, "openai")
	if err != nil {
		t.Fatalf("counting openai calls: %v", err)
	}
	if openai != 2 {
		t.Errorf("expected 2 openai calls, got %d", openai)
	}
}
