package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/probelab/brandprobe/internal/model"
)

// ErrNotFound is returned when a run doesn't exist in the database.
var ErrNotFound = errors.New("run not found")

// RunRepository persists analysis run records.
type RunRepository interface {
	Create(ctx context.Context, run *model.AnalysisRun) error
	GetByID(ctx context.Context, id string) (*model.AnalysisRun, error)
	ListRecent(ctx context.Context, limit int) ([]model.AnalysisRun, error)
	Count(ctx context.Context) (int64, error)
}

type sqliteRunRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a SQLite-backed RunRepository.
func NewRunRepository(db *sqlx.DB) RunRepository {
	return &sqliteRunRepository{db: db}
}

func (r *sqliteRunRepository) Create(ctx context.Context, run *model.AnalysisRun) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO analysis_runs (id, brand, task_count, done_count, failed_count, status, duration_ms)
		VALUES (:id, :brand, :task_count, :done_count, :failed_count, :status, :duration_ms)
	`, run)
	if err != nil {
		return fmt.Errorf("creating run record: %w", err)
	}
	return nil
}

func (r *sqliteRunRepository) GetByID(ctx context.Context, id string) (*model.AnalysisRun, error) {
	var run model.AnalysisRun
	err := r.db.GetContext(ctx, &run, "SELECT * FROM analysis_runs WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting run %s: %w", id, err)
	}
	return &run, nil
}

func (r *sqliteRunRepository) ListRecent(ctx context.Context, limit int) ([]model.AnalysisRun, error) {
	var runs []model.AnalysisRun
	err := r.db.SelectContext(ctx, &runs,
		"SELECT * FROM analysis_runs ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

func (r *sqliteRunRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM analysis_runs")
	return count, err
}

// ProviderCallRepository persists per-call tracking for cost monitoring.
type ProviderCallRepository interface {
	Create(ctx context.Context, call *model.ProviderCall) error
	CountByProvider(ctx context.Context, provider string) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type sqliteProviderCallRepository struct {
	db *sqlx.DB
}

// NewProviderCallRepository creates a SQLite-backed ProviderCallRepository.
func NewProviderCallRepository(db *sqlx.DB) ProviderCallRepository {
	return &sqliteProviderCallRepository{db: db}
}

func (r *sqliteProviderCallRepository) Create(ctx context.Context, call *model.ProviderCall) error {
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO provider_calls (run_id, provider, model, judge, success, duration_ms)
		VALUES (:run_id, :provider, :model, :judge, :success, :duration_ms)
	`, call)
	if err != nil {
		return fmt.Errorf("creating provider call record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	call.ID = id
	return nil
}

func (r *sqliteProviderCallRepository) CountByProvider(ctx context.Context, provider string) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM provider_calls WHERE provider = ?", provider)
	return count, err
}

func (r *sqliteProviderCallRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM provider_calls")
	return count, err
}
