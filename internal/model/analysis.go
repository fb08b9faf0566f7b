// Package model defines the core data types for the brand visibility engine.
package model

import "time"

// TaskStatus represents the lifecycle state of one provider×prompt task.
// done and failed are terminal — a task never leaves either state.
type TaskStatus string

const (
	StatusPending TaskStatus = "pending"
	StatusRunning TaskStatus = "running"
	StatusDone    TaskStatus = "done"
	StatusFailed  TaskStatus = "failed"
)

// Terminal reports whether the status is one a task never transitions out of.
func (s TaskStatus) Terminal() bool {
	return s == StatusDone || s == StatusFailed
}

// AnalysisConfig is the immutable input for one analysis run. The engine
// treats it as read-only; validation happens before any task is dispatched.
type AnalysisConfig struct {
	Brand             string            `json:"brand" yaml:"brand"`
	Competitors       []string          `json:"competitors" yaml:"competitors"`
	Prompts           []string          `json:"prompts" yaml:"prompts"`
	FollowUpQuestions []string          `json:"follow_up_questions,omitempty" yaml:"follow_up_questions"`
	Providers         []string          `json:"providers" yaml:"providers"`
	Models            map[string]string `json:"models" yaml:"models"`
}

// Extraction holds the structured visibility signals derived from one raw
// provider answer.
type Extraction struct {
	BrandMentioned bool `json:"brand_mentioned"`

	// Ranking is the brand's position by first mention among all tracked
	// names; 0 when the brand is absent and no position is determinable.
	Ranking int `json:"ranking"`

	CompetitorsMentioned []string `json:"competitors_mentioned"`
	Sentiment            string   `json:"sentiment"` // "positive", "negative", "neutral"
	FollowUpAnswers      []string `json:"follow_up_answers,omitempty"`

	// JudgeError records a failed judge pass when the extraction degraded
	// to deterministic rules. Empty on a clean extraction.
	JudgeError string `json:"judge_error,omitempty"`
}

// Task is one unit of orchestrated work: a single prompt sent to a single
// provider. The engine owns Task instances for the duration of a run and
// hands out copies through progress snapshots.
type Task struct {
	Sequence   int         `json:"sequence"`
	Provider   string      `json:"provider"`
	Model      string      `json:"model"`
	Prompt     string      `json:"prompt"`
	Label      string      `json:"label"`
	Status     TaskStatus  `json:"status"`
	RawText    string      `json:"raw_text,omitempty"`
	Citations  []string    `json:"citations,omitempty"`
	Extraction *Extraction `json:"extraction,omitempty"`
	Error      string      `json:"error,omitempty"`
	StartedAt  time.Time   `json:"started_at,omitzero"`
	FinishedAt time.Time   `json:"finished_at,omitzero"`
}

// AnalysisResult is the reduced, reportable unit: one per task that reached
// done, in deterministic expansion order.
type AnalysisResult struct {
	Provider   string     `json:"provider"`
	Model      string     `json:"model"`
	Prompt     string     `json:"prompt"`
	RawText    string     `json:"raw_text"`
	Citations  []string   `json:"citations,omitempty"`
	Extraction Extraction `json:"extraction"`
}

// RunStatus tracks a persisted analysis run.
type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunCancelled RunStatus = "cancelled"
)

// AnalysisRun is the persisted record of one engine run, kept for history
// and the admin stats endpoint.
type AnalysisRun struct {
	ID          string    `db:"id" json:"id"`
	Brand       string    `db:"brand" json:"brand"`
	TaskCount   int       `db:"task_count" json:"task_count"`
	DoneCount   int       `db:"done_count" json:"done_count"`
	FailedCount int       `db:"failed_count" json:"failed_count"`
	Status      RunStatus `db:"status" json:"status"`
	DurationMs  int64     `db:"duration_ms" json:"duration_ms"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ProviderCall tracks each call to an LLM provider for cost monitoring.
type ProviderCall struct {
	ID         int64     `db:"id" json:"id"`
	RunID      string    `db:"run_id" json:"run_id"`
	Provider   string    `db:"provider" json:"provider"`
	Model      string    `db:"model" json:"model"`
	Judge      bool      `db:"judge" json:"judge"`
	Success    bool      `db:"success" json:"success"`
	DurationMs *int64    `db:"duration_ms" json:"duration_ms,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
