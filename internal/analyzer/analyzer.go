// Package analyzer derives structured visibility signals from raw LLM answer
// text: whether the client brand is mentioned, which competitors appear, a
// relative ranking, sentiment, and answers to follow-up questions.
//
// Two implementations exist behind one interface. RuleAnalyzer applies purely
// deterministic text rules. JudgeAnalyzer runs a secondary LLM "judge" pass
// through the same provider adapter contract and falls back to the rules when
// the judge fails — a task with a good primary answer never fails because of
// extraction.
package analyzer

import (
	"context"

	"github.com/probelab/brandprobe/internal/model"
)

// Analyzer extracts structured signals from one raw answer.
// Implementations must be deterministic given identical raw text and
// identical judge output.
type Analyzer interface {
	Extract(ctx context.Context, rawText string, brand string, competitors []string, followUps []string) (*model.Extraction, error)
}
