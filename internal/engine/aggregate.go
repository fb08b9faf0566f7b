package engine

import "github.com/probelab/brandprobe/internal/model"

// aggregate reduces completed tasks into the final result collection.
// Iteration follows the deterministic expansion order, never completion
// order. Failed tasks are omitted — the run degrades gracefully and the
// failure detail stays visible on the task snapshots. Invariant: the result
// count equals the number of tasks that reached done.
func aggregate(tasks []*model.Task) []model.AnalysisResult {
	results := make([]model.AnalysisResult, 0, len(tasks))
	for _, t := range tasks {
		if t.Status != model.StatusDone {
			continue
		}
		results = append(results, model.AnalysisResult{
			Provider:   t.Provider,
			Model:      t.Model,
			Prompt:     t.Prompt,
			RawText:    t.RawText,
			Citations:  t.Citations,
			Extraction: *t.Extraction,
		})
	}
	return results
}
