package engine

import (
	"fmt"
	"strings"

	"github.com/probelab/brandprobe/internal/llm"
	"github.com/probelab/brandprobe/internal/model"
)

// validate checks the configuration before any task starts. Every violation
// here is fatal for the run; everything after expansion is per-task.
func validate(cfg model.AnalysisConfig, registry *llm.Registry) *ConfigurationError {
	if strings.TrimSpace(cfg.Brand) == "" {
		return configErr("brand name is empty")
	}
	if len(cfg.Prompts) == 0 {
		return configErr("no prompts supplied")
	}
	if len(cfg.Providers) == 0 {
		return configErr("no providers selected")
	}
	for _, provider := range cfg.Providers {
		if !registry.Has(provider) {
			return configErr("provider %q is not configured", provider)
		}
		if strings.TrimSpace(cfg.Models[provider]) == "" {
			return configErr("provider %q has no model selected", provider)
		}
	}
	return nil
}

// expand builds the full provider×prompt cross product in deterministic
// order: providers in selected order, prompts in input order. Re-running an
// identical configuration yields identical task ordering.
func expand(cfg model.AnalysisConfig) []*model.Task {
	tasks := make([]*model.Task, 0, len(cfg.Providers)*len(cfg.Prompts))
	seq := 0
	for _, provider := range cfg.Providers {
		for _, prompt := range cfg.Prompts {
			tasks = append(tasks, &model.Task{
				Sequence: seq,
				Provider: provider,
				Model:    cfg.Models[provider],
				Prompt:   prompt,
				Label:    fmt.Sprintf("%s · %s", provider, truncate(prompt, 60)),
				Status:   model.StatusPending,
			})
			seq++
		}
	}
	return tasks
}

// dedupeCompetitors drops case-insensitive duplicates, first occurrence
// wins, preserving input order. The configuration allows duplicates; the
// scheduler normalizes them so extraction never double-counts a name.
func dedupeCompetitors(competitors []string) []string {
	seen := make(map[string]struct{}, len(competitors))
	out := make([]string, 0, len(competitors))
	for _, comp := range competitors {
		key := strings.ToLower(strings.TrimSpace(comp))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, comp)
	}
	return out
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
