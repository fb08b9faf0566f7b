package engine

import (
	"reflect"
	"testing"

	"github.com/probelab/brandprobe/internal/model"
)

func TestExpand_DeterministicOrder(t *testing.T) {
	cfg := model.AnalysisConfig{
		Brand:     "Acme",
		Prompts:   []string{"p1", "p2", "p3"},
		Providers: []string{"perplexity", "gemini"},
		Models:    map[string]string{"perplexity": "sonar", "gemini": "gemini-2.0-flash"},
	}

	first := expand(cfg)
	second := expand(cfg)

	if len(first) != 6 {
		t.Fatalf("expected 6 tasks, got %d", len(first))
	}

	// Providers in selected order, prompts in input order.
	wantProviders := []string{"perplexity", "perplexity", "perplexity", "gemini", "gemini", "gemini"}
	wantPrompts := []string{"p1", "p2", "p3", "p1", "p2", "p3"}
	for i, task := range first {
		if task.Provider != wantProviders[i] || task.Prompt != wantPrompts[i] {
			t.Errorf("task %d: got %s/%s, want %s/%s",
				i, task.Provider, task.Prompt, wantProviders[i], wantPrompts[i])
		}
		if task.Sequence != i {
			t.Errorf("task %d: sequence %d", i, task.Sequence)
		}
		if task.Status != model.StatusPending {
			t.Errorf("task %d: expected pending, got %s", i, task.Status)
		}
		if task.Model != cfg.Models[task.Provider] {
			t.Errorf("task %d: model %q", i, task.Model)
		}
	}

	// Identical input yields identical ordering.
	for i := range first {
		if first[i].Provider != second[i].Provider || first[i].Prompt != second[i].Prompt {
			t.Fatalf("expansion not deterministic at task %d", i)
		}
	}
}

func TestDedupeCompetitors(t *testing.T) {
	got := dedupeCompetitors([]string{"Foo", "bar", "FOO", " ", "Bar", "baz"})
	want := []string{"Foo", "bar", "baz"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 60); got != "short" {
		t.Errorf("expected unchanged string, got %q", got)
	}
	long := make([]rune, 0, 70)
	for i := 0; i < 70; i++ {
		long = append(long, 'x')
	}
	got := truncate(string(long), 60)
	if len([]rune(got)) != 60 {
		t.Errorf("expected 60 runes, got %d", len([]rune(got)))
	}
}
