// Package llm provides a provider-agnostic interface for querying LLM
// completion endpoints. Each vendor (OpenAI, Azure OpenAI, Anthropic, Gemini,
// Perplexity) implements the same one-method contract, so the engine can fan
// out over any mix of providers without knowing vendor request shapes.
package llm

import "context"

// Completion is the uniform result of one adapter call: the raw answer text
// plus any source URLs the vendor returned alongside it. Most vendors return
// no citations; Perplexity does.
type Completion struct {
	Text      string
	Citations []string
}

// Client is the interface every provider adapter implements.
//
// Go interface design tip: keep interfaces small. One method plus a name —
// that's ideal. The bigger the interface, the weaker the abstraction.
//
// One outbound network call per invocation. Adapters never retry internally —
// retry policy belongs to the scheduler layer so backoff behavior stays
// uniform across vendors. The context carries the per-task deadline.
type Client interface {
	Complete(ctx context.Context, prompt string, model string) (*Completion, error)
	ProviderName() string
}
