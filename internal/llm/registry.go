package llm

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Registry holds the configured provider adapters, keyed by provider
// identifier, plus a per-provider rate limiter so one run cannot exceed a
// vendor's rate budget no matter how wide the scheduler fans out.
//
// The registry is built once at startup from config and is read-only
// afterwards, so concurrent tasks can share it without locking.
type Registry struct {
	clients  map[string]Client
	limiters map[string]*rate.Limiter
	logger   *zap.Logger
}

// NewRegistry creates an empty adapter registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		clients:  make(map[string]Client),
		limiters: make(map[string]*rate.Limiter),
		logger:   logger,
	}
}

// Register adds a provider adapter. ratePerMinute <= 0 disables throttling
// for that provider.
func (r *Registry) Register(client Client, ratePerMinute int) {
	name := client.ProviderName()
	r.clients[name] = client
	if ratePerMinute > 0 {
		rps := rate.Every(time.Minute / time.Duration(ratePerMinute))
		r.limiters[name] = rate.NewLimiter(rps, 1)
	}
}

// Has reports whether a provider is registered.
func (r *Registry) Has(provider string) bool {
	_, ok := r.clients[provider]
	return ok
}

// Providers returns the registered provider names, sorted for stable logs.
func (r *Registry) Providers() []string {
	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Complete dispatches one prompt to the named provider, waiting on its rate
// limiter first. The limiter wait respects the context, so a cancelled or
// timed-out task never sits in the queue.
func (r *Registry) Complete(ctx context.Context, provider string, prompt string, model string) (*Completion, error) {
	client, ok := r.clients[provider]
	if !ok {
		return nil, wrapErr(provider, 0, fmt.Errorf("provider not registered"))
	}

	if limiter, ok := r.limiters[provider]; ok {
		if err := limiter.Wait(ctx); err != nil {
			return nil, wrapErr(provider, 0, fmt.Errorf("rate limit wait: %w", err))
		}
	}

	start := time.Now()
	completion, err := client.Complete(ctx, prompt, model)
	if err != nil {
		r.logger.Warn("provider call failed",
			zap.String("provider", provider),
			zap.String("model", model),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}

	r.logger.Debug("provider call completed",
		zap.String("provider", provider),
		zap.String("model", model),
		zap.Duration("elapsed", time.Since(start)),
	)
	return completion, nil
}
