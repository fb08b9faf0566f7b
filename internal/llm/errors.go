package llm

import (
	"context"
	"errors"
	"fmt"
)

// AdapterError wraps any failure of one adapter call: network error,
// non-success HTTP status, malformed vendor response, or auth rejection.
// The scheduler turns it into a failed task; it never aborts sibling tasks.
type AdapterError struct {
	Provider   string
	StatusCode int // 0 when no HTTP status applies
	Err        error
}

func (e *AdapterError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s adapter: HTTP %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s adapter: %v", e.Provider, e.Err)
}

func (e *AdapterError) Unwrap() error { return e.Err }

// Timeout reports whether the underlying failure was the task deadline
// expiring. Timeouts are a subtype of adapter failure, not a separate state.
func (e *AdapterError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// wrapErr normalizes any adapter failure into an *AdapterError, preserving
// the chain for errors.Is checks.
func wrapErr(provider string, status int, err error) error {
	return &AdapterError{Provider: provider, StatusCode: status, Err: err}
}
