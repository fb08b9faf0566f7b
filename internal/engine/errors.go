package engine

import "fmt"

// ConfigurationError reports an invalid or incomplete AnalysisConfig. It is
// the only error Run ever returns, and it is raised before any task is
// dispatched — zero adapter calls happen on a configuration failure.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}

func configErr(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}
