package models

import (
	"fmt"
)

// ValidationError reports input that was rejected before any outbound call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ProviderError reports an upstream provider (search, LLM, image host) that
// was unreachable or answered with a non-2xx status.
type ProviderError struct {
	Provider   string
	StatusCode int
	Status     string
	Err        error
}

func (e *ProviderError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s error: %d %s: %v", e.Provider, e.StatusCode, e.Status, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s error: %d %s", e.Provider, e.StatusCode, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
	default:
		return fmt.Sprintf("%s request failed", e.Provider)
	}
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
