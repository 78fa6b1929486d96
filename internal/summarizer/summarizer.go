package summarizer

import (
	"context"
	"fmt"
)

// Summarizer turns one request's prompt text into a summary. May fail
// or rate-limit; errors carry an APIError when the failure came from
// the backend so callers can tell transient from permanent.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// APIError is a failure reported by the summarization backend.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("summarizer: API error (status %d): %s - %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("summarizer: API error (status %d)", e.StatusCode)
}

// Permanent reports whether retrying cannot help: client errors other
// than rate limiting. 5xx and 429 are transient.
func (e *APIError) Permanent() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 && e.StatusCode != 429
}
