// Package llm talks to remote chat models.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Request is one system+user exchange.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Completer returns the model's text for a single request. Implementations
// make exactly one attempt.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	Model() string
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

var (
	ErrNoChoices    = errors.New("model returned no choices")
	ErrEmptyContent = errors.New("model returned empty content")
)

// StatusError carries a non-2xx reply from the model endpoint.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("model endpoint returned %d: %s", e.StatusCode, e.Body)
}
