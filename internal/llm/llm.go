// Package llm defines the provider abstraction used to turn a prompt into
// a commit message, plus the pieces shared by every provider: the provider
// table, API key resolution, the JSON-over-HTTP helper and response
// extraction.
package llm

import (
	"context"
	"time"
)

// Provider sends a single prompt to a language model and returns its text.
type Provider interface {
	// Name returns the configured provider name (e.g. "anthropic").
	Name() string

	// Complete sends the prompt and returns the raw model output.
	Complete(ctx context.Context, req Request) (string, error)
}

// Request is one completion call.
type Request struct {
	Prompt      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Settings is everything a provider client is built from.
type Settings struct {
	Provider    string
	Model       string
	Temperature float64
	MaxTokens   int
	APIKey      string
	APIKeyName  string
	BaseURL     string

	// Timeout bounds a single request. Zero means no timeout.
	Timeout time.Duration
}

// ResolvedModel returns the configured model, or the provider's default
// when none is set.
func (s Settings) ResolvedModel() string {
	if s.Model != "" {
		return s.Model
	}
	return DefaultModel(s.Provider)
}
