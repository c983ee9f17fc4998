// Package ollama implements the local Ollama chat API.
package ollama

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexander-akhmetov/llmc/internal/llm"
)

// ErrUnreachable indicates the Ollama server could not be reached.
var ErrUnreachable = errors.New("ollama server unreachable")

// Client calls POST /api/chat with streaming disabled.
type Client struct {
	cfg llm.ClientConfig
}

// New returns an Ollama client. cfg.APIKey is ignored.
func New(cfg llm.ClientConfig) *Client {
	return &Client{cfg: cfg}
}

// Name returns the provider name.
func (c *Client) Name() string { return c.cfg.Name }

// Complete sends the prompt as a single user message.
func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	fields := []llm.Field{
		{Path: "model", Value: req.Model},
		{Path: "stream", Value: false},
		{Path: "messages.0.role", Value: "user"},
		{Path: "messages.0.content", Value: req.Prompt},
		{Path: "options.temperature", Value: req.Temperature},
	}
	if req.MaxTokens > 0 {
		fields = append(fields, llm.Field{Path: "options.num_predict", Value: req.MaxTokens})
	}
	body, err := llm.BuildBody(fields...)
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", c.cfg.Name, err)
	}

	res, err := llm.PostJSON(ctx, c.cfg.Client(), c.cfg.Name, c.cfg.URL("/api/chat"), nil, body)
	if err != nil {
		var httpErr *llm.HTTPError
		if errors.As(err, &httpErr) || ctx.Err() != nil {
			return "", err
		}
		return "", fmt.Errorf("%s at %s: %w", c.cfg.Name, c.cfg.BaseURL, errors.Join(ErrUnreachable, err))
	}

	content := res.Get("message.content")
	if !content.Exists() {
		return "", fmt.Errorf("%s: response has no message", c.cfg.Name)
	}
	return content.String(), nil
}
