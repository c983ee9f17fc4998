// Package cohere implements the Cohere v2 chat API.
package cohere

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexander-akhmetov/llmc/internal/llm"
)

// Client calls POST /v2/chat.
type Client struct {
	cfg llm.ClientConfig
}

// New returns a Cohere client.
func New(cfg llm.ClientConfig) *Client {
	return &Client{cfg: cfg}
}

// Name returns the provider name.
func (c *Client) Name() string { return c.cfg.Name }

// Complete sends the prompt as a single user message.
func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	fields := []llm.Field{
		{Path: "model", Value: req.Model},
		{Path: "messages.0.role", Value: "user"},
		{Path: "messages.0.content", Value: req.Prompt},
		{Path: "temperature", Value: req.Temperature},
	}
	if req.MaxTokens > 0 {
		fields = append(fields, llm.Field{Path: "max_tokens", Value: req.MaxTokens})
	}
	body, err := llm.BuildBody(fields...)
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", c.cfg.Name, err)
	}

	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	res, err := llm.PostJSON(ctx, c.cfg.Client(), c.cfg.Name, c.cfg.URL("/v2/chat"), headers, body)
	if err != nil {
		return "", err
	}

	var parts []string
	for _, p := range res.Get(`message.content.#(type=="text")#.text`).Array() {
		parts = append(parts, p.String())
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("%s: response has no text content", c.cfg.Name)
	}
	return strings.Join(parts, ""), nil
}
