// Package openai implements the OpenAI chat completions protocol, which is
// also spoken by groq, deepseek, mistral, xai, togetherai, perplexity,
// cerebras and vercel.
package openai

import (
	"context"
	"fmt"

	"github.com/alexander-akhmetov/llmc/internal/llm"
)

// Client is an OpenAI-compatible chat completions client.
type Client struct {
	cfg llm.ClientConfig
}

// New returns a client for the provider described by cfg.
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

	headers := map[string]string{}
	if c.cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + c.cfg.APIKey
	}

	res, err := llm.PostJSON(ctx, c.cfg.Client(), c.cfg.Name, c.cfg.URL("/chat/completions"), headers, body)
	if err != nil {
		return "", err
	}

	content := res.Get("choices.0.message.content")
	if !content.Exists() {
		return "", fmt.Errorf("%s: response has no choices", c.cfg.Name)
	}
	return content.String(), nil
}
