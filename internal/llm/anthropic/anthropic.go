// Package anthropic implements the Anthropic Messages API.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexander-akhmetov/llmc/internal/llm"
)

// APIVersion is sent as the anthropic-version header.
const APIVersion = "2023-06-01"

// Client calls POST /v1/messages.
type Client struct {
	cfg llm.ClientConfig
}

// New returns an Anthropic client.
func New(cfg llm.ClientConfig) *Client {
	return &Client{cfg: cfg}
}

// Name returns the provider name.
func (c *Client) Name() string { return c.cfg.Name }

// Complete sends the prompt and concatenates the text blocks of the reply.
func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	body, err := llm.BuildBody(
		llm.Field{Path: "model", Value: req.Model},
		llm.Field{Path: "max_tokens", Value: req.MaxTokens},
		llm.Field{Path: "temperature", Value: req.Temperature},
		llm.Field{Path: "messages.0.role", Value: "user"},
		llm.Field{Path: "messages.0.content", Value: req.Prompt},
	)
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", c.cfg.Name, err)
	}

	headers := map[string]string{
		"x-api-key":         c.cfg.APIKey,
		"anthropic-version": APIVersion,
	}

	res, err := llm.PostJSON(ctx, c.cfg.Client(), c.cfg.Name, c.cfg.URL("/v1/messages"), headers, body)
	if err != nil {
		return "", err
	}

	var parts []string
	for _, block := range res.Get(`content.#(type=="text")#.text`).Array() {
		parts = append(parts, block.String())
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("%s: response has no text content (stop_reason %q)",
			c.cfg.Name, res.Get("stop_reason").String())
	}
	return strings.Join(parts, ""), nil
}
