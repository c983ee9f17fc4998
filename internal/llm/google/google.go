// Package google implements the Gemini generateContent API.
package google

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/alexander-akhmetov/llmc/internal/llm"
)

// Client calls POST /v1beta/models/{model}:generateContent.
type Client struct {
	cfg llm.ClientConfig
}

// New returns a Gemini client.
func New(cfg llm.ClientConfig) *Client {
	return &Client{cfg: cfg}
}

// Name returns the provider name.
func (c *Client) Name() string { return c.cfg.Name }

// Complete sends the prompt and joins the text parts of the first candidate.
func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	fields := []llm.Field{
		{Path: "contents.0.role", Value: "user"},
		{Path: "contents.0.parts.0.text", Value: req.Prompt},
		{Path: "generationConfig.temperature", Value: req.Temperature},
	}
	if req.MaxTokens > 0 {
		fields = append(fields, llm.Field{Path: "generationConfig.maxOutputTokens", Value: req.MaxTokens})
	}
	body, err := llm.BuildBody(fields...)
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", c.cfg.Name, err)
	}

	// The key travels in a header so it never appears in logged URLs.
	headers := map[string]string{"x-goog-api-key": c.cfg.APIKey}
	path := "/v1beta/models/" + url.PathEscape(req.Model) + ":generateContent"

	res, err := llm.PostJSON(ctx, c.cfg.Client(), c.cfg.Name, c.cfg.URL(path), headers, body)
	if err != nil {
		return "", err
	}

	if reason := res.Get("promptFeedback.blockReason"); reason.Exists() {
		return "", fmt.Errorf("%s: prompt blocked: %s", c.cfg.Name, reason.String())
	}

	var parts []string
	for _, p := range res.Get("candidates.0.content.parts.#.text").Array() {
		parts = append(parts, p.String())
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("%s: response has no candidates", c.cfg.Name)
	}
	return strings.Join(parts, ""), nil
}
