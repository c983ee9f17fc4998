// Package replicate runs language models through Replicate predictions.
package replicate

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/alexander-akhmetov/llmc/internal/llm"
)

// pollInterval is the delay between prediction status checks when the
// synchronous wait did not finish the prediction.
var pollInterval = time.Second

// Client creates predictions with POST /v1/models/{owner}/{name}/predictions.
type Client struct {
	cfg llm.ClientConfig
}

// New returns a Replicate client.
func New(cfg llm.ClientConfig) *Client {
	return &Client{cfg: cfg}
}

// Name returns the provider name.
func (c *Client) Name() string { return c.cfg.Name }

// Complete creates a prediction, waits for it to finish and joins its
// output tokens.
func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	owner, name, ok := strings.Cut(req.Model, "/")
	if !ok || owner == "" || name == "" {
		return "", fmt.Errorf("%s: model must be \"owner/name\", got %q", c.cfg.Name, req.Model)
	}

	fields := []llm.Field{
		{Path: "input.prompt", Value: req.Prompt},
		{Path: "input.temperature", Value: req.Temperature},
	}
	if req.MaxTokens > 0 {
		fields = append(fields, llm.Field{Path: "input.max_tokens", Value: req.MaxTokens})
	}
	body, err := llm.BuildBody(fields...)
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", c.cfg.Name, err)
	}

	headers := map[string]string{
		"Authorization": "Bearer " + c.cfg.APIKey,
		"Prefer":        "wait",
	}
	path := "/v1/models/" + url.PathEscape(owner) + "/" + url.PathEscape(name) + "/predictions"

	res, err := llm.PostJSON(ctx, c.cfg.Client(), c.cfg.Name, c.cfg.URL(path), headers, body)
	if err != nil {
		return "", err
	}

	for {
		switch status := res.Get("status").String(); status {
		case "succeeded":
			return output(res), nil
		case "failed", "canceled":
			return "", fmt.Errorf("%s: prediction %s: %s", c.cfg.Name, status, res.Get("error").String())
		}

		getURL := res.Get("urls.get").String()
		if getURL == "" {
			return "", fmt.Errorf("%s: prediction %q has no status URL", c.cfg.Name, res.Get("id").String())
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(pollInterval):
		}

		res, err = llm.GetJSON(ctx, c.cfg.Client(), c.cfg.Name, getURL,
			map[string]string{"Authorization": "Bearer " + c.cfg.APIKey})
		if err != nil {
			return "", err
		}
	}
}

// output joins streamed token arrays; some models return a single string.
func output(res gjson.Result) string {
	out := res.Get("output")
	if !out.IsArray() {
		return out.String()
	}
	var b strings.Builder
	for _, tok := range out.Array() {
		b.WriteString(tok.String())
	}
	return b.String()
}
