package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/alexander-akhmetov/llmc/internal/debug"
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 2048

// HTTPError is returned when a provider answers with a non-2xx status.
type HTTPError struct {
	Provider   string
	StatusCode int
	Message    string // provider's error message, when one could be extracted
	Body       string
}

func (e *HTTPError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = strings.TrimSpace(e.Body)
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s API error (HTTP %d): %s", e.Provider, e.StatusCode, msg)
}

// ClientConfig configures an HTTP provider client.
type ClientConfig struct {
	Name       string // provider name used in errors and logs
	APIKey     string
	BaseURL    string // without trailing slash
	HTTPClient *http.Client
}

// Client returns the configured HTTP client or a default one.
func (c ClientConfig) Client() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// URL joins the base URL and path.
func (c ClientConfig) URL(path string) string {
	return strings.TrimSuffix(c.BaseURL, "/") + path
}

// NewHTTPClient returns the client providers use. A zero timeout means
// requests are bounded only by their context.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// PostJSON sends body to url and returns the parsed JSON response.
// Transport failures are returned wrapped; non-2xx responses become
// *HTTPError.
func PostJSON(ctx context.Context, client *http.Client, provider, url string, headers map[string]string, body []byte) (gjson.Result, error) {
	debug.Logf("%s: POST %s\n%s", provider, url, pretty.Pretty(body))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%s request: %w", provider, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return do(client, provider, req, headers)
}

// GetJSON fetches url and returns the parsed JSON response.
func GetJSON(ctx context.Context, client *http.Client, provider, url string, headers map[string]string) (gjson.Result, error) {
	debug.Logf("%s: GET %s", provider, url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%s request: %w", provider, err)
	}
	return do(client, provider, req, headers)
}

func do(client *http.Client, provider string, req *http.Request, headers map[string]string) (gjson.Result, error) {
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%s request: %w", provider, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%s: read response: %w", provider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body := string(data)
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		debug.Logf("%s: HTTP %d\n%s", provider, resp.StatusCode, body)
		return gjson.Result{}, &HTTPError{
			Provider:   provider,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data),
			Body:       body,
		}
	}

	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("%s: invalid JSON response: %.200s", provider, data)
	}
	debug.Logf("%s: HTTP %d\n%s", provider, resp.StatusCode, pretty.Pretty(data))
	return gjson.ParseBytes(data), nil
}

// errorMessage pulls a human-readable message out of common provider
// error shapes.
func errorMessage(data []byte) string {
	if !gjson.ValidBytes(data) {
		return ""
	}
	for _, path := range []string{"error.message", "message", "detail", "error"} {
		if r := gjson.GetBytes(data, path); r.Type == gjson.String && r.String() != "" {
			return r.String()
		}
	}
	return ""
}

// Field is one path/value pair of a JSON request body.
type Field struct {
	Path  string
	Value any
}

// BuildBody assembles a JSON object from fields using sjson paths.
func BuildBody(fields ...Field) ([]byte, error) {
	body := []byte(`{}`)
	for _, f := range fields {
		var err error
		body, err = sjson.SetBytes(body, f.Path, f.Value)
		if err != nil {
			return nil, fmt.Errorf("set %s: %w", f.Path, err)
		}
	}
	return body, nil
}
