package llm

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"q":"hi"}`, string(body))
		_, _ = w.Write([]byte(`{"answer":"hello"}`))
	}))
	defer srv.Close()

	res, err := PostJSON(context.Background(), srv.Client(), "test", srv.URL,
		map[string]string{"X-Api-Key": "secret"}, []byte(`{"q":"hi"}`))
	require.NoError(t, err)
	assert.Equal(t, "hello", res.Get("answer").String())
}

func TestPostJSON_HTTPError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "openai shape", status: 401, body: `{"error":{"message":"Invalid API key"}}`, wantMsg: "test API error (HTTP 401): Invalid API key"},
		{name: "plain message", status: 400, body: `{"message":"bad model"}`, wantMsg: "test API error (HTTP 400): bad model"},
		{name: "string error", status: 500, body: `{"error":"boom"}`, wantMsg: "test API error (HTTP 500): boom"},
		{name: "non json", status: 502, body: "upstream down", wantMsg: "test API error (HTTP 502): upstream down"},
		{name: "empty body", status: 503, body: "", wantMsg: "test API error (HTTP 503): Service Unavailable"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := PostJSON(context.Background(), srv.Client(), "test", srv.URL, nil, []byte(`{}`))
			require.Error(t, err)

			var httpErr *HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, tc.status, httpErr.StatusCode)
			assert.Equal(t, tc.wantMsg, err.Error())
		})
	}
}

func TestPostJSON_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := PostJSON(context.Background(), srv.Client(), "test", srv.URL, nil, []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON response")
}

func TestPostJSON_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	client := NewHTTPClient(50 * time.Millisecond)
	_, err := PostJSON(context.Background(), client, "test", srv.URL, nil, []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test request")
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"status":"succeeded"}`))
	}))
	defer srv.Close()

	res, err := GetJSON(context.Background(), srv.Client(), "test", srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "succeeded", res.Get("status").String())
}
