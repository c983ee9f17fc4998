// Package provider builds an llm.Provider from resolved settings. It imports
// the concrete provider subpackages and selects one by the provider's API
// family.
package provider

import (
	"fmt"
	"os"
	"strings"

	"github.com/alexander-akhmetov/llmc/internal/llm"
	"github.com/alexander-akhmetov/llmc/internal/llm/anthropic"
	"github.com/alexander-akhmetov/llmc/internal/llm/claude"
	"github.com/alexander-akhmetov/llmc/internal/llm/cohere"
	"github.com/alexander-akhmetov/llmc/internal/llm/google"
	"github.com/alexander-akhmetov/llmc/internal/llm/ollama"
	"github.com/alexander-akhmetov/llmc/internal/llm/openai"
	"github.com/alexander-akhmetov/llmc/internal/llm/replicate"
)

// New creates a Provider for s.Provider. Unknown names and missing API keys
// return an error.
func New(s llm.Settings) (llm.Provider, error) {
	info, ok := llm.LookupProvider(s.Provider)
	if !ok {
		return nil, fmt.Errorf("unknown provider: %q (supported: %s)",
			s.Provider, strings.Join(llm.ProviderNames(), ", "))
	}

	key, err := resolveKey(info, s)
	if err != nil {
		return nil, err
	}

	cfg := llm.ClientConfig{
		Name:       info.Name,
		APIKey:     key,
		BaseURL:    baseURL(info, s),
		HTTPClient: llm.NewHTTPClient(s.Timeout),
	}

	switch info.Family {
	case llm.FamilyOpenAI:
		return openai.New(cfg), nil
	case llm.FamilyAnthropic:
		return anthropic.New(cfg), nil
	case llm.FamilyGoogle:
		return google.New(cfg), nil
	case llm.FamilyCohere:
		return cohere.New(cfg), nil
	case llm.FamilyOllama:
		return ollama.New(cfg), nil
	case llm.FamilyReplicate:
		return replicate.New(cfg), nil
	case llm.FamilyClaudeCLI:
		return claude.New(claude.Config{AnthropicAPIKey: key}), nil
	default:
		return nil, fmt.Errorf("provider %q has no client for family %q", info.Name, info.Family)
	}
}

// resolveKey returns the API key. The Claude CLI manages its own login, so
// a key is passed through only when one is explicitly configured.
func resolveKey(info llm.ProviderInfo, s llm.Settings) (string, error) {
	if info.Family == llm.FamilyClaudeCLI {
		if s.APIKey != "" {
			return s.APIKey, nil
		}
		if s.APIKeyName != "" {
			return os.Getenv(s.APIKeyName), nil
		}
		return "", nil
	}
	return llm.ResolveAPIKey(s)
}

// baseURL picks the endpoint: explicit setting, then OLLAMA_HOST for
// ollama, then the provider default.
func baseURL(info llm.ProviderInfo, s llm.Settings) string {
	if s.BaseURL != "" {
		return strings.TrimSuffix(s.BaseURL, "/")
	}
	if info.Family == llm.FamilyOllama {
		if host := os.Getenv("OLLAMA_HOST"); host != "" {
			if !strings.Contains(host, "://") {
				host = "http://" + host
			}
			return strings.TrimSuffix(host, "/")
		}
	}
	return info.BaseURL
}
