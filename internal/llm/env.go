package llm

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// API families. Providers in the same family share a wire protocol.
const (
	FamilyOpenAI    = "openai"
	FamilyAnthropic = "anthropic"
	FamilyGoogle    = "google"
	FamilyCohere    = "cohere"
	FamilyOllama    = "ollama"
	FamilyReplicate = "replicate"
	FamilyClaudeCLI = "claude-cli"
)

// ProviderInfo describes a supported provider.
type ProviderInfo struct {
	Name         string
	Family       string
	KeyEnv       string // empty for providers that need no key
	DefaultModel string
	BaseURL      string
}

var providers = []ProviderInfo{
	{Name: "anthropic", Family: FamilyAnthropic, KeyEnv: "ANTHROPIC_API_KEY", DefaultModel: "claude-3-5-haiku-latest", BaseURL: "https://api.anthropic.com"},
	{Name: "cerebras", Family: FamilyOpenAI, KeyEnv: "CEREBRAS_API_KEY", DefaultModel: "llama3.1-8b", BaseURL: "https://api.cerebras.ai/v1"},
	{Name: "claude-cli", Family: FamilyClaudeCLI},
	{Name: "cohere", Family: FamilyCohere, KeyEnv: "COHERE_API_KEY", DefaultModel: "command-r-plus", BaseURL: "https://api.cohere.com"},
	{Name: "deepseek", Family: FamilyOpenAI, KeyEnv: "DEEPSEEK_API_KEY", DefaultModel: "deepseek-chat", BaseURL: "https://api.deepseek.com/v1"},
	{Name: "google", Family: FamilyGoogle, KeyEnv: "GOOGLE_API_KEY", DefaultModel: "gemini-1.5-flash", BaseURL: "https://generativelanguage.googleapis.com"},
	{Name: "groq", Family: FamilyOpenAI, KeyEnv: "GROQ_API_KEY", DefaultModel: "llama-3.1-8b-instant", BaseURL: "https://api.groq.com/openai/v1"},
	{Name: "mistral", Family: FamilyOpenAI, KeyEnv: "MISTRAL_API_KEY", DefaultModel: "mistral-small-latest", BaseURL: "https://api.mistral.ai/v1"},
	{Name: "ollama", Family: FamilyOllama, DefaultModel: "llama3.2", BaseURL: "http://localhost:11434"},
	{Name: "openai", Family: FamilyOpenAI, KeyEnv: "OPENAI_API_KEY", DefaultModel: "gpt-4o-mini", BaseURL: "https://api.openai.com/v1"},
	{Name: "perplexity", Family: FamilyOpenAI, KeyEnv: "PERPLEXITY_API_KEY", DefaultModel: "sonar", BaseURL: "https://api.perplexity.ai"},
	{Name: "replicate", Family: FamilyReplicate, KeyEnv: "REPLICATE_API_KEY", DefaultModel: "meta/meta-llama-3-8b-instruct", BaseURL: "https://api.replicate.com"},
	{Name: "togetherai", Family: FamilyOpenAI, KeyEnv: "TOGETHER_AI_API_KEY", DefaultModel: "meta-llama/Llama-3.3-70B-Instruct-Turbo", BaseURL: "https://api.together.xyz/v1"},
	{Name: "vercel", Family: FamilyOpenAI, KeyEnv: "VERCEL_API_KEY", DefaultModel: "v0-1.0-md", BaseURL: "https://api.v0.dev/v1"},
	{Name: "xai", Family: FamilyOpenAI, KeyEnv: "XAI_API_KEY", DefaultModel: "grok-2-latest", BaseURL: "https://api.x.ai/v1"},
}

// Providers returns the table of supported providers, sorted by name.
func Providers() []ProviderInfo {
	out := make([]ProviderInfo, len(providers))
	copy(out, providers)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ProviderNames returns the supported provider names, sorted.
func ProviderNames() []string {
	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

// LookupProvider returns the table entry for name.
func LookupProvider(name string) (ProviderInfo, bool) {
	for _, p := range providers {
		if p.Name == name {
			return p, true
		}
	}
	return ProviderInfo{}, false
}

// KnownProvider reports whether name is a supported provider.
func KnownProvider(name string) bool {
	_, ok := LookupProvider(name)
	return ok
}

// DefaultModel returns the model used when none is configured.
func DefaultModel(provider string) string {
	p, _ := LookupProvider(provider)
	return p.DefaultModel
}

// ResolveAPIKey returns the API key for s: the explicit key, then the env
// var named by APIKeyName, then the provider's default env var. Providers
// without a key env var resolve to "" without error.
func ResolveAPIKey(s Settings) (string, error) {
	if s.APIKey != "" {
		return s.APIKey, nil
	}
	if s.APIKeyName != "" {
		if v := os.Getenv(s.APIKeyName); v != "" {
			return v, nil
		}
	}
	info, ok := LookupProvider(s.Provider)
	if !ok {
		return "", fmt.Errorf("unknown provider: %q", s.Provider)
	}
	if info.KeyEnv == "" {
		return "", nil
	}
	if v := os.Getenv(info.KeyEnv); v != "" {
		return v, nil
	}

	envName := info.KeyEnv
	if s.APIKeyName != "" {
		envName = s.APIKeyName
	}
	return "", fmt.Errorf("missing API key for provider %s (set %s or api_key)", s.Provider, envName)
}

// AllProviderAPIKeyPrefixes returns all known provider API key env var
// prefixes (with trailing "=") for use in env filtering.
func AllProviderAPIKeyPrefixes() []string {
	prefixes := make([]string, 0, len(providers))
	for _, p := range providers {
		if p.KeyEnv != "" {
			prefixes = append(prefixes, p.KeyEnv+"=")
		}
	}
	return prefixes
}

// FilterEnv returns a copy of environ with entries matching any of the given
// prefixes removed. Each prefix should include a trailing "=" to match env
// var assignments (e.g. "ANTHROPIC_API_KEY=").
func FilterEnv(environ []string, excludePrefixes ...string) []string {
	result := make([]string, 0, len(environ))
	for _, e := range environ {
		filtered := false
		for _, prefix := range excludePrefixes {
			if strings.HasPrefix(e, prefix) {
				filtered = true
				break
			}
		}
		if !filtered {
			result = append(result, e)
		}
	}
	return result
}
