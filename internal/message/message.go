// Package message turns a staged diff into a commit message using the
// configured provider.
package message

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexander-akhmetov/llmc/internal/config"
	"github.com/alexander-akhmetov/llmc/internal/debug"
	"github.com/alexander-akhmetov/llmc/internal/llm"
)

// DiffPlaceholder is replaced with the staged diff in prompt templates.
const DiffPlaceholder = "${diff}"

// Generator produces commit messages. It is bound to one resolved config.
type Generator struct {
	Provider llm.Provider
	Config   *config.Config
}

// New returns a Generator for provider and cfg.
func New(provider llm.Provider, cfg *config.Config) *Generator {
	return &Generator{Provider: provider, Config: cfg}
}

// BuildPrompt substitutes diff into the template.
func BuildPrompt(template, diff string) string {
	return strings.ReplaceAll(template, DiffPlaceholder, diff)
}

// Generate asks the provider for a commit message describing diff and
// returns it trimmed.
func (g *Generator) Generate(ctx context.Context, diff string) (string, error) {
	if g.Provider == nil || g.Config == nil {
		return "", errors.New("message generator is not configured")
	}

	settings := g.Config.ToProviderSettings()
	if settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, settings.Timeout)
		defer cancel()
	}

	req := llm.Request{
		Prompt:      BuildPrompt(g.Config.PromptTemplate, diff),
		Model:       settings.ResolvedModel(),
		Temperature: settings.Temperature,
		MaxTokens:   settings.MaxTokens,
	}
	debug.Logw("message: generating",
		"provider", g.Provider.Name(),
		"model", req.Model,
		"diff_bytes", len(diff),
		"prompt_bytes", len(req.Prompt))

	out, err := g.Provider.Complete(ctx, req)
	if err != nil {
		return "", err
	}

	msg, err := llm.ExtractCommitMessage(out)
	if err != nil {
		return "", fmt.Errorf("%s returned %w", g.Provider.Name(), err)
	}
	return msg, nil
}
