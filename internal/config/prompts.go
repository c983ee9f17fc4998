package config

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexander-akhmetov/llmc/internal/debug"
)

//go:embed defaults/prompts/*.md
var promptsFS embed.FS

const (
	promptFile        = "commit.md"
	projectPromptFile = ".llmc/prompt.md"
)

// promptLoader handles loading the commit prompt with a fallback chain.
type promptLoader struct {
	embedFS embed.FS
}

func newPromptLoader(embedFS embed.FS) *promptLoader {
	return &promptLoader{embedFS: embedFS}
}

// LoadPrompt loads the commit prompt template with fallback chain:
// project .llmc/prompt.md → global prompts/commit.md → embedded.
// projectDir can be empty to skip the project lookup.
func LoadPrompt(globalDir, projectDir string) (string, error) {
	return newPromptLoader(promptsFS).Load(globalDir, projectDir)
}

// Load resolves the prompt through the fallback chain.
func (p *promptLoader) Load(globalDir, projectDir string) (string, error) {
	if projectDir != "" {
		path := filepath.Join(projectDir, projectPromptFile)
		content, err := p.loadPromptFile(path)
		if err != nil {
			debug.Logf("config: failed to load project prompt %s: %v (falling back)", path, err)
		} else if content != "" {
			return content, nil
		}
	}

	if globalDir != "" {
		content, err := p.loadPromptFile(filepath.Join(globalDir, "prompts", promptFile))
		if err != nil {
			return "", err
		}
		if content != "" {
			return content, nil
		}
	}

	return p.loadPromptFromEmbedFS("defaults/prompts/" + promptFile)
}

// loadPromptFile reads a prompt file from disk.
// Returns empty string (not error) if file doesn't exist.
// Comment lines (starting with #) are stripped.
func (p *promptLoader) loadPromptFile(path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is constructed internally
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read prompt file %s: %w", path, err)
	}
	return strings.TrimSpace(stripComments(string(data))), nil
}

func (p *promptLoader) loadPromptFromEmbedFS(path string) (string, error) {
	data, err := p.embedFS.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read embedded prompt %s: %w", path, err)
	}
	return strings.TrimSpace(stripComments(string(data))), nil
}

// stripComments removes lines starting with # from content.
// Handles both LF and CRLF line endings.
func stripComments(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	lines := make([]string, 0, strings.Count(content, "\n")+1)
	for line := range strings.SplitSeq(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
