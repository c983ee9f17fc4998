package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPrompt_Embedded(t *testing.T) {
	prompt, err := LoadPrompt("", "")
	require.NoError(t, err)

	assert.Contains(t, prompt, "Conventional Commits")
	assert.Contains(t, prompt, "<git_diff>\n${diff}\n</git_diff>")
	assert.Contains(t, prompt, `"commit_message"`)
}

func TestLoadPrompt_GlobalOverride(t *testing.T) {
	globalDir := t.TempDir()
	custom := "Global prompt ${diff}"
	writeFile(t, filepath.Join(globalDir, "prompts", "commit.md"), custom)

	prompt, err := LoadPrompt(globalDir, "")
	require.NoError(t, err)
	assert.Equal(t, custom, prompt)
}

func TestLoadPrompt_ProjectOverridesGlobal(t *testing.T) {
	globalDir := t.TempDir()
	projectDir := t.TempDir()
	writeFile(t, filepath.Join(globalDir, "prompts", "commit.md"), "Global ${diff}")
	writeFile(t, filepath.Join(projectDir, ".llmc", "prompt.md"), "Project ${diff}")

	prompt, err := LoadPrompt(globalDir, projectDir)
	require.NoError(t, err)
	assert.Equal(t, "Project ${diff}", prompt)
}

func TestLoadPrompt_CommentOnlyFileFallsThrough(t *testing.T) {
	globalDir := t.TempDir()
	writeFile(t, filepath.Join(globalDir, "prompts", "commit.md"), "# put your prompt here\n")

	prompt, err := LoadPrompt(globalDir, "")
	require.NoError(t, err)
	assert.Contains(t, prompt, "Conventional Commits")
}

func TestLoadPrompt_NonexistentGlobalFallsToEmbedded(t *testing.T) {
	prompt, err := LoadPrompt("/nonexistent/global/dir", "")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
}

func TestLoadPrompt_ProjectPermissionErrorFallsBack(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}
	projectDir := t.TempDir()
	unreadable := filepath.Join(projectDir, ".llmc", "prompt.md")
	writeFile(t, unreadable, "custom ${diff}")
	require.NoError(t, os.Chmod(unreadable, 0o000))
	t.Cleanup(func() { _ = os.Chmod(unreadable, 0o644) })

	prompt, err := LoadPrompt("", projectDir)
	require.NoError(t, err)
	assert.Contains(t, prompt, "Conventional Commits")
}

func TestStripComments(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "single comment line",
			input:    "# comment\ncontent",
			expected: "content",
		},
		{
			name:     "comment with indentation",
			input:    "  # indented comment\ncontent",
			expected: "content",
		},
		{
			name:     "no comments",
			input:    "line1\nline2",
			expected: "line1\nline2",
		},
		{
			name:     "crlf line endings",
			input:    "# comment\r\ncontent",
			expected: "content",
		},
		{
			name:     "hash in middle of line preserved",
			input:    "content # not a comment",
			expected: "content # not a comment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripComments(tt.input))
		})
	}
}
