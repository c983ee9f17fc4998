package cli

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexander-akhmetov/llmc/internal/config"
	"github.com/alexander-akhmetov/llmc/internal/domain"
	"github.com/alexander-akhmetov/llmc/internal/git"
)

// executeCommand runs the root command with args and resets flag state
// afterwards.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	origTTY, origStdin := stdoutIsTerminal, stdinIsTerminal
	stdoutIsTerminal = func() bool { return false }
	stdinIsTerminal = func() bool { return false }
	t.Cleanup(func() {
		stdoutIsTerminal, stdinIsTerminal = origTTY, origStdin
		commitMessageOnly, commitNoCommit = false, false
		commitProvider, commitModel, commitWorkingDir = "", "", ""
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// isolateConfig points every config layer at empty temp locations.
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("LLMC_CONFIG_DIR", t.TempDir())
	for _, key := range []string{
		"LLMC_PROVIDER", "LLMC_MODEL", "LLMC_TEMPERATURE", "LLMC_MAX_TOKENS",
		"LLMC_TIMEOUT", "LLMC_BASE_URL", "OLLAMA_HOST", "ANTHROPIC_API_KEY",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %s: %s", strings.Join(args, " "), out)
}

// stagedRepo creates a repository with one staged file.
func stagedRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@test.com")
	runGit(t, dir, "config", "user.name", "Test User")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o644))
	runGit(t, dir, "add", "main.go")
	return dir
}

func exitOutcome(t *testing.T, err error) domain.ExitOutcome {
	t.Helper()
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected *ExitError, got %v", err)
	return exitErr.Outcome
}

func TestRootCommand_MessageOnlyPrintsMessage(t *testing.T) {
	isolateConfig(t)

	var prompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(r.Body)
		prompt = buf.String()
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"{\"commit_message\": \"feat: add main\"}"}}`))
	}))
	defer srv.Close()

	t.Setenv("LLMC_PROVIDER", "ollama")
	t.Setenv("LLMC_BASE_URL", srv.URL)

	dir := stagedRepo(t)
	stdout, stderr, err := executeCommand(t, "--message-only", "--dir", dir)

	assert.Equal(t, domain.ExitOutcome{Code: 0}, exitOutcome(t, err))
	assert.Equal(t, "feat: add main\n", stdout)
	assert.Empty(t, stderr)
	assert.Contains(t, prompt, "main.go")
}

func TestRootCommand_NoCommitAlias(t *testing.T) {
	isolateConfig(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message":{"content":"fix: y"}}`))
	}))
	defer srv.Close()
	t.Setenv("LLMC_BASE_URL", srv.URL)

	dir := stagedRepo(t)
	stdout, _, err := executeCommand(t, "--no-commit", "--provider", "ollama", "--dir", dir)

	assert.Equal(t, 0, exitOutcome(t, err).Code)
	assert.Equal(t, "fix: y\n", stdout)
}

func TestRootCommand_InvalidProvider(t *testing.T) {
	isolateConfig(t)

	dir := stagedRepo(t)
	stdout, stderr, err := executeCommand(t, "--message-only", "--provider", "acme", "--dir", dir)

	assert.Equal(t, domain.ExitOutcome{Code: 1}, exitOutcome(t, err))
	assert.Empty(t, stdout)
	assert.True(t, strings.HasPrefix(stderr, `Error: invalid provider "acme"`), stderr)
}

func TestRootCommand_NothingStaged(t *testing.T) {
	isolateConfig(t)
	t.Setenv("LLMC_PROVIDER", "ollama")

	dir := t.TempDir()
	runGit(t, dir, "init")

	_, stderr, err := executeCommand(t, "--message-only", "--dir", dir)

	assert.Equal(t, 1, exitOutcome(t, err).Code)
	assert.Equal(t, "No changes detected. There is nothing to commit.\n", stderr)
}

func TestRootCommand_RepositoryCheckedBeforeConfig(t *testing.T) {
	isolateConfig(t)

	dir := t.TempDir()
	if err := exec.Command("git", "-C", dir, "rev-parse").Run(); err == nil {
		t.Skip("temp dir is inside a git repository")
	}

	_, stderr, err := executeCommand(t, "--message-only", "--provider", "anthropic", "--dir", dir)

	assert.Equal(t, 1, exitOutcome(t, err).Code)
	assert.Equal(t, git.MsgNotRepository+"\n", stderr)
	assert.NotContains(t, stderr, "API key")
}

func TestRootCommand_CommitModeWithoutTerminal(t *testing.T) {
	isolateConfig(t)
	t.Setenv("LLMC_PROVIDER", "ollama")

	devNull, err := os.Open(os.DevNull)
	require.NoError(t, err)
	defer devNull.Close()
	origStdin := os.Stdin
	os.Stdin = devNull
	defer func() { os.Stdin = origStdin }()

	dir := t.TempDir()
	runGit(t, dir, "init")

	stdout, stderr, err := executeCommand(t, "--dir", dir)

	assert.Equal(t, domain.ExitOutcome{Code: 1, Delay: time.Second}, exitOutcome(t, err))
	assert.Empty(t, stdout)
	assert.Equal(t, "No changes detected. There is nothing to commit.\n", stderr)
}

func TestRootCommand_CommitsWithoutTerminal(t *testing.T) {
	isolateConfig(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message":{"content":"feat: add main"}}`))
	}))
	defer srv.Close()
	t.Setenv("LLMC_PROVIDER", "ollama")
	t.Setenv("LLMC_BASE_URL", srv.URL)

	dir := stagedRepo(t)
	stdout, stderr, err := executeCommand(t, "--dir", dir)

	assert.Equal(t, domain.ExitOutcome{Code: 0, Delay: 1500 * time.Millisecond}, exitOutcome(t, err))
	assert.Equal(t, "Committed with message: feat: add main\n", stdout)
	assert.Empty(t, stderr)

	log, logErr := exec.Command("git", "-C", dir, "log", "-1", "--format=%s").Output()
	require.NoError(t, logErr)
	assert.Equal(t, "feat: add main\n", string(log))
}

func TestRootCommand_RejectsArgs(t *testing.T) {
	_, _, err := executeCommand(t, "extra")
	require.Error(t, err)
	var exitErr *ExitError
	assert.False(t, errors.As(err, &exitErr))
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	stdout, _, err := executeCommand(t, "init")
	require.NoError(t, err)
	assert.Equal(t, "llmc.toml created successfully.\n", stdout)

	data, err := os.ReadFile(filepath.Join(dir, "llmc.toml"))
	require.NoError(t, err)
	want, err := config.DefaultProjectFile()
	require.NoError(t, err)
	assert.Equal(t, string(want), string(data))

	_, stderr, err := executeCommand(t, "init")
	assert.Equal(t, 1, exitOutcome(t, err).Code)
	assert.Equal(t, "llmc.toml already exists in the current directory.\n", stderr)
}

func TestConfigMarkdown(t *testing.T) {
	isolateConfig(t)
	t.Setenv("MY_KEY", "secret")

	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, "llmc.toml"),
		[]byte("provider = \"openai\"\napi_key_name = \"MY_KEY\"\ntimeout = 0\n"), 0o644))

	cfg, err := config.LoadWithDirs(t.TempDir(), project)
	require.NoError(t, err)

	md := configMarkdown(cfg)
	assert.Contains(t, md, "# llmc Configuration")
	assert.Contains(t, md, "- provider: `openai`")
	assert.Contains(t, md, "- model: `gpt-4o-mini` (provider default)")
	assert.Contains(t, md, "- timeout: (none)")
	assert.Contains(t, md, "- api_key: (set via `MY_KEY`)")
	assert.Contains(t, md, filepath.Join(project, "llmc.toml"))
	assert.NotContains(t, md, "secret")
}

func TestAPIKeyLine(t *testing.T) {
	isolateConfig(t)

	tests := []struct {
		name string
		cfg  *config.Config
		want string
	}{
		{name: "explicit", cfg: &config.Config{Provider: "openai", APIKey: "k"}, want: "(set in config)"},
		{name: "keyless", cfg: &config.Config{Provider: "ollama"}, want: "(not required)"},
		{name: "missing", cfg: &config.Config{Provider: "anthropic"}, want: "(not set) missing API key for provider anthropic"},
		{name: "unknown", cfg: &config.Config{Provider: "acme"}, want: "(unknown provider)"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Contains(t, apiKeyLine(tc.cfg), tc.want)
		})
	}
}

func TestProvidersCommand(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "x")

	stdout, _, err := executeCommand(t, "providers")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Equal(t, "Providers", lines[0])
	assert.Len(t, lines, 16)
	assert.Contains(t, stdout, "OPENAI_API_KEY")
	assert.Contains(t, stdout, "TOGETHER_AI_API_KEY")
	assert.NotContains(t, stdout, "\033[")

	for _, line := range lines[1:] {
		if strings.Contains(line, "ollama") {
			assert.Contains(t, line, "no API key")
		}
	}
}

func TestWriter_MarkdownPlain(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(&buf, false, 0).Markdown("# Title")
	assert.Equal(t, "# Title\n", buf.String())
}

func TestWriter_StylesOnlyOnTTY(t *testing.T) {
	plain := NewWriter(&bytes.Buffer{}, false, 0)
	assert.Equal(t, "x", plain.style(colorCyan, "x"))
	assert.Equal(t, "x", plain.dim("x"))

	tty := &Writer{out: &bytes.Buffer{}, isTTY: true}
	assert.Equal(t, "\033[38;5;117mx\033[0m", tty.style(colorCyan, "x"))
	assert.Equal(t, "\033[1;38;5;117mx\033[0m", tty.styleBold(colorCyan, "x"))
	assert.Equal(t, "\033[2mx\033[0m", tty.dim("x"))
}

func TestExitError(t *testing.T) {
	err := &ExitError{Outcome: domain.ExitOutcome{Code: 1}}
	assert.Equal(t, "exit status 1", err.Error())
}
