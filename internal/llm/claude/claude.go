// Package claude runs prompts through the locally installed Claude CLI.
package claude

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/alexander-akhmetov/llmc/internal/debug"
	"github.com/alexander-akhmetov/llmc/internal/llm"
)

// Binary is the executable looked up on PATH.
const Binary = "claude"

// Config holds environment configuration for Claude subprocesses.
type Config struct {
	ClaudeConfigDir string
	AnthropicAPIKey string
	WorkingDir      string
}

// Invoker invokes the Claude CLI binary.
type Invoker struct {
	Env Config
}

// New returns an Invoker that shells out to the "claude" binary.
func New(env Config) *Invoker {
	return &Invoker{Env: env}
}

// Name returns the provider name.
func (c *Invoker) Name() string { return "claude-cli" }

// BuildEnv constructs the environment variable slice for a Claude subprocess.
// Provider API keys and CLAUDE_CONFIG_DIR are removed from the inherited
// environment and only set if explicitly configured via the Config.
func BuildEnv(cfg Config) []string {
	exclude := append(llm.AllProviderAPIKeyPrefixes(), "CLAUDE_CONFIG_DIR=")
	env := llm.FilterEnv(os.Environ(), exclude...)
	if cfg.ClaudeConfigDir != "" {
		env = append(env, "CLAUDE_CONFIG_DIR="+cfg.ClaudeConfigDir)
	}
	if cfg.AnthropicAPIKey != "" {
		env = append(env, "ANTHROPIC_API_KEY="+cfg.AnthropicAPIKey)
	}
	return env
}

// Complete runs claude --print with the prompt on stdin and returns stdout.
// Temperature and MaxTokens are not supported by the CLI and are ignored.
func (c *Invoker) Complete(ctx context.Context, req llm.Request) (string, error) {
	args := []string{"--print"}
	if req.Model != "" {
		args = append(args, "--model", req.Model)
	}

	cmd := exec.CommandContext(ctx, Binary, args...)
	if c.Env.WorkingDir != "" {
		cmd.Dir = c.Env.WorkingDir
	}
	cmd.Env = BuildEnv(c.Env)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return "", err
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("start %s: %w", Binary, err)
	}
	debug.Logf("claude: started pid %d", cmd.Process.Pid)

	go func() {
		defer stdin.Close()
		if _, err := io.WriteString(stdin, req.Prompt); err != nil {
			debug.Logf("claude: failed to write prompt to stdin: %v", err)
		}
	}()

	if err := cmd.Wait(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%s timed out: %w", Binary, ctx.Err())
		}
		if stderrStr := strings.TrimSpace(stderr.String()); stderrStr != "" {
			return "", fmt.Errorf("%s exited: %w\nstderr: %s", Binary, err, stderrStr)
		}
		return "", fmt.Errorf("%s exited: %w", Binary, err)
	}

	return stdout.String(), nil
}
