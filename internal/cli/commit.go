package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexander-akhmetov/llmc/internal/config"
	"github.com/alexander-akhmetov/llmc/internal/debug"
	"github.com/alexander-akhmetov/llmc/internal/dirs"
	"github.com/alexander-akhmetov/llmc/internal/domain"
	"github.com/alexander-akhmetov/llmc/internal/flow"
	"github.com/alexander-akhmetov/llmc/internal/git"
	"github.com/alexander-akhmetov/llmc/internal/llm/provider"
	"github.com/alexander-akhmetov/llmc/internal/message"
	"github.com/alexander-akhmetov/llmc/internal/timing"
	"github.com/alexander-akhmetov/llmc/internal/tui"
)

var (
	commitMessageOnly bool
	commitNoCommit    bool
	commitProvider    string
	commitModel       string
	commitWorkingDir  string
)

// stdoutIsTerminal and stdinIsTerminal are replaced in tests.
var (
	stdoutIsTerminal = func() bool {
		return term.IsTerminal(int(os.Stdout.Fd()))
	}
	stdinIsTerminal = func() bool {
		return term.IsTerminal(int(os.Stdin.Fd()))
	}
)

// interruptExitCode is used when the user presses ctrl+c in the display.
const interruptExitCode = 130

func runCommit(cmd *cobra.Command, _ []string) error {
	opts := domain.RunOptions{MessageOnly: commitMessageOnly || commitNoCommit}

	dir, err := resolveWorkingDir(commitWorkingDir)
	if err != nil {
		return err
	}

	repo := git.Open(dir)
	isTTY := stdoutIsTerminal()

	ctrl := &flow.Controller{
		Git:              repo,
		Display:          newStatusDisplay(cmd, isTTY),
		Stdout:           cmd.OutOrStdout(),
		Stderr:           cmd.ErrOrStderr(),
		StdoutIsTerminal: isTTY,
		Setup: func() (flow.MessageGenerator, error) {
			gen, err := buildGenerator(projectRoot(dir))
			if err != nil {
				debug.Logf("cli: setup failed: %v", err)
				return nil, err
			}
			timing.Log("generator ready")
			logStagedFiles(repo)
			return gen, nil
		},
	}

	outcome := ctrl.Run(cmd.Context(), opts)
	timing.Log("pipeline finished")
	return &ExitError{Outcome: outcome}
}

// newStatusDisplay picks the live terminal display on a TTY and plain
// output otherwise.
func newStatusDisplay(cmd *cobra.Command, isTTY bool) flow.StatusDisplay {
	if !isTTY {
		return tui.NewPlain(cmd.OutOrStdout(), cmd.ErrOrStderr())
	}

	var opts []tea.ProgramOption
	if !stdinIsTerminal() {
		opts = append(opts, tea.WithInput(nil))
	}
	d := tui.NewDisplay(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts...)
	d.OnInterrupt = func() {
		debug.Sync()
		os.Exit(interruptExitCode)
	}
	return d
}

func logStagedFiles(repo *git.Repo) {
	files, err := repo.StagedFiles()
	if err != nil {
		debug.Logf("cli: staged files: %v", err)
		return
	}
	for _, f := range files {
		debug.Logw("staged", "status", f.Status, "path", f.Path)
	}
}

// buildGenerator resolves the configuration for projectDir and constructs
// the provider-backed message generator.
func buildGenerator(projectDir string) (*message.Generator, error) {
	cfg, err := config.LoadWithDirs(dirs.ConfigDir(), projectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	timing.Log("config loaded")
	cfg.ApplyCLIFlags(commitProvider, commitModel)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	debug.Logw("config resolved", "provider", cfg.Provider, "model", cfg.Model, "sources", cfg.Sources())

	p, err := provider.New(cfg.ToProviderSettings())
	if err != nil {
		return nil, err
	}
	return message.New(p, cfg), nil
}

// resolveWorkingDir returns the provided dir or falls back to the current
// working directory.
func resolveWorkingDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}
