// Package cli implements the command-line interface for llmc.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/llmc/internal/domain"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// SetVersionInfo sets the version information for the CLI.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (%s, %s)", version, commit, date)
}

// ExitError carries the outcome of a pipeline run to main, which applies
// the delay and exits with the code.
type ExitError struct {
	Outcome domain.ExitOutcome
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Outcome.Code)
}

var rootCmd = &cobra.Command{
	Use:   "llmc",
	Short: "Generate commit messages for staged changes with an LLM",
	Long: `llmc reads the staged git diff, asks an LLM provider for a Conventional
Commits message, and commits the staged changes with it.

With --message-only (or --no-commit) the message is shown instead of
committed. When stdout is not a terminal only the message is printed,
which makes llmc usable from git hooks:

  llmc --message-only > "$1"`,
	Args:          cobra.NoArgs,
	RunE:          runCommit,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().BoolVar(&commitMessageOnly, "message-only", false, "Generate the message without committing")
	rootCmd.Flags().BoolVar(&commitNoCommit, "no-commit", false, "Alias for --message-only")
	rootCmd.Flags().StringVar(&commitProvider, "provider", "", "LLM provider (overrides config)")
	rootCmd.Flags().StringVar(&commitModel, "model", "", "Model name (overrides config)")
	rootCmd.Flags().StringVarP(&commitWorkingDir, "dir", "d", "", "Repository directory (default: current directory)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(providersCmd)
}
