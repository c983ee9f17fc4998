package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/llmc/internal/config"
	"github.com/alexander-akhmetov/llmc/internal/domain"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create llmc.toml in the current directory",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	if _, err := config.WriteProjectFile(dir); err != nil {
		if errors.Is(err, config.ErrProjectFileExists) {
			fmt.Fprintln(cmd.ErrOrStderr(), "llmc.toml already exists in the current directory.")
		} else {
			fmt.Fprintln(cmd.ErrOrStderr(), "Failed to create llmc.toml:", err)
		}
		return &ExitError{Outcome: domain.ExitOutcome{Code: 1}}
	}

	fmt.Fprintln(cmd.OutOrStdout(), "llmc.toml created successfully.")
	return nil
}
