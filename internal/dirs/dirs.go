// Package dirs provides XDG Base Directory Specification compliant paths
// for all llmc directories.
package dirs

import (
	"os"
	"path/filepath"
)

// ConfigDir returns the llmc configuration directory.
// Resolution order: LLMC_CONFIG_DIR > XDG_CONFIG_HOME/llmc > ~/.config/llmc.
func ConfigDir() string {
	if dir := os.Getenv("LLMC_CONFIG_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "llmc")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "llmc")
	}
	return filepath.Join(home, ".config", "llmc")
}

// StateDir returns the llmc state directory.
// Resolution order: LLMC_STATE_DIR > XDG_STATE_HOME/llmc > ~/.local/state/llmc.
func StateDir() string {
	if dir := os.Getenv("LLMC_STATE_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "llmc")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".local", "state", "llmc")
	}
	return filepath.Join(home, ".local", "state", "llmc")
}

// DebugLogPath returns the default debug log file (StateDir/debug.log).
func DebugLogPath() string {
	return filepath.Join(StateDir(), "debug.log")
}
