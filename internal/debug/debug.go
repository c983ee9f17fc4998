// Package debug provides debug logging utilities.
package debug

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/alexander-akhmetov/llmc/internal/dirs"
)

var (
	enabled = os.Getenv("LLMC_DEBUG") == "1"
	logger  = newLogger(enabled, outputPath())
)

// outputPath picks where debug output goes. The status display owns the
// terminal, so the default is a file under the state dir; "-" means stderr.
func outputPath() string {
	switch path := os.Getenv("LLMC_DEBUG_FILE"); path {
	case "":
		return dirs.DebugLogPath()
	case "-":
		return "stderr"
	default:
		return path
	}
}

func newLogger(on bool, path string) *zap.SugaredLogger {
	if !on {
		return zap.NewNop().Sugar()
	}
	if path != "stderr" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			path = "stderr"
		}
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{path}
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// Logf writes a debug message if LLMC_DEBUG=1
func Logf(format string, args ...any) {
	logger.Debugf(format, args...)
}

// Logw writes a debug message with structured key/value pairs.
func Logw(msg string, keysAndValues ...any) {
	logger.Debugw(msg, keysAndValues...)
}

// Enabled returns true if debug logging is enabled
func Enabled() bool {
	return enabled
}

// Sync flushes buffered log entries. Call before the process exits.
func Sync() {
	_ = logger.Sync()
}
