// Package main provides the CLI entry point for llmc.
package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/alexander-akhmetov/llmc/internal/cli"
	debuglog "github.com/alexander-akhmetov/llmc/internal/debug"
)

// Version information set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	fillVersionFromBuildInfo()
	cli.SetVersionInfo(version, commit, date)
	os.Exit(exitCode(cli.Execute(), time.Sleep))
}

// exitCode applies a pipeline outcome: the final frame stays on screen for
// the outcome's delay before the process exits.
func exitCode(err error, sleep func(time.Duration)) int {
	defer debuglog.Sync()

	if err == nil {
		return 0
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Outcome.Delay > 0 {
			sleep(exitErr.Outcome.Delay)
		}
		return exitErr.Outcome.Code
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	return 1
}

func fillVersionFromBuildInfo() {
	if version != "dev" {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	commit, date = versionFromSettings(info.Settings)
}

func versionFromSettings(settings []debug.BuildSetting) (string, string) {
	var revision, date string
	dirty := false
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.time":
			date = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}

	c := "unknown"
	if len(revision) >= 7 {
		c = revision[:7]
		if dirty {
			c += "-dirty"
		}
	}

	d := "unknown"
	if date != "" {
		d = date
	}
	return c, d
}
