package git

import (
	"fmt"
	"strings"
)

// CommandError describes a failed git subprocess.
type CommandError struct {
	Command  string
	ExitCode int // 0 when the process did not report one
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	details := e.Stderr
	if strings.TrimSpace(details) == "" && e.Err != nil {
		details = e.Err.Error()
	}
	return FormatError(e.Command, e.ExitCode, details)
}

func (e *CommandError) Unwrap() error { return e.Err }

// hookErrors is checked in order; prepare-commit-msg must precede
// commit-msg because the latter is a substring of the former.
var hookErrors = []struct {
	hook   string
	prefix string
}{
	{"pre-commit", "Commit failed due to a pre-commit hook. Please resolve the issues and try again."},
	{"prepare-commit-msg", "Commit failed due to a prepare-commit-msg hook. Please resolve the issues and try again."},
	{"commit-msg", "Commit failed due to a commit-msg hook. Please resolve the issues and try again."},
	{"post-commit", "Post-commit hook failed, but the commit was successful. You may want to check the hook configuration."},
}

// FormatError turns raw git output into a user-facing message with a
// remediation hint when the failure is recognised.
func FormatError(command string, exitCode int, details string) string {
	if command == "" {
		command = "git command"
	}
	base := fmt.Sprintf("Git command failed (%s)", command)
	if exitCode != 0 {
		base = fmt.Sprintf("Git command failed (%s) with exit code %d", command, exitCode)
	}

	details = strings.TrimSpace(details)
	if details == "" {
		return base + ": No error details available"
	}

	switch {
	case strings.Contains(details, "not a git repository"):
		return MsgNotRepository
	case strings.Contains(details, "no changes added to commit"):
		return `No changes have been staged for commit. Use "git add" to stage changes first.`
	case strings.Contains(details, "nothing to commit"):
		return MsgNoChanges
	case strings.Contains(details, "index.lock"):
		return "Git index is locked. Another git process may be running. Please wait and try again."
	case strings.Contains(details, "refusing to merge unrelated histories"):
		return "Cannot merge unrelated Git histories. This may require manual intervention."
	case strings.Contains(details, "pathspec") && strings.Contains(details, "did not match any files"):
		return "No files match the specified path. Please check the file paths and try again."
	case strings.Contains(details, "fatal: could not read"), strings.Contains(details, "fatal: unable to read"):
		return "Unable to read Git repository data. The repository may be corrupted."
	}

	for _, h := range hookErrors {
		if strings.Contains(details, h.hook+" hook failed") || strings.Contains(details, ".git/hooks/"+h.hook) {
			return h.prefix + " Original error: " + details
		}
	}

	return base + ": " + details
}
