// Package domain defines the shared model types used across llmc:
// the pipeline Phase, run options, validation results and exit outcomes.
package domain

import "time"

// PhaseKind identifies which step of the pipeline is current.
type PhaseKind int

const (
	// PhaseChecking is the initial repository validation step.
	PhaseChecking PhaseKind = iota
	// PhaseGenerating is the first generation attempt.
	PhaseGenerating
	// PhaseRetrying is any generation attempt after the first.
	PhaseRetrying
	// PhaseCommitting runs while the commit is being created.
	PhaseCommitting
	// PhaseSuccess is the terminal phase after a commit.
	PhaseSuccess
	// PhaseError is the terminal phase for every failure.
	PhaseError
	// PhaseMessageOnly is the terminal phase when the message is only shown.
	PhaseMessageOnly
)

var phaseNames = map[PhaseKind]string{
	PhaseChecking:    "checking",
	PhaseGenerating:  "generating",
	PhaseRetrying:    "retrying",
	PhaseCommitting:  "committing",
	PhaseSuccess:     "success",
	PhaseError:       "error",
	PhaseMessageOnly: "message-only",
}

func (k PhaseKind) String() string {
	if name, ok := phaseNames[k]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether no further phase follows k within a run.
func (k PhaseKind) Terminal() bool {
	return k == PhaseSuccess || k == PhaseError || k == PhaseMessageOnly
}

// Phase is the current state of the pipeline. Only the fields relevant to
// Kind are set: Attempt/MaxAttempts for PhaseRetrying, Message for
// committing and the success phases, Error for PhaseError.
type Phase struct {
	Kind        PhaseKind
	Attempt     int
	MaxAttempts int
	Message     string
	Error       string
}

// Checking returns the initial phase.
func Checking() Phase { return Phase{Kind: PhaseChecking} }

// Generating returns the phase for the first generation attempt.
func Generating() Phase { return Phase{Kind: PhaseGenerating} }

// Retrying returns the phase for generation attempt n of maxAttempts.
func Retrying(attempt, maxAttempts int) Phase {
	return Phase{Kind: PhaseRetrying, Attempt: attempt, MaxAttempts: maxAttempts}
}

// Committing returns the phase shown while the commit runs.
func Committing(message string) Phase {
	return Phase{Kind: PhaseCommitting, Message: message}
}

// Success returns the terminal phase after a successful commit.
func Success(message string) Phase {
	return Phase{Kind: PhaseSuccess, Message: message}
}

// Failed returns the terminal error phase.
func Failed(errText string) Phase {
	return Phase{Kind: PhaseError, Error: errText}
}

// MessageOnly returns the terminal phase that shows the generated message.
func MessageOnly(message string) Phase {
	return Phase{Kind: PhaseMessageOnly, Message: message}
}

// RunOptions are supplied once per invocation.
type RunOptions struct {
	// MessageOnly skips the commit and only reports the generated message.
	MessageOnly bool
}

// ValidationResult is the outcome of checking the repository before a run.
type ValidationResult struct {
	Valid   bool
	Message string
	// Details is appended verbatim to Message when reported.
	Details string
}

// Text returns the message followed by any details.
func (v ValidationResult) Text() string {
	return v.Message + v.Details
}

// ExitOutcome is the terminal decision of a run: the process exit code and
// how long the final frame stays on screen before exiting.
type ExitOutcome struct {
	Code  int
	Delay time.Duration
}
