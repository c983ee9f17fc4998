package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexander-akhmetov/llmc/internal/domain"
)

// phaseView holds everything derived from a phase kind.
type phaseView struct {
	busy  bool // spinner instead of an icon
	timed bool // elapsed counter runs
	icon  string
	style lipgloss.Style
	text  func(domain.Phase) string
}

func fixed(s string) func(domain.Phase) string {
	return func(domain.Phase) string { return s }
}

var phaseViews = map[domain.PhaseKind]phaseView{
	domain.PhaseChecking: {
		busy: true, style: busyStyle,
		text: fixed("Checking for staged changes..."),
	},
	domain.PhaseGenerating: {
		busy: true, timed: true, style: busyStyle,
		text: fixed("Generating commit message..."),
	},
	domain.PhaseRetrying: {
		busy: true, timed: true, style: busyStyle,
		text: func(p domain.Phase) string {
			return fmt.Sprintf("Retrying commit message generation (attempt %d/%d)...", p.Attempt, p.MaxAttempts)
		},
	},
	domain.PhaseCommitting: {
		busy: true, timed: true, style: busyStyle,
		text: fixed("Committing changes..."),
	},
	domain.PhaseSuccess: {
		icon: "✓", style: successStyle,
		text: fixed("Committed successfully!"),
	},
	domain.PhaseMessageOnly: {
		icon: "✓", style: messageOnlyStyle,
		text: fixed("Generated commit message:"),
	},
	domain.PhaseError: {
		icon: "✗", style: errorStyle,
		text: fixed("Error occurred"),
	},
}

// Busy reports whether kind shows a spinner.
func Busy(kind domain.PhaseKind) bool { return phaseViews[kind].busy }

// Timed reports whether the elapsed counter runs during kind.
func Timed(kind domain.PhaseKind) bool { return phaseViews[kind].timed }

// Render returns the status frame for phase. It is a pure function of its
// arguments.
func Render(phase domain.Phase, elapsedSeconds int, spinnerFrame string) string {
	v, ok := phaseViews[phase.Kind]
	if !ok {
		return ""
	}

	var b strings.Builder

	lead := v.icon
	if v.busy {
		lead = spinnerFrame
	}
	b.WriteString(v.style.Render(lead + " " + v.text(phase)))
	if v.timed {
		b.WriteString(" ")
		b.WriteString(timerStyle.Render(fmt.Sprintf("Time elapsed: %ds", elapsedSeconds)))
	}

	if phase.Kind == domain.PhaseRetrying && phase.Attempt > 0 && phase.MaxAttempts > 0 {
		b.WriteString("\n\n")
		b.WriteString(retryStyle.Render(fmt.Sprintf(
			"Previous attempt failed. Retrying... (%d failed attempts)", phase.Attempt-1)))
	}

	if phase.Message != "" {
		b.WriteString("\n\n")
		b.WriteString(messageStyle.Render(phase.Message))
	}

	if phase.Error != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(phase.Error))
	}

	return b.String()
}
