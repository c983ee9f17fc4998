package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexander-akhmetov/llmc/internal/domain"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		phase   domain.Phase
		elapsed int
		want    string
	}{
		{
			name:  "checking",
			phase: domain.Checking(),
			want:  "* Checking for staged changes...",
		},
		{
			name:    "generating",
			phase:   domain.Generating(),
			elapsed: 3,
			want:    "* Generating commit message... Time elapsed: 3s",
		},
		{
			name:    "retrying",
			phase:   domain.Retrying(2, 3),
			elapsed: 1,
			want: "* Retrying commit message generation (attempt 2/3)... Time elapsed: 1s\n\n" +
				"Previous attempt failed. Retrying... (1 failed attempts)",
		},
		{
			name:  "committing",
			phase: domain.Committing("feat: add x"),
			want:  "* Committing changes... Time elapsed: 0s\n\n  feat: add x",
		},
		{
			name:    "success ignores elapsed",
			phase:   domain.Success("feat: add x"),
			elapsed: 9,
			want:    "✓ Committed successfully!\n\n  feat: add x",
		},
		{
			name:  "message only",
			phase: domain.MessageOnly("fix: y"),
			want:  "✓ Generated commit message:\n\n  fix: y",
		},
		{
			name:  "error",
			phase: domain.Failed("Error: boom"),
			want:  "✗ Error occurred\n\nError: boom",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Render(tc.phase, tc.elapsed, "*"))
		})
	}
}

func TestRender_Pure(t *testing.T) {
	p := domain.Retrying(3, 3)
	assert.Equal(t, Render(p, 5, "|"), Render(p, 5, "|"))
	assert.NotEqual(t, Render(p, 5, "|"), Render(p, 6, "|"))
}

func TestRender_MultilineMessage(t *testing.T) {
	out := Render(domain.MessageOnly("feat: x\n\nbody line"), 0, "*")
	lines := strings.Split(out, "\n")
	assert.Equal(t, "✓ Generated commit message:", lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "  feat: x"))
	assert.True(t, strings.HasPrefix(lines[4], "  body line"))
}

func TestTimedPhases(t *testing.T) {
	timed := map[domain.PhaseKind]bool{
		domain.PhaseChecking:    false,
		domain.PhaseGenerating:  true,
		domain.PhaseRetrying:    true,
		domain.PhaseCommitting:  true,
		domain.PhaseSuccess:     false,
		domain.PhaseError:       false,
		domain.PhaseMessageOnly: false,
	}
	for kind, want := range timed {
		assert.Equal(t, want, Timed(kind), kind.String())
		assert.Equal(t, !kind.Terminal(), Busy(kind), kind.String())
	}
}
