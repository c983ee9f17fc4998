package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/alexander-akhmetov/llmc/internal/domain"
)

// Plain is the status display used when stdout is not a terminal. It
// prints nothing while work is in progress and writes the final phase as
// plain text when stopped: errors to errOut, messages to out.
type Plain struct {
	out    io.Writer
	errOut io.Writer

	mu   sync.Mutex
	last domain.Phase
}

// NewPlain returns a plain display.
func NewPlain(out, errOut io.Writer) *Plain {
	return &Plain{out: out, errOut: errOut}
}

// Start records the initial phase.
func (p *Plain) Start(initial domain.Phase) { p.SetPhase(initial) }

// SetPhase records p as the current phase.
func (p *Plain) SetPhase(phase domain.Phase) {
	p.mu.Lock()
	p.last = phase
	p.mu.Unlock()
}

// Stop writes the final phase.
func (p *Plain) Stop() {
	p.mu.Lock()
	phase := p.last
	p.mu.Unlock()
	writePlain(p.out, p.errOut, phase)
}

func writePlain(out, errOut io.Writer, phase domain.Phase) {
	switch phase.Kind {
	case domain.PhaseError:
		fmt.Fprintln(errOut, phase.Error)
	case domain.PhaseSuccess, domain.PhaseMessageOnly:
		if phase.Message != "" {
			fmt.Fprintln(out, phase.Message)
		}
	}
}
