package tui

import (
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexander-akhmetov/llmc/internal/debug"
	"github.com/alexander-akhmetov/llmc/internal/domain"
)

// program is the part of *tea.Program that Display drives.
type program interface {
	Run() (tea.Model, error)
	Send(msg tea.Msg)
}

// Display renders pipeline phases in the terminal until Stop is called.
// If the terminal program cannot run, the final phase is written as plain
// text instead.
type Display struct {
	// OnInterrupt runs after the program exits because of ctrl+c.
	OnInterrupt func()

	out        io.Writer
	errOut     io.Writer
	opts       []tea.ProgramOption
	newProgram func(tea.Model, ...tea.ProgramOption) program

	program program
	done    chan struct{}
	once    sync.Once

	mu     sync.Mutex
	last   domain.Phase
	runErr error
}

// NewDisplay returns a display rendering to out. errOut receives the final
// error when the terminal program fails. opts are passed to the program.
func NewDisplay(out, errOut io.Writer, opts ...tea.ProgramOption) *Display {
	return &Display{
		out:    out,
		errOut: errOut,
		opts:   opts,
		newProgram: func(m tea.Model, opts ...tea.ProgramOption) program {
			return tea.NewProgram(m, opts...)
		},
	}
}

// Start begins rendering initial in the background.
func (d *Display) Start(initial domain.Phase) {
	d.record(initial)

	opts := append([]tea.ProgramOption{tea.WithOutput(d.out)}, d.opts...)
	d.program = d.newProgram(NewModel(initial), opts...)
	d.done = make(chan struct{})

	go func() {
		defer close(d.done)
		final, err := d.program.Run()
		if err != nil {
			debug.Logf("tui: program exited: %v", err)
			d.mu.Lock()
			d.runErr = err
			d.mu.Unlock()
			return
		}
		if m, ok := final.(Model); ok && m.Interrupted() && d.OnInterrupt != nil {
			d.OnInterrupt()
		}
	}()
}

// SetPhase replaces the displayed phase.
func (d *Display) SetPhase(p domain.Phase) {
	d.record(p)
	if d.program == nil {
		return
	}
	d.program.Send(PhaseMsg{Phase: p})
}

// Stop renders the final frame and waits for the program to exit.
func (d *Display) Stop() {
	if d.program == nil {
		return
	}
	d.once.Do(func() {
		d.program.Send(stopMsg{})
		<-d.done

		d.mu.Lock()
		failed, last := d.runErr != nil, d.last
		d.mu.Unlock()
		if failed {
			writePlain(d.out, d.errOut, last)
		}
	})
}

func (d *Display) record(p domain.Phase) {
	d.mu.Lock()
	d.last = p
	d.mu.Unlock()
}
