package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexander-akhmetov/llmc/internal/domain"
)

// PhaseMsg replaces the displayed phase.
type PhaseMsg struct {
	Phase domain.Phase
}

// tickMsg advances the elapsed counter of timer generation gen.
type tickMsg struct {
	gen int
}

// stopMsg asks the program to exit after rendering the current frame.
type stopMsg struct{}

// Model is the bubbletea model behind Display.
type Model struct {
	phase       domain.Phase
	elapsed     int
	timerGen    int
	spinner     spinner.Model
	interrupted bool
	stopped     bool
}

// NewModel returns a model showing initial.
func NewModel(initial domain.Phase) Model {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = busyStyle

	return Model{
		phase:   initial,
		spinner: s,
	}
}

// Phase returns the displayed phase.
func (m Model) Phase() domain.Phase { return m.phase }

// Elapsed returns the seconds counted since the current timed phase began.
func (m Model) Elapsed() int { return m.elapsed }

// Interrupted reports whether the user pressed ctrl+c.
func (m Model) Interrupted() bool { return m.interrupted }

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if Timed(m.phase.Kind) {
		cmds = append(cmds, tick(m.timerGen))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// ctrl+c is ignored while the commit runs.
		if msg.Type == tea.KeyCtrlC && m.phase.Kind != domain.PhaseCommitting {
			m.interrupted = true
			return m, tea.Quit
		}
		return m, nil

	case PhaseMsg:
		return m.setPhase(msg.Phase)

	case tickMsg:
		if msg.gen != m.timerGen || !Timed(m.phase.Kind) {
			return m, nil
		}
		m.elapsed++
		return m, tick(m.timerGen)

	case stopMsg:
		m.stopped = true
		return m, tea.Quit

	case spinner.TickMsg:
		if !Busy(m.phase.Kind) {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// setPhase resets the timer whenever the phase kind changes. Consecutive
// retry phases keep counting.
func (m Model) setPhase(p domain.Phase) (tea.Model, tea.Cmd) {
	changed := p.Kind != m.phase.Kind
	wasBusy := Busy(m.phase.Kind)
	m.phase = p
	if !changed {
		return m, nil
	}

	m.timerGen++
	m.elapsed = 0

	var cmds []tea.Cmd
	if Timed(p.Kind) {
		cmds = append(cmds, tick(m.timerGen))
	}
	if Busy(p.Kind) && !wasBusy {
		cmds = append(cmds, m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	out := Render(m.phase, m.elapsed, m.spinner.View())
	if m.stopped || m.interrupted {
		return out + "\n"
	}
	return out
}

func tick(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}
