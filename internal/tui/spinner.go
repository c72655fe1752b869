package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
)

type spinnerState int

const (
	spinnerRunning spinnerState = iota
	spinnerDone
	spinnerQuitting
)

// Spinner shows progress while a blocking call runs. Without a terminal it
// prints one line per message instead.
type Spinner struct {
	out         io.Writer
	interactive bool

	program   *tea.Program
	doneChan  chan struct{}
	startTime time.Time
}

type spinnerModel struct {
	spinner  spinner.Model
	state    spinnerState
	text     string
	duration time.Duration
}

func NewSpinner(out io.Writer, interactive bool) *Spinner {
	return &Spinner{out: out, interactive: interactive}
}

func (s *Spinner) Start(message string) {
	s.startTime = time.Now()

	if !s.interactive {
		fmt.Fprintf(s.out, "⏺ %s\n", message)
		return
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	s.doneChan = make(chan struct{})
	s.program = tea.NewProgram(spinnerModel{spinner: sp, text: message}, tea.WithOutput(s.out))
	go func() {
		if _, err := s.program.Run(); err != nil {
			log.Error().Err(err).Msg("Error running spinner")
		}
		close(s.doneChan)
	}()
}

func (s *Spinner) Stop() {
	if !s.interactive || s.program == nil {
		return
	}
	s.program.Send(doneMsg{duration: time.Since(s.startTime)})
	<-s.doneChan
	s.program = nil
}

func (s *Spinner) UpdateText(text string) {
	if !s.interactive || s.program == nil {
		fmt.Fprintf(s.out, "⏺ %s\n", text)
		return
	}
	s.program.Send(updateTextMsg(text))
}

// WithSpinner runs fn while the spinner shows message.
func WithSpinner[T any](s *Spinner, message string, fn func() T) T {
	s.Start(message)
	defer s.Stop()
	return fn()
}

type doneMsg struct {
	duration time.Duration
}

type updateTextMsg string

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.state = spinnerQuitting
			return m, tea.Quit
		}
		return m, nil
	case doneMsg:
		m.state = spinnerDone
		m.duration = msg.duration
		return m, tea.Quit
	case updateTextMsg:
		m.text = string(msg)
		return m, nil
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m spinnerModel) View() string {
	switch m.state {
	case spinnerQuitting:
		return "\n"
	case spinnerDone:
		return dimStyle.Render(fmt.Sprintf("  Done in %.2fs", m.duration.Seconds())) + "\n"
	default:
		return fmt.Sprintf("  %s %s\n", m.spinner.View(), m.text)
	}
}
