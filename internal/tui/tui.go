// Package tui shows a race live in a Bubble Tea program.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// FrameMsg carries one rendered frame into the program.
type FrameMsg struct {
	Text  string
	Frame int
}

// DoneMsg ends the race view with an outcome or an error.
type DoneMsg struct {
	Outcome string
	Err     error
}

// Model is the Bubble Tea model for a race in progress.
type Model struct {
	title  string
	logger *log.Logger

	track  viewport.Model
	frame  string
	frames int

	done    bool
	outcome string
	err     error

	width  int
	height int

	testMode bool
	captured []string
}

// NewModel creates a race view.
func NewModel(title string, logger *log.Logger) *Model {
	return NewModelWithOptions(title, logger, false)
}

// NewModelWithOptions creates a race view. In test mode every frame is kept
// for inspection.
func NewModelWithOptions(title string, logger *log.Logger, testMode bool) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")
	return &Model{
		title:    title,
		logger:   logger.WithPrefix("tui"),
		track:    vp,
		testMode: testMode,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case FrameMsg:
		m.frame = msg.Text
		m.frames++
		m.track.SetContent(msg.Text)
		if m.testMode {
			m.captured = append(m.captured, msg.Text)
		}

	case DoneMsg:
		m.done = true
		m.outcome = msg.Outcome
		m.err = msg.Err
		if msg.Err != nil {
			m.logger.Error("Race ended with error", "error", msg.Err)
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.track, cmd = m.track.Update(msg)
	return m, cmd
}

func (m *Model) resize() {
	w := m.width - 2
	h := m.height - 6
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	m.track.Width = w
	m.track.Height = h
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := HeaderStyle.Render(m.title)

	pane := TrackPaneStyle
	if m.done {
		pane = FinishedPaneStyle
	}
	track := pane.Render(m.track.View())

	return lipgloss.JoinVertical(lipgloss.Left, header, track, m.status())
}

func (m *Model) status() string {
	switch {
	case m.err != nil:
		return ErrorStyle.Render(fmt.Sprintf("Race aborted: %v", m.err)) + InfoStyle.Render("  (q to quit)")
	case m.done:
		return OutcomeStyle.Render(strings.ReplaceAll(m.outcome, "\n", " ")) + InfoStyle.Render("  (q to quit)")
	case m.frames == 0:
		return InfoStyle.Render("Waiting for the start...")
	default:
		return InfoStyle.Render(fmt.Sprintf("Tick %d", m.frames-1))
	}
}

// Frame returns the most recent frame.
func (m *Model) Frame() string {
	return m.frame
}

// Done reports whether the race has ended.
func (m *Model) Done() bool {
	return m.done
}

// CapturedFrames returns every frame seen in test mode, nil otherwise.
func (m *Model) CapturedFrames() []string {
	if !m.testMode {
		return nil
	}
	return m.captured
}

// Sender is satisfied by *tea.Program.
type Sender interface {
	Send(msg tea.Msg)
}

// Emitter forwards driver frames into a running program.
type Emitter struct {
	sender Sender
	frames int
}

// NewEmitter returns an emitter that sends to program.
func NewEmitter(program Sender) *Emitter {
	return &Emitter{sender: program}
}

// Emit sends one frame.
func (e *Emitter) Emit(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.sender.Send(FrameMsg{Text: text, Frame: e.frames})
	e.frames++
	return nil
}
