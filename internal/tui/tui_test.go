package tui

import (
	"context"
	"errors"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

type captureSender struct {
	msgs []tea.Msg
}

func (c *captureSender) Send(msg tea.Msg) {
	c.msgs = append(c.msgs, msg)
}

func TestModelFrames(t *testing.T) {
	m := NewModelWithOptions("Derby", quietLogger(), true)

	assert.Equal(t, "Loading...", m.View())

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	assert.Contains(t, m.View(), "Waiting for the start")

	m.Update(FrameMsg{Text: "|----H Shire"})
	m.Update(FrameMsg{Text: "|--H-- Shire", Frame: 1})

	assert.Equal(t, "|--H-- Shire", m.Frame())
	assert.Equal(t, []string{"|----H Shire", "|--H-- Shire"}, m.CapturedFrames())

	view := m.View()
	assert.Contains(t, view, "Derby")
	assert.Contains(t, view, "|--H-- Shire")
	assert.Contains(t, view, "Tick 1")
}

func TestModelDone(t *testing.T) {
	m := NewModelWithOptions("Derby", quietLogger(), true)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	m.Update(FrameMsg{Text: "H|----- Shire"})

	m.Update(DoneMsg{Outcome: "It's a tie between:\nShire\nClydesdale"})

	require.True(t, m.Done())
	assert.Contains(t, m.View(), "It's a tie between: Shire Clydesdale")
}

func TestModelDoneWithError(t *testing.T) {
	m := NewModelWithOptions("Derby", quietLogger(), false)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})

	m.Update(DoneMsg{Err: errors.New("disk full")})

	assert.Contains(t, m.View(), "Race aborted: disk full")
	assert.Nil(t, m.CapturedFrames())
}

func TestModelQuitKeys(t *testing.T) {
	m := NewModel("Derby", quietLogger())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestEmitter(t *testing.T) {
	sender := &captureSender{}
	e := NewEmitter(sender)

	require.NoError(t, e.Emit(context.Background(), "one"))
	require.NoError(t, e.Emit(context.Background(), "two"))

	assert.Equal(t, []tea.Msg{
		FrameMsg{Text: "one", Frame: 0},
		FrameMsg{Text: "two", Frame: 1},
	}, sender.msgs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, e.Emit(ctx, "three"), context.Canceled)
	assert.Len(t, sender.msgs, 2)
}
