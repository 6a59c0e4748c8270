package delivery

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalAppendsFrames(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, false)

	require.NoError(t, term.Emit(context.Background(), "frame one"))
	require.NoError(t, term.Emit(context.Background(), "frame two"))

	assert.Equal(t, "frame one\n\n\n\n\nframe two\n\n\n\n\n", buf.String())
}

func TestTerminalClearsScreen(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, true)

	require.NoError(t, term.Emit(context.Background(), "frame"))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\x1b["), "expected an escape sequence, got %q", out)
	assert.True(t, strings.HasSuffix(out, "frame\n"))
}

func TestTerminalRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	assert.ErrorIs(t, NewTerminal(&buf, false).Emit(ctx, "frame"), context.Canceled)
	assert.Empty(t, buf.String())
}

type fakeDiscord struct {
	sent    []string
	edits   []string
	editIDs []string
	sendErr error
	editErr error
}

func (f *fakeDiscord) ChannelMessageSend(channelID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent = append(f.sent, content)
	return &discordgo.Message{ID: "msg-1", ChannelID: channelID, Content: content}, nil
}

func (f *fakeDiscord) ChannelMessageEdit(channelID, messageID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.editErr != nil {
		return nil, f.editErr
	}
	f.edits = append(f.edits, content)
	f.editIDs = append(f.editIDs, messageID)
	return &discordgo.Message{ID: messageID, ChannelID: channelID, Content: content}, nil
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func TestDiscordSendsThenEdits(t *testing.T) {
	ctx := context.Background()
	client := &fakeDiscord{}
	d := NewDiscord(client, "chan-1", quietLogger())

	require.NoError(t, d.Emit(ctx, "start"))
	require.NoError(t, d.Emit(ctx, "tick 1"))
	require.NoError(t, d.Emit(ctx, "tick 2"))

	assert.Equal(t, []string{"```\nstart\n```"}, client.sent)
	assert.Equal(t, []string{"```\ntick 1\n```", "```\ntick 2\n```"}, client.edits)
	assert.Equal(t, []string{"msg-1", "msg-1"}, client.editIDs)
	assert.Equal(t, "msg-1", d.MessageID())

	d.Reset()
	require.NoError(t, d.Emit(ctx, "next race"))
	assert.Len(t, client.sent, 2)
}

func TestDiscordErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("forbidden")

	t.Run("send", func(t *testing.T) {
		d := NewDiscord(&fakeDiscord{sendErr: boom}, "chan-1", quietLogger())
		err := d.Emit(ctx, "start")
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, d.MessageID())
	})

	t.Run("edit", func(t *testing.T) {
		client := &fakeDiscord{}
		d := NewDiscord(client, "chan-1", quietLogger())
		require.NoError(t, d.Emit(ctx, "start"))

		client.editErr = boom
		assert.ErrorIs(t, d.Emit(ctx, "tick"), boom)
	})

	t.Run("too long", func(t *testing.T) {
		client := &fakeDiscord{}
		d := NewDiscord(client, "chan-1", quietLogger())
		assert.Error(t, d.Emit(ctx, strings.Repeat("-", 2001)))
		assert.Empty(t, client.sent)
	})
}
