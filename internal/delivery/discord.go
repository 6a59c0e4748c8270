package delivery

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
)

// MessageClient is the subset of *discordgo.Session used by Discord.
type MessageClient interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEdit(channelID, messageID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Discord posts the first frame as a channel message and edits that message
// for every frame after it.
type Discord struct {
	client    MessageClient
	channelID string
	messageID string
	logger    *log.Logger
}

// NewDiscord returns an emitter for channelID.
func NewDiscord(client MessageClient, channelID string, logger *log.Logger) *Discord {
	return &Discord{
		client:    client,
		channelID: channelID,
		logger:    logger.WithPrefix("discord").With("channel", channelID),
	}
}

// MessageID returns the ID of the message being edited, empty before the
// first frame.
func (d *Discord) MessageID() string {
	return d.messageID
}

// Reset makes the next Emit post a fresh message.
func (d *Discord) Reset() {
	d.messageID = ""
}

// Emit sends or edits the race message.
func (d *Discord) Emit(ctx context.Context, text string) error {
	content := codeBlock(text)
	if len(content) > discordContentLimit {
		return fmt.Errorf("frame is %d characters, discord allows %d", len(content), discordContentLimit)
	}

	if d.messageID == "" {
		msg, err := d.client.ChannelMessageSend(d.channelID, content, discordgo.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("send message: %w", err)
		}
		if msg == nil || msg.ID == "" {
			return errors.New("send message: no message ID returned")
		}
		d.messageID = msg.ID
		d.logger.Debug("Posted race message", "message", msg.ID)
		return nil
	}

	if _, err := d.client.ChannelMessageEdit(d.channelID, d.messageID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("edit message %s: %w", d.messageID, err)
	}
	return nil
}

const discordContentLimit = 2000

func codeBlock(text string) string {
	return "```\n" + text + "\n```"
}
