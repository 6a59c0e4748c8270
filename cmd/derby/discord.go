package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/lox/derby/cmd/derby/shared"
	"github.com/lox/derby/internal/config"
	"github.com/lox/derby/internal/delivery"
)

// DiscordCmd races by editing a message in a Discord channel. The bot token
// comes from DERBY_DISCORD_TOKEN.
type DiscordCmd struct {
	ConfigFlags `embed:""`
	RaceFlags   `embed:""`

	Channel string `help:"Channel ID to post in (defaults to DERBY_DISCORD_CHANNEL)"`
}

func (c *DiscordCmd) Run() error {
	env, err := setup(c.ConfigFlags, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	secrets, err := config.LoadSecrets()
	if err != nil {
		return err
	}
	if secrets.DiscordToken == "" {
		return errors.New("DERBY_DISCORD_TOKEN is not set")
	}
	channel := c.Channel
	if channel == "" {
		channel = secrets.DiscordChannel
	}
	if channel == "" {
		return errors.New("no channel given: pass --channel or set DERBY_DISCORD_CHANNEL")
	}

	session, err := discordgo.New("Bot " + secrets.DiscordToken)
	if err != nil {
		return fmt.Errorf("create discord session: %w", err)
	}

	ctx, cancel := shared.SetupSignalHandler(env.logger)
	defer cancel()

	if err := env.ensureRoster(ctx); err != nil {
		return err
	}

	emitter := delivery.NewDiscord(session, channel, env.logger)
	d := env.newDriver(c.RaceFlags, emitter)

	res, err := runRaces(ctx, d, c.Races, emitter.Reset)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return err
	}
	env.logger.Info("Race posted", "message", emitter.MessageID(), "race", res.RaceID)
	return nil
}
