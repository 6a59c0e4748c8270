package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/lox/derby/internal/roster"
)

// RosterCmd groups roster maintenance subcommands.
type RosterCmd struct {
	Init RosterInitCmd `cmd:"" help:"Write the configured roster, clearing positions and wins"`
}

// RosterInitCmd seeds the roster store from the config file.
type RosterInitCmd struct {
	ConfigFlags `embed:""`

	Force bool `help:"Overwrite an existing roster"`
}

func (c *RosterInitCmd) Run() error {
	env, err := setup(c.ConfigFlags, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx := context.Background()
	_, err = env.store.Load(ctx)
	switch {
	case err == nil && !c.Force:
		return fmt.Errorf("roster %s already exists (use --force to overwrite)", env.cfg.Roster.Path)
	case err != nil && !errors.Is(err, roster.ErrNotFound) && !c.Force:
		return err
	}

	entrants := env.cfg.RosterEntrants()
	if err := env.store.Save(ctx, entrants); err != nil {
		return err
	}
	env.logger.Info("Roster written", "path", env.cfg.Roster.Path, "entrants", len(entrants))
	return nil
}
