package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/derby/cmd/derby/shared"
	"github.com/lox/derby/internal/delivery"
	"github.com/lox/derby/internal/tui"
)

// RunCmd races in the local terminal.
type RunCmd struct {
	ConfigFlags `embed:""`
	RaceFlags   `embed:""`

	TUI     bool `help:"Show the race in a full-screen view"`
	NoClear bool `help:"Print frames one after another instead of redrawing"`
}

func (c *RunCmd) Run() error {
	var logOverride io.Writer
	if c.TUI {
		// Log lines would tear the full-screen view.
		logOverride = io.Discard
	}
	env, err := setup(c.ConfigFlags, logOverride)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := shared.SetupSignalHandler(env.logger)
	defer cancel()

	if err := env.ensureRoster(ctx); err != nil {
		return err
	}

	if c.TUI {
		return c.runTUI(ctx, env)
	}

	d := env.newDriver(c.RaceFlags, delivery.NewTerminal(os.Stdout, !c.NoClear))
	_, err = runRaces(ctx, d, c.Races, nil)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (c *RunCmd) runTUI(ctx context.Context, env *environment) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := tui.NewModel(fmt.Sprintf("Derby · %d cells", env.cfg.Race.TrackLength), env.logger)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	d := env.newDriver(c.RaceFlags, tui.NewEmitter(program))

	errc := make(chan error, 1)
	go func() {
		res, err := runRaces(ctx, d, c.Races, nil)
		done := tui.DoneMsg{Err: err}
		if res != nil && err == nil {
			done.Outcome = res.Message
		}
		program.Send(done)
		errc <- err
	}()

	_, runErr := program.Run()
	cancel()
	err := <-errc

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return runErr
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
