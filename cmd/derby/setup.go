package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/derby/cmd/derby/shared"
	"github.com/lox/derby/internal/config"
	"github.com/lox/derby/internal/driver"
	"github.com/lox/derby/internal/race"
	"github.com/lox/derby/internal/randutil"
	"github.com/lox/derby/internal/render"
	"github.com/lox/derby/internal/roster"
)

// ConfigFlags are shared by every command that reads the config file.
type ConfigFlags struct {
	Config    string `short:"c" default:"derby.hcl" help:"HCL config file (defaults apply when missing)"`
	Roster    string `help:"Override the roster path from the config file"`
	Debug     bool   `help:"Enable debug logging"`
	LogFormat string `enum:"text,json" default:"text" help:"Log format (text, json)"`
	LogFile   string `help:"Write logs to this file instead of stderr"`
}

// RaceFlags are shared by commands that run races.
type RaceFlags struct {
	Seed     *int64        `help:"Deterministic RNG seed (optional)"`
	Interval time.Duration `help:"Override the tick interval from the config file"`
	ASCII    bool          `help:"Draw the track without emoji"`
	Races    int           `default:"1" help:"Number of consecutive races to run"`
}

// environment bundles what a command needs after reading flags and config.
type environment struct {
	cfg     *config.Config
	logger  *log.Logger
	store   driver.Store
	closers []func() error
}

func (e *environment) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i]())
	}
	return errors.Join(errs...)
}

func setup(flags ConfigFlags, logOverride io.Writer) (*environment, error) {
	env := &environment{}

	w, closeLog, err := shared.OpenLogFile(flags.LogFile)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	env.closers = append(env.closers, closeLog)
	if logOverride != nil && flags.LogFile == "" {
		w = logOverride
	}
	env.logger = shared.SetupLogger(w, flags.Debug, flags.LogFormat)

	cfg, err := config.Load(flags.Config)
	if err != nil {
		env.Close()
		return nil, err
	}
	if flags.Roster != "" {
		cfg.Roster.Path = flags.Roster
	}
	env.cfg = cfg

	switch cfg.Roster.Backend {
	case config.BackendBadger:
		store, err := roster.OpenBadgerStore(cfg.Roster.Path)
		if err != nil {
			env.Close()
			return nil, err
		}
		env.store = store
		env.closers = append(env.closers, store.Close)
	default:
		env.store = roster.NewFileStore(cfg.Roster.Path)
	}

	env.logger.Debug("Configuration loaded",
		"config", flags.Config,
		"roster_backend", cfg.Roster.Backend,
		"roster_path", cfg.Roster.Path)
	return env, nil
}

// ensureRoster writes the configured roster when nothing has been saved yet.
func (e *environment) ensureRoster(ctx context.Context) error {
	_, err := e.store.Load(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, roster.ErrNotFound) {
		return &driver.PersistenceError{Op: "load", Err: err}
	}
	e.logger.Info("No roster found, seeding from config", "entrants", len(e.cfg.Entrants))
	if err := e.store.Save(ctx, e.cfg.RosterEntrants()); err != nil {
		return &driver.PersistenceError{Op: "save", Err: err}
	}
	return nil
}

// loadEntrants returns the persisted roster, falling back to the config.
func (e *environment) loadEntrants(ctx context.Context) ([]*race.Entrant, error) {
	entrants, err := e.store.Load(ctx)
	if errors.Is(err, roster.ErrNotFound) {
		return e.cfg.RosterEntrants(), nil
	}
	return entrants, err
}

func (e *environment) newDriver(flags RaceFlags, emitter driver.Emitter) *driver.Driver {
	seed := flags.Seed
	if seed == nil {
		seed = e.cfg.Race.Seed
	}
	resolved, explicit := randutil.Resolve(seed)
	if explicit {
		e.logger.Info("Using deterministic seed", "seed", resolved)
	} else {
		e.logger.Debug("Using random seed", "seed", resolved)
	}

	interval := e.cfg.Interval()
	if flags.Interval > 0 {
		interval = flags.Interval
	}

	glyphs := render.DefaultGlyphs
	if flags.ASCII || e.cfg.Race.Glyphs == config.GlyphsASCII {
		glyphs = render.ASCIIGlyphs
	}

	return driver.New(driver.Config{
		TrackLength:  e.cfg.Race.TrackLength,
		TickInterval: interval,
		Rand:         randutil.New(resolved),
		Logger:       e.logger,
		Renderer:     render.Renderer{Glyphs: glyphs},
	}, emitter, e.store)
}

// runRaces runs n races back to back, calling between before every race
// after the first. It returns the last result.
func runRaces(ctx context.Context, d *driver.Driver, n int, between func()) (*driver.Result, error) {
	if n < 1 {
		n = 1
	}
	var last *driver.Result
	for i := 0; i < n; i++ {
		if i > 0 && between != nil {
			between()
		}
		res, err := d.Run(ctx)
		if err != nil {
			return last, err
		}
		last = res
	}
	return last, nil
}
