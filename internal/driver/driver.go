// Package driver runs a race to completion at a fixed cadence, emitting a
// rendered frame after every tick and persisting the roster once a winner is
// resolved.
package driver

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/segmentio/ksuid"

	"github.com/lox/derby/internal/race"
	"github.com/lox/derby/internal/render"
)

// Emitter delivers rendered frames to wherever the race is being watched.
type Emitter interface {
	Emit(ctx context.Context, text string) error
}

// Store loads and saves the roster between races.
type Store interface {
	Load(ctx context.Context) ([]*race.Entrant, error)
	Save(ctx context.Context, entrants []*race.Entrant) error
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(ctx context.Context, text string) error

func (f EmitterFunc) Emit(ctx context.Context, text string) error {
	return f(ctx, text)
}

// State is the driver's position in its lifecycle.
type State int

const (
	Idle State = iota
	Running
	Complete
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Config holds race parameters for a driver.
type Config struct {
	TrackLength  int
	TickInterval time.Duration
	// Entrants is the roster used when no Store is configured. Each run
	// races against clones so the caller's slice is never mutated.
	Entrants []*race.Entrant
	Rand     race.Rand
	Clock    quartz.Clock
	Logger   *log.Logger
	Renderer render.Renderer
}

// Result summarises a finished race.
type Result struct {
	RaceID   string
	Outcome  race.Outcome
	Message  string
	Ticks    int
	Entrants []*race.Entrant
}

// Driver runs one race at a time.
type Driver struct {
	config  Config
	emitter Emitter
	store   Store
	clock   quartz.Clock
	logger  *log.Logger

	mu    sync.Mutex
	state State
}

// New creates a driver. The emitter is required, the store is optional.
func New(config Config, emitter Emitter, store Store) *Driver {
	clock := config.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}
	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Driver{
		config:  config,
		emitter: emitter,
		store:   store,
		clock:   clock,
		logger:  logger.WithPrefix("driver"),
	}
}

// State returns the current lifecycle state.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Driver) setState(s State) {
	d.mu.Lock()
	d.state = s
	d.mu.Unlock()
}

// Run drives a race from the start line to a resolved outcome. Delivery and
// persistence failures end the race and are returned unretried. A finished
// driver can be run again for the next race.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	d.mu.Lock()
	if d.state == Running {
		d.mu.Unlock()
		return nil, ErrRaceInProgress
	}
	d.state = Running
	d.mu.Unlock()

	result, err := d.run(ctx)
	if err != nil {
		d.setState(Idle)
		return nil, err
	}
	d.setState(Complete)
	return result, nil
}

func (d *Driver) run(ctx context.Context) (*Result, error) {
	raceID := ksuid.New().String()
	logger := d.logger.With("race", raceID)

	entrants, err := d.loadRoster(ctx)
	if err != nil {
		return nil, err
	}

	if len(entrants) == 0 {
		return nil, &race.ConfigurationError{Field: "entrants", Reason: "roster is empty"}
	}
	r, err := race.New(entrants, d.config.TrackLength, d.config.Rand)
	if err != nil {
		return nil, err
	}

	logger.Info("Race starting",
		"entrants", len(entrants),
		"track_length", d.config.TrackLength,
		"tick_interval", d.config.TickInterval)

	for !r.IsComplete() {
		// Arm the timer before emitting so slow delivery eats into the
		// interval rather than stretching it.
		timer := d.clock.NewTimer(d.config.TickInterval, "driver", "tick")
		if err := d.emit(ctx, r.Ticks(), d.config.Renderer.Render(r)); err != nil {
			timer.Stop()
			return nil, err
		}

		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Warn("Race cancelled", "tick", r.Ticks(), "error", ctx.Err())
			return nil, ctx.Err()
		case <-timer.C:
		}

		r.ApplyTick()
		logger.Debug("Tick applied", "tick", r.Ticks(), "leading_position", r.LeadingPosition())
	}

	outcome, _ := r.ResolveOutcome()
	message := render.FormatOutcome(outcome)
	r.RecordWin(outcome.Winners)

	logger.Info("Race complete",
		"ticks", r.Ticks(),
		"outcome", outcome.Kind,
		"winners", outcome.WinnerNames())

	if err := d.emit(ctx, r.Ticks(), d.config.Renderer.Frame(r, message)); err != nil {
		return nil, err
	}

	result := &Result{
		RaceID:  raceID,
		Outcome: outcome,
		Message: message,
		Ticks:   r.Ticks(),
	}

	r.ResetPositions()

	if d.store != nil {
		if err := d.store.Save(ctx, r.Entrants()); err != nil {
			return nil, &PersistenceError{Op: "save", Err: err}
		}
		logger.Debug("Roster saved", "entrants", len(r.Entrants()))
	} else {
		d.config.Entrants = cloneAll(r.Entrants())
	}

	result.Entrants = r.Entrants()
	return result, nil
}

func (d *Driver) loadRoster(ctx context.Context) ([]*race.Entrant, error) {
	if d.store == nil {
		return cloneAll(d.config.Entrants), nil
	}
	entrants, err := d.store.Load(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Err: err}
	}
	return entrants, nil
}

func (d *Driver) emit(ctx context.Context, tick int, text string) error {
	if err := d.emitter.Emit(ctx, text); err != nil {
		return &DeliveryError{Tick: tick, Err: err}
	}
	return nil
}

func cloneAll(entrants []*race.Entrant) []*race.Entrant {
	out := make([]*race.Entrant, len(entrants))
	for i, e := range entrants {
		if e != nil {
			out[i] = e.Clone()
		}
	}
	return out
}
