package race

import (
	"fmt"
	"time"

	"github.com/lox/derby/internal/randutil"
)

// Rand is the random source used to draw advancements. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// Race owns an ordered roster of entrants and the rules that move them.
type Race struct {
	entrants    []*Entrant
	trackLength int
	complete    bool
	ticks       int
	rng         Rand
}

// New creates a race over the given entrants. The entrants are owned by the
// race from here on; roster order is kept as display order.
//
// A nil rng falls back to a time-seeded generator.
func New(entrants []*Entrant, trackLength int, rng Rand) (*Race, error) {
	if trackLength <= 0 {
		return nil, &ConfigurationError{
			Field:  "track_length",
			Reason: fmt.Sprintf("must be positive, got %d", trackLength),
		}
	}
	for i, e := range entrants {
		if e == nil {
			return nil, &ConfigurationError{
				Field:  fmt.Sprintf("entrants[%d]", i),
				Reason: "entrant is nil",
			}
		}
		if e.Speed <= 0 {
			return nil, &ConfigurationError{
				Field:  fmt.Sprintf("entrant %q speed", e.Name),
				Reason: fmt.Sprintf("must be positive, got %d", e.Speed),
			}
		}
		if e.Position < 0 {
			return nil, &ConfigurationError{
				Field:  fmt.Sprintf("entrant %q position", e.Name),
				Reason: fmt.Sprintf("must not be negative, got %d", e.Position),
			}
		}
	}
	if rng == nil {
		rng = randutil.New(time.Now().UnixNano())
	}

	r := &Race{
		entrants:    entrants,
		trackLength: trackLength,
		rng:         rng,
	}
	// Restored rosters may carry positions from an interrupted race.
	for _, e := range entrants {
		e.Finisher = e.Position >= trackLength
		if e.Finisher {
			r.complete = true
		}
	}
	return r, nil
}

// Entrants returns the roster in display order.
func (r *Race) Entrants() []*Entrant {
	return r.entrants
}

// TrackLength returns the distance to the finish line.
func (r *Race) TrackLength() int {
	return r.trackLength
}

// IsComplete reports whether any entrant has reached the finish line.
func (r *Race) IsComplete() bool {
	return r.complete
}

// Ticks returns the number of ticks applied since the last reset.
func (r *Race) Ticks() int {
	return r.ticks
}

// ApplyTick advances every unfinished entrant by a random amount in
// [1, Speed]. Every entrant moves within the same tick even if an earlier one
// has just crossed the line, so several entrants may finish together.
// A complete race is left untouched.
func (r *Race) ApplyTick() {
	if r.complete {
		return
	}
	for _, e := range r.entrants {
		if e.Finisher {
			continue
		}
		if e.advance(r.rng.IntN(e.Speed)+1, r.trackLength) {
			r.complete = true
		}
	}
	r.ticks++
}

// Finishers returns the entrants that have reached the finish line.
func (r *Race) Finishers() []*Entrant {
	var out []*Entrant
	for _, e := range r.entrants {
		if e.Finisher {
			out = append(out, e)
		}
	}
	return out
}

// LeadingPosition returns the furthest position reached, or 0 for an empty
// roster.
func (r *Race) LeadingPosition() int {
	lead := 0
	for _, e := range r.entrants {
		if e.Position > lead {
			lead = e.Position
		}
	}
	return lead
}

// Leaders returns every entrant at the leading position.
func (r *Race) Leaders() []*Entrant {
	if len(r.entrants) == 0 {
		return nil
	}
	lead := r.LeadingPosition()
	var out []*Entrant
	for _, e := range r.entrants {
		if e.Position == lead {
			out = append(out, e)
		}
	}
	return out
}

// RecordWin credits a win to each of the given entrants.
func (r *Race) RecordWin(winners []*Entrant) {
	for _, w := range winners {
		w.Wins++
	}
}

// ResetPositions returns every entrant to the start line for a fresh race.
// Win counts and roster order are kept.
func (r *Race) ResetPositions() {
	for _, e := range r.entrants {
		e.Position = 0
		e.Finisher = false
	}
	r.complete = false
	r.ticks = 0
}
