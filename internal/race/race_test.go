package race

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/derby/internal/randutil"
)

func defaultField() []*Entrant {
	return []*Entrant{
		NewEntrant("Clydesdale", 5),
		NewEntrant("Shetland Pony", 5),
		NewEntrant("Shire", 5),
		NewEntrant("Thoroughbred", 5),
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name        string
		entrants    []*Entrant
		trackLength int
		field       string
	}{
		{"zero track", defaultField(), 0, "track_length"},
		{"negative track", defaultField(), -3, "track_length"},
		{"zero speed", []*Entrant{NewEntrant("Shire", 0)}, 50, `entrant "Shire" speed`},
		{"negative position", []*Entrant{entrantAt("Shire", 5, -1)}, 50, `entrant "Shire" position`},
		{"nil entrant", []*Entrant{nil}, 50, "entrants[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.entrants, tt.trackLength, randutil.New(1))
			require.Error(t, err)
			assert.Nil(t, r)

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestNewMarksRestoredFinishers(t *testing.T) {
	r, err := New([]*Entrant{entrantAt("Shire", 5, 52), entrantAt("Clydesdale", 5, 10)}, 50, script(1))
	require.NoError(t, err)

	assert.True(t, r.IsComplete())
	assert.Equal(t, []string{"Shire"}, names(r.Finishers()))
}

func TestApplyTickAdvancementBounds(t *testing.T) {
	entrants := []*Entrant{
		NewEntrant("Clydesdale", 3),
		NewEntrant("Shetland Pony", 1),
		NewEntrant("Thoroughbred", 9),
	}
	r, err := New(entrants, 60, randutil.New(99))
	require.NoError(t, err)

	for !r.IsComplete() {
		before := make([]int, len(entrants))
		wasFinished := make([]bool, len(entrants))
		for i, e := range entrants {
			before[i] = e.Position
			wasFinished[i] = e.Finisher
		}

		r.ApplyTick()

		for i, e := range entrants {
			delta := e.Position - before[i]
			if wasFinished[i] {
				assert.Zero(t, delta, "%s moved after finishing", e.Name)
				continue
			}
			assert.GreaterOrEqual(t, delta, 1, e.Name)
			assert.LessOrEqual(t, delta, e.Speed, e.Name)
		}
	}
}

func TestCompletionTick(t *testing.T) {
	r, err := New(defaultField(), 50, randutil.New(7))
	require.NoError(t, err)

	for !r.IsComplete() {
		assert.Empty(t, r.Finishers())
		r.ApplyTick()
	}

	// Complete exactly when someone crossed the line.
	require.NotEmpty(t, r.Finishers())
	for _, f := range r.Finishers() {
		assert.GreaterOrEqual(t, f.Position, 50)
	}

	positions := make([]int, 0, 4)
	for _, e := range r.Entrants() {
		positions = append(positions, e.Position)
	}
	ticks := r.Ticks()

	r.ApplyTick()
	assert.True(t, r.IsComplete())
	assert.Equal(t, ticks, r.Ticks())
	for i, e := range r.Entrants() {
		assert.Equal(t, positions[i], e.Position)
	}
}

func TestNoEarlyExitMidTick(t *testing.T) {
	first := entrantAt("Shire", 5, 48)
	second := entrantAt("Clydesdale", 5, 10)
	r, err := New([]*Entrant{first, second}, 50, script(3, 4))
	require.NoError(t, err)

	r.ApplyTick()

	assert.True(t, first.Finisher)
	assert.Equal(t, 14, second.Position)
}

func TestQueriesAreIdempotent(t *testing.T) {
	r, err := New(defaultField(), 20, randutil.New(3))
	require.NoError(t, err)
	for !r.IsComplete() {
		r.ApplyTick()
	}

	assert.Equal(t, r.Leaders(), r.Leaders())
	assert.Equal(t, r.Finishers(), r.Finishers())
	assert.Equal(t, r.LeadingPosition(), r.LeadingPosition())
}

func TestEmptyRoster(t *testing.T) {
	r, err := New(nil, 50, randutil.New(1))
	require.NoError(t, err)

	assert.Zero(t, r.LeadingPosition())
	assert.Empty(t, r.Finishers())
	assert.Empty(t, r.Leaders())

	assert.NotPanics(t, func() {
		for i := 0; i < 10; i++ {
			r.ApplyTick()
		}
	})
	assert.False(t, r.IsComplete())

	_, ok := r.ResolveOutcome()
	assert.False(t, ok)
}

func TestResetPositions(t *testing.T) {
	entrants := defaultField()
	r, err := New(entrants, 15, randutil.New(11))
	require.NoError(t, err)
	for !r.IsComplete() {
		r.ApplyTick()
	}

	outcome, ok := r.ResolveOutcome()
	require.True(t, ok)
	r.RecordWin(outcome.Winners)

	wins := make(map[string]int)
	for _, e := range entrants {
		wins[e.Name] = e.Wins
	}

	r.ResetPositions()

	assert.False(t, r.IsComplete())
	assert.Zero(t, r.Ticks())
	assert.Equal(t, []string{"Clydesdale", "Shetland Pony", "Shire", "Thoroughbred"}, names(r.Entrants()))
	for _, e := range r.Entrants() {
		assert.Zero(t, e.Position)
		assert.False(t, e.Finisher)
		assert.Equal(t, wins[e.Name], e.Wins)
	}
}

func TestEntrantClone(t *testing.T) {
	e := entrantAt("Shire", 5, 12)
	e.Wins = 3

	c := e.Clone()
	c.Position = 0

	assert.Equal(t, 12, e.Position)
	assert.Equal(t, 3, c.Wins)
}
