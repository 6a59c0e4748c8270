package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/derby/internal/delivery"
	"github.com/lox/derby/internal/roster"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSetupSeedsRosterAndRunsRaces(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "derby.hcl", `
race {
  track_length  = 12
  tick_interval = "1ms"
  glyphs        = "ascii"
}

entrant "Seabiscuit" {
  speed = 4
}

entrant "Harry Trotter" {
  speed = 4
}
`)
	rosterPath := filepath.Join(dir, "roster.toml")

	env, err := setup(ConfigFlags{Config: cfgPath, Roster: rosterPath, LogFormat: "text"}, io.Discard)
	require.NoError(t, err)
	defer env.Close()

	ctx := context.Background()
	require.NoError(t, env.ensureRoster(ctx))

	entrants, err := roster.NewFileStore(rosterPath).Load(ctx)
	require.NoError(t, err)
	require.Len(t, entrants, 2)
	assert.Equal(t, "Seabiscuit", entrants[0].Name)

	seed := int64(8)
	var out bytes.Buffer
	d := env.newDriver(RaceFlags{Seed: &seed}, delivery.NewTerminal(&out, false))

	between := 0
	res, err := runRaces(ctx, d, 3, func() { between++ })
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 2, between)
	assert.Contains(t, out.String(), "|")

	entrants, err = env.loadEntrants(ctx)
	require.NoError(t, err)
	wins := 0
	for _, e := range entrants {
		wins += e.Wins
		assert.Zero(t, e.Position)
	}
	assert.GreaterOrEqual(t, wins, 3)
}

func TestEnsureRosterKeepsExisting(t *testing.T) {
	dir := t.TempDir()
	rosterPath := writeFile(t, dir, "roster.json",
		`{"entrants":[{"name":"Glue Factory","speed_capability":3,"win_count":9}]}`)

	env, err := setup(ConfigFlags{Config: filepath.Join(dir, "absent.hcl"), Roster: rosterPath}, io.Discard)
	require.NoError(t, err)
	defer env.Close()

	require.NoError(t, env.ensureRoster(context.Background()))

	entrants, err := env.loadEntrants(context.Background())
	require.NoError(t, err)
	require.Len(t, entrants, 1)
	assert.Equal(t, 9, entrants[0].Wins)
}

func TestNewDriverIntervalOverride(t *testing.T) {
	dir := t.TempDir()
	env, err := setup(ConfigFlags{Config: filepath.Join(dir, "absent.hcl"), Roster: filepath.Join(dir, "r.json")}, io.Discard)
	require.NoError(t, err)
	defer env.Close()

	require.NoError(t, env.ensureRoster(context.Background()))

	seed := int64(1)
	start := time.Now()
	d := env.newDriver(RaceFlags{Seed: &seed, Interval: time.Millisecond, ASCII: true}, delivery.NewTerminal(io.Discard, false))
	_, err = d.Run(context.Background())
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 5*time.Second, "default one second interval should have been overridden")
}

func TestSetupRejectsBadConfig(t *testing.T) {
	dir := t.TempDir()
	// Zero means "use the default", so only a negative length is rejected.
	cfgPath := writeFile(t, dir, "derby.hcl", "race {\n  track_length = -5\n}\n")

	_, err := setup(ConfigFlags{Config: cfgPath}, io.Discard)
	assert.Error(t, err)
}
