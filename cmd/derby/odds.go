package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/lox/derby/cmd/derby/shared"
	"github.com/lox/derby/internal/odds"
	"github.com/lox/derby/internal/randutil"
)

// OddsCmd estimates win probabilities for the current roster.
type OddsCmd struct {
	ConfigFlags `embed:""`

	Samples int    `short:"n" default:"100000" help:"Number of simulated races"`
	Workers int    `default:"0" help:"Parallel workers (0 for one per CPU)"`
	Seed    *int64 `help:"Random seed for reproducible results"`
}

func (c *OddsCmd) Run() error {
	env, err := setup(c.ConfigFlags, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := shared.SetupSignalHandler(env.logger)
	defer cancel()

	entrants, err := env.loadEntrants(ctx)
	if err != nil {
		return err
	}

	seed := c.Seed
	if seed == nil {
		seed = env.cfg.Race.Seed
	}
	resolved, _ := randutil.Resolve(seed)

	est, err := odds.Run(ctx, entrants, odds.Config{
		TrackLength: env.cfg.Race.TrackLength,
		Samples:     c.Samples,
		Workers:     c.Workers,
		Seed:        resolved,
	})
	if err != nil {
		return err
	}

	lines := append([]odds.Line(nil), est.Lines...)
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Share > lines[j].Share })

	rows := make([][]string, len(lines))
	for i, l := range lines {
		fair := "-"
		if l.Share > 0 {
			fair = fmt.Sprintf("%.2f", 1/l.Share)
		}
		rows[i] = []string{
			l.Name,
			strconv.Itoa(l.Speed),
			fmt.Sprintf("%.2f%%", l.Share*100),
			strconv.Itoa(l.Wins),
			strconv.Itoa(l.DeadHeats),
			fair,
		}
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("%d races over %d cells (seed %d)",
		est.Samples, env.cfg.Race.TrackLength, resolved)))
	fmt.Println(newTable([]string{"Entrant", "Speed", "Win %", "Wins", "Dead heats", "Fair odds"}, rows))
	return nil
}
