package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/lox/derby/internal/driver"
)

// StandingsCmd prints persisted win counts.
type StandingsCmd struct {
	ConfigFlags `embed:""`
}

func (c *StandingsCmd) Run() error {
	env, err := setup(c.ConfigFlags, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	entrants, err := env.loadEntrants(context.Background())
	if err != nil {
		return &driver.PersistenceError{Op: "load", Err: err}
	}

	sort.SliceStable(entrants, func(i, j int) bool { return entrants[i].Wins > entrants[j].Wins })

	total := 0
	rows := make([][]string, len(entrants))
	for i, e := range entrants {
		total += e.Wins
		rows[i] = []string{strconv.Itoa(i + 1), e.Name, strconv.Itoa(e.Speed), strconv.Itoa(e.Wins)}
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("Standings (%d wins recorded)", total)))
	fmt.Println(newTable([]string{"#", "Entrant", "Speed", "Wins"}, rows))
	return nil
}
