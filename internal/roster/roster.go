// Package roster persists entrants and their win counts between races.
package roster

import (
	"errors"
	"fmt"

	"github.com/lox/derby/internal/race"
)

// ErrNotFound is returned by Load when no roster has been saved yet.
var ErrNotFound = errors.New("roster not found")

// Record is the persisted form of an entrant.
type Record struct {
	Name     string `json:"name" toml:"name" msgpack:"name"`
	Speed    int    `json:"speed_capability" toml:"speed_capability" msgpack:"speed_capability"`
	Position int    `json:"position" toml:"position" msgpack:"position"`
	Wins     int    `json:"win_count" toml:"win_count" msgpack:"win_count"`
	Finisher bool   `json:"is_finisher" toml:"is_finisher" msgpack:"is_finisher"`
}

// document is the top-level shape of a roster file.
type document struct {
	Entrants []Record `json:"entrants" toml:"entrant"`
}

// Defaults is the stable used when nothing has been saved yet.
func Defaults() []*race.Entrant {
	return []*race.Entrant{
		race.NewEntrant("Clydesdale", 5),
		race.NewEntrant("Shetland Pony", 5),
		race.NewEntrant("Shire", 5),
		race.NewEntrant("Thoroughbred", 5),
	}
}

// FromEntrants converts entrants to records, keeping order.
func FromEntrants(entrants []*race.Entrant) []Record {
	records := make([]Record, len(entrants))
	for i, e := range entrants {
		records[i] = Record{
			Name:     e.Name,
			Speed:    e.Speed,
			Position: e.Position,
			Wins:     e.Wins,
			Finisher: e.Finisher,
		}
	}
	return records
}

// ToEntrants validates records and converts them to entrants.
func ToEntrants(records []Record) ([]*race.Entrant, error) {
	entrants := make([]*race.Entrant, len(records))
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		entrants[i] = &race.Entrant{
			Name:     rec.Name,
			Speed:    rec.Speed,
			Position: rec.Position,
			Wins:     rec.Wins,
			Finisher: rec.Finisher,
		}
	}
	return entrants, nil
}

// Validate checks a record's field ranges.
func (r Record) Validate() error {
	switch {
	case r.Name == "":
		return errors.New("name is required")
	case r.Speed <= 0:
		return fmt.Errorf("%s: speed must be positive, got %d", r.Name, r.Speed)
	case r.Position < 0:
		return fmt.Errorf("%s: position must not be negative, got %d", r.Name, r.Position)
	case r.Wins < 0:
		return fmt.Errorf("%s: wins must not be negative, got %d", r.Name, r.Wins)
	}
	return nil
}
