// Package config loads race settings from an HCL file and secrets from the
// environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/derby/internal/race"
)

// Roster backends.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
)

// Glyph sets.
const (
	GlyphsEmoji = "emoji"
	GlyphsASCII = "ascii"
)

// Config is the complete race configuration
type Config struct {
	Race     RaceSettings    `hcl:"race,block"`
	Roster   RosterSettings  `hcl:"roster,block"`
	Entrants []EntrantConfig `hcl:"entrant,block"`
}

// RaceSettings controls the track and the tick cadence
type RaceSettings struct {
	TrackLength  int    `hcl:"track_length,optional"`
	TickInterval string `hcl:"tick_interval,optional"`
	Seed         *int64 `hcl:"seed,optional"`
	Glyphs       string `hcl:"glyphs,optional"`
}

// RosterSettings chooses where win counts are kept
type RosterSettings struct {
	Backend string `hcl:"backend,optional"`
	Path    string `hcl:"path,optional"`
}

// EntrantConfig declares one runner in the default roster
type EntrantConfig struct {
	Name  string `hcl:"name,label"`
	Speed int    `hcl:"speed,optional"`
}

// fileConfig mirrors Config with optional blocks for decoding.
type fileConfig struct {
	Race     *RaceSettings   `hcl:"race,block"`
	Roster   *RosterSettings `hcl:"roster,block"`
	Entrants []EntrantConfig `hcl:"entrant,block"`
}

// Default returns the classic four-horse race over 50 cells with a one
// second tick.
func Default() *Config {
	return &Config{
		Race: RaceSettings{
			TrackLength:  50,
			TickInterval: "1s",
			Glyphs:       GlyphsEmoji,
		},
		Roster: RosterSettings{
			Backend: BackendFile,
			Path:    "roster.json",
		},
		Entrants: []EntrantConfig{
			{Name: "Clydesdale", Speed: 5},
			{Name: "Shetland Pony", Speed: 5},
			{Name: "Shire", Speed: 5},
			{Name: "Thoroughbred", Speed: 5},
		},
	}
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := Default()
	if raw.Race != nil {
		if raw.Race.TrackLength != 0 {
			cfg.Race.TrackLength = raw.Race.TrackLength
		}
		if raw.Race.TickInterval != "" {
			cfg.Race.TickInterval = raw.Race.TickInterval
		}
		if raw.Race.Glyphs != "" {
			cfg.Race.Glyphs = raw.Race.Glyphs
		}
		cfg.Race.Seed = raw.Race.Seed
	}
	if raw.Roster != nil {
		if raw.Roster.Backend != "" {
			cfg.Roster.Backend = raw.Roster.Backend
		}
		if raw.Roster.Path != "" {
			cfg.Roster.Path = raw.Roster.Path
		} else if cfg.Roster.Backend == BackendBadger {
			cfg.Roster.Path = "roster.db"
		}
	}
	if len(raw.Entrants) > 0 {
		cfg.Entrants = raw.Entrants
		for i := range cfg.Entrants {
			if cfg.Entrants[i].Speed == 0 {
				cfg.Entrants[i].Speed = 5
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values a race cannot start with.
func (c *Config) Validate() error {
	if c.Race.TrackLength <= 0 {
		return &race.ConfigurationError{
			Field:  "track_length",
			Reason: fmt.Sprintf("must be positive, got %d", c.Race.TrackLength),
		}
	}
	interval, err := time.ParseDuration(c.Race.TickInterval)
	if err != nil {
		return &race.ConfigurationError{Field: "tick_interval", Reason: err.Error()}
	}
	if interval < 0 {
		return &race.ConfigurationError{Field: "tick_interval", Reason: "must not be negative"}
	}

	switch c.Race.Glyphs {
	case GlyphsEmoji, GlyphsASCII:
	default:
		return &race.ConfigurationError{
			Field:  "glyphs",
			Reason: fmt.Sprintf("unknown glyph set %q", c.Race.Glyphs),
		}
	}

	switch c.Roster.Backend {
	case BackendFile, BackendBadger:
	default:
		return &race.ConfigurationError{
			Field:  "roster.backend",
			Reason: fmt.Sprintf("unknown backend %q", c.Roster.Backend),
		}
	}
	if c.Roster.Path == "" {
		return &race.ConfigurationError{Field: "roster.path", Reason: "is required"}
	}

	if len(c.Entrants) == 0 {
		return &race.ConfigurationError{Field: "entrant", Reason: "at least one entrant must be configured"}
	}
	seen := make(map[string]bool)
	for _, e := range c.Entrants {
		if e.Speed <= 0 {
			return &race.ConfigurationError{
				Field:  fmt.Sprintf("entrant %q speed", e.Name),
				Reason: fmt.Sprintf("must be positive, got %d", e.Speed),
			}
		}
		if seen[e.Name] {
			return &race.ConfigurationError{
				Field:  fmt.Sprintf("entrant %q", e.Name),
				Reason: "declared more than once",
			}
		}
		seen[e.Name] = true
	}
	return nil
}

// Interval returns the parsed tick interval. Call Validate first.
func (c *Config) Interval() time.Duration {
	d, _ := time.ParseDuration(c.Race.TickInterval)
	return d
}

// RosterEntrants builds fresh entrants from the configured roster.
func (c *Config) RosterEntrants() []*race.Entrant {
	entrants := make([]*race.Entrant, len(c.Entrants))
	for i, e := range c.Entrants {
		entrants[i] = race.NewEntrant(e.Name, e.Speed)
	}
	return entrants
}
