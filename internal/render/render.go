// Package render draws race state as plain text.
//
// Each entrant gets one line. The finish flag sits at the left edge and the
// start at the right, next to the entrant's name, so runners travel leftward
// toward the flag:
//
//	🏁----------------------------------🏇--------------- Clydesdale
//	🏇🏁-------------------------------------------------- Shire
//
// The second line shows an overshoot: the runner is drawn just past the flag.
package render

import (
	"strings"

	"github.com/lox/derby/internal/race"
)

// Glyphs are the symbols used to draw a track.
type Glyphs struct {
	Runner string
	Finish string
	Track  string
}

// DefaultGlyphs match the classic terminal race.
var DefaultGlyphs = Glyphs{
	Runner: "🏇",
	Finish: "🏁",
	Track:  "-",
}

// ASCIIGlyphs avoid emoji for terminals and fonts that cannot show them.
var ASCIIGlyphs = Glyphs{
	Runner: "H",
	Finish: "|",
	Track:  "-",
}

// Renderer turns a race into text. The zero value uses DefaultGlyphs.
type Renderer struct {
	Glyphs Glyphs
}

var defaultRenderer = Renderer{Glyphs: DefaultGlyphs}

// Render draws the race with DefaultGlyphs.
func Render(r *race.Race) string {
	return defaultRenderer.Render(r)
}

// Frame draws the race with DefaultGlyphs and appends an outcome annotation.
func Frame(r *race.Race, outcome string) string {
	return defaultRenderer.Frame(r, outcome)
}

// Render draws one line per entrant in roster order.
func (rd Renderer) Render(r *race.Race) string {
	g := rd.glyphs()
	lines := make([]string, 0, len(r.Entrants()))
	for _, e := range r.Entrants() {
		lines = append(lines, line(g, e, r.TrackLength()))
	}
	return strings.Join(lines, "\n")
}

// Frame draws the race followed by a blank line and the outcome text. An
// empty outcome yields the plain rendering.
func (rd Renderer) Frame(r *race.Race, outcome string) string {
	board := rd.Render(r)
	if outcome == "" {
		return board
	}
	return board + "\n\n" + outcome
}

func (rd Renderer) glyphs() Glyphs {
	g := rd.Glyphs
	if g.Runner == "" {
		g.Runner = DefaultGlyphs.Runner
	}
	if g.Finish == "" {
		g.Finish = DefaultGlyphs.Finish
	}
	if g.Track == "" {
		g.Track = DefaultGlyphs.Track
	}
	return g
}

func line(g Glyphs, e *race.Entrant, trackLength int) string {
	var b strings.Builder
	if e.Position >= trackLength {
		b.WriteString(g.Runner)
	}
	b.WriteString(g.Finish)
	for cell := trackLength - 1; cell >= 0; cell-- {
		if cell == e.Position {
			b.WriteString(g.Runner)
		} else {
			b.WriteString(g.Track)
		}
	}
	b.WriteByte(' ')
	b.WriteString(e.Name)
	return b.String()
}
