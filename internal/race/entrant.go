package race

// Entrant is a single runner in a race.
type Entrant struct {
	Name     string
	Speed    int // upper bound on per-tick advancement
	Position int
	Finisher bool
	Wins     int // cumulative across races
}

// NewEntrant creates an entrant at the start line with no wins.
func NewEntrant(name string, speed int) *Entrant {
	return &Entrant{Name: name, Speed: speed}
}

// Clone returns a copy of the entrant.
func (e *Entrant) Clone() *Entrant {
	c := *e
	return &c
}

// advance moves the entrant forward by steps and reports whether it has
// reached the finish line.
func (e *Entrant) advance(steps, trackLength int) bool {
	e.Position += steps
	if e.Position >= trackLength {
		e.Finisher = true
	}
	return e.Finisher
}
