package race

// OutcomeKind classifies how a race was decided.
type OutcomeKind int

const (
	// SoleWinner means exactly one entrant crossed the line.
	SoleWinner OutcomeKind = iota
	// DeadHeat means several entrants share the leading position and all win.
	DeadHeat
	// PhotoFinish means several entrants finished at different positions and
	// the furthest one wins.
	PhotoFinish
)

func (k OutcomeKind) String() string {
	switch k {
	case SoleWinner:
		return "sole_winner"
	case DeadHeat:
		return "dead_heat"
	case PhotoFinish:
		return "photo_finish"
	default:
		return "unknown"
	}
}

// Outcome is the resolved result of a complete race.
type Outcome struct {
	Kind    OutcomeKind
	Winners []*Entrant
}

// WinnerNames returns the winners' names in roster order.
func (o Outcome) WinnerNames() []string {
	names := make([]string, len(o.Winners))
	for i, w := range o.Winners {
		names[i] = w.Name
	}
	return names
}

// ResolveOutcome decides the winners of a complete race. It returns false
// while the race is still running.
func (r *Race) ResolveOutcome() (Outcome, bool) {
	if !r.complete {
		return Outcome{}, false
	}

	finishers := r.Finishers()
	if len(finishers) == 1 {
		return Outcome{Kind: SoleWinner, Winners: finishers}, true
	}

	if leaders := r.Leaders(); len(leaders) > 1 {
		return Outcome{Kind: DeadHeat, Winners: leaders}, true
	}

	// Finishers overshot the line by different amounts; first furthest wins.
	best := finishers[0]
	for _, f := range finishers[1:] {
		if f.Position > best.Position {
			best = f
		}
	}
	return Outcome{Kind: PhotoFinish, Winners: []*Entrant{best}}, true
}
