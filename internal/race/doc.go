// Package race implements the rules engine for a discrete-time horse race.
//
// The main type is Race, which owns an ordered roster of entrants and a fixed
// track length. Each call to ApplyTick advances every unfinished entrant by a
// uniformly random amount in [1, Speed]; the race completes on the tick where
// at least one entrant reaches the finish line.
//
// # Basic Usage
//
//	entrants := []*race.Entrant{
//	    race.NewEntrant("Clydesdale", 5),
//	    race.NewEntrant("Shire", 5),
//	}
//	r, err := race.New(entrants, 50, randutil.New(42))
//	for !r.IsComplete() {
//	    r.ApplyTick()
//	}
//	outcome, _ := r.ResolveOutcome()
//	r.RecordWin(outcome.Winners)
//	r.ResetPositions()
//
// # Deterministic Testing
//
// The random source is injected at construction. Anything with an IntN method
// works, so tests can script exact advancements:
//
//	r, _ := race.New(entrants, 50, scriptedRand{4, 4})
//
// # Outcomes
//
// ResolveOutcome classifies a finished race in this order:
//   - SoleWinner: exactly one entrant crossed the line
//   - DeadHeat: more than one entrant shares the leading position
//   - PhotoFinish: several finishers at different positions, the furthest wins
package race
