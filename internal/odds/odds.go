// Package odds estimates each entrant's chance of winning by running many
// independent races in parallel.
package odds

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/lox/derby/internal/race"
	"github.com/lox/derby/internal/randutil"
)

// Config controls a Monte Carlo run.
type Config struct {
	TrackLength int
	Samples     int
	Workers     int // 0 means one per CPU, capped at 8
	Seed        int64
}

// Line is one entrant's estimated result.
type Line struct {
	Name      string
	Speed     int
	Wins      int     // races won outright
	DeadHeats int     // races shared with other winners
	Share     float64 // win probability, dead heats split evenly
}

// Estimate is the aggregated result, in roster order.
type Estimate struct {
	Samples int
	Lines   []Line
}

// workerResult holds the tallies from one worker.
type workerResult struct {
	wins      []int
	deadHeats []int
	share     []float64
}

// Run simulates cfg.Samples races over the given entrants. The entrants are
// not modified; each race uses fresh copies. A fixed seed gives the same
// estimate regardless of scheduling.
func Run(ctx context.Context, entrants []*race.Entrant, cfg Config) (*Estimate, error) {
	if cfg.Samples <= 0 {
		return nil, fmt.Errorf("samples must be positive, got %d", cfg.Samples)
	}
	if len(entrants) == 0 {
		return nil, &race.ConfigurationError{Field: "entrants", Reason: "roster is empty"}
	}
	// Validate once up front so workers never see a configuration error.
	if _, err := race.New(cloneAll(entrants), cfg.TrackLength, randutil.New(cfg.Seed)); err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers > 8 {
			workers = 8
		}
	}
	if workers > cfg.Samples {
		workers = cfg.Samples
	}

	perWorker := cfg.Samples / workers
	remainder := cfg.Samples % workers
	seeds := randutil.Derive(cfg.Seed, workers)
	results := make([]workerResult, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		samples := perWorker
		if w < remainder {
			samples++
		}
		g.Go(func() error {
			res, err := runWorker(ctx, entrants, cfg.TrackLength, samples, seeds[w])
			if err != nil {
				return err
			}
			results[w] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	est := &Estimate{Samples: cfg.Samples, Lines: make([]Line, len(entrants))}
	for i, e := range entrants {
		est.Lines[i] = Line{Name: e.Name, Speed: e.Speed}
	}
	for _, res := range results {
		for i := range est.Lines {
			est.Lines[i].Wins += res.wins[i]
			est.Lines[i].DeadHeats += res.deadHeats[i]
			est.Lines[i].Share += res.share[i]
		}
	}
	for i := range est.Lines {
		est.Lines[i].Share /= float64(cfg.Samples)
	}
	return est, nil
}

// runWorker races its own copies of the roster with its own generator.
func runWorker(ctx context.Context, entrants []*race.Entrant, trackLength, samples int, seed int64) (workerResult, error) {
	res := workerResult{
		wins:      make([]int, len(entrants)),
		deadHeats: make([]int, len(entrants)),
		share:     make([]float64, len(entrants)),
	}

	field := cloneAll(entrants)
	index := make(map[*race.Entrant]int, len(field))
	for i, e := range field {
		e.Position, e.Finisher = 0, false
		index[e] = i
	}

	r, err := race.New(field, trackLength, randutil.New(seed))
	if err != nil {
		return res, err
	}

	for s := 0; s < samples; s++ {
		if s%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}

		for !r.IsComplete() {
			r.ApplyTick()
		}
		outcome, _ := r.ResolveOutcome()
		credit := 1 / float64(len(outcome.Winners))
		for _, w := range outcome.Winners {
			i := index[w]
			if outcome.Kind == race.DeadHeat {
				res.deadHeats[i]++
			} else {
				res.wins[i]++
			}
			res.share[i] += credit
		}
		r.ResetPositions()
	}
	return res, nil
}

func cloneAll(entrants []*race.Entrant) []*race.Entrant {
	out := make([]*race.Entrant, len(entrants))
	for i, e := range entrants {
		out[i] = e.Clone()
	}
	return out
}
