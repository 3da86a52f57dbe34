// Package survey deals many random boards in parallel and measures how many
// can be solved and how many presses the solutions take.
package survey

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"

	"github.com/san-kum/lightsout/internal/board"
	"github.com/san-kum/lightsout/internal/config"
	"github.com/san-kum/lightsout/internal/solver"
	"golang.org/x/sync/errgroup"
)

type Outcome struct {
	Seed     int64
	Lit      int
	Solvable bool
	Presses  int
}

type Summary struct {
	Games       int
	Solvable    int
	MeanPresses float64
	MaxPresses  int
	// PressCounts[n] is how many solvable boards needed exactly n presses.
	PressCounts []int
}

func (s Summary) SolvableFraction() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Solvable) / float64(s.Games)
}

type Ensemble struct {
	cfg       config.Config
	numRuns   int
	seedStart int64
	workers   int
	solve     func(board.Grid) ([]board.Coord, error)
}

func NewEnsemble(cfg config.Config, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{
		cfg:       cfg,
		numRuns:   numRuns,
		seedStart: seedStart,
		workers:   runtime.NumCPU(),
		solve:     solver.Solve,
	}
}

func (e *Ensemble) WithWorkers(n int) *Ensemble {
	if n > 0 {
		e.workers = n
	}
	return e
}

// Run deals board i from seed seedStart+i, so results do not depend on the
// worker count.
func (e *Ensemble) Run(ctx context.Context) ([]Outcome, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}

	results := make([]Outcome, e.numRuns)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := 0; i < e.numRuns; i++ {
		if gctx.Err() != nil {
			break
		}
		idx := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := e.deal(e.seedStart + int64(idx))
			if err != nil {
				return err
			}
			results[idx] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Ensemble) deal(seed int64) (Outcome, error) {
	g, err := board.New(e.cfg.Height, e.cfg.Width, e.cfg.InitialOnProbability, rand.New(rand.NewSource(seed)))
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{Seed: seed, Lit: g.LitCount()}
	presses, err := e.solve(g)
	if errors.Is(err, solver.ErrUnsolvable) {
		return out, nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("seed %d: %w", seed, err)
	}
	out.Solvable = true
	out.Presses = len(presses)
	return out, nil
}

func Summarize(outcomes []Outcome) Summary {
	s := Summary{Games: len(outcomes)}
	total := 0
	for _, o := range outcomes {
		if !o.Solvable {
			continue
		}
		s.Solvable++
		total += o.Presses
		if o.Presses > s.MaxPresses {
			s.MaxPresses = o.Presses
		}
	}
	if s.Solvable > 0 {
		s.MeanPresses = float64(total) / float64(s.Solvable)
	}
	s.PressCounts = make([]int, s.MaxPresses+1)
	for _, o := range outcomes {
		if o.Solvable {
			s.PressCounts[o.Presses]++
		}
	}
	return s
}
