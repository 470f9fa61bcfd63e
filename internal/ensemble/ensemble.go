// Package ensemble runs many random boards side by side, one seed per run.
package ensemble

import (
	"context"
	"errors"
	"runtime"

	"github.com/san-kum/lifechart/internal/grid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoRuns        = errors.New("ensemble: no runs requested")
	ErrNoGenerations = errors.New("ensemble: generations must not be negative")
)

type Config struct {
	Rows        int
	Cols        int
	Density     float64
	Generations int
	Runs        int
	SeedStart   int64
	// Parallel bounds concurrent runs; zero means GOMAXPROCS.
	Parallel int
}

// Result summarises one run. Settled is the generation at which the board
// became a still life or period-2 oscillator, or -1 if it never did.
type Result struct {
	Seed        int64
	Initial     int
	Final       int
	Peak        int
	Settled     int
	Period      int
	Populations []int
}

// Run evaluates every seed in [SeedStart, SeedStart+Runs). Results are in
// seed order regardless of completion order.
func Run(ctx context.Context, cfg Config) ([]Result, error) {
	if cfg.Runs <= 0 {
		return nil, ErrNoRuns
	}
	if cfg.Generations < 0 {
		return nil, ErrNoGenerations
	}
	limit := cfg.Parallel
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, cfg.Runs)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := 0; i < cfg.Runs; i++ {
		seed := cfg.SeedStart + int64(i)
		g.Go(func() error {
			res, err := runOne(ctx, cfg, seed)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runOne(ctx context.Context, cfg Config, seed int64) (Result, error) {
	board := grid.Randomize(grid.New(cfg.Rows, cfg.Cols), grid.NewRNG(seed), cfg.Density)
	res := Result{
		Seed:        seed,
		Initial:     board.Population(),
		Peak:        board.Population(),
		Settled:     -1,
		Populations: make([]int, 0, cfg.Generations+1),
	}
	res.Populations = append(res.Populations, res.Initial)

	var prev *grid.Grid
	for gen := 1; gen <= cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		next := grid.Step(board)
		pop := next.Population()
		res.Populations = append(res.Populations, pop)
		if pop > res.Peak {
			res.Peak = pop
		}
		if res.Settled < 0 {
			switch {
			case next.Equal(board):
				res.Settled, res.Period = gen-1, 1
			case prev != nil && next.Equal(prev):
				res.Settled, res.Period = gen-2, 2
			}
		}
		prev, board = board, next
	}
	res.Final = board.Population()
	return res, nil
}
