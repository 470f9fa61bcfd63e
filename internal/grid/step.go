package grid

import (
	"context"

	"github.com/san-kum/lifechart/internal/cell"
	"golang.org/x/sync/errgroup"
)

// Step returns the next generation. The input grid is left untouched.
func Step(g *Grid) *Grid {
	snapshot := g.Clone()
	next := New(g.rows, g.cols)
	stepRows(snapshot, next, 0, g.rows)
	return next
}

// StepParallel computes the same generation as Step with the rows split into
// bands, one goroutine per band.
func StepParallel(ctx context.Context, g *Grid, workers int) (*Grid, error) {
	if workers <= 1 || g.rows < 2*workers {
		return Step(g), nil
	}

	snapshot := g.Clone()
	next := New(g.rows, g.cols)

	eg, ctx := errgroup.WithContext(ctx)
	band := (g.rows + workers - 1) / workers
	for start := 0; start < g.rows; start += band {
		start, end := start, min(start+band, g.rows)
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			stepRows(snapshot, next, start, end)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return next, nil
}

// stepRows writes rows [start, end) of dst; src must not be written concurrently.
func stepRows(src, dst *Grid, start, end int) {
	for r := start; r < end; r++ {
		for c := 0; c < src.cols; c++ {
			dst.cells[r][c] = cell.Tick(src.cells[r][c], src.LiveNeighbors(r, c))
		}
	}
}
