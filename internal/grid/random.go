package grid

import (
	"math/rand/v2"

	"github.com/san-kum/lifechart/internal/cell"
)

// NewRNG creates a deterministic RNG for the given seed.
func NewRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

// Randomize returns a grid of the same size where each cell is alive with
// probability density.
func Randomize(g *Grid, rng *rand.Rand, density float64) *Grid {
	out := New(g.rows, g.cols)
	for r := range out.cells {
		for c := range out.cells[r] {
			if rng.Float64() < density {
				out.cells[r][c] = cell.Alive
			}
		}
	}
	return out
}
