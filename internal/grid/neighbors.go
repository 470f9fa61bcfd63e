package grid

import "github.com/san-kum/lifechart/internal/cell"

var deltas = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Wrap maps a coordinate that is at most one board length out of range back
// onto the torus.
func Wrap(v, max int) int {
	if v >= max {
		return v - max
	}
	if v < 0 {
		return max + v
	}
	return v
}

// Neighbors returns the eight wrapped neighbour positions of (r, c).
func (g *Grid) Neighbors(r, c int) [8][2]int {
	var out [8][2]int
	for i, d := range deltas {
		out[i] = [2]int{Wrap(r+d[0], g.rows), Wrap(c+d[1], g.cols)}
	}
	return out
}

func (g *Grid) LiveNeighbors(r, c int) int {
	n := 0
	for _, p := range g.Neighbors(r, c) {
		if g.cells[p[0]][p[1]] == cell.Alive {
			n++
		}
	}
	return n
}
