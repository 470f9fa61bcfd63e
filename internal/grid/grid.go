// Package grid holds the Game of Life board and the generation stepper.
//
// A [Grid] is a dense rows x cols matrix of [cell.State]. Edges wrap
// toroidally, so every cell has exactly eight neighbours. [Step] computes the
// next generation from a frozen copy of the current one and never mutates its
// input.
package grid

import (
	"github.com/san-kum/lifechart/internal/cell"
)

type Grid struct {
	rows, cols int
	cells      [][]cell.State
}

// New returns an all-dead grid.
func New(rows, cols int) *Grid {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	cells := make([][]cell.State, rows)
	for r := range cells {
		cells[r] = make([]cell.State, cols)
	}
	return &Grid{rows: rows, cols: cols, cells: cells}
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

func (g *Grid) At(r, c int) cell.State { return g.cells[r][c] }

func (g *Grid) Set(r, c int, s cell.State) { g.cells[r][c] = s }

// Toggle flips a single cell in place. Out of range positions are ignored.
func (g *Grid) Toggle(r, c int) {
	if !g.InBounds(r, c) {
		return
	}
	g.cells[r][c] = cell.Toggle(g.cells[r][c])
}

func (g *Grid) InBounds(r, c int) bool {
	return r >= 0 && r < g.rows && c >= 0 && c < g.cols
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := New(g.rows, g.cols)
	for r := range g.cells {
		copy(c.cells[r], g.cells[r])
	}
	return c
}

// Population counts alive cells.
func (g *Grid) Population() int {
	n := 0
	for _, row := range g.cells {
		for _, s := range row {
			if s == cell.Alive {
				n++
			}
		}
	}
	return n
}

func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.rows != other.rows || g.cols != other.cols {
		return false
	}
	for r := range g.cells {
		for c := range g.cells[r] {
			if g.cells[r][c] != other.cells[r][c] {
				return false
			}
		}
	}
	return true
}

// Alive lists the coordinates of alive cells in row-major order.
func (g *Grid) Alive() [][2]int {
	out := make([][2]int, 0)
	for r, row := range g.cells {
		for c, s := range row {
			if s == cell.Alive {
				out = append(out, [2]int{r, c})
			}
		}
	}
	return out
}
