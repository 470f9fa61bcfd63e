package grid

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/lifechart/internal/cell"
)

var (
	ErrEmptyPattern  = errors.New("grid: empty pattern")
	ErrRaggedPattern = errors.New("grid: pattern rows differ in length")
	ErrBadCell       = errors.New("grid: unknown cell character")
)

// Parse reads the plaintext format: 'O' or '*' for alive, '.' for dead,
// lines starting with '!' are comments. Short rows are an error.
func Parse(text string) (*Grid, error) {
	lines := make([]string, 0)
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), len(text)+1)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r")
		if strings.HasPrefix(line, "!") || line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("grid: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyPattern
	}

	cols := len(lines[0])
	g := New(len(lines), cols)
	for r, line := range lines {
		if len(line) != cols {
			return nil, fmt.Errorf("row %d: %w", r+1, ErrRaggedPattern)
		}
		for c, ch := range line {
			switch ch {
			case 'O', 'o', '*', '#':
				g.cells[r][c] = cell.Alive
			case '.', '_':
			default:
				return nil, fmt.Errorf("row %d col %d %q: %w", r+1, c+1, ch, ErrBadCell)
			}
		}
	}
	return g, nil
}

// String formats the grid in the plaintext format accepted by Parse.
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow(g.rows * (g.cols + 1))
	for _, row := range g.cells {
		for _, s := range row {
			if s == cell.Alive {
				b.WriteByte('O')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Place stamps the alive cells of pattern onto dst with its top-left corner
// at (r, c), wrapping around the edges.
func Place(dst, pattern *Grid, r, c int) {
	if dst.rows == 0 || dst.cols == 0 {
		return
	}
	for pr, row := range pattern.cells {
		for pc, s := range row {
			if s != cell.Alive {
				continue
			}
			rr := ((r+pr)%dst.rows + dst.rows) % dst.rows
			cc := ((c+pc)%dst.cols + dst.cols) % dst.cols
			dst.cells[rr][cc] = cell.Alive
		}
	}
}

// Centered places pattern in the middle of dst.
func Centered(dst, pattern *Grid) {
	Place(dst, pattern, (dst.rows-pattern.rows)/2, (dst.cols-pattern.cols)/2)
}
