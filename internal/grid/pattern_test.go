package grid

import (
	"errors"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	g, err := Parse("!Name: Blinker\n...\nOOO\n...\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if g.Rows() != 3 || g.Cols() != 3 {
		t.Fatalf("got %dx%d, want 3x3", g.Rows(), g.Cols())
	}
	if g.Population() != 3 {
		t.Errorf("population = %d, want 3", g.Population())
	}
	if g.String() != "...\nOOO\n...\n" {
		t.Errorf("String() = %q", g.String())
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{"empty", "", ErrEmptyPattern},
		{"comments only", "!just a comment\n", ErrEmptyPattern},
		{"ragged", "OO.\nO\n", ErrRaggedPattern},
		{"bad char", "OX.\n", ErrBadCell},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse(%q) error = %v, want %v", tt.text, err, tt.want)
			}
		})
	}
}

func TestParse_LongRow(t *testing.T) {
	row := strings.Repeat(".", 100_000) + "O"
	g, err := Parse(row + "\n" + strings.Repeat(".", len(row)) + "\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if g.Rows() != 2 || g.Cols() != len(row) {
		t.Fatalf("got %dx%d, want 2x%d", g.Rows(), g.Cols(), len(row))
	}
	if g.Population() != 1 {
		t.Errorf("expected one live cell, got %d", g.Population())
	}
}

func TestPlace_Wraps(t *testing.T) {
	p, err := Parse("OO\nOO\n")
	if err != nil {
		t.Fatal(err)
	}
	g := New(6, 6)
	Place(g, p, 5, 5)
	assertAlive(t, g, [2]int{5, 5}, [2]int{5, 0}, [2]int{0, 5}, [2]int{0, 0})
}

func TestCentered(t *testing.T) {
	p, err := Parse("OOO\n")
	if err != nil {
		t.Fatal(err)
	}
	g := New(10, 10)
	Centered(g, p)
	assertAlive(t, g, [2]int{4, 3}, [2]int{4, 4}, [2]int{4, 5})
}
