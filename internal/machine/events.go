package machine

import (
	"fmt"

	"github.com/san-kum/lifechart/internal/grid"
)

// Event is anything that can be dispatched into the machine.
type Event interface {
	Name() string
}

type (
	Init struct{}
	// RandomizeClicked redraws the board and returns to the last rendered
	// leaf. While playing, re-entering the step leaf advances the new board
	// once, so observers see generation 1 of it rather than the raw draw.
	RandomizeClicked struct{}
	StartClicked     struct{}
	StopClicked      struct{}
	Tick             struct{}
	// StepClicked advances a single generation while paused.
	StepClicked struct{}
)

type RowsChanged struct{ N int }
type ColsChanged struct{ N int }
type SpeedChanged struct{ Speed float64 }

// CellClicked toggles one cell directly, bypassing the rule machine.
type CellClicked struct{ Row, Col int }

// PatternLoaded replaces the grid with pattern centred on a blank board of
// the current size.
type PatternLoaded struct{ Pattern *grid.Grid }

func (Init) Name() string             { return "Init" }
func (RandomizeClicked) Name() string { return "RandomizeClicked" }
func (StartClicked) Name() string     { return "StartClicked" }
func (StopClicked) Name() string      { return "StopClicked" }
func (Tick) Name() string             { return "Tick" }
func (StepClicked) Name() string      { return "StepClicked" }
func (RowsChanged) Name() string      { return "RowsChanged" }
func (ColsChanged) Name() string      { return "ColsChanged" }
func (SpeedChanged) Name() string     { return "SpeedChanged" }
func (CellClicked) Name() string      { return "CellClicked" }
func (PatternLoaded) Name() string    { return "PatternLoaded" }

func (e RowsChanged) String() string  { return fmt.Sprintf("RowsChanged(%d)", e.N) }
func (e ColsChanged) String() string  { return fmt.Sprintf("ColsChanged(%d)", e.N) }
func (e SpeedChanged) String() string { return fmt.Sprintf("SpeedChanged(%g)", e.Speed) }
func (e CellClicked) String() string  { return fmt.Sprintf("CellClicked(%d,%d)", e.Row, e.Col) }
