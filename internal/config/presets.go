package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/san-kum/lifechart/internal/grid"
)

type Preset struct {
	Description string
	Rows, Cols  int
	// Pattern is in plaintext cells format; empty means a random board.
	Pattern string
}

var Presets = map[string]*Preset{
	"blinker": {
		Description: "period 2 oscillator",
		Rows:        10, Cols: 10,
		Pattern: "OOO\n",
	},
	"glider": {
		Description: "diagonal spaceship",
		Rows:        12, Cols: 12,
		Pattern: ".O.\n..O\nOOO\n",
	},
	"pulsar": {
		Description: "period 3 oscillator",
		Rows:        17, Cols: 17,
		Pattern: "" +
			"..OOO...OOO..\n" +
			".............\n" +
			"O....O.O....O\n" +
			"O....O.O....O\n" +
			"O....O.O....O\n" +
			"..OOO...OOO..\n" +
			".............\n" +
			"..OOO...OOO..\n" +
			"O....O.O....O\n" +
			"O....O.O....O\n" +
			"O....O.O....O\n" +
			".............\n" +
			"..OOO...OOO..\n",
	},
	"gosper": {
		Description: "gosper glider gun",
		Rows:        30, Cols: 48,
		Pattern: "" +
			"........................O...........\n" +
			"......................O.O...........\n" +
			"............OO......OO............OO\n" +
			"...........O...O....OO............OO\n" +
			"OO........O.....O...OO..............\n" +
			"OO........O...O.OO....O.O...........\n" +
			"..........O.....O.......O...........\n" +
			"...........O...O....................\n" +
			"............OO......................\n",
	},
	"random": {
		Description: "random soup at the configured density",
		Rows:        20, Cols: 20,
	},
}

func GetPreset(name string) *Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Grid parses the preset pattern. A random preset returns nil, nil.
func (p *Preset) Grid() (*grid.Grid, error) {
	if p.Pattern == "" {
		return nil, nil
	}
	return grid.Parse(p.Pattern)
}

// LoadPattern resolves ref as a preset name first and a pattern file second.
func LoadPattern(ref string) (*grid.Grid, error) {
	if p := GetPreset(ref); p != nil {
		return p.Grid()
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPattern, ref)
		}
		return nil, fmt.Errorf("config: %w", err)
	}
	g, err := grid.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("config: pattern %s: %w", ref, err)
	}
	return g, nil
}
