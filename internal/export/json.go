package export

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/san-kum/lifechart/internal/grid"
)

type ExportData struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Rows        int      `json:"rows"`
	Cols        int      `json:"cols"`
	Speed       float64  `json:"speed"`
	Generation  int      `json:"generation"`
	Population  int      `json:"population"`
	Alive       [][2]int `json:"alive"`
	Cells       []string `json:"cells"`
	Generations []int    `json:"generations"`
	Populations []int    `json:"populations"`
}

// NewExportData flattens a grid and its population history.
func NewExportData(id, name string, speed float64, generation int, g *grid.Grid, gens, pops []int) ExportData {
	data := ExportData{
		ID:          id,
		Name:        name,
		Speed:       speed,
		Generation:  generation,
		Generations: gens,
		Populations: pops,
		Alive:       [][2]int{},
		Cells:       []string{},
	}
	if g != nil {
		data.Rows, data.Cols = g.Rows(), g.Cols()
		data.Population = g.Population()
		data.Alive = g.Alive()
		if g.Rows() > 0 {
			data.Cells = strings.Split(strings.TrimSuffix(g.String(), "\n"), "\n")
		}
	}
	return data
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}
