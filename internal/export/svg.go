package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/lifechart/internal/cell"
	"github.com/san-kum/lifechart/internal/grid"
)

type SVGStyle struct {
	CellSize   float64
	Gap        float64
	Background string
	Alive      string
	Dead       string
}

// DefaultSVGStyle uses the green on grey palette of the board view.
func DefaultSVGStyle() SVGStyle {
	return SVGStyle{
		CellSize:   12,
		Gap:        2,
		Background: "#ffffff",
		Alive:      "#008000",
		Dead:       "#a2a2a2",
	}
}

// GridToSVG renders every cell as a rounded square.
func GridToSVG(g *grid.Grid, style SVGStyle) string {
	if g == nil {
		return ""
	}
	pitch := style.CellSize + style.Gap
	width := float64(g.Cols())*pitch + style.Gap
	height := float64(g.Rows())*pitch + style.Gap

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, style.Background))

	radius := style.CellSize / 4
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			fill := style.Dead
			if g.At(r, c) == cell.Alive {
				fill = style.Alive
			}
			x := style.Gap + float64(c)*pitch
			y := style.Gap + float64(r)*pitch
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s"/>
`, x, y, style.CellSize, style.CellSize, radius, fill))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// PopulationToSVG draws population against generation as a polyline.
func PopulationToSVG(populations []int, width, height int, strokeColor string) string {
	if len(populations) < 2 {
		return ""
	}

	maxPop := populations[0]
	minPop := populations[0]
	for _, p := range populations {
		if p > maxPop {
			maxPop = p
		}
		if p < minPop {
			minPop = p
		}
	}
	rangeY := float64(maxPop - minPop)
	if rangeY == 0 {
		rangeY = 1
	}
	lo := float64(minPop) - rangeY*0.1
	rangeY *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	n := float64(len(populations) - 1)
	for i, p := range populations {
		x := float64(i) / n * float64(width)
		y := float64(height) - (float64(p)-lo)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
