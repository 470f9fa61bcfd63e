package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	boardStyle = lipgloss.NewStyle().Padding(1, 2)

	statsStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(statsWidth)

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	flashStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Italic(true)
)

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Accent)
}

func statusStyle(playing bool) lipgloss.Style {
	c := CurrentTheme.Paused
	if playing {
		c = CurrentTheme.Running
	}
	return lipgloss.NewStyle().Bold(true).Foreground(c)
}

func cellStyle(alive, cursor bool) lipgloss.Style {
	var c lipgloss.Color
	switch {
	case alive && cursor:
		c = CurrentTheme.AliveCursor
	case alive:
		c = CurrentTheme.Alive
	case cursor:
		c = CurrentTheme.DeadCursor
	default:
		c = CurrentTheme.Dead
	}
	return lipgloss.NewStyle().Foreground(c)
}

// speedBar renders speed within [lo, hi] as a slider.
func speedBar(speed, lo, hi float64, width int) string {
	ratio := (speed - lo) / (hi - lo)
	if ratio > 1 {
		ratio = 1
	} else if ratio < 0 {
		ratio = 0
	}
	filled := int(ratio * float64(width))
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}
