package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/lifechart/internal/cell"
	"github.com/san-kum/lifechart/internal/config"
	"github.com/san-kum/lifechart/internal/grid"
	"github.com/san-kum/lifechart/internal/machine"
	"github.com/san-kum/lifechart/internal/storage"
)

const (
	statsWidth  = 45
	frameBuffer = 64

	// board origin on screen: padding plus title and blank line
	boardTop  = 3
	boardLeft = 2
	cellWidth = 2
)

// Options configures an interactive session.
type Options struct {
	Store     *storage.Store
	Name      string
	Seed      int64
	Pattern   *grid.Grid
	Randomize bool
	Theme     string
}

type frameMsg machine.Snapshot

// Model renders machine snapshots and turns keys and clicks into events.
type Model struct {
	mach   *machine.Machine
	opts   Options
	frames chan machine.Snapshot

	snap          machine.Snapshot
	curRow        int
	curCol        int
	width, height int
	showHelp      bool
	flash         string
}

// NewModel subscribes to mach. Snapshots pushed by the machine are buffered;
// when the buffer is full the oldest frame is dropped.
func NewModel(mach *machine.Machine, opts Options) *Model {
	frames := make(chan machine.Snapshot, frameBuffer)
	mach.OnChange(func(s machine.Snapshot) {
		for {
			select {
			case frames <- s:
				return
			default:
			}
			select {
			case <-frames:
			default:
			}
		}
	})
	return &Model{
		mach:   mach,
		opts:   opts,
		frames: frames,
		snap:   mach.Snapshot(),
	}
}

func waitFrame(frames <-chan machine.Snapshot) tea.Cmd {
	return func() tea.Msg { return frameMsg(<-frames) }
}

func (m Model) Init() tea.Cmd {
	return waitFrame(m.frames)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if msg.Seq > m.snap.Seq {
			m.snap = machine.Snapshot(msg)
			m.clampCursor()
		}
		return m, waitFrame(m.frames)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft || m.braille() {
			return m, nil
		}
		if r, c, ok := m.cellAt(msg.X, msg.Y); ok {
			m.curRow, m.curCol = r, c
			m.dispatch(machine.CellClicked{Row: r, Col: c})
		}

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case "t":
			NextTheme()
			return m, nil
		case "s":
			m.save()
			return m, nil
		case "up", "k":
			m.moveCursor(-1, 0)
			return m, nil
		case "down", "j":
			m.moveCursor(1, 0)
			return m, nil
		case "left", "h":
			m.moveCursor(0, -1)
			return m, nil
		case "right", "l":
			m.moveCursor(0, 1)
			return m, nil
		}
		if ev := keyEvent(key, m.snap, m.curRow, m.curCol); ev != nil {
			m.dispatch(ev)
		}
	}
	return m, nil
}

// keyEvent maps a key to the machine event it stands for, or nil.
func keyEvent(key string, snap machine.Snapshot, row, col int) machine.Event {
	switch key {
	case " ", "space":
		if snap.Mode == machine.Playing {
			return machine.StopClicked{}
		}
		return machine.StartClicked{}
	case "r":
		return machine.RandomizeClicked{}
	case "n":
		return machine.StepClicked{}
	case "enter":
		return machine.CellClicked{Row: row, Col: col}
	case "+", "=":
		return machine.SpeedChanged{Speed: config.ClampSpeed(snap.Speed + config.SpeedStep)}
	case "-", "_":
		return machine.SpeedChanged{Speed: config.ClampSpeed(snap.Speed - config.SpeedStep)}
	case "]":
		return machine.RowsChanged{N: config.ClampDimension(snap.Rows + 1)}
	case "[":
		return machine.RowsChanged{N: config.ClampDimension(snap.Rows - 1)}
	case "}":
		return machine.ColsChanged{N: config.ClampDimension(snap.Cols + 1)}
	case "{":
		return machine.ColsChanged{N: config.ClampDimension(snap.Cols - 1)}
	}
	return nil
}

func (m *Model) dispatch(ev machine.Event) {
	if m.mach.Dispatch(ev) {
		m.snap = m.mach.Snapshot()
		m.clampCursor()
	}
	m.flash = ""
}

func (m *Model) save() {
	if m.opts.Store == nil {
		m.flash = "no data directory"
		return
	}
	name := m.opts.Name
	if name == "" {
		name = "session"
	}
	id, err := m.opts.Store.Save(name, m.opts.Seed, m.mach.Snapshot())
	if err != nil {
		m.flash = "save failed: " + err.Error()
		return
	}
	m.flash = "saved " + id
}

func (m *Model) moveCursor(dr, dc int) {
	if m.snap.Rows == 0 || m.snap.Cols == 0 {
		return
	}
	m.curRow = grid.Wrap(m.curRow+dr, m.snap.Rows)
	m.curCol = grid.Wrap(m.curCol+dc, m.snap.Cols)
}

func (m *Model) clampCursor() {
	if m.curRow >= m.snap.Rows {
		m.curRow = max(m.snap.Rows-1, 0)
	}
	if m.curCol >= m.snap.Cols {
		m.curCol = max(m.snap.Cols-1, 0)
	}
}

// cellAt maps a screen position to a board cell.
func (m Model) cellAt(x, y int) (int, int, bool) {
	if x < boardLeft || y < boardTop {
		return 0, 0, false
	}
	r, c := y-boardTop, (x-boardLeft)/cellWidth
	if r >= m.snap.Rows || c >= m.snap.Cols {
		return 0, 0, false
	}
	return r, c, true
}

// braille reports whether the board is too large for one glyph pair per cell.
func (m Model) braille() bool {
	if m.width == 0 || m.height == 0 {
		return false
	}
	return m.snap.Cols*cellWidth+boardLeft*2+statsWidth > m.width || m.snap.Rows+boardTop+1 > m.height
}

func (m Model) View() string {
	var board strings.Builder
	board.WriteString(titleStyle().Render("LIFECHART") + "\n\n")
	if m.snap.Grid == nil || m.snap.Rows == 0 {
		board.WriteString(valueStyle.Render("(not rendered)"))
	} else if m.braille() {
		board.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Alive).Render(CanvasFor(m.snap.Grid).String()))
	} else {
		board.WriteString(m.renderCells())
	}
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, boardStyle.Render(board.String()), statsStyle.Render(m.renderStats()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

func (m Model) renderCells() string {
	g := m.snap.Grid
	var b strings.Builder
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			alive := g.At(r, c) == cell.Alive
			cursor := r == m.curRow && c == m.curCol
			glyph := "░░"
			if alive {
				glyph = "██"
			}
			b.WriteString(cellStyle(alive, cursor).Render(glyph))
		}
		if r < g.Rows()-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderStats() string {
	snap := m.snap
	playing := snap.Mode == machine.Playing
	status := "PAUSED"
	if playing {
		status = "PLAYING"
	} else if !snap.Mode.Rendered() {
		status = strings.ToUpper(snap.Mode.String())
	}

	var s strings.Builder
	s.WriteString(statusStyle(playing).Render(status) + "\n\n")
	if len(snap.Populations) > 1 {
		data := make([]float64, len(snap.Populations))
		for i, p := range snap.Populations {
			data[i] = float64(p)
		}
		chart := asciigraph.Plot(data, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Population"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("State", snap.Mode.String())
	row("Generation", fmt.Sprintf("%d", snap.Generation))
	row("Population", fmt.Sprintf("%d", snap.Population))
	row("Grid", fmt.Sprintf("%d x %d", snap.Rows, snap.Cols))
	row("Speed", fmt.Sprintf("%s %.1f", speedBar(snap.Speed, config.MinSpeed, config.MaxSpeed, 10), snap.Speed))
	row("Interval", snap.Interval.String())
	row("Cursor", fmt.Sprintf("%d,%d", m.curRow, m.curCol))
	row("Theme", CurrentTheme.Name)
	if m.flash != "" {
		s.WriteString("\n" + flashStyle.Render(m.flash) + "\n")
	}
	s.WriteString(helpStyle.Render("─────────────────────\nSP:Start/Stop R:Random N:Step\n+/-:Speed S:Save ?:Help Q:Quit"))
	return s.String()
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Start/Stop               ║
║  R        - Randomize grid           ║
║  N        - Single step (paused)     ║
║  + / -    - Speed up / slow down     ║
║  [ / ]    - Fewer / more rows        ║
║  { / }    - Fewer / more columns     ║
║  Arrows   - Move cursor (hjkl)       ║
║  Enter    - Toggle cell (or click)   ║
║  S        - Save session             ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// Run starts the machine, applies the initial board and blocks until the
// user quits.
func Run(mach *machine.Machine, opts Options) error {
	if opts.Theme != "" {
		SetTheme(opts.Theme)
	}
	m := NewModel(mach, opts)
	mach.Dispatch(machine.Init{})
	if opts.Pattern != nil {
		mach.Dispatch(machine.PatternLoaded{Pattern: opts.Pattern})
	} else if opts.Randomize {
		mach.Dispatch(machine.RandomizeClicked{})
	}
	m.snap = mach.Snapshot()

	p := tea.NewProgram(*m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	mach.Close()
	if err != nil {
		return fmt.Errorf("viz: %w", err)
	}
	return nil
}
