package machine

import (
	"github.com/san-kum/lifechart/internal/clock"
	"github.com/san-kum/lifechart/internal/grid"
)

type action func(m *Machine, ev Event)

type targetKind uint8

const (
	// toMode exits the source and enters target.
	toMode targetKind = iota
	// toHistory exits the active leaf and re-enters the last one recorded.
	toHistory
	// internal runs actions without exit or entry.
	internal
	// reenterStep exits and re-enters the playing.step leaf only.
	reenterStep
)

type transition struct {
	kind    targetKind
	target  Mode
	actions []action
}

// resolve looks up the transition for ev in the current mode.
func (m *Machine) resolve(ev Event) (transition, bool) {
	switch m.mode {
	case Unrendered:
		if _, ok := ev.(Init); ok {
			return transition{kind: toMode, target: Rendering}, true
		}
		return transition{}, false
	case Paused, Playing:
	default:
		return transition{}, false
	}

	switch ev.(type) {
	case RowsChanged:
		return transition{kind: toMode, target: Rendering, actions: []action{changeRows}}, true
	case ColsChanged:
		return transition{kind: toMode, target: Rendering, actions: []action{changeCols}}, true
	case SpeedChanged:
		return transition{kind: toHistory, actions: []action{changeSpeed}}, true
	case RandomizeClicked:
		return transition{kind: toHistory, actions: []action{randomize}}, true
	case PatternLoaded:
		return transition{kind: toHistory, actions: []action{loadPattern}}, true
	case CellClicked:
		return transition{kind: internal, actions: []action{toggleCell}}, true
	}

	switch m.mode {
	case Paused:
		switch ev.(type) {
		case StartClicked:
			return transition{kind: toMode, target: Playing}, true
		case StepClicked:
			return transition{kind: internal, actions: []action{doStep}}, true
		}
	case Playing:
		switch ev.(type) {
		case StopClicked:
			return transition{kind: toMode, target: Paused}, true
		case Tick:
			return transition{kind: reenterStep}, true
		}
	}
	return transition{}, false
}

// process runs one event to completion. Callers hold m.mu.
func (m *Machine) process(ev Event) bool {
	tr, ok := m.resolve(ev)
	if !ok {
		m.log.Debug("event ignored", "event", ev.Name(), "mode", m.mode)
		return false
	}
	from := m.mode

	switch tr.kind {
	case internal:
		m.run(tr.actions, ev)
		m.commit(from, from, ev)
		return true
	case reenterStep:
		m.enterStep()
		m.commit(from, from, ev)
		return true
	}

	m.exit(from)
	m.run(tr.actions, ev)

	target := tr.target
	if tr.kind == toHistory {
		target = m.history
	}
	if target == Rendering {
		m.log.Debug("entering", "mode", Rendering)
		renderGrid(m, ev)
		// rendering has a single immediate transition into rendered, whose
		// initial substate is paused.
		target = Paused
	}
	m.enter(target)
	m.commit(from, target, ev)
	return true
}

func (m *Machine) run(actions []action, ev Event) {
	for _, a := range actions {
		a(m, ev)
	}
}

func (m *Machine) exit(from Mode) {
	if from == Playing {
		m.clockStop()
	}
}

func (m *Machine) enter(to Mode) {
	if to == Playing {
		m.clockStart()
		m.enterStep()
	}
}

func (m *Machine) enterStep() {
	doStep(m, Tick{})
}

func (m *Machine) commit(from, to Mode, ev Event) {
	m.mode = to
	m.seq++
	if to.Rendered() {
		m.history = to
	}
	m.log.Debug("transition", "event", ev.Name(), "from", from, "to", to, "generation", m.generation)
}

func renderGrid(m *Machine, _ Event) {
	m.setBoard(grid.New(m.rows, m.cols))
}

func changeRows(m *Machine, ev Event) { m.rows = ev.(RowsChanged).N }

func changeCols(m *Machine, ev Event) { m.cols = ev.(ColsChanged).N }

func changeSpeed(m *Machine, ev Event) { m.speed = ev.(SpeedChanged).Speed }

func randomize(m *Machine, _ Event) {
	m.setBoard(grid.Randomize(m.board, m.rng, m.density))
}

func loadPattern(m *Machine, ev Event) {
	b := grid.New(m.rows, m.cols)
	if p := ev.(PatternLoaded).Pattern; p != nil {
		grid.Centered(b, p)
	}
	m.setBoard(b)
}

func toggleCell(m *Machine, ev Event) {
	e := ev.(CellClicked)
	m.board.Toggle(e.Row, e.Col)
	if n := len(m.populations); n > 0 {
		m.populations[n-1] = m.board.Population()
	}
}

func doStep(m *Machine, _ Event) {
	m.board = m.stepGrid()
	m.generation++
	m.recordPopulation()
}

func (m *Machine) clockStart() {
	m.timerSeq++
	seq := m.timerSeq
	interval := clock.Interval(m.base, m.speed)
	m.timer = m.scheduler.ScheduleRepeating(interval, func() { m.tickFrom(seq) })
	m.log.Debug("clock started", "interval", interval)
}

func (m *Machine) clockStop() {
	if m.timer == nil {
		return
	}
	m.timer.Cancel()
	m.timer = nil
	m.timerSeq++
	m.log.Debug("clock stopped")
}

// setBoard replaces the board wholesale and restarts the generation count.
func (m *Machine) setBoard(b *grid.Grid) {
	m.board = b
	m.generation = 0
	m.populations = m.populations[:0]
	m.recordPopulation()
}

func (m *Machine) recordPopulation() {
	m.populations = append(m.populations, m.board.Population())
	if len(m.populations) > historyCap {
		m.populations = m.populations[1:]
	}
}
