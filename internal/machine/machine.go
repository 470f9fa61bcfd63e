package machine

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/san-kum/lifechart/internal/clock"
	"github.com/san-kum/lifechart/internal/grid"
)

const (
	DefaultRows    = 10
	DefaultCols    = 10
	DefaultSpeed   = 1.0
	DefaultDensity = 0.3
	historyCap     = 600
)

type Config struct {
	Rows    int
	Cols    int
	Speed   float64
	Base    time.Duration
	// Density is the alive probability used by randomize; nil means
	// DefaultDensity. Zero is a valid density.
	Density *float64
	Seed    int64
	// Workers > 1 steps generations with row bands in parallel.
	Workers int
	Logger  *slog.Logger
}

func DefaultConfig() Config {
	density := DefaultDensity
	return Config{
		Rows:    DefaultRows,
		Cols:    DefaultCols,
		Speed:   DefaultSpeed,
		Base:    clock.DefaultBase,
		Density: &density,
		Seed:    time.Now().UnixNano(),
	}
}

// Snapshot is the read-only view handed to renderers after every event.
type Snapshot struct {
	// Seq counts fired events; a larger Seq is a newer snapshot.
	Seq        uint64
	Mode       Mode
	Rows       int
	Cols       int
	Speed      float64
	Interval   time.Duration
	Grid       *grid.Grid
	Generation int
	Population int
	// Populations holds the population of recent generations, oldest first.
	Populations []int
	Ticking     bool
}

type Machine struct {
	mu       sync.Mutex
	notifyMu sync.Mutex

	mode    Mode
	history Mode
	seq     uint64

	rows, cols  int
	speed       float64
	base        time.Duration
	density     float64
	workers     int
	board       *grid.Grid
	generation  int
	populations []int

	rng       *rand.Rand
	scheduler clock.Scheduler
	timer     clock.Handle
	timerSeq  uint64

	log       *slog.Logger
	observers []func(Snapshot)
}

// New builds a machine in the unrendered mode. Nothing happens until Init is
// dispatched.
func New(cfg Config, scheduler clock.Scheduler) *Machine {
	def := DefaultConfig()
	if cfg.Base <= 0 {
		cfg.Base = def.Base
	}
	if cfg.Speed <= 0 {
		cfg.Speed = def.Speed
	}
	if cfg.Rows == 0 {
		cfg.Rows = def.Rows
	}
	if cfg.Cols == 0 {
		cfg.Cols = def.Cols
	}
	density := *def.Density
	if cfg.Density != nil && *cfg.Density >= 0 {
		density = *cfg.Density
	}
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if scheduler == nil {
		scheduler = clock.NewTicker()
	}

	return &Machine{
		mode:      Unrendered,
		history:   Paused,
		rows:      cfg.Rows,
		cols:      cfg.Cols,
		speed:     cfg.Speed,
		base:      cfg.Base,
		density:   density,
		workers:   cfg.Workers,
		board:     grid.New(0, 0),
		rng:       grid.NewRNG(cfg.Seed),
		scheduler: scheduler,
		log:       logger,
	}
}

// OnChange registers fn to receive a snapshot after every event that fired a
// transition. Observers run in event order and must not call Dispatch.
func (m *Machine) OnChange(fn func(Snapshot)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

func (m *Machine) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// Dispatch processes ev and reports whether a transition fired. Events with
// no transition in the current mode are ignored.
func (m *Machine) Dispatch(ev Event) bool {
	m.mu.Lock()
	fired := m.process(ev)
	m.notifyLocked(fired)
	return fired
}

// Close stops the clock, if running. The machine mode is left untouched.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clockStop()
}

func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Machine) snapshotLocked() Snapshot {
	pops := make([]int, len(m.populations))
	copy(pops, m.populations)
	return Snapshot{
		Seq:         m.seq,
		Mode:        m.mode,
		Rows:        m.rows,
		Cols:        m.cols,
		Speed:       m.speed,
		Interval:    clock.Interval(m.base, m.speed),
		Grid:        m.board.Clone(),
		Generation:  m.generation,
		Population:  m.board.Population(),
		Populations: pops,
		Ticking:     m.timer != nil,
	}
}

// notifyLocked hands the lock over to the observer phase: m.mu is released
// only after notifyMu is held, so observers see snapshots in event order.
func (m *Machine) notifyLocked(fired bool) {
	if !fired || len(m.observers) == 0 {
		m.mu.Unlock()
		return
	}
	snap := m.snapshotLocked()
	observers := make([]func(Snapshot), len(m.observers))
	copy(observers, m.observers)

	m.notifyMu.Lock()
	m.mu.Unlock()
	defer m.notifyMu.Unlock()
	for _, fn := range observers {
		fn(snap)
	}
}

// tickFrom is the timer callback. seq identifies the schedule that fired.
func (m *Machine) tickFrom(seq uint64) {
	m.mu.Lock()
	if m.timer == nil || seq != m.timerSeq {
		m.mu.Unlock()
		return
	}
	fired := m.process(Tick{})
	m.notifyLocked(fired)
}

func (m *Machine) stepGrid() *grid.Grid {
	if m.workers > 1 {
		if next, err := grid.StepParallel(context.Background(), m.board, m.workers); err == nil {
			return next
		}
	}
	return grid.Step(m.board)
}
