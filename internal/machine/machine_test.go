package machine_test

import (
	"bytes"
	"log/slog"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lifechart/internal/cell"
	"github.com/san-kum/lifechart/internal/clock"
	"github.com/san-kum/lifechart/internal/grid"
	"github.com/san-kum/lifechart/internal/machine"
)

// recordingScheduler keeps every callback, including cancelled ones, so tests
// can replay a tick that was already in flight when the clock stopped.
type recordingScheduler struct {
	mu        sync.Mutex
	callbacks []func()
	intervals []time.Duration
}

type nopHandle struct{}

func (nopHandle) Cancel() {}

func (s *recordingScheduler) ScheduleRepeating(interval time.Duration, onTick func()) clock.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbacks = append(s.callbacks, onTick)
	s.intervals = append(s.intervals, interval)
	return nopHandle{}
}

func aliveCells(g *grid.Grid) [][2]int { return g.Alive() }

var _ = Describe("Machine", func() {
	var (
		clk *clock.Manual
		m   *machine.Machine
	)

	BeforeEach(func() {
		clk = clock.NewManual()
		m = machine.New(machine.Config{Rows: 10, Cols: 10, Speed: 1, Seed: 7}, clk)
	})

	AfterEach(func() {
		m.Close()
	})

	Context("before Init", func() {
		It("starts unrendered with an empty board", func() {
			snap := m.Snapshot()
			Expect(snap.Mode).To(Equal(machine.Unrendered))
			Expect(snap.Grid.Rows()).To(Equal(0))
		})

		It("ignores every event except Init", func() {
			Expect(m.Dispatch(machine.StartClicked{})).To(BeFalse())
			Expect(m.Dispatch(machine.RandomizeClicked{})).To(BeFalse())
			Expect(m.Dispatch(machine.Tick{})).To(BeFalse())
			Expect(m.Mode()).To(Equal(machine.Unrendered))
			Expect(clk.Active()).To(BeZero())
		})
	})

	Context("Init", func() {
		It("renders a dead 10x10 grid and settles in paused", func() {
			Expect(m.Dispatch(machine.Init{})).To(BeTrue())

			snap := m.Snapshot()
			Expect(snap.Mode).To(Equal(machine.Paused))
			Expect(snap.Mode.String()).To(Equal("rendered.paused"))
			Expect(snap.Rows).To(Equal(10))
			Expect(snap.Cols).To(Equal(10))
			Expect(snap.Grid.Rows()).To(Equal(10))
			Expect(snap.Grid.Cols()).To(Equal(10))
			Expect(snap.Population).To(BeZero())
			Expect(snap.Ticking).To(BeFalse())
		})

		It("is ignored once rendered", func() {
			m.Dispatch(machine.Init{})
			m.Dispatch(machine.CellClicked{Row: 1, Col: 1})
			Expect(m.Dispatch(machine.Init{})).To(BeFalse())
			Expect(m.Snapshot().Population).To(Equal(1))
		})
	})

	Context("when rendered", func() {
		BeforeEach(func() {
			m.Dispatch(machine.Init{})
		})

		It("runs the full Init, Randomize, Start, Stop sequence", func() {
			Expect(m.Dispatch(machine.RandomizeClicked{})).To(BeTrue())
			snap := m.Snapshot()
			Expect(snap.Mode).To(Equal(machine.Paused))
			Expect(snap.Grid.Rows()).To(Equal(10))
			Expect(snap.Grid.Cols()).To(Equal(10))
			Expect(snap.Population).To(BeNumerically(">", 0))

			Expect(m.Dispatch(machine.StartClicked{})).To(BeTrue())
			Expect(m.Mode()).To(Equal(machine.Playing))
			Expect(clk.Active()).To(Equal(1))
			Expect(m.Snapshot().Ticking).To(BeTrue())

			Expect(m.Dispatch(machine.StopClicked{})).To(BeTrue())
			Expect(m.Mode()).To(Equal(machine.Paused))
			Expect(clk.Active()).To(BeZero())

			stopped := m.Snapshot()
			clk.FireN(5)
			Expect(m.Snapshot().Generation).To(Equal(stopped.Generation))
			Expect(m.Snapshot().Grid.Equal(stopped.Grid)).To(BeTrue())
		})

		It("toggles single cells without changing mode", func() {
			Expect(m.Dispatch(machine.CellClicked{Row: 2, Col: 3})).To(BeTrue())
			snap := m.Snapshot()
			Expect(snap.Grid.At(2, 3)).To(Equal(cell.Alive))
			Expect(snap.Mode).To(Equal(machine.Paused))
			Expect(snap.Populations).To(Equal([]int{1}))
		})

		It("steps once on StepClicked while paused", func() {
			m.Dispatch(machine.CellClicked{Row: 5, Col: 4})
			m.Dispatch(machine.CellClicked{Row: 5, Col: 5})
			m.Dispatch(machine.CellClicked{Row: 5, Col: 6})

			Expect(m.Dispatch(machine.StepClicked{})).To(BeTrue())
			snap := m.Snapshot()
			Expect(snap.Mode).To(Equal(machine.Paused))
			Expect(snap.Generation).To(Equal(1))
			Expect(aliveCells(snap.Grid)).To(Equal([][2]int{{4, 5}, {5, 5}, {6, 5}}))
		})

		It("oscillates a blinker with period two while playing", func() {
			m.Dispatch(machine.CellClicked{Row: 5, Col: 4})
			m.Dispatch(machine.CellClicked{Row: 5, Col: 5})
			m.Dispatch(machine.CellClicked{Row: 5, Col: 6})

			// entering playing.step performs the first step
			m.Dispatch(machine.StartClicked{})
			Expect(aliveCells(m.Snapshot().Grid)).To(Equal([][2]int{{4, 5}, {5, 5}, {6, 5}}))

			clk.Fire()
			Expect(aliveCells(m.Snapshot().Grid)).To(Equal([][2]int{{5, 4}, {5, 5}, {5, 6}}))
			Expect(m.Snapshot().Generation).To(Equal(2))
			Expect(m.Snapshot().Populations).To(Equal([]int{3, 3, 3}))
		})

		It("ignores StartClicked while already playing", func() {
			m.Dispatch(machine.RandomizeClicked{})
			m.Dispatch(machine.StartClicked{})
			before := m.Snapshot()

			Expect(m.Dispatch(machine.StartClicked{})).To(BeFalse())
			after := m.Snapshot()
			Expect(after.Mode).To(Equal(machine.Playing))
			Expect(after.Generation).To(Equal(before.Generation))
			Expect(after.Grid.Equal(before.Grid)).To(BeTrue())
			Expect(clk.Scheduled()).To(Equal(1))
		})

		It("ignores StopClicked and Tick while paused", func() {
			Expect(m.Dispatch(machine.StopClicked{})).To(BeFalse())
			Expect(m.Dispatch(machine.Tick{})).To(BeFalse())
			Expect(m.Snapshot().Generation).To(BeZero())
		})

		It("starts the clock at base interval divided by speed", func() {
			m.Dispatch(machine.SpeedChanged{Speed: 4})
			m.Dispatch(machine.StartClicked{})
			Expect(clk.LastInterval()).To(Equal(50 * time.Millisecond))
		})

		Describe("deep history", func() {
			It("keeps playing across a speed change", func() {
				m.Dispatch(machine.StartClicked{})
				Expect(m.Dispatch(machine.SpeedChanged{Speed: 2})).To(BeTrue())

				snap := m.Snapshot()
				Expect(snap.Mode).To(Equal(machine.Playing))
				Expect(snap.Speed).To(Equal(2.0))
				Expect(clk.Active()).To(Equal(1))
				Expect(clk.Scheduled()).To(Equal(2))
				Expect(clk.LastInterval()).To(Equal(100 * time.Millisecond))
			})

			It("stays paused across a speed change", func() {
				Expect(m.Dispatch(machine.SpeedChanged{Speed: 3})).To(BeTrue())
				Expect(m.Mode()).To(Equal(machine.Paused))
				Expect(clk.Scheduled()).To(BeZero())
			})

			It("keeps playing across a randomize", func() {
				m.Dispatch(machine.StartClicked{})
				Expect(m.Dispatch(machine.RandomizeClicked{})).To(BeTrue())
				Expect(m.Mode()).To(Equal(machine.Playing))
				Expect(clk.Active()).To(Equal(1))
			})

			It("returns to paused after stop then randomize", func() {
				m.Dispatch(machine.StartClicked{})
				m.Dispatch(machine.StopClicked{})
				m.Dispatch(machine.RandomizeClicked{})
				Expect(m.Mode()).To(Equal(machine.Paused))
				Expect(clk.Active()).To(BeZero())
			})

			It("loads a pattern without disturbing the run state", func() {
				pattern, err := grid.Parse("OOO\n")
				Expect(err).NotTo(HaveOccurred())

				Expect(m.Dispatch(machine.PatternLoaded{Pattern: pattern})).To(BeTrue())
				snap := m.Snapshot()
				Expect(snap.Mode).To(Equal(machine.Paused))
				Expect(snap.Generation).To(BeZero())
				Expect(aliveCells(snap.Grid)).To(Equal([][2]int{{4, 3}, {4, 4}, {4, 5}}))
			})
		})

		Describe("dimension changes", func() {
			It("regenerates a fresh dead grid on ColsChanged", func() {
				m.Dispatch(machine.RandomizeClicked{})
				Expect(m.Snapshot().Population).To(BeNumerically(">", 0))

				Expect(m.Dispatch(machine.ColsChanged{N: 8})).To(BeTrue())
				snap := m.Snapshot()
				Expect(snap.Mode).To(Equal(machine.Paused))
				Expect(snap.Cols).To(Equal(8))
				Expect(snap.Grid.Rows()).To(Equal(10))
				Expect(snap.Grid.Cols()).To(Equal(8))
				Expect(snap.Population).To(BeZero())
			})

			It("regenerates on RowsChanged", func() {
				Expect(m.Dispatch(machine.RowsChanged{N: 12})).To(BeTrue())
				snap := m.Snapshot()
				Expect(snap.Grid.Rows()).To(Equal(12))
				Expect(snap.Grid.Cols()).To(Equal(10))
			})

			It("stops the clock and lands in paused when playing", func() {
				m.Dispatch(machine.StartClicked{})
				Expect(m.Dispatch(machine.RowsChanged{N: 7})).To(BeTrue())
				Expect(m.Mode()).To(Equal(machine.Paused))
				Expect(clk.Active()).To(BeZero())
				Expect(m.Snapshot().Generation).To(BeZero())
			})
		})
	})

	Describe("randomize density", func() {
		It("keeps an explicit zero density", func() {
			zero := 0.0
			dm := machine.New(machine.Config{Density: &zero, Seed: 1}, clock.NewManual())
			dm.Dispatch(machine.Init{})
			dm.Dispatch(machine.RandomizeClicked{})
			Expect(dm.Snapshot().Population).To(BeZero())
		})

		It("fills every cell at density one", func() {
			one := 1.0
			dm := machine.New(machine.Config{Density: &one, Seed: 1}, clock.NewManual())
			dm.Dispatch(machine.Init{})
			dm.Dispatch(machine.RandomizeClicked{})
			Expect(dm.Snapshot().Population).To(Equal(100))
		})

		It("steps a board randomized while playing before publishing it", func() {
			paused := machine.New(machine.Config{Seed: 11}, clock.NewManual())
			paused.Dispatch(machine.Init{})
			paused.Dispatch(machine.RandomizeClicked{})
			drawn := paused.Snapshot().Grid

			playing := machine.New(machine.Config{Seed: 11}, clock.NewManual())
			playing.Dispatch(machine.Init{})
			playing.Dispatch(machine.StartClicked{})
			var seen []machine.Snapshot
			playing.OnChange(func(s machine.Snapshot) { seen = append(seen, s) })
			playing.Dispatch(machine.RandomizeClicked{})

			Expect(seen).To(HaveLen(1))
			Expect(seen[0].Mode).To(Equal(machine.Playing))
			Expect(seen[0].Generation).To(Equal(1))
			Expect(seen[0].Grid.Equal(grid.Step(drawn))).To(BeTrue())
			playing.Close()
		})

		It("uses the default density when unset", func() {
			dm := machine.New(machine.Config{Seed: 1}, clock.NewManual())
			dm.Dispatch(machine.Init{})
			dm.Dispatch(machine.RandomizeClicked{})
			Expect(dm.Snapshot().Population).To(BeNumerically(">", 0))
		})
	})

	Describe("tick delivery", func() {
		var (
			rec *recordingScheduler
			rm  *machine.Machine
		)

		BeforeEach(func() {
			rec = &recordingScheduler{}
			rm = machine.New(machine.Config{Rows: 10, Cols: 10, Seed: 3}, rec)
			rm.Dispatch(machine.Init{})
		})

		It("drops a tick that arrives after stop", func() {
			rm.Dispatch(machine.StartClicked{})
			rec.callbacks[0]()
			Expect(rm.Snapshot().Generation).To(Equal(2))

			rm.Dispatch(machine.StopClicked{})
			rec.callbacks[0]()
			Expect(rm.Snapshot().Generation).To(Equal(2))
		})

		It("ignores ticks from a previous run after restarting", func() {
			rm.Dispatch(machine.StartClicked{})
			rm.Dispatch(machine.StopClicked{})
			rm.Dispatch(machine.StartClicked{})
			Expect(rec.callbacks).To(HaveLen(2))

			gen := rm.Snapshot().Generation
			rec.callbacks[0]()
			Expect(rm.Snapshot().Generation).To(Equal(gen))

			rec.callbacks[1]()
			Expect(rm.Snapshot().Generation).To(Equal(gen + 1))
		})

		It("stops cleanly against a real ticker", func() {
			tm := machine.New(machine.Config{Rows: 16, Cols: 16, Base: time.Millisecond, Seed: 9}, clock.NewTicker())
			tm.Dispatch(machine.Init{})
			tm.Dispatch(machine.RandomizeClicked{})
			tm.Dispatch(machine.StartClicked{})

			Eventually(func() int { return tm.Snapshot().Generation }).
				WithTimeout(2 * time.Second).
				Should(BeNumerically(">=", 3))

			tm.Dispatch(machine.StopClicked{})
			gen := tm.Snapshot().Generation
			Consistently(func() int { return tm.Snapshot().Generation }).
				WithTimeout(50 * time.Millisecond).
				Should(Equal(gen))
		})
	})

	Describe("observers", func() {
		It("receive a snapshot for every fired event in order", func() {
			var modes []machine.Mode
			m.OnChange(func(s machine.Snapshot) { modes = append(modes, s.Mode) })

			m.Dispatch(machine.Init{})
			m.Dispatch(machine.StopClicked{})
			m.Dispatch(machine.StartClicked{})
			clk.Fire()
			m.Dispatch(machine.StopClicked{})

			Expect(modes).To(Equal([]machine.Mode{
				machine.Paused,
				machine.Playing,
				machine.Playing,
				machine.Paused,
			}))
		})
	})

	Describe("logging", func() {
		It("records each transition", func() {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
			lm := machine.New(machine.Config{Logger: logger, Seed: 1}, clock.NewManual())

			lm.Dispatch(machine.Init{})
			lm.Dispatch(machine.StopClicked{})

			Expect(buf.String()).To(ContainSubstring("event=Init"))
			Expect(buf.String()).To(ContainSubstring("to=rendered.paused"))
			Expect(buf.String()).To(ContainSubstring("event ignored"))
		})
	})
})
