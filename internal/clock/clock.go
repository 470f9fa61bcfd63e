// Package clock provides the repeating timer used to pace a running
// simulation.
package clock

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultBase is the step interval at speed 1.
const DefaultBase = 200 * time.Millisecond

// Handle cancels a repeating schedule. Cancel is idempotent.
type Handle interface {
	Cancel()
}

type Scheduler interface {
	ScheduleRepeating(interval time.Duration, onTick func()) Handle
}

// Interval divides base by speed; non-positive speeds fall back to base.
func Interval(base time.Duration, speed float64) time.Duration {
	if speed <= 0 {
		return base
	}
	d := time.Duration(float64(base) / speed)
	if d <= 0 {
		d = time.Millisecond
	}
	return d
}

// Ticker schedules callbacks on a background goroutine driven by time.Ticker.
type Ticker struct{}

func NewTicker() *Ticker { return &Ticker{} }

func (t *Ticker) ScheduleRepeating(interval time.Duration, onTick func()) Handle {
	h := &tickerHandle{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go h.loop(interval, onTick)
	return h
}

type tickerHandle struct {
	stopped atomic.Bool
	once    sync.Once
	stop    chan struct{}
	done    chan struct{}
}

func (h *tickerHandle) loop(interval time.Duration, onTick func()) {
	defer close(h.done)
	tk := time.NewTicker(interval)
	defer tk.Stop()
	for {
		select {
		case <-h.stop:
			return
		case <-tk.C:
			if h.stopped.Load() {
				return
			}
			onTick()
		}
	}
}

// Cancel stops the schedule. A callback that already started may still be
// running when Cancel returns; receivers that need a hard cut-off must check
// the handle themselves.
func (h *tickerHandle) Cancel() {
	h.stopped.Store(true)
	h.once.Do(func() { close(h.stop) })
}

// Done is closed once the ticker goroutine has exited.
func (h *tickerHandle) Done() <-chan struct{} { return h.done }
