package clock

import (
	"sync"
	"time"
)

// Manual is a Scheduler that only ticks when Fire is called.
type Manual struct {
	mu        sync.Mutex
	handles   []*manualHandle
	last      time.Duration
	scheduled int
}

func NewManual() *Manual { return &Manual{} }

type manualHandle struct {
	m        *Manual
	onTick   func()
	canceled bool
}

func (m *Manual) ScheduleRepeating(interval time.Duration, onTick func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := &manualHandle{m: m, onTick: onTick}
	m.handles = append(m.handles, h)
	m.last = interval
	m.scheduled++
	return h
}

func (h *manualHandle) Cancel() {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	if h.canceled {
		return
	}
	h.canceled = true
	for i, other := range h.m.handles {
		if other == h {
			h.m.handles = append(h.m.handles[:i], h.m.handles[i+1:]...)
			break
		}
	}
}

// Fire invokes every live callback once. Callbacks run without the lock held
// so they may schedule or cancel.
func (m *Manual) Fire() {
	m.mu.Lock()
	live := make([]*manualHandle, len(m.handles))
	copy(live, m.handles)
	m.mu.Unlock()

	for _, h := range live {
		m.mu.Lock()
		canceled := h.canceled
		m.mu.Unlock()
		if !canceled {
			h.onTick()
		}
	}
}

// FireN calls Fire n times.
func (m *Manual) FireN(n int) {
	for i := 0; i < n; i++ {
		m.Fire()
	}
}

// Active reports the number of uncanceled handles.
func (m *Manual) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handles)
}

func (m *Manual) LastInterval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Scheduled counts every ScheduleRepeating call so far.
func (m *Manual) Scheduled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scheduled
}
