package stroke

import (
	"sync"
	"time"
)

// DefaultFrameInterval approximates one display refresh.
const DefaultFrameInterval = time.Second / 60

// FrameScheduler runs fn once at the next display refresh. The returned
// function cancels the request if it has not fired yet.
type FrameScheduler interface {
	RequestFrame(fn func()) (cancel func())
}

// TimerScheduler fires frames from a timer after a fixed interval.
type TimerScheduler struct {
	Interval time.Duration
}

// RequestFrame implements FrameScheduler.
func (s TimerScheduler) RequestFrame(fn func()) func() {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	t := time.AfterFunc(interval, fn)
	return func() { t.Stop() }
}

// ManualScheduler queues frames until Tick is called. It is used by tests and
// by headless tools that render synchronously.
type ManualScheduler struct {
	mu      sync.Mutex
	pending []*manualFrame
}

type manualFrame struct {
	fn        func()
	cancelled bool
}

// RequestFrame implements FrameScheduler.
func (m *ManualScheduler) RequestFrame(fn func()) func() {
	f := &manualFrame{fn: fn}
	m.mu.Lock()
	m.pending = append(m.pending, f)
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		f.cancelled = true
		m.mu.Unlock()
	}
}

// Pending returns the number of frames waiting to fire.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, f := range m.pending {
		if !f.cancelled {
			n++
		}
	}
	return n
}

// Tick fires every frame requested before the call. Frames requested while
// ticking wait for the next Tick.
func (m *ManualScheduler) Tick() {
	m.mu.Lock()
	frames := m.pending
	m.pending = nil
	m.mu.Unlock()

	for _, f := range frames {
		m.mu.Lock()
		cancelled := f.cancelled
		m.mu.Unlock()
		if !cancelled {
			f.fn()
		}
	}
}
