package app

import (
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"
)

// HotReloader polls the running executable and reports when a rebuilt binary
// replaces it. Between checks it runs an optional tick callback, which the
// UI uses to flush preferences.
type HotReloader struct {
	execPath string
	interval time.Duration

	mu       sync.Mutex
	baseline time.Time
	stop     chan struct{}
	onTick   func()
	onNew    func()
}

// NewHotReloader watches the current executable. It returns nil when the
// executable cannot be located.
func NewHotReloader(interval time.Duration) *HotReloader {
	path, err := os.Executable()
	if err != nil {
		return nil
	}
	if real, err := filepath.EvalSymlinks(path); err == nil {
		path = real
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	return &HotReloader{execPath: path, interval: interval, baseline: info.ModTime()}
}

// ExecPath returns the watched executable.
func (h *HotReloader) ExecPath() string {
	return h.execPath
}

// Baseline returns the modification time changes are compared against.
func (h *HotReloader) Baseline() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.baseline
}

// OnTick sets a callback run on every poll. It runs on the watcher goroutine.
func (h *HotReloader) OnTick(fn func()) {
	h.mu.Lock()
	h.onTick = fn
	h.mu.Unlock()
}

// OnNewBinary sets the callback run once when a newer binary appears. It
// runs on the watcher goroutine; the watcher stops after calling it.
func (h *HotReloader) OnNewBinary(fn func()) {
	h.mu.Lock()
	h.onNew = fn
	h.mu.Unlock()
}

// Start begins polling.
func (h *HotReloader) Start() {
	h.mu.Lock()
	h.stop = make(chan struct{})
	stop := h.stop
	h.mu.Unlock()
	go h.loop(stop)
}

// Stop ends polling. It is safe to call more than once.
func (h *HotReloader) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stop != nil {
		close(h.stop)
		h.stop = nil
	}
}

// ResetBaseline accepts the current binary so it is not reported again.
func (h *HotReloader) ResetBaseline() {
	if info, err := os.Stat(h.execPath); err == nil {
		h.mu.Lock()
		h.baseline = info.ModTime()
		h.mu.Unlock()
	}
}

func (h *HotReloader) loop(stop chan struct{}) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			h.mu.Lock()
			tick, onNew := h.onTick, h.onNew
			h.mu.Unlock()

			if tick != nil {
				tick()
			}
			if h.Changed() && onNew != nil {
				onNew()
				return
			}
		}
	}
}

// Changed reports whether the executable is newer than the baseline.
func (h *HotReloader) Changed() bool {
	info, err := os.Stat(h.execPath)
	if err != nil {
		return false
	}
	return info.ModTime().After(h.Baseline())
}

// Restart replaces the process with a fresh copy of the binary, keeping
// arguments and environment. It does not return on success.
func (h *HotReloader) Restart() error {
	return syscall.Exec(h.execPath, os.Args, os.Environ())
}
