// Package history keeps a linear undo/redo log of full ink-layer snapshots.
package history

import (
	"image"
	"log"
	"sync"

	"github.com/anthonynsimon/bild/clone"
)

// Default bounds for a session log.
const (
	DefaultMaxDepth = 50
	DefaultMaxBytes = 256 << 20
)

// Entry is one snapshot and the action that produced it.
type Entry struct {
	Action string
	Image  *image.RGBA
}

func (e *Entry) size() int {
	if e.Image == nil {
		return 0
	}
	return len(e.Image.Pix)
}

// Log is the undo/redo log. Entry 0 is the undo floor: the initial empty
// canvas until eviction pushes the floor forward.
type Log struct {
	mu      sync.Mutex
	entries []*Entry
	p       int
	bytes   int

	// MaxDepth caps the number of entries, floor included. Zero disables it.
	MaxDepth int
	// MaxBytes caps the summed pixel memory. Zero disables it. The newest
	// entry is always kept even if it alone exceeds the budget.
	MaxBytes int
}

// New creates a log whose floor is a copy of initial.
func New(initial *image.RGBA) *Log {
	l := &Log{MaxDepth: DefaultMaxDepth, MaxBytes: DefaultMaxBytes}
	l.Reset(initial)
	return l
}

// Reset drops every entry and starts again from initial.
func (l *Log) Reset(initial *image.RGBA) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e := &Entry{Action: "initial", Image: copyOf(initial)}
	l.entries = []*Entry{e}
	l.p = 0
	l.bytes = e.size()
}

// Append records a snapshot of img after action. Entries after the current
// pointer (the redo branch) are discarded.
func (l *Log) Append(action string, img *image.RGBA) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range l.entries[l.p+1:] {
		l.bytes -= e.size()
	}
	clear(l.entries[l.p+1:])
	l.entries = l.entries[:l.p+1]

	e := &Entry{Action: action, Image: copyOf(img)}
	l.entries = append(l.entries, e)
	l.bytes += e.size()
	l.p = len(l.entries) - 1
	l.evict()
}

func (l *Log) evict() {
	dropped := 0
	for len(l.entries) > 1 && l.over() {
		l.bytes -= l.entries[0].size()
		l.entries[0] = nil
		l.entries = l.entries[1:]
		l.p--
		dropped++
	}
	if dropped > 0 {
		log.Printf("history: evicted %d oldest snapshots (%d kept, %d bytes)", dropped, len(l.entries), l.bytes)
	}
}

func (l *Log) over() bool {
	if l.MaxDepth > 0 && len(l.entries) > l.MaxDepth {
		return true
	}
	return l.MaxBytes > 0 && l.bytes > l.MaxBytes
}

// Undo steps back one entry and returns a copy of its snapshot. At the floor
// it returns false and nothing changes.
func (l *Log) Undo() (*image.RGBA, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.p <= 0 {
		return nil, false
	}
	l.p--
	return copyOf(l.entries[l.p].Image), true
}

// Redo steps forward one entry and returns a copy of its snapshot. At the
// tail it returns false and nothing changes.
func (l *Log) Redo() (*image.RGBA, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.p >= len(l.entries)-1 {
		return nil, false
	}
	l.p++
	return copyOf(l.entries[l.p].Image), true
}

// CanUndo reports whether Undo would change state.
func (l *Log) CanUndo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p > 0
}

// CanRedo reports whether Redo would change state.
func (l *Log) CanRedo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p < len(l.entries)-1
}

// Pointer returns the current index.
func (l *Log) Pointer() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p
}

// Len returns the number of entries, floor included.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Bytes returns the pixel memory held by the log.
func (l *Log) Bytes() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bytes
}

func copyOf(img *image.RGBA) *image.RGBA {
	if img == nil {
		return nil
	}
	return clone.AsRGBA(img)
}
