// Package app provides application configuration, theming and the event bus
// that connects a canvas session to the UI.
package app

import (
	"sync"
)

// EventType identifies different session events.
type EventType int

const (
	EventInkChanged EventType = iota
	EventHistoryChanged
	EventSelectionChanged
	EventViewportChanged
	EventBackgroundChanged
	EventToolChanged
	EventRecognitionStarted
	EventRecognized
	EventRecognitionFailed
	EventClosed
)

func (e EventType) String() string {
	switch e {
	case EventInkChanged:
		return "ink-changed"
	case EventHistoryChanged:
		return "history-changed"
	case EventSelectionChanged:
		return "selection-changed"
	case EventViewportChanged:
		return "viewport-changed"
	case EventBackgroundChanged:
		return "background-changed"
	case EventToolChanged:
		return "tool-changed"
	case EventRecognitionStarted:
		return "recognition-started"
	case EventRecognized:
		return "recognized"
	case EventRecognitionFailed:
		return "recognition-failed"
	case EventClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Bus fans events out to registered listeners.
type Bus struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventListener
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{listeners: make(map[EventType][]EventListener)}
}

// On registers an event listener for the specified event type.
func (b *Bus) On(event EventType, listener EventListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[event] = append(b.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type in registration
// order. Listeners run on the caller's goroutine.
func (b *Bus) Emit(event EventType, data interface{}) {
	b.mu.RLock()
	listeners := b.listeners[event]
	b.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}
