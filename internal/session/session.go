// Package session owns one open drawing canvas: its ink and paper layers,
// viewport, tool state, stroke renderer, undo history, lasso selection and
// the single in-flight recognition request.
package session

import (
	"context"
	"errors"
	"image"
	"log"
	"sync"

	"github.com/google/uuid"

	"ledger-ink/internal/app"
	"ledger-ink/internal/background"
	"ledger-ink/internal/history"
	inkimage "ledger-ink/internal/image"
	"ledger-ink/internal/selection"
	"ledger-ink/internal/stroke"
	"ledger-ink/internal/tool"
	"ledger-ink/internal/viewport"
	"ledger-ink/pkg/geometry"
)

var (
	// ErrRecognitionPending is returned when recognition is requested while
	// a request is still outstanding.
	ErrRecognitionPending = errors.New("session: recognition already in progress")
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("session: closed")
)

// HandleTolerance is the grab radius of selection handles in device units.
const HandleTolerance = 8

// Recognizer reads the text of one prepared image.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// Options configure a new session.
type Options struct {
	Config app.Config
	Bus    *app.Bus

	// Scheduler paces stroke redraws. Nil uses a timer at Config.FrameInterval.
	Scheduler stroke.FrameScheduler

	Recognizer Recognizer

	// Validate checks recognized text before it is delivered. Text it rejects
	// is reported as app.EventRecognitionFailed. Nil accepts any text.
	Validate func(text string) error

	// Post delivers recognition results onto the UI goroutine. Nil delivers
	// them on the recognizer goroutine.
	Post func(func())
}

type drag int

const (
	dragNone drag = iota
	dragStroke
	dragHandle
	dragMove
)

// Session is safe for concurrent use. Events are emitted on the bus after the
// session lock is released, so listeners may call back into the session.
type Session struct {
	id string

	mu     sync.Mutex
	cfg    app.Config
	bus    *app.Bus
	closed bool

	ink      *inkimage.Layer
	paper    *background.Layer
	view     *viewport.Viewport
	tools    tool.State
	renderer *stroke.Renderer
	history  *history.Log
	sel      *selection.Engine

	drag       drag
	handle     selection.HandlePosition
	dragStart  geometry.Point2D
	dragOffset geometry.Point2D

	recognizer  Recognizer
	validate    func(string) error
	post        func(func())
	ctx         context.Context
	cancel      context.CancelFunc
	recognizing bool
	recogGen    uint64

	dirty   image.Rectangle
	pending []queued
}

type queued struct {
	event app.EventType
	data  interface{}
}

// New creates a session from opts.
func New(opts Options) *Session {
	cfg := opts.Config
	cfg.Normalize()

	bus := opts.Bus
	if bus == nil {
		bus = app.NewBus()
	}
	sched := opts.Scheduler
	if sched == nil {
		sched = stroke.TimerScheduler{Interval: cfg.FrameInterval}
	}

	s := &Session{
		id:         uuid.NewString(),
		cfg:        cfg,
		bus:        bus,
		ink:        inkimage.NewLayer("ink", cfg.CanvasWidth, cfg.CanvasHeight),
		paper:      background.NewLayer(cfg.CanvasWidth, cfg.CanvasHeight, cfg.BackgroundStyle()),
		view:       viewport.New(),
		tools:      cfg.ToolState(),
		sel:        selection.NewEngine(),
		recognizer: opts.Recognizer,
		validate:   opts.Validate,
		post:       opts.Post,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.renderer = stroke.NewRenderer(s.ink, lockedScheduler{s: s, inner: sched})
	s.renderer.OnDraw = s.touch
	s.history = history.New(s.ink.Snapshot())
	s.history.MaxDepth = cfg.HistoryDepth
	s.history.MaxBytes = cfg.HistoryBytes
	s.sel.OnRecognize = s.recognizeCrop

	log.Printf("[session %s] opened %dx%d canvas", s.short(), cfg.CanvasWidth, cfg.CanvasHeight)
	return s
}

// lockedScheduler runs renderer frames under the session lock so timer
// callbacks never race pointer events. Frames arriving after Close are
// dropped.
type lockedScheduler struct {
	s     *Session
	inner stroke.FrameScheduler
}

func (l lockedScheduler) RequestFrame(fn func()) func() {
	return l.inner.RequestFrame(func() {
		_ = l.s.do(func() error {
			fn()
			return nil
		})
	})
}

// ID returns the session's unique id.
func (s *Session) ID() string {
	return s.id
}

func (s *Session) short() string {
	return s.id[:8]
}

// Bus returns the event bus the session emits on.
func (s *Session) Bus() *app.Bus {
	return s.bus
}

// do runs fn under the lock and then emits whatever events fn queued.
func (s *Session) do(fn func() error) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	err := fn()
	events := s.takeEvents()
	s.mu.Unlock()

	for _, q := range events {
		s.bus.Emit(q.event, q.data)
	}
	return err
}

// emit queues an event; repeated events of one kind within an operation
// collapse to the last.
func (s *Session) emit(event app.EventType, data interface{}) {
	for i, q := range s.pending {
		if q.event == event {
			s.pending[i].data = data
			return
		}
	}
	s.pending = append(s.pending, queued{event, data})
}

func (s *Session) touch(r image.Rectangle) {
	s.dirty = s.dirty.Union(r)
}

func (s *Session) takeEvents() []queued {
	if !s.dirty.Empty() {
		s.emit(app.EventInkChanged, s.dirty)
		s.dirty = image.Rectangle{}
	}
	events := s.pending
	s.pending = nil
	return events
}

func (s *Session) inkChangedAll() {
	s.touch(s.ink.Bounds())
}

// Close tears the session down: the scheduled frame is cancelled, any
// recognition in flight is cancelled and its result discarded.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.renderer.Cancel()
	s.closed = true
	s.cancel()
	s.recogGen++
	s.recognizing = false
	s.pending = nil
	s.dirty = image.Rectangle{}
	s.mu.Unlock()

	log.Printf("[session %s] closed", s.short())
	s.bus.Emit(app.EventClosed, s.id)
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Config returns the session settings with the current tool and paper.
func (s *Session) Config() app.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.cfg
	cfg.SetToolState(s.tools)
	cfg.SetBackgroundStyle(s.paper.Style())
	return cfg
}

// Size returns the canvas size in logical units.
func (s *Session) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ink.Width(), s.ink.Height()
}
