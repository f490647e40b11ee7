// Package stroke implements the pointer-driven stroke renderer: a two-state
// tool machine that smooths raw pointer samples into quadratic segments and
// composites them onto the ink layer at most once per display refresh.
package stroke

import (
	"image"
	"math"

	inkimage "ledger-ink/internal/image"
	"ledger-ink/internal/tool"
	"ledger-ink/pkg/geometry"
)

// State of the renderer.
type State int

const (
	Idle State = iota
	Drawing
)

func (s State) String() string {
	if s == Drawing {
		return "drawing"
	}
	return "idle"
}

// SegmentKind identifies the primitive a segment is drawn with.
type SegmentKind int

const (
	SegmentQuad SegmentKind = iota // quadratic curve From -> To, control Ctrl
	SegmentLine                    // tail from the last midpoint to the final sample
	SegmentDot                     // single tap
)

// Segment is one drawn piece of a stroke.
type Segment struct {
	Kind SegmentKind
	From geometry.Point2D
	Ctrl geometry.Point2D
	To   geometry.Point2D
}

// Stroke is the transient capture of one gesture.
type Stroke struct {
	Params   tool.Params
	Points   []geometry.Point2D
	Segments []Segment
}

// Bounds returns the axis-aligned box of the raw points.
func (s *Stroke) Bounds() geometry.Rect {
	return geometry.BoundingBox(s.Points)
}

// Renderer turns gestures into ink. It is not safe for concurrent use; the
// owning session serialises access.
type Renderer struct {
	ink   *inkimage.Layer
	sched FrameScheduler

	// OnDraw is called after ink pixels inside dirty changed.
	OnDraw func(dirty image.Rectangle)

	state  State
	stroke *Stroke

	p0     geometry.Point2D // last committed sample, control point of the next curve
	cursor geometry.Point2D // where the drawn path currently ends
	latest geometry.Point2D
	fresh  bool // latest not yet consumed by a frame

	framePending bool
	frameGen     uint64
	cancelFrame  func()

	base    *image.RGBA
	wet     *image.Alpha
	painter *coveragePainter
	dirty   image.Rectangle
}

// NewRenderer creates a renderer drawing into ink. A nil scheduler renders
// every move synchronously.
func NewRenderer(ink *inkimage.Layer, sched FrameScheduler) *Renderer {
	return &Renderer{ink: ink, sched: sched}
}

// State returns Idle or Drawing.
func (r *Renderer) State() State {
	return r.state
}

// Current returns the stroke being drawn, or nil when idle.
func (r *Renderer) Current() *Stroke {
	return r.stroke
}

// FramePending reports whether a redraw is scheduled.
func (r *Renderer) FramePending() bool {
	return r.framePending
}

// Dirty returns the union of ink rectangles touched by the current stroke.
func (r *Renderer) Dirty() image.Rectangle {
	return r.dirty
}

// Begin starts a stroke at p (canvas space). A stroke still in progress is
// finished first.
func (r *Renderer) Begin(p geometry.Point2D, params tool.Params) {
	if r.state == Drawing {
		r.End()
	}

	r.state = Drawing
	r.stroke = &Stroke{Params: params, Points: []geometry.Point2D{p}}
	r.p0 = p
	r.cursor = p
	r.fresh = false
	r.dirty = image.Rectangle{}

	if params.Composite == inkimage.CompositeNone {
		return
	}

	bounds := r.ink.Bounds()
	r.base = r.ink.Snapshot()
	if r.wet == nil || r.wet.Bounds() != bounds {
		r.wet = image.NewAlpha(bounds)
	} else {
		clear(r.wet.Pix)
	}
	if !r.painter.fits(bounds) {
		r.painter = newCoveragePainter(bounds)
	}
}

// Move records a new sample. Samples arriving before the scheduled frame
// fires replace the latest point; only one frame is ever in flight.
func (r *Renderer) Move(p geometry.Point2D) {
	if r.state != Drawing {
		return
	}
	r.stroke.Points = append(r.stroke.Points, p)
	r.latest = p
	r.fresh = true

	if r.sched == nil {
		r.advance()
		return
	}
	if r.framePending {
		return
	}
	r.framePending = true
	r.frameGen++
	gen := r.frameGen
	r.cancelFrame = r.sched.RequestFrame(func() { r.frame(gen) })
}

// frame runs the scheduled redraw for generation gen. Stale generations are
// ignored.
func (r *Renderer) frame(gen uint64) {
	if !r.framePending || gen != r.frameGen {
		return
	}
	r.framePending = false
	r.cancelFrame = nil
	r.advance()
}

// advance draws the quadratic from the current path end to the midpoint of
// P0 and P1 with P0 as control, then commits P1.
func (r *Renderer) advance() {
	if !r.fresh {
		return
	}
	r.fresh = false
	p1 := r.latest
	m := geometry.Midpoint(r.p0, p1)
	r.render(Segment{Kind: SegmentQuad, From: r.cursor, Ctrl: r.p0, To: m})
	r.p0 = p1
	r.cursor = m
}

// End finishes the stroke and returns it. Pending samples are flushed
// synchronously, the path is closed out to the final sample, and a tap with
// no movement leaves a dot. End returns nil when idle.
func (r *Renderer) End() *Stroke {
	if r.state != Drawing {
		return nil
	}
	r.dropFrame()
	r.advance()

	switch {
	case len(r.stroke.Segments) == 0:
		r.render(Segment{Kind: SegmentDot, From: r.p0, Ctrl: r.p0, To: r.p0})
	case r.cursor != r.p0:
		r.render(Segment{Kind: SegmentLine, From: r.cursor, Ctrl: r.cursor, To: r.p0})
	}

	s := r.stroke
	r.reset()
	return s
}

// Cancel abandons the stroke in progress and restores the ink to its state
// at Begin.
func (r *Renderer) Cancel() {
	if r.state != Drawing {
		return
	}
	r.dropFrame()
	if r.base != nil {
		r.ink.Restore(r.base)
		if r.OnDraw != nil && !r.dirty.Empty() {
			r.OnDraw(r.dirty)
		}
	}
	r.reset()
}

func (r *Renderer) dropFrame() {
	if r.cancelFrame != nil {
		r.cancelFrame()
		r.cancelFrame = nil
	}
	r.framePending = false
	r.frameGen++
}

func (r *Renderer) reset() {
	r.state = Idle
	r.stroke = nil
	r.base = nil
	r.fresh = false
}

func (r *Renderer) render(seg Segment) {
	r.stroke.Segments = append(r.stroke.Segments, seg)
	params := r.stroke.Params

	rect := segmentRect(seg, params.Width)
	if params.Composite == inkimage.CompositeNone {
		r.dirty = r.dirty.Union(rect)
		if r.OnDraw != nil {
			r.OnDraw(rect)
		}
		return
	}

	rect = rect.Intersect(r.ink.Bounds())
	if rect.Empty() {
		return
	}
	r.painter.paint(seg, params.Width, rect, r.wet)
	inkimage.ApplyCoverage(r.ink.Image, r.base, r.wet, rect, params.Color, params.Opacity, params.Composite)
	r.dirty = r.dirty.Union(rect)
	if r.OnDraw != nil {
		r.OnDraw(rect)
	}
}

// segmentRect bounds the segment's control hull grown by half the width plus
// an antialiasing margin.
func segmentRect(seg Segment, width float64) image.Rectangle {
	pad := width/2 + 2
	minX := math.Min(seg.From.X, math.Min(seg.Ctrl.X, seg.To.X)) - pad
	minY := math.Min(seg.From.Y, math.Min(seg.Ctrl.Y, seg.To.Y)) - pad
	maxX := math.Max(seg.From.X, math.Max(seg.Ctrl.X, seg.To.X)) + pad
	maxY := math.Max(seg.From.Y, math.Max(seg.Ctrl.Y, seg.To.Y)) + pad
	return image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1,
	)
}
