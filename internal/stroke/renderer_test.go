package stroke

import (
	"image"
	"testing"

	inkimage "ledger-ink/internal/image"
	"ledger-ink/internal/tool"
	"ledger-ink/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pt(x, y float64) geometry.Point2D {
	return geometry.Point2D{X: x, Y: y}
}

func params(active tool.Tool, width float64) tool.Params {
	s := tool.DefaultState()
	s.Active = active
	s.SetWidth(width)
	return s.Params()
}

func TestTwoPointStrokePassesThroughMidpoint(t *testing.T) {
	ink := inkimage.NewLayer("ink", 32, 32)
	sched := &ManualScheduler{}
	r := NewRenderer(ink, sched)

	r.Begin(pt(0, 0), params(tool.Pen, 3))
	assert.Equal(t, Drawing, r.State())
	r.Move(pt(10, 0))
	require.True(t, r.FramePending())
	require.Equal(t, 1, sched.Pending())

	sched.Tick()
	assert.False(t, r.FramePending())

	s := r.Current()
	require.Len(t, s.Segments, 1)
	seg := s.Segments[0]
	assert.Equal(t, SegmentQuad, seg.Kind)
	assert.Equal(t, pt(0, 0), seg.Ctrl)
	assert.Equal(t, pt(5, 0), seg.To)
	assert.Equal(t, pt(5, 0), geometry.QuadraticAt(seg.From, seg.Ctrl, seg.To, 1))

	assert.NotZero(t, ink.Image.RGBAAt(5, 0).A, "path must reach (5,0)")
	assert.Zero(t, ink.Image.RGBAAt(9, 0).A, "tail is not drawn before the gesture ends")

	done := r.End()
	require.NotNil(t, done)
	assert.Equal(t, Idle, r.State())
	require.Len(t, done.Segments, 2)
	assert.Equal(t, SegmentLine, done.Segments[1].Kind)
	assert.Equal(t, pt(10, 0), done.Segments[1].To)
	assert.NotZero(t, ink.Image.RGBAAt(9, 0).A)
	assert.Equal(t, []geometry.Point2D{pt(0, 0), pt(10, 0)}, done.Points)
}

func TestMovesCoalescePerFrame(t *testing.T) {
	ink := inkimage.NewLayer("ink", 64, 64)
	sched := &ManualScheduler{}
	r := NewRenderer(ink, sched)

	r.Begin(pt(10, 10), params(tool.Pen, 2))
	r.Move(pt(12, 10))
	r.Move(pt(14, 10))
	r.Move(pt(20, 10))
	assert.Equal(t, 1, sched.Pending())

	sched.Tick()
	s := r.Current()
	require.Len(t, s.Segments, 1)
	assert.Equal(t, pt(10, 10), s.Segments[0].Ctrl)
	assert.Equal(t, pt(15, 10), s.Segments[0].To)
	assert.Len(t, s.Points, 4)

	// next frame smooths around the committed sample
	r.Move(pt(20, 20))
	sched.Tick()
	require.Len(t, s.Segments, 2)
	assert.Equal(t, pt(15, 10), s.Segments[1].From)
	assert.Equal(t, pt(20, 10), s.Segments[1].Ctrl)
	assert.Equal(t, pt(20, 15), s.Segments[1].To)

	// a tick with no fresh sample draws nothing
	sched.Tick()
	assert.Len(t, s.Segments, 2)
}

func TestEndFlushesPendingFrame(t *testing.T) {
	ink := inkimage.NewLayer("ink", 32, 32)
	sched := &ManualScheduler{}
	r := NewRenderer(ink, sched)

	r.Begin(pt(2, 2), params(tool.Pen, 2))
	r.Move(pt(20, 2))
	done := r.End()
	require.NotNil(t, done)
	assert.Equal(t, 0, sched.Pending())
	assert.False(t, r.FramePending())
	require.Len(t, done.Segments, 2)

	// the cancelled frame must not fire into the next stroke
	sched.Tick()
	assert.Equal(t, Idle, r.State())
}

func TestStaleFrameIgnored(t *testing.T) {
	ink := inkimage.NewLayer("ink", 32, 32)
	var fired []func()
	sched := frameFunc(func(fn func()) func() {
		fired = append(fired, fn)
		return func() {}
	})
	r := NewRenderer(ink, sched)

	r.Begin(pt(1, 1), params(tool.Pen, 2))
	r.Move(pt(5, 5))
	r.End()

	r.Begin(pt(10, 10), params(tool.Pen, 2))
	require.Len(t, fired, 1)
	fired[0]()
	assert.Empty(t, r.Current().Segments)
}

type frameFunc func(fn func()) func()

func (f frameFunc) RequestFrame(fn func()) func() { return f(fn) }

func TestEraserClearsInk(t *testing.T) {
	ink := inkimage.NewLayer("ink", 32, 32)
	r := NewRenderer(ink, nil)

	r.Begin(pt(2, 10), params(tool.Pen, 4))
	r.Move(pt(28, 10))
	r.End()
	for y := 8; y < 12; y++ {
		require.Greater(t, ink.Image.RGBAAt(15, y).A, uint8(200))
	}

	r.Begin(pt(2, 10), params(tool.Eraser, 4))
	r.Move(pt(28, 10))
	r.End()
	for y := 8; y < 12; y++ {
		assert.Zero(t, ink.Image.RGBAAt(15, y).A, "row %d", y)
	}
}

func TestHighlighterIsTranslucent(t *testing.T) {
	ink := inkimage.NewLayer("ink", 32, 32)
	r := NewRenderer(ink, nil)

	r.Begin(pt(2, 16), params(tool.Highlighter, 2))
	r.Move(pt(14, 16))
	r.Move(pt(28, 16))
	r.End()

	a := ink.Image.RGBAAt(15, 16).A
	assert.InDelta(t, 0.4*255, float64(a), 2, "overlapping segments must not double-blend")
}

func TestLassoDoesNotTouchInk(t *testing.T) {
	ink := inkimage.NewLayer("ink", 32, 32)
	sched := &ManualScheduler{}
	r := NewRenderer(ink, sched)

	var drawn []image.Rectangle
	r.OnDraw = func(dirty image.Rectangle) { drawn = append(drawn, dirty) }

	r.Begin(pt(0, 0), params(tool.Lasso, 3))
	for _, p := range []geometry.Point2D{pt(10, 0), pt(10, 10), pt(0, 10)} {
		r.Move(p)
		sched.Tick()
	}
	done := r.End()
	require.NotNil(t, done)

	assert.Equal(t, tool.Lasso, done.Params.Tool)
	assert.Len(t, done.Points, 4)
	assert.NotEmpty(t, done.Segments)
	assert.NotEmpty(t, drawn)
	for _, v := range ink.Image.Pix {
		require.Zero(t, v)
	}
}

func TestTapLeavesDot(t *testing.T) {
	ink := inkimage.NewLayer("ink", 16, 16)
	r := NewRenderer(ink, &ManualScheduler{})

	r.Begin(pt(8, 8), params(tool.Pen, 4))
	done := r.End()
	require.Len(t, done.Segments, 1)
	assert.Equal(t, SegmentDot, done.Segments[0].Kind)
	assert.NotZero(t, ink.Image.RGBAAt(8, 8).A)
}

func TestCancelRestoresInk(t *testing.T) {
	ink := inkimage.NewLayer("ink", 32, 32)
	sched := &ManualScheduler{}
	r := NewRenderer(ink, sched)

	r.Begin(pt(2, 2), params(tool.Pen, 4))
	r.Move(pt(20, 20))
	sched.Tick()
	r.Move(pt(25, 20))
	require.NotZero(t, ink.Image.RGBAAt(6, 6).A)

	r.Cancel()
	assert.Equal(t, Idle, r.State())
	assert.Equal(t, 0, sched.Pending())
	for _, v := range ink.Image.Pix {
		require.Zero(t, v)
	}
	assert.Nil(t, r.End())
}

func TestMoveWhileIdleIgnored(t *testing.T) {
	r := NewRenderer(inkimage.NewLayer("ink", 8, 8), &ManualScheduler{})
	r.Move(pt(3, 3))
	assert.False(t, r.FramePending())
	assert.Nil(t, r.Current())
}
