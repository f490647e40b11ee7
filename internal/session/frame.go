package session

import (
	"image"

	inkimage "ledger-ink/internal/image"
	"ledger-ink/internal/selection"
	"ledger-ink/internal/tool"
	"ledger-ink/internal/viewport"
	"ledger-ink/pkg/geometry"
)

// Frame is what a view needs to paint the canvas. The images are the live
// layers and are only valid inside the WithFrame callback.
type Frame struct {
	View  viewport.Viewport
	Paper *image.RGBA
	Ink   *image.RGBA

	// Lasso holds the raw points of a lasso in progress.
	Lasso []geometry.Point2D

	// Selection is the active region, moved by any drag in progress.
	Selection *selection.Region
}

// WithFrame calls fn with the current frame under the session lock. fn must
// not call back into the session.
func (s *Session) WithFrame(fn func(f Frame)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := Frame{View: *s.view, Paper: s.paper.Image, Ink: s.ink.Image}
	if cur := s.renderer.Current(); cur != nil && cur.Params.Tool == tool.Lasso {
		f.Lasso = cur.Points
	}
	if r, ok := s.sel.Region(); ok {
		if s.drag == dragMove {
			r = r.Translate(s.dragOffset)
		}
		f.Selection = &r
	}
	fn(f)
}

// Snapshot returns a copy of the ink layer.
func (s *Session) Snapshot() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ink.Snapshot()
}

// Flattened returns the ink composited over the paper.
func (s *Session) Flattened() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := inkimage.NewComposite(s.ink.Width(), s.ink.Height())
	c.AddLayer(s.paper.Layer)
	c.AddLayer(s.ink)
	return c.Render()
}
