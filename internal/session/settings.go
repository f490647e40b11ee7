package session

import (
	"image/color"

	"ledger-ink/internal/app"
	"ledger-ink/internal/background"
	"ledger-ink/internal/tool"
	"ledger-ink/internal/viewport"
)

// Tools returns the current tool state.
func (s *Session) Tools() tool.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tools
}

// SetTool selects the active tool. It applies from the next stroke.
func (s *Session) SetTool(t tool.Tool) error {
	return s.updateTools(func(st *tool.State) { st.Active = t })
}

// SetWidth sets the base stroke width, clamped to range.
func (s *Session) SetWidth(w float64) error {
	return s.updateTools(func(st *tool.State) { st.SetWidth(w) })
}

// SetOpacity sets the session opacity, clamped to range.
func (s *Session) SetOpacity(o float64) error {
	return s.updateTools(func(st *tool.State) { st.SetOpacity(o) })
}

// SetColor sets the stroke color.
func (s *Session) SetColor(c color.Color) error {
	return s.updateTools(func(st *tool.State) { st.SetColor(c) })
}

func (s *Session) updateTools(fn func(*tool.State)) error {
	return s.do(func() error {
		next := s.tools
		fn(&next)
		next.Normalize()
		if next == s.tools {
			return nil
		}
		s.tools = next
		s.emit(app.EventToolChanged, next)
		return nil
	})
}

// Style returns the paper style.
func (s *Session) Style() background.Style {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paper.Style()
}

// SetGrid changes the paper ruling and redraws the paper layer.
func (s *Session) SetGrid(g background.GridType) error {
	return s.updateStyle(func(st *background.Style) { st.Grid = g })
}

// SetBackgroundColor changes the paper color and redraws the paper layer.
func (s *Session) SetBackgroundColor(c color.Color) error {
	return s.updateStyle(func(st *background.Style) {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		n.A = 255
		st.Color = n
	})
}

func (s *Session) updateStyle(fn func(*background.Style)) error {
	return s.do(func() error {
		next := s.paper.Style()
		fn(&next)
		if s.paper.SetStyle(next) {
			s.emit(app.EventBackgroundChanged, next)
		}
		return nil
	})
}

// View returns a copy of the viewport.
func (s *Session) View() viewport.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.view
}

// ZoomIn zooms in one step.
func (s *Session) ZoomIn() error {
	return s.updateView(func(v *viewport.Viewport) { v.ZoomIn() })
}

// ZoomOut zooms out one step.
func (s *Session) ZoomOut() error {
	return s.updateView(func(v *viewport.Viewport) { v.ZoomOut() })
}

// Wheel applies a wheel event: fine zoom with the modifier held, otherwise a
// damped pan.
func (s *Session) Wheel(dx, dy float64, modifier bool) error {
	return s.updateView(func(v *viewport.Viewport) { v.Wheel(dx, dy, modifier) })
}

// ResetView restores zoom 1 without pan.
func (s *Session) ResetView() error {
	return s.updateView(func(v *viewport.Viewport) { v.Reset() })
}

// SetOrigin sets the device position of the canvas' top-left corner.
func (s *Session) SetOrigin(x, y float64) error {
	return s.updateView(func(v *viewport.Viewport) { v.OriginX, v.OriginY = x, y })
}

func (s *Session) updateView(fn func(*viewport.Viewport)) error {
	return s.do(func() error {
		before := *s.view
		fn(s.view)
		if *s.view != before {
			s.emit(app.EventViewportChanged, *s.view)
		}
		return nil
	})
}
