package session

import (
	"image"
	"log"

	"ledger-ink/internal/app"
	"ledger-ink/internal/selection"
	"ledger-ink/internal/stroke"
	"ledger-ink/internal/tool"
	"ledger-ink/pkg/geometry"
)

// PointerDown starts a gesture at a device position. With a selection
// active, pressing a handle resizes it, pressing inside moves it and pressing
// outside dismisses it before drawing.
func (s *Session) PointerDown(device geometry.Point2D) error {
	return s.do(func() error {
		p := s.view.ToCanvasSpace(device)

		if region, ok := s.sel.Region(); ok {
			if h, hit := region.HandleAt(p, HandleTolerance/s.view.Zoom); hit {
				s.drag, s.handle = dragHandle, h
				return nil
			}
			if region.Contains(p) {
				s.drag, s.dragStart, s.dragOffset = dragMove, p, geometry.Point2D{}
				return nil
			}
			s.sel.Dismiss()
			s.emit(app.EventSelectionChanged, nil)
		}

		s.drag = dragStroke
		s.renderer.Begin(p, s.tools.Params())
		return nil
	})
}

// PointerMove feeds a drag sample.
func (s *Session) PointerMove(device geometry.Point2D) error {
	return s.do(func() error {
		p := s.view.ToCanvasSpace(device)

		switch s.drag {
		case dragStroke:
			s.renderer.Move(p)
		case dragHandle:
			if region, ok := s.sel.Region(); ok {
				s.sel.SetRegion(region.Resize(s.handle, p))
				s.emit(app.EventSelectionChanged, nil)
			}
		case dragMove:
			s.dragOffset = p.Sub(s.dragStart)
			s.emit(app.EventSelectionChanged, nil)
		}
		return nil
	})
}

// PointerUp ends the gesture. A finished ink stroke is recorded in history;
// a finished lasso becomes the active selection; a selection dragged to a new
// place is translated there.
func (s *Session) PointerUp(device geometry.Point2D) error {
	return s.do(func() error {
		p := s.view.ToCanvasSpace(device)
		d := s.drag
		s.drag = dragNone

		switch d {
		case dragStroke:
			if cur := s.renderer.Current(); cur != nil && cur.Points[len(cur.Points)-1] != p {
				s.renderer.Move(p)
			}
			s.finishStroke(s.renderer.End())
		case dragMove:
			s.dragOffset = p.Sub(s.dragStart)
			offset := s.dragOffset
			s.dragOffset = geometry.Point2D{}
			if offset.X == 0 && offset.Y == 0 {
				return nil
			}
			menuOffset := s.sel.Offset
			s.sel.Offset = offset
			err := s.applyLocked(selection.Translate)
			s.sel.Offset = menuOffset
			return err
		case dragHandle:
			s.emit(app.EventSelectionChanged, nil)
		}
		return nil
	})
}

// PointerCancel abandons the gesture, restoring the ink.
func (s *Session) PointerCancel() error {
	return s.do(func() error {
		if s.drag == dragStroke {
			s.renderer.Cancel()
		}
		s.drag = dragNone
		s.dragOffset = geometry.Point2D{}
		return nil
	})
}

func (s *Session) finishStroke(st *stroke.Stroke) {
	if st == nil {
		return
	}
	if st.Params.Tool == tool.Lasso {
		b := st.Bounds()
		s.emit(app.EventSelectionChanged, nil)
		if b.Width == 0 && b.Height == 0 {
			return
		}
		region, err := s.sel.Select(st.Points)
		if err != nil {
			log.Printf("[session %s] lasso: %v", s.short(), err)
			return
		}
		log.Printf("[session %s] selected %.0fx%.0f at (%.0f,%.0f)", s.short(), region.Width, region.Height, region.X, region.Y)
		return
	}
	s.history.Append(st.Params.Tool.String(), s.ink.Image)
	s.emit(app.EventHistoryChanged, nil)
}

// Drawing reports whether a stroke is in progress.
func (s *Session) Drawing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderer.State() == stroke.Drawing
}

// Undo restores the previous snapshot. It does nothing at the start of
// history or while a stroke is in progress.
func (s *Session) Undo() error {
	return s.do(func() error {
		if s.renderer.State() == stroke.Drawing {
			return nil
		}
		img, ok := s.history.Undo()
		if !ok {
			return nil
		}
		s.restoreLocked(img)
		return nil
	})
}

// Redo reapplies the next snapshot. It does nothing at the tail of history
// or while a stroke is in progress.
func (s *Session) Redo() error {
	return s.do(func() error {
		if s.renderer.State() == stroke.Drawing {
			return nil
		}
		img, ok := s.history.Redo()
		if !ok {
			return nil
		}
		s.restoreLocked(img)
		return nil
	})
}

func (s *Session) restoreLocked(img *image.RGBA) {
	s.ink.Restore(img)
	if s.sel.Active() {
		s.sel.Dismiss()
		s.emit(app.EventSelectionChanged, nil)
	}
	s.inkChangedAll()
	s.emit(app.EventHistoryChanged, nil)
}

// Clear wipes the ink and records the empty canvas.
func (s *Session) Clear() error {
	return s.do(func() error {
		s.renderer.Cancel()
		s.drag = dragNone
		s.ink.Clear()
		if s.sel.Active() {
			s.sel.Dismiss()
			s.emit(app.EventSelectionChanged, nil)
		}
		s.history.Append("clear", s.ink.Image)
		s.inkChangedAll()
		s.emit(app.EventHistoryChanged, nil)
		log.Printf("[session %s] cleared", s.short())
		return nil
	})
}

// CanUndo reports whether Undo would change the ink.
func (s *Session) CanUndo() bool {
	return s.history.CanUndo()
}

// CanRedo reports whether Redo would change the ink.
func (s *Session) CanRedo() bool {
	return s.history.CanRedo()
}

// HistoryPointer returns the current history index.
func (s *Session) HistoryPointer() int {
	return s.history.Pointer()
}
