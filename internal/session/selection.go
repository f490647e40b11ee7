package session

import (
	"log"
	"slices"

	"ledger-ink/internal/app"
	"ledger-ink/internal/selection"
)

// Selection returns the active lasso region.
func (s *Session) Selection() (selection.Region, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Region()
}

// Commands lists the selection menu in display order. The slice is a copy.
func (s *Session) Commands() []selection.CommandName {
	return slices.Clone(selection.MenuOrder)
}

// ApplyCommand runs a selection command over the active region. The result
// replaces the ink and is appended to history; the region is destroyed.
func (s *Session) ApplyCommand(name selection.CommandName) error {
	return s.do(func() error {
		return s.applyLocked(name)
	})
}

func (s *Session) applyLocked(name selection.CommandName) error {
	out, err := s.sel.Apply(name, s.ink.Image, s.history)
	if err != nil {
		log.Printf("[session %s] %v", s.short(), err)
		return err
	}
	s.ink.Restore(out)
	s.inkChangedAll()
	s.emit(app.EventHistoryChanged, nil)
	s.emit(app.EventSelectionChanged, nil)
	return nil
}

// DismissSelection closes the selection menu without touching the ink.
func (s *Session) DismissSelection() error {
	return s.do(func() error {
		if !s.sel.Active() {
			return nil
		}
		s.sel.Dismiss()
		s.emit(app.EventSelectionChanged, nil)
		return nil
	})
}
