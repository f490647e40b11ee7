package session

import (
	"errors"
	"image"
	"log"

	"ledger-ink/internal/app"
	"ledger-ink/internal/preprocess"
)

// ErrNoRecognizer is returned when the session was created without one.
var ErrNoRecognizer = errors.New("session: no recognizer configured")

// Recognized is the payload of app.EventRecognized.
type Recognized struct {
	Text   string
	Region bool // recognized from a selection crop rather than the page
}

// Recognize binarizes the current ink and hands it to the recognizer. Only one
// request may be outstanding; a second call returns ErrRecognitionPending and
// changes nothing. The result arrives as app.EventRecognized or
// app.EventRecognitionFailed.
func (s *Session) Recognize() error {
	return s.do(func() error {
		return s.startRecognition(s.ink.Snapshot(), false)
	})
}

// Recognizing reports whether a request is outstanding.
func (s *Session) Recognizing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recognizing
}

func (s *Session) recognizeCrop(crop *image.RGBA) {
	if err := s.startRecognition(crop, true); err != nil {
		log.Printf("[session %s] region recognition: %v", s.short(), err)
	}
}

// startRecognition must be called with the lock held.
func (s *Session) startRecognition(raw *image.RGBA, region bool) error {
	if s.recognizer == nil {
		return ErrNoRecognizer
	}
	if s.recognizing {
		return ErrRecognitionPending
	}

	img, err := preprocess.ForRecognition(raw)
	if err != nil {
		log.Printf("[session %s] preprocessing failed, sending raw raster: %v", s.short(), err)
		if img == nil {
			img = raw
		}
	}

	s.recognizing = true
	s.recogGen++
	gen := s.recogGen
	s.emit(app.EventRecognitionStarted, nil)

	rec, ctx := s.recognizer, s.ctx
	go func() {
		text, err := rec.Recognize(ctx, img)
		deliver := func() { s.finishRecognition(gen, text, region, err) }
		if s.post != nil {
			s.post(deliver)
		} else {
			deliver()
		}
	}()
	return nil
}

func (s *Session) finishRecognition(gen uint64, text string, region bool, recErr error) {
	err := s.do(func() error {
		if gen != s.recogGen {
			log.Printf("[session %s] discarding stale recognition result", s.short())
			return nil
		}
		s.recognizing = false
		if recErr != nil {
			log.Printf("[session %s] recognition failed: %v", s.short(), recErr)
			s.emit(app.EventRecognitionFailed, recErr)
			return nil
		}
		if s.validate != nil {
			if err := s.validate(text); err != nil {
				log.Printf("[session %s] rejected recognition result: %v", s.short(), err)
				s.emit(app.EventRecognitionFailed, err)
				return nil
			}
		}
		log.Printf("[session %s] recognized %q", s.short(), text)
		s.emit(app.EventRecognized, Recognized{Text: text, Region: region})
		return nil
	})
	if errors.Is(err, ErrClosed) {
		log.Printf("[session %s] discarding recognition result after close", s.short())
	}
}
