package ocr

import (
	"context"
	"image"
	"time"
)

// DemoDelay mimics the latency of a real recognition service.
const DemoDelay = 1500 * time.Millisecond

// DemoRecognizer ignores the image and answers with a fixed sale dated
// today. It stands in when no OCR engine is installed.
type DemoRecognizer struct {
	Delay time.Duration
	Now   func() time.Time
}

// NewDemoRecognizer returns a demo recognizer with the default delay.
func NewDemoRecognizer() *DemoRecognizer {
	return &DemoRecognizer{Delay: DemoDelay, Now: time.Now}
}

// Recognize implements Recognizer.
func (d *DemoRecognizer) Recognize(ctx context.Context, img image.Image) (string, error) {
	if img == nil || img.Bounds().Empty() {
		return "", ErrEmptyImage
	}
	if d.Delay > 0 {
		t := time.NewTimer(d.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-t.C:
		}
	} else if err := ctx.Err(); err != nil {
		return "", err
	}

	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	return "Sale 1000 " + now().Format(DateLayout), nil
}

// Func adapts a plain function to Recognizer.
type Func func(ctx context.Context, img image.Image) (string, error)

// Recognize implements Recognizer.
func (f Func) Recognize(ctx context.Context, img image.Image) (string, error) {
	return f(ctx, img)
}
