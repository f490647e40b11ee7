// Package ocr turns prepared ink images into transaction text.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"
)

// ErrEmptyImage is returned for a nil or zero-sized image.
var ErrEmptyImage = errors.New("ocr: empty image")

// MinTextHeight is the smallest dimension images are upscaled to before
// Tesseract sees them.
const MinTextHeight = 150

// Recognizer reads the text of one still image.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// TesseractEngine recognizes handwriting with Tesseract.
type TesseractEngine struct {
	mu       sync.Mutex
	client   *gosseract.Client
	language string
}

// NewTesseractEngine creates an engine for the given Tesseract language
// ("eng" when empty).
func NewTesseractEngine(language string) (*TesseractEngine, error) {
	if language == "" {
		language = "eng"
	}
	client := gosseract.NewClient()
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}
	// PSM 6 = Assume a single uniform block of text
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set PSM: %w", err)
	}
	return &TesseractEngine{client: client, language: language}, nil
}

// Close releases OCR resources.
func (e *TesseractEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client != nil {
		err := e.client.Close()
		e.client = nil
		return err
	}
	return nil
}

type result struct {
	text string
	err  error
}

// Recognize implements Recognizer. Tesseract itself cannot be interrupted, so
// a cancelled ctx returns immediately while the engine finishes in the
// background.
func (e *TesseractEngine) Recognize(ctx context.Context, img image.Image) (string, error) {
	if img == nil || img.Bounds().Empty() {
		return "", ErrEmptyImage
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	done := make(chan result, 1)
	go func() {
		text, err := e.recognize(img)
		done <- result{text, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.text, r.err
	}
}

func (e *TesseractEngine) recognize(img image.Image) (string, error) {
	mat, err := gocv.ImageToMatRGBA(img)
	if err != nil {
		return "", fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	prepared := prepareForOCR(mat)
	defer prepared.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, prepared)
	if err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	defer buf.Close()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client == nil {
		return "", errors.New("ocr: engine closed")
	}
	if err := e.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return CleanText(text), nil
}

// prepareForOCR upscales small images (target ~150px minimum) and converts
// RGBA to the BGR layout OpenCV encodes from.
func prepareForOCR(src gocv.Mat) gocv.Mat {
	h, w := src.Rows(), src.Cols()

	scaled := gocv.NewMat()
	if minDim := min(h, w); minDim < MinTextHeight {
		scale := float64(MinTextHeight) / float64(minDim)
		gocv.Resize(src, &scaled, image.Point{}, scale, scale, gocv.InterpolationCubic)
	} else {
		src.CopyTo(&scaled)
	}

	result := gocv.NewMat()
	gocv.CvtColor(scaled, &result, gocv.ColorRGBAToBGR)
	scaled.Close()
	return result
}

// CleanText trims the result and collapses runs of whitespace.
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
