// Package export writes a flattened page to PNG or PDF.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"log"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/jung-kurt/gofpdf"
)

// ErrEmptyPage is returned for a nil or zero-sized image.
var ErrEmptyPage = errors.New("export: empty page")

const (
	// PageMargin is the PDF page margin in millimetres.
	PageMargin = 10.0
	// CaptionSize is the caption font size in points.
	CaptionSize = 10.0

	captionGap = 8.0
	imageName  = "page"
)

// Options control PDF output.
type Options struct {
	Title string
	// Caption is printed below the page, typically the recognized entry.
	Caption string
}

// PNG encodes img as PNG.
func PNG(w io.Writer, img image.Image) error {
	if err := check(img); err != nil {
		return err
	}
	return imgio.PNGEncoder()(w, img)
}

// SavePNG writes img to path as PNG.
func SavePNG(path string, img image.Image) error {
	if err := check(img); err != nil {
		return err
	}
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("export png %s: %w", path, err)
	}
	log.Printf("export: wrote %s", path)
	return nil
}

// PDF writes img as a single A4 page, landscape when the page is wider than
// tall.
func PDF(w io.Writer, img image.Image, opts Options) error {
	doc, err := document(img, opts)
	if err != nil {
		return err
	}
	return doc.Output(w)
}

// SavePDF writes img to path as PDF.
func SavePDF(path string, img image.Image, opts Options) error {
	doc, err := document(img, opts)
	if err != nil {
		return err
	}
	if err := doc.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("export pdf %s: %w", path, err)
	}
	log.Printf("export: wrote %s", path)
	return nil
}

func document(img image.Image, opts Options) (*gofpdf.Fpdf, error) {
	if err := check(img); err != nil {
		return nil, err
	}
	b := img.Bounds()

	orientation := "P"
	if b.Dx() > b.Dy() {
		orientation = "L"
	}
	doc := gofpdf.New(orientation, "mm", "A4", "")
	doc.SetCreator("ledger-ink", true)
	if opts.Title != "" {
		doc.SetTitle(opts.Title, true)
	}
	doc.AddPage()

	var buf bytes.Buffer
	if err := PNG(&buf, img); err != nil {
		return nil, fmt.Errorf("export pdf: encode page: %w", err)
	}
	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader(imageName, imgOpts, &buf)

	pw, ph := doc.GetPageSize()
	availW, availH := pw-2*PageMargin, ph-2*PageMargin
	if opts.Caption != "" {
		availH -= captionGap + CaptionSize/2
	}
	w, h := Fit(float64(b.Dx()), float64(b.Dy()), availW, availH)
	doc.ImageOptions(imageName, PageMargin, PageMargin, w, h, false, imgOpts, 0, "")

	if opts.Caption != "" {
		doc.SetFont("Helvetica", "", CaptionSize)
		doc.Text(PageMargin, PageMargin+h+captionGap, opts.Caption)
	}
	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("export pdf: %w", err)
	}
	return doc, nil
}

// Fit scales w x h to the largest size inside maxW x maxH that keeps the
// aspect ratio.
func Fit(w, h, maxW, maxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	scale := maxW / w
	if s := maxH / h; s < scale {
		scale = s
	}
	return w * scale, h * scale
}

func check(img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return ErrEmptyPage
	}
	return nil
}
