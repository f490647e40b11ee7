// Package preprocess prepares a finished ink raster for text recognition.
package preprocess

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/parallel"

	inkimage "ledger-ink/internal/image"
	"ledger-ink/pkg/colorutil"
)

// Threshold is the luma above which a pixel becomes white.
const Threshold = 128

var (
	// ErrNoRaster is returned for a nil image.
	ErrNoRaster = errors.New("preprocess: no raster")
	// ErrEmptyRaster is returned for an image with no pixels.
	ErrEmptyRaster = errors.New("preprocess: empty raster")
)

// Binarize maps every pixel to black or white by BT.601 luma on its straight
// (non-premultiplied) color. Alpha is copied unchanged. Binarize is
// idempotent: its output only holds luma 0 or 255.
func Binarize(img image.Image) (*image.NRGBA, error) {
	if img == nil {
		return nil, ErrNoRaster
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: %v", ErrEmptyRaster, b)
	}

	src, ok := img.(*image.NRGBA)
	if !ok {
		src = image.NewNRGBA(b)
		draw.Draw(src, b, img, b.Min, draw.Src)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	parallel.Line(b.Dy(), func(start, end int) {
		for y := start; y < end; y++ {
			si := src.PixOffset(b.Min.X, b.Min.Y+y)
			di := dst.PixOffset(0, y)
			for x := 0; x < b.Dx(); x++ {
				s := src.Pix[si : si+4 : si+4]
				d := dst.Pix[di : di+4 : di+4]
				v := uint8(0)
				if colorutil.Luma(s[0], s[1], s[2]) > Threshold {
					v = 255
				}
				d[0], d[1], d[2], d[3] = v, v, v, s[3]
				si += 4
				di += 4
			}
		}
	})
	return dst, nil
}

// ForRecognition flattens ink onto white paper and binarizes it. If the
// raster cannot be binarized the flattened image is returned together with
// the error so the caller can still submit something.
func ForRecognition(ink image.Image) (image.Image, error) {
	if ink == nil {
		return nil, ErrNoRaster
	}
	flat := inkimage.Flatten(ink, color.White)
	out, err := Binarize(flat)
	if err != nil {
		return flat, err
	}
	return out, nil
}
