// Package image provides raster layers, loading, and compositing for the ink surface.
package image

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/clone"
	_ "golang.org/x/image/tiff"
)

// Layer is a full-frame raster surface in logical units.
type Layer struct {
	Name    string      // Display name ("background", "ink")
	Image   *image.RGBA // Pixel data, origin at (0,0)
	Visible bool        // Layer visibility
	Opacity float64     // Layer opacity (0.0 - 1.0)
}

// NewLayer creates a transparent layer of the given size.
func NewLayer(name string, width, height int) *Layer {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Layer{
		Name:    name,
		Image:   image.NewRGBA(image.Rect(0, 0, width, height)),
		Visible: true,
		Opacity: 1.0,
	}
}

// Width returns the layer width in pixels.
func (l *Layer) Width() int {
	return l.Image.Bounds().Dx()
}

// Height returns the layer height in pixels.
func (l *Layer) Height() int {
	return l.Image.Bounds().Dy()
}

// Bounds returns the layer bounds.
func (l *Layer) Bounds() image.Rectangle {
	return l.Image.Bounds()
}

// Fill sets every pixel to c.
func (l *Layer) Fill(c color.Color) {
	draw.Draw(l.Image, l.Image.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// Clear makes every pixel transparent.
func (l *Layer) Clear() {
	clear(l.Image.Pix)
}

// Snapshot returns an independent copy of the layer pixels.
func (l *Layer) Snapshot() *image.RGBA {
	return clone.AsRGBA(l.Image)
}

// Restore overwrites the layer pixels with img. Pixels outside img become transparent.
func (l *Layer) Restore(img image.Image) {
	if img == nil {
		l.Clear()
		return
	}
	if src, ok := img.(*image.RGBA); ok && src.Bounds() == l.Image.Bounds() {
		copy(l.Image.Pix, src.Pix)
		return
	}
	l.Clear()
	draw.Draw(l.Image, l.Image.Bounds(), img, img.Bounds().Min, draw.Src)
}

// Load decodes an image file (png, jpeg or tiff).
func Load(path string) (image.Image, error) {
	if !IsSupportedFormat(path) {
		return nil, fmt.Errorf("unsupported image format: %s", filepath.Ext(path))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// SupportedFormats returns the list of supported image formats.
func SupportedFormats() []string {
	return []string{".tiff", ".tif", ".png", ".jpg", ".jpeg"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
