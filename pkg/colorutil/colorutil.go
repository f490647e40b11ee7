// Package colorutil provides shared color utilities for the ink surface.
package colorutil

import (
	"fmt"
	"image/color"
	"strings"
)

// Common colors used throughout the application.
var (
	Black       = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	White       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Transparent = color.NRGBA{}

	// Ink is the default pen color (ledger green).
	Ink = color.NRGBA{R: 0x2d, G: 0x7a, B: 0x4a, A: 255}

	// Rule is the light neutral used for paper rules and grids.
	Rule = color.NRGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 255}

	// Neutral is the lasso outline color.
	Neutral = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 255}

	// Paper is the default background color.
	Paper = color.NRGBA{R: 0xfb, G: 0xfa, B: 0xf5, A: 255}
)

// Palette is the swatch set offered by the toolbar.
var Palette = []color.NRGBA{
	Ink,
	Black,
	{R: 0x1f, G: 0x4e, B: 0xb4, A: 255}, // blue
	{R: 0xc6, G: 0x28, B: 0x28, A: 255}, // red
	{R: 0xf9, G: 0xd7, B: 0x1c, A: 255}, // yellow
}

// Luma returns the ITU-R BT.601 luma of an 8-bit RGB triple.
func Luma(r, g, b uint8) float64 {
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}

// ToNRGBA converts any color to non-premultiplied 8-bit form.
func ToNRGBA(c color.Color) color.NRGBA {
	if c == nil {
		return Transparent
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

// Hex formats a color as #rrggbb (alpha is dropped).
func Hex(c color.Color) string {
	n := ToNRGBA(c)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}

// ParseHex parses #rgb or #rrggbb (the leading # is optional).
func ParseHex(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	var r, g, b uint8
	switch len(s) {
	case 6:
		if _, err := fmt.Sscanf(s, "%2x%2x%2x", &r, &g, &b); err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
	case 3:
		if _, err := fmt.Sscanf(s, "%1x%1x%1x", &r, &g, &b); err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		r, g, b = r*17, g*17, b*17
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
