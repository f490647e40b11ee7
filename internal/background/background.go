// Package background renders the paper layer beneath the ink.
package background

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/fogleman/gg"

	inkimage "ledger-ink/internal/image"
	"ledger-ink/pkg/colorutil"
)

// GridType selects the paper ruling.
type GridType int

const (
	GridNone GridType = iota
	GridLined
	GridSquared
)

// Ruling geometry in logical units.
const (
	RuleSpacing = 30
	RuleWidth   = 1
)

func (g GridType) String() string {
	switch g {
	case GridLined:
		return "lined"
	case GridSquared:
		return "squared"
	default:
		return "none"
	}
}

// ParseGrid converts a grid name back to a GridType.
func ParseGrid(name string) (GridType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "plain":
		return GridNone, nil
	case "lined":
		return GridLined, nil
	case "squared":
		return GridSquared, nil
	}
	return GridNone, fmt.Errorf("unknown grid type %q", name)
}

// Style is the paper style of one session.
type Style struct {
	Grid  GridType
	Color color.NRGBA
}

// DefaultStyle is plain paper.
func DefaultStyle() Style {
	return Style{Grid: GridNone, Color: colorutil.Paper}
}

// Render redraws layer completely: fill with the style color, then rule it.
func Render(layer *inkimage.Layer, style Style) {
	layer.Fill(style.Color)
	if style.Grid == GridNone {
		return
	}

	w := float64(layer.Width())
	h := float64(layer.Height())

	dc := gg.NewContextForRGBA(layer.Image)
	dc.SetColor(colorutil.Rule)
	dc.SetLineWidth(RuleWidth)
	dc.SetLineCapButt()

	start := 0.0
	if style.Grid == GridLined {
		start = RuleSpacing
	}
	// Rules sit on pixel centers so a 1-unit line covers one full row.
	for y := start; y <= h; y += RuleSpacing {
		dc.DrawLine(0, y+0.5, w, y+0.5)
	}
	if style.Grid == GridSquared {
		for x := 0.0; x <= w; x += RuleSpacing {
			dc.DrawLine(x+0.5, 0, x+0.5, h)
		}
	}
	dc.Stroke()
}

// Layer is a background layer that re-renders on style changes.
type Layer struct {
	*inkimage.Layer
	style Style
}

// NewLayer creates and renders a background of the given size.
func NewLayer(width, height int, style Style) *Layer {
	l := &Layer{Layer: inkimage.NewLayer("background", width, height), style: style}
	Render(l.Layer, style)
	return l
}

// Style returns the current style.
func (l *Layer) Style() Style {
	return l.style
}

// SetStyle re-renders if the style changed and reports whether it did.
func (l *Layer) SetStyle(style Style) bool {
	if style == l.style {
		return false
	}
	l.style = style
	Render(l.Layer, style)
	return true
}
