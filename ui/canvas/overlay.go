package canvas

import (
	"image"
	"image/color"

	"ledger-ink/internal/selection"
	"ledger-ink/internal/tool"
	"ledger-ink/internal/viewport"
	"ledger-ink/pkg/colorutil"
	"ledger-ink/pkg/geometry"

	"github.com/fogleman/gg"
)

// HandleSize is the side of a drawn selection handle in device units.
const HandleSize = 8

// SelectionColor outlines the active region.
var SelectionColor = color.NRGBA{R: 0x2d, G: 0x7a, B: 0x4a, A: 0xff}

// overlay draws interaction chrome over the composited page. It works in
// output pixels and has no effect on the ink.
type overlay struct {
	dc    *gg.Context
	view  viewport.Viewport
	scale float64
}

func newOverlay(out *image.RGBA, v viewport.Viewport, scale float64) *overlay {
	return &overlay{dc: gg.NewContextForRGBA(out), view: v, scale: scale}
}

func (o *overlay) toPixel(p geometry.Point2D) geometry.Point2D {
	return o.view.ToDeviceSpace(p).Scale(o.scale)
}

func (o *overlay) lasso(points []geometry.Point2D) {
	dc := o.dc
	dc.SetColor(colorutil.Neutral)
	dc.SetLineWidth(o.scale)
	dc.SetDash(scaled(tool.LassoDash, o.scale)...)
	first := o.toPixel(points[0])
	dc.MoveTo(first.X, first.Y)
	for _, p := range points[1:] {
		q := o.toPixel(p)
		dc.LineTo(q.X, q.Y)
	}
	dc.Stroke()
	dc.SetDash()
}

func (o *overlay) selection(r selection.Region) {
	dc := o.dc
	tl := o.toPixel(r.Rect().TopLeft())
	br := o.toPixel(r.Rect().BottomRight())

	dc.SetColor(SelectionColor)
	dc.SetLineWidth(o.scale)
	dc.SetDash(scaled(tool.LassoDash, o.scale)...)
	dc.DrawRectangle(tl.X, tl.Y, br.X-tl.X, br.Y-tl.Y)
	dc.Stroke()
	dc.SetDash()

	half := HandleSize * o.scale / 2
	for _, h := range r.Handles() {
		c := o.toPixel(h.Point)
		dc.DrawRectangle(c.X-half, c.Y-half, 2*half, 2*half)
		dc.SetColor(colorutil.White)
		dc.FillPreserve()
		dc.SetColor(SelectionColor)
		dc.Stroke()
	}
}

func scaled(dash []float64, s float64) []float64 {
	out := make([]float64, len(dash))
	for i, d := range dash {
		out[i] = d * s
	}
	return out
}
