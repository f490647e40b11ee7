package canvas

import (
	"image"
	"image/color"

	"ledger-ink/internal/session"
	"ledger-ink/internal/viewport"
	"ledger-ink/pkg/geometry"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Desk is drawn around the page.
var Desk = color.RGBA{R: 0xe4, G: 0xe2, B: 0xdc, A: 0xff}

// Render paints a frame into a w x h pixel image. scale maps device units to
// output pixels and is applied only here, so the session never sees it.
func Render(f session.Frame, w, h int, scale float64) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), &image.Uniform{C: Desk}, image.Point{}, draw.Src)
	if scale <= 0 {
		scale = 1
	}

	s2d := pageTransform(f.View, scale)
	if f.Paper != nil {
		draw.ApproxBiLinear.Transform(out, s2d, f.Paper, f.Paper.Bounds(), draw.Over, nil)
	}
	if f.Ink != nil {
		draw.ApproxBiLinear.Transform(out, s2d, f.Ink, f.Ink.Bounds(), draw.Over, nil)
	}

	ov := newOverlay(out, f.View, scale)
	if len(f.Lasso) > 1 {
		ov.lasso(f.Lasso)
	}
	if f.Selection != nil {
		ov.selection(*f.Selection)
	}
	return out
}

// pageTransform maps canvas units to output pixels.
func pageTransform(v viewport.Viewport, scale float64) f64.Aff3 {
	m := geometry.Scale(scale, scale).Compose(v.Transform()).ToMatrix()
	return f64.Aff3{
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
	}
}
