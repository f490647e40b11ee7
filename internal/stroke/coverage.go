package stroke

import (
	"image"
	"image/draw"

	"github.com/fogleman/gg"
)

// coveragePainter rasterises single segments into an RGBA scratch buffer and
// folds the resulting alpha into the stroke's coverage mask.
type coveragePainter struct {
	mask *image.RGBA
	dc   *gg.Context
}

func newCoveragePainter(bounds image.Rectangle) *coveragePainter {
	mask := image.NewRGBA(bounds)
	return &coveragePainter{mask: mask, dc: gg.NewContextForRGBA(mask)}
}

func (p *coveragePainter) fits(bounds image.Rectangle) bool {
	return p != nil && p.mask.Bounds() == bounds
}

// paint rasterises seg with the given width and max-merges its coverage into
// wet inside r. r must contain the whole segment including caps.
func (p *coveragePainter) paint(seg Segment, width float64, r image.Rectangle, wet *image.Alpha) {
	draw.Draw(p.mask, r, image.Transparent, image.Point{}, draw.Src)

	dc := p.dc
	dc.SetRGBA(0, 0, 0, 1)
	dc.SetLineWidth(width)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()

	switch seg.Kind {
	case SegmentDot:
		dc.DrawCircle(seg.To.X, seg.To.Y, width/2)
		dc.Fill()
	case SegmentLine:
		dc.MoveTo(seg.From.X, seg.From.Y)
		dc.LineTo(seg.To.X, seg.To.Y)
		dc.Stroke()
	default:
		dc.MoveTo(seg.From.X, seg.From.Y)
		dc.QuadraticTo(seg.Ctrl.X, seg.Ctrl.Y, seg.To.X, seg.To.Y)
		dc.Stroke()
	}

	for y := r.Min.Y; y < r.Max.Y; y++ {
		mi := p.mask.PixOffset(r.Min.X, y) + 3
		wi := wet.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			if a := p.mask.Pix[mi]; a > wet.Pix[wi] {
				wet.Pix[wi] = a
			}
			mi += 4
			wi++
		}
	}
}
