package image

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// CompositeMode specifies how a stroke combines with existing pixels.
type CompositeMode int

const (
	CompositeNormal CompositeMode = iota // Paint over existing pixels
	CompositeErase                       // Clear existing pixels toward transparent
	CompositeNone                        // Preview only; the raster is never touched
)

func (m CompositeMode) String() string {
	switch m {
	case CompositeNormal:
		return "Normal"
	case CompositeErase:
		return "Erase"
	case CompositeNone:
		return "None"
	default:
		return "Unknown"
	}
}

// ApplyCoverage recomputes dst inside r from base and a coverage mask.
// base holds the pixels as they were before the stroke started, so calling it
// repeatedly with a growing mask never double-blends the overlapping parts of
// one stroke.
func ApplyCoverage(dst, base *image.RGBA, coverage *image.Alpha, r image.Rectangle, c color.NRGBA, opacity float64, mode CompositeMode) {
	r = r.Intersect(dst.Bounds()).Intersect(base.Bounds()).Intersect(coverage.Bounds())
	if r.Empty() {
		return
	}
	opacity = clamp(opacity, 0, 1)
	colorAlpha := float64(c.A) / 255

	for y := r.Min.Y; y < r.Max.Y; y++ {
		bi := base.PixOffset(r.Min.X, y)
		di := dst.PixOffset(r.Min.X, y)
		ci := coverage.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			cov := coverage.Pix[ci]
			b := base.Pix[bi : bi+4 : bi+4]
			d := dst.Pix[di : di+4 : di+4]

			switch {
			case cov == 0 || mode == CompositeNone:
				copy(d, b)

			case mode == CompositeErase:
				k := 1 - float64(cov)/255*opacity
				d[0] = scale8(b[0], k)
				d[1] = scale8(b[1], k)
				d[2] = scale8(b[2], k)
				d[3] = scale8(b[3], k)

			default:
				a := opacity * float64(cov) / 255 * colorAlpha
				inv := 1 - a
				d[0] = to8(float64(c.R)*a + float64(b[0])*inv)
				d[1] = to8(float64(c.G)*a + float64(b[1])*inv)
				d[2] = to8(float64(c.B)*a + float64(b[2])*inv)
				d[3] = to8(255*a + float64(b[3])*inv)
			}

			bi += 4
			di += 4
			ci++
		}
	}
}

// Composite combines multiple layers into a single image.
type Composite struct {
	Width     int
	Height    int
	Layers    []*Layer
	BackColor color.Color
}

// NewComposite creates a new Composite with the specified dimensions.
func NewComposite(width, height int) *Composite {
	return &Composite{
		Width:     width,
		Height:    height,
		BackColor: color.Transparent,
	}
}

// AddLayer adds a layer on top of the stack.
func (c *Composite) AddLayer(layer *Layer) {
	c.Layers = append(c.Layers, layer)
}

// Render produces the final composited image.
func (c *Composite) Render() *image.RGBA {
	result := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	c.RenderInto(result)
	return result
}

// RenderInto composites the stack into dst, which is cleared first.
func (c *Composite) RenderInto(dst *image.RGBA) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c.BackColor), image.Point{}, draw.Src)

	for _, layer := range c.Layers {
		if layer == nil || layer.Image == nil || !layer.Visible || layer.Opacity <= 0 {
			continue
		}
		if layer.Opacity >= 1 {
			draw.Draw(dst, dst.Bounds(), layer.Image, image.Point{}, draw.Over)
			continue
		}
		mask := image.NewUniform(color.Alpha{A: uint8(math.Round(layer.Opacity * 255))})
		draw.DrawMask(dst, dst.Bounds(), layer.Image, image.Point{}, mask, image.Point{}, draw.Over)
	}
}

// Flatten returns img composited over an opaque background color.
func Flatten(img image.Image, back color.Color) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), image.NewUniform(back), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Over)
	return out
}

func scale8(v uint8, k float64) uint8 {
	return to8(float64(v) * k)
}

func to8(v float64) uint8 {
	return uint8(clamp(math.Round(v), 0, 255))
}

func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
