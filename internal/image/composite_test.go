package image

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullCoverage(w, h int) *image.Alpha {
	m := image.NewAlpha(image.Rect(0, 0, w, h))
	for i := range m.Pix {
		m.Pix[i] = 255
	}
	return m
}

func TestApplyCoverageNormal(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 4, 4))
	dst := image.NewRGBA(base.Bounds())
	red := color.NRGBA{R: 255, A: 255}

	ApplyCoverage(dst, base, fullCoverage(4, 4), dst.Bounds(), red, 1, CompositeNormal)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, dst.RGBAAt(2, 2))

	// Half opacity over transparent gives a half-alpha premultiplied pixel.
	ApplyCoverage(dst, base, fullCoverage(4, 4), dst.Bounds(), red, 0.5, CompositeNormal)
	assert.Equal(t, color.RGBA{R: 128, A: 128}, dst.RGBAAt(1, 1))
}

func TestApplyCoverageErase(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 3, 3))
	for i := range base.Pix {
		base.Pix[i] = 200
	}
	dst := image.NewRGBA(base.Bounds())

	cov := image.NewAlpha(base.Bounds())
	cov.SetAlpha(1, 1, color.Alpha{A: 255})

	ApplyCoverage(dst, base, cov, dst.Bounds(), color.NRGBA{}, 1, CompositeErase)
	assert.Equal(t, uint8(0), dst.RGBAAt(1, 1).A)
	assert.Equal(t, color.RGBA{200, 200, 200, 200}, dst.RGBAAt(0, 0), "uncovered pixels keep the base")
}

func TestApplyCoverageNoneKeepsBase(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 2, 2))
	base.SetRGBA(0, 0, color.RGBA{1, 2, 3, 4})
	dst := image.NewRGBA(base.Bounds())
	ApplyCoverage(dst, base, fullCoverage(2, 2), dst.Bounds(), color.NRGBA{R: 255, A: 255}, 1, CompositeNone)
	assert.Equal(t, base.Pix, dst.Pix)
}

func TestCompositeRenderOrder(t *testing.T) {
	bg := NewLayer("background", 2, 2)
	bg.Fill(color.White)
	ink := NewLayer("ink", 2, 2)
	ink.Image.SetRGBA(0, 0, color.RGBA{A: 255})

	c := NewComposite(2, 2)
	c.AddLayer(bg)
	c.AddLayer(ink)
	out := c.Render()
	assert.Equal(t, color.RGBA{A: 255}, out.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, out.RGBAAt(1, 1))

	ink.Visible = false
	out = c.Render()
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, out.RGBAAt(0, 0))
}

func TestLayerSnapshotIsIndependent(t *testing.T) {
	l := NewLayer("ink", 3, 3)
	l.Image.SetRGBA(1, 1, color.RGBA{9, 9, 9, 255})
	snap := l.Snapshot()
	l.Clear()
	assert.Equal(t, color.RGBA{9, 9, 9, 255}, snap.RGBAAt(1, 1))
	assert.Equal(t, color.RGBA{}, l.Image.RGBAAt(1, 1))

	l.Restore(snap)
	assert.Equal(t, color.RGBA{9, 9, 9, 255}, l.Image.RGBAAt(1, 1))
}

func TestFlatten(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.SetRGBA(0, 0, color.RGBA{A: 255})
	out := Flatten(src, color.White)
	assert.Equal(t, color.RGBA{A: 255}, out.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, out.RGBAAt(1, 0))
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	_, err := Load("notes.bmp")
	require.Error(t, err)
	assert.True(t, IsSupportedFormat("scan.TIF"))
}
