package selection

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"ledger-ink/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pt(x, y float64) geometry.Point2D {
	return geometry.Point2D{X: x, Y: y}
}

var square = []geometry.Point2D{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)}

type recorder struct {
	actions []string
	images  []*image.RGBA
}

func (r *recorder) Append(action string, img *image.RGBA) {
	r.actions = append(r.actions, action)
	r.images = append(r.images, img)
}

func inked(w, h int, rect image.Rectangle) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.SetRGBA(x, y, color.RGBA{A: 255})
		}
	}
	return img
}

func TestFromPathSquare(t *testing.T) {
	r, err := FromPath(square)
	require.NoError(t, err)
	assert.Equal(t, Region{X: 0, Y: 0, Width: 10, Height: 10}, r)

	handles := r.Handles()
	require.Len(t, handles, 8)
	want := map[HandlePosition]geometry.Point2D{
		TopLeft:     pt(0, 0),
		Top:         pt(5, 0),
		TopRight:    pt(10, 0),
		Right:       pt(10, 5),
		BottomRight: pt(10, 10),
		Bottom:      pt(5, 10),
		BottomLeft:  pt(0, 10),
		Left:        pt(0, 5),
	}
	for _, h := range handles {
		assert.Equal(t, want[h.Position], h.Point, h.Position.String())
	}
}

func TestFromPathEnclosesEveryPoint(t *testing.T) {
	path := []geometry.Point2D{pt(3, 7), pt(-2, 4.5), pt(8, -1), pt(6, 12), pt(1, 1)}
	r, err := FromPath(path)
	require.NoError(t, err)
	for _, p := range path {
		assert.True(t, r.Contains(p), "%v", p)
	}
	assert.Equal(t, Region{X: -2, Y: -1, Width: 10, Height: 13}, r)

	_, err = FromPath(nil)
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestHandleAtAndResize(t *testing.T) {
	r := Region{X: 0, Y: 0, Width: 10, Height: 10}
	h, ok := r.HandleAt(pt(9, 11), 3)
	require.True(t, ok)
	assert.Equal(t, BottomRight, h)
	_, ok = r.HandleAt(pt(5, 5), 2)
	assert.False(t, ok)

	assert.Equal(t, Region{X: 0, Y: 0, Width: 20, Height: 10}, r.Resize(Right, pt(20, 3)))
	// dragging past the opposite edge flips the box
	assert.Equal(t, Region{X: -4, Y: 0, Width: 4, Height: 10}, r.Resize(Right, pt(-4, 3)))
	assert.Equal(t, Region{X: 2, Y: 3, Width: 8, Height: 7}, r.Resize(TopLeft, pt(2, 3)))
}

func TestDismissDoesNotMutate(t *testing.T) {
	raster := inked(20, 20, image.Rect(2, 2, 8, 8))
	before := append([]byte(nil), raster.Pix...)

	e := NewEngine()
	_, err := e.Select(square)
	require.NoError(t, err)
	assert.True(t, e.Active())
	e.Dismiss()
	assert.False(t, e.Active())
	assert.Equal(t, before, raster.Pix)

	rec := &recorder{}
	_, err = e.Apply(Delete, raster, rec)
	assert.ErrorIs(t, err, ErrNoSelection)
	assert.Empty(t, rec.actions)
}

func TestEveryCommandAppendsHistory(t *testing.T) {
	for _, name := range MenuOrder {
		t.Run(string(name), func(t *testing.T) {
			raster := inked(40, 40, image.Rect(2, 2, 8, 8))
			before := append([]byte(nil), raster.Pix...)

			e := NewEngine()
			_, err := e.Select(square)
			require.NoError(t, err)

			rec := &recorder{}
			out, err := e.Apply(name, raster, rec)
			require.NoError(t, err)
			require.NotNil(t, out)
			assert.Equal(t, []string{string(name)}, rec.actions)
			assert.Same(t, out, rec.images[0])
			assert.False(t, e.Active(), "applying destroys the region")
			assert.Equal(t, before, raster.Pix, "input raster is never mutated")
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	e := NewEngine()
	_, _ = e.Select(square)
	_, err := e.Apply("explode", image.NewRGBA(image.Rect(0, 0, 4, 4)), nil)
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.True(t, e.Active())
}

func TestFailingCommandKeepsRegion(t *testing.T) {
	e := NewEngine()
	boom := errors.New("boom")
	e.Register(SnapToShape, func(Region, *image.RGBA) (*image.RGBA, error) { return nil, boom })
	_, _ = e.Select(square)

	rec := &recorder{}
	_, err := e.Apply(SnapToShape, image.NewRGBA(image.Rect(0, 0, 4, 4)), rec)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, rec.actions)
	assert.True(t, e.Active())
}

func TestCutAndCopy(t *testing.T) {
	raster := inked(40, 40, image.Rect(2, 2, 8, 8))
	e := NewEngine()

	_, _ = e.Select(square)
	out, err := e.Apply(Copy, raster, nil)
	require.NoError(t, err)
	assert.Equal(t, raster.Pix, out.Pix)
	require.NotNil(t, e.Clipboard())
	assert.Equal(t, image.Rect(0, 0, 11, 11), e.Clipboard().Bounds())
	assert.Equal(t, uint8(255), e.Clipboard().RGBAAt(4, 4).A)

	_, _ = e.Select(square)
	out, err = e.Apply(Cut, raster, nil)
	require.NoError(t, err)
	assert.Zero(t, out.RGBAAt(4, 4).A)
	assert.Equal(t, uint8(255), e.Clipboard().RGBAAt(4, 4).A)
}

func TestDuplicateAndTranslate(t *testing.T) {
	raster := inked(60, 60, image.Rect(2, 2, 8, 8))
	e := NewEngine()

	_, _ = e.Select(square)
	out, err := e.Apply(Duplicate, raster, nil)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), out.RGBAAt(4, 4).A)
	assert.Equal(t, uint8(255), out.RGBAAt(24, 24).A)

	e.Offset = pt(30, 0)
	_, _ = e.Select(square)
	out, err = e.Apply(Translate, raster, nil)
	require.NoError(t, err)
	assert.Zero(t, out.RGBAAt(4, 4).A)
	assert.Equal(t, uint8(255), out.RGBAAt(34, 4).A)
}

func TestInsertSpace(t *testing.T) {
	raster := inked(30, 60, image.Rect(0, 0, 30, 5))
	raster.SetRGBA(5, 15, color.RGBA{R: 9, A: 255})

	e := NewEngine()
	_, _ = e.Select([]geometry.Point2D{pt(0, 10), pt(20, 20)})
	out, err := e.Apply(InsertSpace, raster, nil)
	require.NoError(t, err)

	assert.Equal(t, uint8(255), out.RGBAAt(5, 2).A, "rows above the region stay")
	assert.Zero(t, out.RGBAAt(5, 15).A)
	assert.Equal(t, color.RGBA{R: 9, A: 255}, out.RGBAAt(5, 25))
}

func TestStraightenLevelsSlantedLine(t *testing.T) {
	raster := image.NewRGBA(image.Rect(0, 0, 80, 80))
	for x := 10; x < 70; x++ {
		y := 30 + (x-10)/3
		for dy := 0; dy < 2; dy++ {
			raster.SetRGBA(x, y+dy, color.RGBA{A: 255})
		}
	}
	region := Region{X: 5, Y: 20, Width: 70, Height: 40}
	before, ok := inkSlope(raster, region.Pixels(raster.Bounds()))
	require.True(t, ok)

	e := NewEngine()
	e.SetRegion(region)
	out, err := e.Apply(Straighten, raster, nil)
	require.NoError(t, err)

	after, ok := inkSlope(out, region.Pixels(out.Bounds()))
	require.True(t, ok)
	assert.Less(t, abs(after), abs(before)/2)
}

func TestRecognizeRegionHandsOffCrop(t *testing.T) {
	raster := inked(40, 40, image.Rect(2, 2, 8, 8))
	e := NewEngine()
	var got *image.RGBA
	e.OnRecognize = func(crop *image.RGBA) { got = crop }

	_, _ = e.Select(square)
	out, err := e.Apply(RecognizeRegion, raster, nil)
	require.NoError(t, err)
	assert.Equal(t, raster.Pix, out.Pix)
	require.NotNil(t, got)
	assert.Equal(t, 11, got.Bounds().Dx())
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
