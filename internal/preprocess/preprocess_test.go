package preprocess

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomNRGBA(r *rand.Rand, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	r.Read(img.Pix)
	return img
}

func TestBinarizeThreshold(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 200, B: 200, A: 255}) // bright
	img.SetNRGBA(1, 0, color.NRGBA{R: 100, G: 100, B: 100, A: 40})  // dark
	img.SetNRGBA(2, 0, color.NRGBA{R: 255, G: 0, B: 0, A: 255})     // luma 76
	img.SetNRGBA(3, 0, color.NRGBA{R: 0, G: 255, B: 0, A: 7})       // luma 150

	out, err := Binarize(img)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{0, 0, 0, 40}, out.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, out.NRGBAAt(2, 0))
	assert.Equal(t, color.NRGBA{255, 255, 255, 7}, out.NRGBAAt(3, 0))
}

func TestBinarizeIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		img := randomNRGBA(r, 1+r.Intn(40), 1+r.Intn(40))
		once, err := Binarize(img)
		require.NoError(t, err)
		twice, err := Binarize(once)
		require.NoError(t, err)
		assert.Equal(t, once.Pix, twice.Pix)
	}
}

func TestBinarizePassesAlpha(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	img := randomNRGBA(r, 17, 9)
	out, err := Binarize(img)
	require.NoError(t, err)
	for i := 3; i < len(img.Pix); i += 4 {
		require.Equal(t, img.Pix[i], out.Pix[i])
	}
}

func TestBinarizeOffsetBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(5, 5, 8, 8))
	img.SetNRGBA(5, 5, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	out, err := Binarize(img)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 3), out.Bounds())
	assert.Equal(t, uint8(255), out.NRGBAAt(0, 0).R)
	assert.Equal(t, uint8(0), out.NRGBAAt(1, 1).R)
}

func TestBinarizeErrors(t *testing.T) {
	_, err := Binarize(nil)
	assert.ErrorIs(t, err, ErrNoRaster)
	_, err = Binarize(image.NewNRGBA(image.Rectangle{}))
	assert.ErrorIs(t, err, ErrEmptyRaster)
}

func TestForRecognition(t *testing.T) {
	ink := image.NewRGBA(image.Rect(0, 0, 10, 10))
	ink.SetRGBA(3, 3, color.RGBA{A: 255})

	out, err := ForRecognition(ink)
	require.NoError(t, err)
	n := out.(*image.NRGBA)
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, n.NRGBAAt(3, 3))
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, n.NRGBAAt(0, 0))

	flat, err := ForRecognition(image.NewRGBA(image.Rectangle{}))
	assert.ErrorIs(t, err, ErrEmptyRaster)
	assert.NotNil(t, flat, "raw fallback is still returned")
}
