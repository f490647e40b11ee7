package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func page(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{45, 122, 74, 255})
	}
	return img
}

func TestPNGRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, page(40, 20)))

	got, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 20), got.Bounds())
	r, g, b, a := got.At(5, 10).RGBA()
	assert.Equal(t, []uint32{45, 122, 74, 255}, []uint32{r >> 8, g >> 8, b >> 8, a >> 8})
}

func TestEmptyPage(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, PNG(&buf, nil), ErrEmptyPage)
	assert.ErrorIs(t, PDF(&buf, image.NewRGBA(image.Rectangle{}), Options{}), ErrEmptyPage)
	assert.Zero(t, buf.Len())
}

func TestPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, page(800, 400), Options{Title: "Ledger", Caption: "sale 1000.00 2026-10-19"}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Contains(t, buf.String(), "/Subtype /Image")
}

func TestSaveFiles(t *testing.T) {
	dir := t.TempDir()
	img := page(64, 64)

	pngPath := filepath.Join(dir, "page.png")
	require.NoError(t, SavePNG(pngPath, img))
	pdfPath := filepath.Join(dir, "page.pdf")
	require.NoError(t, SavePDF(pdfPath, img, Options{}))

	for _, p := range []string{pngPath, pdfPath} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.NotZero(t, info.Size())
	}
}

func TestFit(t *testing.T) {
	w, h := Fit(800, 400, 277, 190)
	assert.InDelta(t, 277, w, 1e-9)
	assert.InDelta(t, 138.5, h, 1e-9)

	w, h = Fit(100, 400, 190, 277)
	assert.InDelta(t, 69.25, w, 1e-9)
	assert.InDelta(t, 277, h, 1e-9)

	w, h = Fit(0, 10, 100, 100)
	assert.Zero(t, w)
	assert.Zero(t, h)
}
