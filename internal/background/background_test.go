package background

import (
	"image/color"
	"testing"

	"ledger-ink/pkg/colorutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertColor(t *testing.T, want color.NRGBA, l *Layer, x, y int) {
	t.Helper()
	got := l.Image.RGBAAt(x, y)
	assert.InDelta(t, float64(want.R), float64(got.R), 1, "R at (%d,%d)", x, y)
	assert.InDelta(t, float64(want.G), float64(got.G), 1, "G at (%d,%d)", x, y)
	assert.InDelta(t, float64(want.B), float64(got.B), 1, "B at (%d,%d)", x, y)
	assert.Equal(t, uint8(255), got.A)
}

func TestPlain(t *testing.T) {
	l := NewLayer(90, 90, DefaultStyle())
	for _, p := range [][2]int{{0, 0}, {30, 30}, {45, 60}, {89, 89}} {
		assertColor(t, colorutil.Paper, l, p[0], p[1])
	}
}

func TestLined(t *testing.T) {
	l := NewLayer(100, 100, Style{Grid: GridLined, Color: colorutil.White})

	assertColor(t, colorutil.White, l, 10, 0)
	assertColor(t, colorutil.White, l, 10, 15)
	assertColor(t, colorutil.Rule, l, 10, 30)
	assertColor(t, colorutil.Rule, l, 10, 60)
	assertColor(t, colorutil.Rule, l, 99, 90)
	assertColor(t, colorutil.White, l, 30, 15) // no vertical rules
}

func TestSquared(t *testing.T) {
	l := NewLayer(100, 100, Style{Grid: GridSquared, Color: colorutil.White})

	assertColor(t, colorutil.Rule, l, 15, 0)
	assertColor(t, colorutil.Rule, l, 0, 15)
	assertColor(t, colorutil.Rule, l, 30, 15)
	assertColor(t, colorutil.Rule, l, 15, 30)
	assertColor(t, colorutil.White, l, 15, 15)
	assertColor(t, colorutil.White, l, 45, 75)
}

func TestSetStyleRerenders(t *testing.T) {
	l := NewLayer(60, 60, DefaultStyle())
	assert.False(t, l.SetStyle(DefaultStyle()))

	red := color.NRGBA{R: 200, A: 255}
	require.True(t, l.SetStyle(Style{Grid: GridNone, Color: red}))
	assertColor(t, red, l, 30, 30)

	require.True(t, l.SetStyle(Style{Grid: GridLined, Color: red}))
	assertColor(t, colorutil.Rule, l, 5, 30)
	assert.Equal(t, GridLined, l.Style().Grid)
}

func TestParseGrid(t *testing.T) {
	for _, g := range []GridType{GridNone, GridLined, GridSquared} {
		got, err := ParseGrid(g.String())
		require.NoError(t, err)
		assert.Equal(t, g, got)
	}
	_, err := ParseGrid("dotted")
	assert.Error(t, err)
}
