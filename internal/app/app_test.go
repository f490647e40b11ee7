package app

import (
	"testing"
	"time"

	"ledger-ink/internal/background"
	"ledger-ink/internal/tool"
	"ledger-ink/pkg/colorutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusOrder(t *testing.T) {
	b := NewBus()
	var got []string
	b.On(EventInkChanged, func(data interface{}) { got = append(got, "a:"+data.(string)) })
	b.On(EventInkChanged, func(data interface{}) { got = append(got, "b:"+data.(string)) })
	b.On(EventClosed, func(interface{}) { got = append(got, "closed") })

	b.Emit(EventInkChanged, "x")
	b.Emit(EventToolChanged, nil)
	assert.Equal(t, []string{"a:x", "b:x"}, got)
}

func TestDefaultConfigIsNormal(t *testing.T) {
	c := DefaultConfig()
	n := c
	n.Normalize()
	assert.Equal(t, c, n)
}

func TestNormalize(t *testing.T) {
	c := Config{
		CanvasWidth:  10,
		CanvasHeight: 100000,
		Tool:         "crayon",
		Width:        99,
		Color:        "nope",
		Opacity:      0.01,
		Grid:         "Squared",
		Background:   "#fff",
		HistoryDepth: 1,
		HistoryBytes: -5,
		Recognizer:   "gpt",
	}
	c.Normalize()

	assert.Equal(t, MinCanvasSize, c.CanvasWidth)
	assert.Equal(t, MaxCanvasSize, c.CanvasHeight)
	assert.Equal(t, "pen", c.Tool)
	assert.Equal(t, tool.MaxWidth, c.Width)
	assert.Equal(t, colorutil.Hex(colorutil.Ink), c.Color)
	assert.Equal(t, tool.MinOpacity, c.Opacity)
	assert.Equal(t, "squared", c.Grid)
	assert.Equal(t, "#ffffff", c.Background)
	assert.Equal(t, DefaultConfig().HistoryDepth, c.HistoryDepth)
	assert.Zero(t, c.HistoryBytes)
	assert.Equal(t, RecognizerDemo, c.Recognizer)
	assert.Equal(t, "eng", c.Language)
	assert.Equal(t, time.Second/60, c.FrameInterval)
}

func TestToolAndBackgroundRoundTrip(t *testing.T) {
	c := DefaultConfig()
	st := tool.DefaultState()
	st.Active = tool.Highlighter
	st.SetWidth(7)
	st.SetColor(colorutil.Palette[3])
	c.SetToolState(st)
	assert.Equal(t, st, c.ToolState())

	style := background.Style{Grid: background.GridLined, Color: colorutil.White}
	c.SetBackgroundStyle(style)
	require.Equal(t, style, c.BackgroundStyle())
}
