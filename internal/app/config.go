package app

import (
	"log"
	"time"

	"ledger-ink/internal/background"
	"ledger-ink/internal/history"
	"ledger-ink/internal/tool"
	"ledger-ink/pkg/colorutil"
)

// Recognizer engines.
const (
	RecognizerDemo      = "demo"
	RecognizerTesseract = "tesseract"
)

// Canvas size limits in logical units.
const (
	MinCanvasSize = 64
	MaxCanvasSize = 8192
)

// Config holds the settings a canvas session is created from.
type Config struct {
	CanvasWidth  int `json:"canvas_width"`
	CanvasHeight int `json:"canvas_height"`

	Tool    string  `json:"tool"`
	Width   float64 `json:"width"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`

	Grid       string `json:"grid"`
	Background string `json:"background"`

	HistoryDepth int `json:"history_depth"`
	HistoryBytes int `json:"history_bytes"`

	Recognizer string `json:"recognizer"`
	Language   string `json:"language"`

	FrameInterval time.Duration `json:"frame_interval"`
}

// DefaultConfig returns the out-of-the-box settings.
func DefaultConfig() Config {
	st := tool.DefaultState()
	return Config{
		CanvasWidth:   800,
		CanvasHeight:  400,
		Tool:          st.Active.String(),
		Width:         st.Width,
		Color:         colorutil.Hex(st.Color),
		Opacity:       st.Opacity,
		Grid:          background.GridNone.String(),
		Background:    colorutil.Hex(colorutil.Paper),
		HistoryDepth:  history.DefaultMaxDepth,
		HistoryBytes:  history.DefaultMaxBytes,
		Recognizer:    RecognizerDemo,
		Language:      "eng",
		FrameInterval: time.Second / 60,
	}
}

// Normalize replaces invalid values with defaults and clamps ranges.
func (c *Config) Normalize() {
	def := DefaultConfig()

	c.CanvasWidth = clampInt(c.CanvasWidth, MinCanvasSize, MaxCanvasSize)
	c.CanvasHeight = clampInt(c.CanvasHeight, MinCanvasSize, MaxCanvasSize)

	st := c.ToolState()
	c.Tool = st.Active.String()
	c.Width = st.Width
	c.Color = colorutil.Hex(st.Color)
	c.Opacity = st.Opacity

	style := c.BackgroundStyle()
	c.Grid = style.Grid.String()
	c.Background = colorutil.Hex(style.Color)

	if c.HistoryDepth < 2 {
		c.HistoryDepth = def.HistoryDepth
	}
	if c.HistoryBytes < 0 {
		c.HistoryBytes = 0
	}
	if c.Recognizer != RecognizerDemo && c.Recognizer != RecognizerTesseract {
		log.Printf("config: unknown recognizer %q, using %s", c.Recognizer, def.Recognizer)
		c.Recognizer = def.Recognizer
	}
	if c.Language == "" {
		c.Language = def.Language
	}
	if c.FrameInterval <= 0 {
		c.FrameInterval = def.FrameInterval
	}
}

// ToolState converts the tool settings, falling back to defaults for
// anything unparsable.
func (c Config) ToolState() tool.State {
	st := tool.DefaultState()
	if t, err := tool.Parse(c.Tool); err == nil {
		st.Active = t
	}
	if c.Width != 0 {
		st.SetWidth(c.Width)
	}
	if c.Opacity != 0 {
		st.SetOpacity(c.Opacity)
	}
	if col, err := colorutil.ParseHex(c.Color); err == nil {
		st.SetColor(col)
	}
	return st
}

// BackgroundStyle converts the paper settings.
func (c Config) BackgroundStyle() background.Style {
	style := background.DefaultStyle()
	if g, err := background.ParseGrid(c.Grid); err == nil {
		style.Grid = g
	}
	if col, err := colorutil.ParseHex(c.Background); err == nil {
		style.Color = col
	}
	return style
}

// SetToolState stores st into the config.
func (c *Config) SetToolState(st tool.State) {
	c.Tool = st.Active.String()
	c.Width = st.Width
	c.Color = colorutil.Hex(st.Color)
	c.Opacity = st.Opacity
}

// SetBackgroundStyle stores style into the config.
func (c *Config) SetBackgroundStyle(style background.Style) {
	c.Grid = style.Grid.String()
	c.Background = colorutil.Hex(style.Color)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
