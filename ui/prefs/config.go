package prefs

import (
	"time"

	"ledger-ink/internal/app"
)

// Preference keys.
const (
	KeyCanvasWidth   = "canvas.width"
	KeyCanvasHeight  = "canvas.height"
	KeyTool          = "tool.active"
	KeyWidth         = "tool.width"
	KeyColor         = "tool.color"
	KeyOpacity       = "tool.opacity"
	KeyGrid          = "paper.grid"
	KeyBackground    = "paper.color"
	KeyHistoryDepth  = "history.depth"
	KeyHistoryBytes  = "history.bytes"
	KeyRecognizer    = "ocr.engine"
	KeyLanguage      = "ocr.language"
	KeyFrameInterval = "render.frame_ms"
	KeyWindowWidth   = "window.width"
	KeyWindowHeight  = "window.height"
	KeyHotReload     = "dev.hot_reload"
	KeyExportDir     = "export.dir"
)

// LoadConfig builds a session config from stored preferences, falling back to
// defaults for anything missing.
func LoadConfig(p *Prefs) app.Config {
	cfg := app.DefaultConfig()
	cfg.CanvasWidth = p.Int(KeyCanvasWidth, cfg.CanvasWidth)
	cfg.CanvasHeight = p.Int(KeyCanvasHeight, cfg.CanvasHeight)
	cfg.Tool = stringOr(p, KeyTool, cfg.Tool)
	cfg.Width = p.FloatWithFallback(KeyWidth, cfg.Width)
	cfg.Color = stringOr(p, KeyColor, cfg.Color)
	cfg.Opacity = p.FloatWithFallback(KeyOpacity, cfg.Opacity)
	cfg.Grid = stringOr(p, KeyGrid, cfg.Grid)
	cfg.Background = stringOr(p, KeyBackground, cfg.Background)
	cfg.HistoryDepth = p.Int(KeyHistoryDepth, cfg.HistoryDepth)
	cfg.HistoryBytes = p.Int(KeyHistoryBytes, cfg.HistoryBytes)
	cfg.Recognizer = stringOr(p, KeyRecognizer, cfg.Recognizer)
	cfg.Language = stringOr(p, KeyLanguage, cfg.Language)
	if p.Has(KeyFrameInterval) {
		cfg.FrameInterval = time.Duration(p.Float(KeyFrameInterval) * float64(time.Millisecond))
	}
	cfg.Normalize()
	return cfg
}

// StoreConfig records cfg. Call Save to persist it.
func StoreConfig(p *Prefs, cfg app.Config) {
	p.SetInt(KeyCanvasWidth, cfg.CanvasWidth)
	p.SetInt(KeyCanvasHeight, cfg.CanvasHeight)
	p.SetString(KeyTool, cfg.Tool)
	p.SetFloat(KeyWidth, cfg.Width)
	p.SetString(KeyColor, cfg.Color)
	p.SetFloat(KeyOpacity, cfg.Opacity)
	p.SetString(KeyGrid, cfg.Grid)
	p.SetString(KeyBackground, cfg.Background)
	p.SetInt(KeyHistoryDepth, cfg.HistoryDepth)
	p.SetInt(KeyHistoryBytes, cfg.HistoryBytes)
	p.SetString(KeyRecognizer, cfg.Recognizer)
	p.SetString(KeyLanguage, cfg.Language)
	p.SetFloat(KeyFrameInterval, float64(cfg.FrameInterval)/float64(time.Millisecond))
}

func stringOr(p *Prefs, key, fallback string) string {
	if s := p.String(key); s != "" {
		return s
	}
	return fallback
}
