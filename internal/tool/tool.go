// Package tool holds the session tool state and per-tool stroke parameters.
package tool

import (
	"fmt"
	"image/color"
	"strings"

	inkimage "ledger-ink/internal/image"
	"ledger-ink/pkg/colorutil"
)

// Tool represents the active drawing tool.
type Tool int

const (
	Pen Tool = iota
	Highlighter
	Eraser
	Lasso
)

// Width and opacity limits for the session tool state.
const (
	MinWidth   = 1.0
	MaxWidth   = 20.0
	MinOpacity = 0.1
	MaxOpacity = 1.0
)

func (t Tool) String() string {
	switch t {
	case Pen:
		return "pen"
	case Highlighter:
		return "highlighter"
	case Eraser:
		return "eraser"
	case Lasso:
		return "lasso"
	default:
		return "unknown"
	}
}

// Parse converts a tool name back to a Tool.
func Parse(name string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pen":
		return Pen, nil
	case "highlighter":
		return Highlighter, nil
	case "eraser":
		return Eraser, nil
	case "lasso":
		return Lasso, nil
	}
	return Pen, fmt.Errorf("unknown tool %q", name)
}

// All lists the tools in toolbar order.
func All() []Tool {
	return []Tool{Pen, Highlighter, Eraser, Lasso}
}

// State is the mutable, session-scoped tool selection. It is not recorded per
// stroke; Params snapshots it when a stroke begins.
type State struct {
	Active  Tool
	Width   float64
	Color   color.NRGBA
	Opacity float64
}

// DefaultState returns the pen at width 3 in the default ink color.
func DefaultState() State {
	return State{
		Active:  Pen,
		Width:   3,
		Color:   colorutil.Ink,
		Opacity: 1,
	}
}

// SetWidth sets the base width, clamped to [MinWidth, MaxWidth].
func (s *State) SetWidth(w float64) {
	s.Width = clamp(w, MinWidth, MaxWidth)
}

// SetOpacity sets the session opacity, clamped to [MinOpacity, MaxOpacity].
func (s *State) SetOpacity(o float64) {
	s.Opacity = clamp(o, MinOpacity, MaxOpacity)
}

// SetColor sets the stroke color. Alpha is forced opaque; transparency comes
// from Opacity.
func (s *State) SetColor(c color.Color) {
	n := colorutil.ToNRGBA(c)
	n.A = 255
	s.Color = n
}

// Normalize clamps every field into range.
func (s *State) Normalize() {
	s.SetWidth(s.Width)
	s.SetOpacity(s.Opacity)
	if s.Active < Pen || s.Active > Lasso {
		s.Active = Pen
	}
	s.Color.A = 255
}

// Params are the compositing parameters a stroke is drawn with.
type Params struct {
	Tool      Tool
	Composite inkimage.CompositeMode
	Width     float64
	Opacity   float64
	Color     color.NRGBA
	Dashed    bool // Lasso outline is dashed and stroke-only
}

// LassoDash is the dash pattern of the lasso outline.
var LassoDash = []float64{4, 4}

// Params derives the per-tool parameters from the session state.
func (s State) Params() Params {
	width := clamp(s.Width, MinWidth, MaxWidth)
	opacity := clamp(s.Opacity, MinOpacity, MaxOpacity)

	switch s.Active {
	case Highlighter:
		return Params{
			Tool:      Highlighter,
			Composite: inkimage.CompositeNormal,
			Width:     width * 3,
			Opacity:   opacity * 0.4,
			Color:     s.Color,
		}
	case Eraser:
		return Params{
			Tool:      Eraser,
			Composite: inkimage.CompositeErase,
			Width:     width * 2,
			Opacity:   1,
		}
	case Lasso:
		return Params{
			Tool:      Lasso,
			Composite: inkimage.CompositeNone,
			Width:     1,
			Opacity:   1,
			Color:     colorutil.Neutral,
			Dashed:    true,
		}
	default:
		return Params{
			Tool:      Pen,
			Composite: inkimage.CompositeNormal,
			Width:     width,
			Opacity:   opacity,
			Color:     s.Color,
		}
	}
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
