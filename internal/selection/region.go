// Package selection derives lasso regions and dispatches commands over them.
package selection

import (
	"errors"
	"image"
	"math"

	"ledger-ink/pkg/geometry"
)

// ErrEmptyPath is returned when a lasso produced no points.
var ErrEmptyPath = errors.New("selection: empty lasso path")

// Region is the axis-aligned box tightly enclosing a lasso path.
type Region struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FromPath bounds every captured lasso point.
func FromPath(points []geometry.Point2D) (Region, error) {
	if len(points) == 0 {
		return Region{}, ErrEmptyPath
	}
	b := geometry.BoundingBox(points)
	return Region{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}, nil
}

// Rect returns the region as a geometry rectangle.
func (r Region) Rect() geometry.Rect {
	return geometry.NewRect(r.X, r.Y, r.Width, r.Height)
}

// Contains reports whether p lies inside the box, edges included.
func (r Region) Contains(p geometry.Point2D) bool {
	return r.Rect().Contains(p)
}

// Translate returns the region moved by d.
func (r Region) Translate(d geometry.Point2D) Region {
	r.X += d.X
	r.Y += d.Y
	return r
}

// Pixels returns the pixel rectangle covering the region, clipped to bounds.
func (r Region) Pixels(bounds image.Rectangle) image.Rectangle {
	p := r.Rect().Pixels()
	return image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height).Intersect(bounds)
}

// HandlePosition names one of the eight resize handles.
type HandlePosition int

const (
	TopLeft HandlePosition = iota
	Top
	TopRight
	Right
	BottomRight
	Bottom
	BottomLeft
	Left
)

func (h HandlePosition) String() string {
	switch h {
	case TopLeft:
		return "top-left"
	case Top:
		return "top"
	case TopRight:
		return "top-right"
	case Right:
		return "right"
	case BottomRight:
		return "bottom-right"
	case Bottom:
		return "bottom"
	case BottomLeft:
		return "bottom-left"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

// Handle is a resize grip at a corner or edge midpoint.
type Handle struct {
	Position HandlePosition
	Point    geometry.Point2D
}

// Handles returns the four corners and four edge midpoints, clockwise from
// the top-left corner.
func (r Region) Handles() []Handle {
	x0, y0 := r.X, r.Y
	x1, y1 := r.X+r.Width, r.Y+r.Height
	cx, cy := r.X+r.Width/2, r.Y+r.Height/2

	return []Handle{
		{TopLeft, geometry.Point2D{X: x0, Y: y0}},
		{Top, geometry.Point2D{X: cx, Y: y0}},
		{TopRight, geometry.Point2D{X: x1, Y: y0}},
		{Right, geometry.Point2D{X: x1, Y: cy}},
		{BottomRight, geometry.Point2D{X: x1, Y: y1}},
		{Bottom, geometry.Point2D{X: cx, Y: y1}},
		{BottomLeft, geometry.Point2D{X: x0, Y: y1}},
		{Left, geometry.Point2D{X: x0, Y: cy}},
	}
}

// HandleAt returns the handle within tolerance of p, nearest first.
func (r Region) HandleAt(p geometry.Point2D, tolerance float64) (HandlePosition, bool) {
	best := -1
	bestDist := math.Inf(1)
	for i, h := range r.Handles() {
		if d := h.Point.Distance(p); d <= tolerance && d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return 0, false
	}
	return HandlePosition(best), true
}

// Resize drags handle h to p and returns the normalized region. Corner
// handles move two edges, edge handles one.
func (r Region) Resize(h HandlePosition, p geometry.Point2D) Region {
	x0, y0 := r.X, r.Y
	x1, y1 := r.X+r.Width, r.Y+r.Height

	switch h {
	case TopLeft:
		x0, y0 = p.X, p.Y
	case Top:
		y0 = p.Y
	case TopRight:
		x1, y0 = p.X, p.Y
	case Right:
		x1 = p.X
	case BottomRight:
		x1, y1 = p.X, p.Y
	case Bottom:
		y1 = p.Y
	case BottomLeft:
		x0, y1 = p.X, p.Y
	case Left:
		x0 = p.X
	}

	return Region{
		X:      math.Min(x0, x1),
		Y:      math.Min(y0, y1),
		Width:  math.Abs(x1 - x0),
		Height: math.Abs(y1 - y0),
	}
}
