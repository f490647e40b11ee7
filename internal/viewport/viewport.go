// Package viewport converts between device pointer coordinates and canvas space.
package viewport

import (
	"ledger-ink/pkg/geometry"
)

const (
	MinZoom       = 0.5
	MaxZoom       = 3.0
	ZoomStep      = 0.2  // ZoomIn / ZoomOut
	WheelZoomStep = 0.05 // modifier + wheel
	WheelDamping  = 0.5  // applied to raw wheel deltas when panning
)

// Viewport holds zoom and pan for one canvas session. Both the background and
// ink layers are drawn through the same Viewport so they stay aligned.
type Viewport struct {
	Zoom float64
	PanX float64
	PanY float64

	// Device position of the canvas' top-left corner.
	OriginX float64
	OriginY float64
}

// New returns a viewport at zoom 1 with no pan.
func New() *Viewport {
	return &Viewport{Zoom: 1}
}

// ToCanvasSpace converts a device point to canvas (logical) coordinates.
// A zero zoom has no inverse and maps every point to the origin.
func (v *Viewport) ToCanvasSpace(device geometry.Point2D) geometry.Point2D {
	inv, ok := v.Transform().Inverse()
	if !ok {
		return geometry.Point2D{}
	}
	return inv.Apply(device)
}

// ToDeviceSpace converts a canvas point back to device coordinates.
func (v *Viewport) ToDeviceSpace(p geometry.Point2D) geometry.Point2D {
	return v.Transform().Apply(p)
}

// Transform returns the canvas -> device affine transform.
func (v *Viewport) Transform() geometry.AffineTransform {
	return geometry.Translation(v.OriginX+v.PanX, v.OriginY+v.PanY).
		Compose(geometry.Scale(v.Zoom, v.Zoom))
}

// SetZoom sets the zoom level, clamped to [MinZoom, MaxZoom].
func (v *Viewport) SetZoom(zoom float64) {
	if zoom < MinZoom {
		zoom = MinZoom
	}
	if zoom > MaxZoom {
		zoom = MaxZoom
	}
	v.Zoom = zoom
}

// ZoomIn increases the zoom level by one step.
func (v *Viewport) ZoomIn() {
	v.SetZoom(v.Zoom + ZoomStep)
}

// ZoomOut decreases the zoom level by one step.
func (v *Viewport) ZoomOut() {
	v.SetZoom(v.Zoom - ZoomStep)
}

// Pan moves the view by a device-space delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.PanX += dx
	v.PanY += dy
}

// Wheel applies a wheel event. Deltas follow the usual convention where a
// positive dy scrolls down. With the zoom modifier held the wheel zooms in
// fine steps (up zooms in); otherwise it pans by the damped delta.
func (v *Viewport) Wheel(dx, dy float64, modifier bool) {
	if modifier {
		switch {
		case dy < 0:
			v.SetZoom(v.Zoom + WheelZoomStep)
		case dy > 0:
			v.SetZoom(v.Zoom - WheelZoomStep)
		}
		return
	}
	v.Pan(-dx*WheelDamping, -dy*WheelDamping)
}

// Reset restores zoom 1 and clears the pan.
func (v *Viewport) Reset() {
	v.Zoom = 1
	v.PanX = 0
	v.PanY = 0
}
