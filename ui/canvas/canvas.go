// Package canvas provides the drawing surface widget for a session.
package canvas

import (
	"image"
	"log"

	"ledger-ink/internal/app"
	"ledger-ink/internal/session"
	"ledger-ink/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// Margin is the device offset of the page's top-left corner.
const Margin = 16

// zoomModifiers turn the wheel into fine zoom.
const zoomModifiers = fyne.KeyModifierControl | fyne.KeyModifierSuper

// InkCanvas shows a session's paper and ink and feeds it pointer input.
type InkCanvas struct {
	widget.BaseWidget

	session *session.Session
	raster  *fynecanvas.Raster

	pressed bool
	last    geometry.Point2D

	// Callbacks
	onSecondary func(pos fyne.Position)
}

// NewInkCanvas creates a canvas bound to s. It redraws whenever the session
// reports a visible change.
func NewInkCanvas(s *session.Session) *InkCanvas {
	ic := &InkCanvas{session: s}
	ic.raster = fynecanvas.NewRaster(ic.draw)
	ic.raster.ScaleMode = fynecanvas.ImageScalePixels

	if err := s.SetOrigin(Margin, Margin); err != nil {
		log.Printf("canvas: %v", err)
	}
	for _, e := range []app.EventType{
		app.EventInkChanged,
		app.EventSelectionChanged,
		app.EventViewportChanged,
		app.EventBackgroundChanged,
		app.EventHistoryChanged,
	} {
		s.Bus().On(e, func(interface{}) { ic.raster.Refresh() })
	}

	ic.ExtendBaseWidget(ic)
	return ic
}

// OnSecondary sets the callback for a secondary click, used to open the
// selection menu.
func (ic *InkCanvas) OnSecondary(callback func(pos fyne.Position)) {
	ic.onSecondary = callback
}

// Session returns the bound session.
func (ic *InkCanvas) Session() *session.Session {
	return ic.session
}

// MinSize is the page at the current zoom plus margins.
func (ic *InkCanvas) MinSize() fyne.Size {
	w, h := ic.session.Size()
	zoom := ic.session.View().Zoom
	return fyne.NewSize(float32(float64(w)*zoom)+2*Margin, float32(float64(h)*zoom)+2*Margin)
}

// Cursor implements desktop.Cursorable.
func (ic *InkCanvas) Cursor() desktop.Cursor {
	return desktop.CrosshairCursor
}

// MouseDown implements desktop.Mouseable.
func (ic *InkCanvas) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	ic.pressed = true
	ic.last = point(ev.Position)
	ic.report(ic.session.PointerDown(ic.last))
}

// MouseUp implements desktop.Mouseable.
func (ic *InkCanvas) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary || !ic.pressed {
		return
	}
	ic.pressed = false
	ic.report(ic.session.PointerUp(point(ev.Position)))
}

// Dragged implements fyne.Draggable.
func (ic *InkCanvas) Dragged(ev *fyne.DragEvent) {
	if !ic.pressed {
		return
	}
	ic.last = point(ev.Position)
	ic.report(ic.session.PointerMove(ic.last))
}

// DragEnd implements fyne.Draggable. The stroke ends on MouseUp.
func (ic *InkCanvas) DragEnd() {}

// MouseIn implements desktop.Hoverable.
func (ic *InkCanvas) MouseIn(*desktop.MouseEvent) {}

// MouseMoved implements desktop.Hoverable.
func (ic *InkCanvas) MouseMoved(*desktop.MouseEvent) {}

// MouseOut implements desktop.Hoverable. Leaving the widget mid-stroke ends
// the gesture at the last position seen, so the ink drawn so far is kept.
func (ic *InkCanvas) MouseOut() {
	if ic.pressed {
		ic.pressed = false
		ic.report(ic.session.PointerUp(ic.last))
	}
}

// Cancel abandons the gesture in progress and restores the ink it drew.
func (ic *InkCanvas) Cancel() {
	if ic.pressed {
		ic.pressed = false
		ic.report(ic.session.PointerCancel())
	}
}

// TappedSecondary implements fyne.SecondaryTappable.
func (ic *InkCanvas) TappedSecondary(ev *fyne.PointEvent) {
	if ic.onSecondary != nil {
		ic.onSecondary(ev.AbsolutePosition)
	}
}

// Scrolled implements fyne.Scrollable. Fyne reports a positive DY for
// scrolling up; the session expects the opposite.
func (ic *InkCanvas) Scrolled(ev *fyne.ScrollEvent) {
	modifier := false
	if drv, ok := fyne.CurrentApp().Driver().(desktop.Driver); ok {
		modifier = drv.CurrentKeyModifiers()&zoomModifiers != 0
	}
	ic.report(ic.session.Wheel(-float64(ev.Scrolled.DX), -float64(ev.Scrolled.DY), modifier))
	ic.Refresh()
}

// Refresh redraws the canvas.
func (ic *InkCanvas) Refresh() {
	ic.raster.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (ic *InkCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &inkCanvasRenderer{canvas: ic}
}

func (ic *InkCanvas) report(err error) {
	if err != nil {
		log.Printf("canvas: %v", err)
	}
}

// draw is the raster generator. w and h are in output pixels, which differ
// from the widget size on high density displays.
func (ic *InkCanvas) draw(w, h int) image.Image {
	scale := 1.0
	if size := ic.Size(); size.Width > 0 {
		scale = float64(w) / float64(size.Width)
	}
	var out *image.RGBA
	ic.session.WithFrame(func(f session.Frame) {
		out = Render(f, w, h, scale)
	})
	return out
}

func point(p fyne.Position) geometry.Point2D {
	return geometry.Point2D{X: float64(p.X), Y: float64(p.Y)}
}

type inkCanvasRenderer struct {
	canvas *InkCanvas
}

func (r *inkCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.raster.Resize(size)
}

func (r *inkCanvasRenderer) MinSize() fyne.Size {
	return r.canvas.MinSize()
}

func (r *inkCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *inkCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.raster}
}

func (r *inkCanvasRenderer) Destroy() {}
