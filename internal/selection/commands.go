package selection

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log"
	"math"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	"gonum.org/v1/gonum/stat"

	"ledger-ink/pkg/geometry"
)

var (
	// ErrUnknownCommand is returned for a name missing from the table.
	ErrUnknownCommand = errors.New("selection: unknown command")
	// ErrNoSelection is returned when a command is applied without a region.
	ErrNoSelection = errors.New("selection: no active region")
)

// CommandName identifies an entry of the command table.
type CommandName string

const (
	Cut             CommandName = "cut"
	Copy            CommandName = "copy"
	Delete          CommandName = "delete"
	Duplicate       CommandName = "duplicate"
	SnapToShape     CommandName = "snapToShape"
	RecognizeRegion CommandName = "recognizeRegion"
	InsertSpace     CommandName = "insertSpace"
	Translate       CommandName = "translate"
	Straighten      CommandName = "straighten"
)

// MenuOrder is the order commands are offered in.
var MenuOrder = []CommandName{
	Cut, Copy, Delete, Duplicate, SnapToShape,
	RecognizeRegion, InsertSpace, Translate, Straighten,
}

// Command maps a region and the current ink raster to the next raster. It
// must not modify raster in place.
type Command func(region Region, raster *image.RGBA) (*image.RGBA, error)

// Recorder receives the snapshot every successful command produces.
type Recorder interface {
	Append(action string, img *image.RGBA)
}

// DuplicateOffset is where a duplicate lands relative to its source.
var DuplicateOffset = geometry.Point2D{X: 20, Y: 20}

// Engine owns the active region, the clipboard and the command table.
type Engine struct {
	commands  map[CommandName]Command
	region    *Region
	clipboard *image.RGBA

	// Offset is the displacement used by Translate.
	Offset geometry.Point2D

	// OnRecognize receives the region crop when RecognizeRegion runs.
	OnRecognize func(crop *image.RGBA)
}

// NewEngine creates an engine with the built-in command table.
func NewEngine() *Engine {
	e := &Engine{Offset: geometry.Point2D{X: 10}}
	e.commands = map[CommandName]Command{
		Cut:             e.cut,
		Copy:            e.copy,
		Delete:          deleteRegion,
		Duplicate:       duplicate,
		SnapToShape:     unchanged,
		RecognizeRegion: e.recognize,
		InsertSpace:     insertSpace,
		Translate:       e.translate,
		Straighten:      straighten,
	}
	return e
}

// Register installs or replaces a command.
func (e *Engine) Register(name CommandName, cmd Command) {
	e.commands[name] = cmd
}

// Has reports whether name is in the table.
func (e *Engine) Has(name CommandName) bool {
	_, ok := e.commands[name]
	return ok
}

// Select derives a region from a lasso path and makes it active.
func (e *Engine) Select(path []geometry.Point2D) (Region, error) {
	r, err := FromPath(path)
	if err != nil {
		return Region{}, err
	}
	e.region = &r
	return r, nil
}

// SetRegion replaces the active region, e.g. after a handle drag.
func (e *Engine) SetRegion(r Region) {
	e.region = &r
}

// Region returns the active region.
func (e *Engine) Region() (Region, bool) {
	if e.region == nil {
		return Region{}, false
	}
	return *e.region, true
}

// Active reports whether a region is selected.
func (e *Engine) Active() bool {
	return e.region != nil
}

// Dismiss destroys the region without touching any raster.
func (e *Engine) Dismiss() {
	e.region = nil
}

// Clipboard returns the last cut or copied pixels.
func (e *Engine) Clipboard() *image.RGBA {
	return e.clipboard
}

// Apply runs name over the active region. On success the new raster is
// appended to rec and the region is destroyed; on failure the region stays
// and nothing is recorded.
func (e *Engine) Apply(name CommandName, raster *image.RGBA, rec Recorder) (*image.RGBA, error) {
	cmd, ok := e.commands[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	if e.region == nil {
		return nil, ErrNoSelection
	}
	region := *e.region

	out, err := cmd(region, raster)
	if err != nil {
		return nil, fmt.Errorf("selection %s: %w", name, err)
	}
	if out == nil {
		out = clone.AsRGBA(raster)
	}
	if rec != nil {
		rec.Append(string(name), out)
	}
	e.region = nil
	log.Printf("selection: applied %s to %.0fx%.0f at (%.0f,%.0f)", name, region.Width, region.Height, region.X, region.Y)
	return out, nil
}

// crop copies the region pixels into a zero-origin image.
func crop(raster *image.RGBA, r image.Rectangle) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), raster, r.Min, draw.Src)
	return out
}

func clearRect(img *image.RGBA, r image.Rectangle) {
	draw.Draw(img, r, image.Transparent, image.Point{}, draw.Src)
}

func unchanged(_ Region, raster *image.RGBA) (*image.RGBA, error) {
	return clone.AsRGBA(raster), nil
}

func (e *Engine) copy(region Region, raster *image.RGBA) (*image.RGBA, error) {
	e.clipboard = crop(raster, region.Pixels(raster.Bounds()))
	return clone.AsRGBA(raster), nil
}

func (e *Engine) cut(region Region, raster *image.RGBA) (*image.RGBA, error) {
	r := region.Pixels(raster.Bounds())
	e.clipboard = crop(raster, r)
	out := clone.AsRGBA(raster)
	clearRect(out, r)
	return out, nil
}

func deleteRegion(region Region, raster *image.RGBA) (*image.RGBA, error) {
	out := clone.AsRGBA(raster)
	clearRect(out, region.Pixels(raster.Bounds()))
	return out, nil
}

func duplicate(region Region, raster *image.RGBA) (*image.RGBA, error) {
	return moveRegion(region, raster, DuplicateOffset, false), nil
}

func (e *Engine) translate(region Region, raster *image.RGBA) (*image.RGBA, error) {
	return moveRegion(region, raster, e.Offset, true), nil
}

func (e *Engine) recognize(region Region, raster *image.RGBA) (*image.RGBA, error) {
	if e.OnRecognize != nil {
		e.OnRecognize(crop(raster, region.Pixels(raster.Bounds())))
	}
	return clone.AsRGBA(raster), nil
}

// moveRegion pastes the region pixels at an offset, optionally clearing the
// source first.
func moveRegion(region Region, raster *image.RGBA, d geometry.Point2D, clearSource bool) *image.RGBA {
	src := region.Pixels(raster.Bounds())
	piece := crop(raster, src)
	out := clone.AsRGBA(raster)
	if clearSource {
		clearRect(out, src)
	}
	dst := src.Add(image.Pt(int(math.Round(d.X)), int(math.Round(d.Y))))
	draw.Draw(out, dst, piece, image.Point{}, draw.Over)
	return out
}

// insertSpace pushes everything at or below the region's top edge down by
// the region height. Pixels pushed past the bottom are dropped.
func insertSpace(region Region, raster *image.RGBA) (*image.RGBA, error) {
	b := raster.Bounds()
	top := int(math.Floor(region.Y))
	shift := int(math.Ceil(region.Height))
	if top < b.Min.Y {
		top = b.Min.Y
	}
	out := clone.AsRGBA(raster)
	if shift <= 0 || top >= b.Max.Y {
		return out, nil
	}

	band := image.Rect(b.Min.X, top, b.Max.X, b.Max.Y)
	clearRect(out, band)
	draw.Draw(out, band.Add(image.Pt(0, shift)).Intersect(b), raster, band.Min, draw.Src)
	return out, nil
}

// straighten levels handwriting inside the region: it fits a line through
// the inked pixels, weighted by alpha, and rotates the region by the
// opposite angle about its center.
func straighten(region Region, raster *image.RGBA) (*image.RGBA, error) {
	r := region.Pixels(raster.Bounds())
	out := clone.AsRGBA(raster)
	if r.Dx() < 2 || r.Dy() < 1 {
		return out, nil
	}

	angle, ok := inkSlope(raster, r)
	if !ok {
		return out, nil
	}

	piece := crop(raster, r)
	pivot := image.Pt(piece.Bounds().Dx()/2, piece.Bounds().Dy()/2)
	// bild rotates clockwise for positive angles; a downward slope is a
	// clockwise tilt, so undo it counter-clockwise.
	rotated := transform.Rotate(piece, -angle, &transform.RotationOptions{Pivot: &pivot})

	clearRect(out, r)
	draw.Draw(out, r, rotated, image.Point{}, draw.Over)
	return out, nil
}

// inkSlope returns the tilt in degrees of the best-fit line through the
// inked pixels of r.
func inkSlope(img *image.RGBA, r image.Rectangle) (float64, bool) {
	var xs, ys, ws []float64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			a := img.Pix[img.PixOffset(x, y)+3]
			if a == 0 {
				continue
			}
			xs = append(xs, float64(x)+0.5)
			ys = append(ys, float64(y)+0.5)
			ws = append(ws, float64(a)/255)
		}
	}
	if len(xs) < 2 || spread(xs) == 0 {
		return 0, false
	}
	_, slope := stat.LinearRegression(xs, ys, ws, false)
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		return 0, false
	}
	return math.Atan(slope) * 180 / math.Pi, true
}

func spread(v []float64) float64 {
	lo, hi := v[0], v[0]
	for _, x := range v[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return hi - lo
}
