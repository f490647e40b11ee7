package mainwindow

import (
	"fmt"
	"image/color"

	"ledger-ink/internal/background"
	"ledger-ink/internal/tool"
	"ledger-ink/pkg/colorutil"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// toolbar holds the drawing controls. Widgets are synced from the session
// rather than the other way round, so a clamped value shows what applies.
type toolbar struct {
	mw *MainWindow

	tool      *widget.RadioGroup
	width     *widget.Slider
	opacity   *widget.Slider
	grid      *widget.Select
	undo      *widget.Button
	redo      *widget.Button
	recognize *widget.Button
	zoom      *widget.Label

	syncing bool
}

func newToolbar(mw *MainWindow) *toolbar {
	tb := &toolbar{mw: mw}
	s := mw.session

	var names []string
	for _, t := range tool.All() {
		names = append(names, t.String())
	}
	tb.tool = widget.NewRadioGroup(names, func(name string) {
		if tb.syncing {
			return
		}
		if t, err := tool.Parse(name); err == nil {
			mw.report(s.SetTool(t))
		}
	})
	tb.tool.Horizontal = true
	tb.tool.Required = true

	tb.width = widget.NewSlider(tool.MinWidth, tool.MaxWidth)
	tb.width.Step = 0.5
	tb.width.OnChanged = func(v float64) {
		if !tb.syncing {
			mw.report(s.SetWidth(v))
		}
	}

	tb.opacity = widget.NewSlider(tool.MinOpacity, tool.MaxOpacity)
	tb.opacity.Step = 0.05
	tb.opacity.OnChanged = func(v float64) {
		if !tb.syncing {
			mw.report(s.SetOpacity(v))
		}
	}

	grids := []string{background.GridNone.String(), background.GridLined.String(), background.GridSquared.String()}
	tb.grid = widget.NewSelect(grids, func(name string) {
		if tb.syncing {
			return
		}
		if g, err := background.ParseGrid(name); err == nil {
			mw.report(s.SetGrid(g))
		}
	})

	tb.undo = widget.NewButton("Undo", mw.onUndo)
	tb.redo = widget.NewButton("Redo", mw.onRedo)
	tb.recognize = widget.NewButton("Recognize", mw.onRecognize)
	tb.zoom = widget.NewLabel("")

	tb.syncTools()
	tb.syncHistory()
	tb.syncZoom()
	return tb
}

func (tb *toolbar) container() fyne.CanvasObject {
	mw := tb.mw
	swatches := container.NewHBox()
	for _, c := range colorutil.Palette {
		swatches.Add(tb.swatch(c))
	}

	sliders := container.NewGridWithColumns(4,
		widget.NewLabel("Width"), tb.width,
		widget.NewLabel("Opacity"), tb.opacity,
	)

	row1 := container.NewHBox(
		tb.tool,
		widget.NewSeparator(),
		swatches,
		widget.NewSeparator(),
		widget.NewLabel("Paper"),
		tb.grid,
	)
	row2 := container.NewHBox(
		tb.undo,
		tb.redo,
		widget.NewButton("Clear", mw.onClear),
		widget.NewSeparator(),
		widget.NewButton("-", mw.onZoomOut),
		tb.zoom,
		widget.NewButton("+", mw.onZoomIn),
		widget.NewButton("1:1", mw.onActualSize),
		widget.NewSeparator(),
		tb.recognize,
		widget.NewButton("Export", func() { mw.onExport(".pdf") }),
	)
	return container.NewVBox(row1, sliders, row2)
}

func (tb *toolbar) swatch(c color.NRGBA) fyne.CanvasObject {
	rect := fynecanvas.NewRectangle(c)
	rect.SetMinSize(fyne.NewSize(18, 18))
	btn := widget.NewButton("", func() {
		tb.mw.report(tb.mw.session.SetColor(c))
	})
	return container.NewStack(btn, container.NewPadded(rect))
}

func (tb *toolbar) syncTools() {
	st := tb.mw.session.Tools()
	tb.syncing = true
	defer func() { tb.syncing = false }()

	tb.tool.SetSelected(st.Active.String())
	tb.width.SetValue(st.Width)
	tb.opacity.SetValue(st.Opacity)
	tb.grid.SetSelected(tb.mw.session.Style().Grid.String())
}

func (tb *toolbar) syncHistory() {
	s := tb.mw.session
	if s.CanUndo() {
		tb.undo.Enable()
	} else {
		tb.undo.Disable()
	}
	if s.CanRedo() {
		tb.redo.Enable()
	} else {
		tb.redo.Disable()
	}
}

func (tb *toolbar) syncZoom() {
	tb.zoom.SetText(fmt.Sprintf("%3.0f%%", tb.mw.session.View().Zoom*100))
}
