// Package mainwindow provides the main application window.
package mainwindow

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"ledger-ink/internal/app"
	"ledger-ink/internal/export"
	"ledger-ink/internal/ocr"
	"ledger-ink/internal/session"
	"ledger-ink/internal/version"
	"ledger-ink/ui/canvas"
	"ledger-ink/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	appTitle = "Ledger Ink"

	defaultWindowWidth  = 960
	defaultWindowHeight = 600
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app     fyne.App
	prefs   *prefs.Prefs
	session *session.Session

	canvas    *canvas.InkCanvas
	statusBar *widget.Label
	entry     *widget.Label
	tools     *toolbar

	// Last recognized entry, used as the PDF caption.
	lastEntry string
	saved     app.Config
}

// New creates the main window around an open session.
func New(fyneApp fyne.App, s *session.Session, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow(appTitle)

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		prefs:   p,
		session: s,
		saved:   s.Config(),
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()

	w := p.Int(prefs.KeyWindowWidth, defaultWindowWidth)
	h := p.Int(prefs.KeyWindowHeight, defaultWindowHeight)
	mw.Resize(fyne.NewSize(float32(w), float32(h)))
	mw.SetOnClosed(func() {
		mw.SavePreferences()
		mw.session.Close()
	})
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewInkCanvas(mw.session)
	mw.canvas.OnSecondary(mw.showSelectionMenu)

	mw.statusBar = widget.NewLabel("Ready")
	mw.entry = widget.NewLabel("")
	mw.entry.TextStyle = fyne.TextStyle{Monospace: true}

	mw.tools = newToolbar(mw)

	content := container.NewBorder(
		mw.tools.container(),                      // top
		container.NewHBox(mw.statusBar, mw.entry), // bottom
		nil,                            // left
		nil,                            // right
		container.NewScroll(mw.canvas), // center
	)
	mw.SetContent(content)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Export PNG...", func() { mw.onExport(".png") }),
		fyne.NewMenuItem("Export PDF...", func() { mw.onExport(".pdf") }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.onUndo),
		fyne.NewMenuItem("Redo", mw.onRedo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear Page", mw.onClear),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Recognize Entry", mw.onRecognize),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, toolsMenu, helpMenu))
}

func (mw *MainWindow) setupShortcuts() {
	c := mw.Canvas()
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { mw.onUndo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift},
		func(fyne.Shortcut) { mw.onRedo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyEqual, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { mw.onZoomIn() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyMinus, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { mw.onZoomOut() })
	c.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			mw.canvas.Cancel()
			mw.report(mw.session.DismissSelection())
		}
	})
}

// setupEventHandlers registers for session events.
func (mw *MainWindow) setupEventHandlers() {
	bus := mw.session.Bus()

	bus.On(app.EventHistoryChanged, func(interface{}) {
		mw.tools.syncHistory()
	})

	bus.On(app.EventToolChanged, func(interface{}) {
		mw.tools.syncTools()
	})

	bus.On(app.EventViewportChanged, func(interface{}) {
		mw.tools.syncZoom()
		mw.canvas.Refresh()
	})

	bus.On(app.EventSelectionChanged, func(interface{}) {
		if _, ok := mw.session.Selection(); ok {
			mw.updateStatus("Selection: right-click for commands")
		}
	})

	bus.On(app.EventRecognitionStarted, func(interface{}) {
		mw.tools.recognize.Disable()
		mw.updateStatus("Recognizing...")
	})

	bus.On(app.EventRecognized, func(data interface{}) {
		mw.tools.recognize.Enable()
		res, ok := data.(session.Recognized)
		if !ok {
			return
		}
		mw.showEntry(res.Text)
	})

	bus.On(app.EventRecognitionFailed, func(data interface{}) {
		mw.tools.recognize.Enable()
		err, _ := data.(error)
		mw.updateStatus(fmt.Sprintf("Recognition failed: %v", err))
	})
}

// showEntry displays recognized text, parsed as a ledger entry when it fits
// the "<type> <amount> <date>" form.
func (mw *MainWindow) showEntry(text string) {
	tx, err := ocr.ParseTransaction(text)
	if err != nil {
		log.Printf("mainwindow: %v", err)
		mw.lastEntry = strings.TrimSpace(text)
		mw.entry.SetText(mw.lastEntry)
		mw.updateStatus("Recognized text (not a ledger entry)")
		return
	}
	mw.lastEntry = tx.String()
	mw.entry.SetText(mw.lastEntry)
	mw.updateStatus("Recognized " + tx.Type)
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) report(err error) {
	if err == nil {
		return
	}
	log.Printf("mainwindow: %v", err)
	if !errors.Is(err, session.ErrClosed) {
		mw.updateStatus(err.Error())
	}
}

// showSelectionMenu pops up the command menu for the active region.
func (mw *MainWindow) showSelectionMenu(pos fyne.Position) {
	if _, ok := mw.session.Selection(); !ok {
		return
	}
	var items []*fyne.MenuItem
	for _, name := range mw.session.Commands() {
		name := name
		items = append(items, fyne.NewMenuItem(commandLabel(string(name)), func() {
			mw.report(mw.session.ApplyCommand(name))
		}))
	}
	items = append(items, fyne.NewMenuItemSeparator(), fyne.NewMenuItem("Dismiss", func() {
		mw.report(mw.session.DismissSelection())
	}))
	widget.ShowPopUpMenuAtPosition(fyne.NewMenu("", items...), mw.Canvas(), pos)
}

// commandLabel turns "snapToShape" into "Snap to shape".
func commandLabel(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case i == 0:
			b.WriteString(strings.ToUpper(string(r)))
		case r >= 'A' && r <= 'Z':
			b.WriteByte(' ')
			b.WriteString(strings.ToLower(string(r)))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SavePreferences stores the session settings and window size.
func (mw *MainWindow) SavePreferences() {
	cfg := mw.session.Config()
	prefs.StoreConfig(mw.prefs, cfg)
	size := mw.Canvas().Size()
	if size.Width > 0 && size.Height > 0 {
		mw.prefs.SetInt(prefs.KeyWindowWidth, int(size.Width))
		mw.prefs.SetInt(prefs.KeyWindowHeight, int(size.Height))
	}
	if err := mw.prefs.Save(); err != nil {
		log.Printf("mainwindow: save preferences: %v", err)
		return
	}
	mw.saved = cfg
}

// SavePreferencesIfChanged saves only when the settings moved since the last
// save.
func (mw *MainWindow) SavePreferencesIfChanged() {
	if mw.session.Closed() || mw.session.Config() == mw.saved {
		return
	}
	mw.SavePreferences()
}

// Menu action handlers

func (mw *MainWindow) onUndo() {
	mw.report(mw.session.Undo())
}

func (mw *MainWindow) onRedo() {
	mw.report(mw.session.Redo())
}

func (mw *MainWindow) onClear() {
	dialog.ShowConfirm("Clear Page", "Erase everything on this page?", func(ok bool) {
		if ok {
			mw.report(mw.session.Clear())
		}
	}, mw.Window)
}

func (mw *MainWindow) onZoomIn() {
	mw.report(mw.session.ZoomIn())
}

func (mw *MainWindow) onZoomOut() {
	mw.report(mw.session.ZoomOut())
}

func (mw *MainWindow) onActualSize() {
	mw.report(mw.session.ResetView())
}

func (mw *MainWindow) onRecognize() {
	err := mw.session.Recognize()
	if errors.Is(err, session.ErrRecognitionPending) {
		mw.updateStatus("Recognition already in progress")
		return
	}
	mw.report(err)
}

func (mw *MainWindow) onExport(ext string) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ext {
			path += ext
		}
		mw.prefs.SetString(prefs.KeyExportDir, filepath.Dir(path))

		page := mw.session.Flattened()
		if ext == ".pdf" {
			err = export.SavePDF(path, page, export.Options{Title: appTitle, Caption: mw.lastEntry})
		} else {
			err = export.SavePNG(path, page)
		}
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Exported " + filepath.Base(path))
	}, mw.Window)
	fd.SetFileName("page" + ext)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{ext}))
	if dir := mw.prefs.String(prefs.KeyExportDir); dir != "" {
		if loc, err := storage.ListerForURI(storage.NewFileURI(dir)); err == nil {
			fd.SetLocation(loc)
		}
	}
	fd.Show()
}

func (mw *MainWindow) onAbout() {
	w, h := mw.session.Size()
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s %s\n\nHandwritten ledger entries.\n\nPage: %dx%d\nSession: %s",
			appTitle, version.String(), w, h, mw.session.ID()),
		mw.Window)
}
