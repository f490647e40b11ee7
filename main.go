// Package main provides the entry point for the Ledger Ink application.
package main

import (
	"flag"
	"log"
	"time"

	"ledger-ink/internal/app"
	"ledger-ink/internal/ocr"
	"ledger-ink/internal/session"
	"ledger-ink/internal/version"
	"ledger-ink/ui/mainwindow"
	"ledger-ink/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
)

const (
	appID    = "io.ledgerink.app"
	appTitle = "Ledger Ink"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s %s", appTitle, version.String())

	engine := flag.String("engine", "", "recognizer: demo or tesseract (default from preferences)")
	hotReload := flag.Bool("hot-reload", false, "offer a restart when the binary is rebuilt")
	flag.Parse()

	appPrefs := prefs.Load()
	cfg := prefs.LoadConfig(appPrefs)
	if *engine != "" {
		cfg.Recognizer = *engine
		cfg.Normalize()
	}

	rec, closeRec := newRecognizer(cfg)
	defer closeRec()

	a := fyneapp.NewWithID(appID)
	a.Settings().SetTheme(&app.LedgerTheme{})

	s := session.New(session.Options{
		Config:     cfg,
		Recognizer: rec,
		Validate: func(text string) error {
			_, err := ocr.ParseTransaction(text)
			return err
		},
	})
	win := mainwindow.New(a, s, appPrefs)

	if *hotReload || appPrefs.Bool(prefs.KeyHotReload, false) {
		setupHotReload(win)
	}

	win.ShowAndRun()
}

// newRecognizer opens the configured engine, falling back to the demo
// recognizer when Tesseract is unavailable.
func newRecognizer(cfg app.Config) (session.Recognizer, func()) {
	if cfg.Recognizer == app.RecognizerTesseract {
		engine, err := ocr.NewTesseractEngine(cfg.Language)
		if err == nil {
			log.Printf("Recognizer: tesseract (%s)", cfg.Language)
			return engine, func() { engine.Close() }
		}
		log.Printf("Recognizer: tesseract unavailable, using demo: %v", err)
	}
	log.Println("Recognizer: demo")
	return ocr.NewDemoRecognizer(), func() {}
}

// setupHotReload configures automatic restart detection when the binary is recompiled.
func setupHotReload(win *mainwindow.MainWindow) {
	reloader := app.NewHotReloader(2 * time.Second)
	if reloader == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}

	log.Printf("Hot reload: watching %s (modified %s)",
		reloader.ExecPath(), reloader.Baseline().Format("15:04:05"))

	reloader.OnTick(func() {
		win.SavePreferencesIfChanged()
	})

	reloader.OnNewBinary(func() {
		log.Println("Hot reload: newer binary detected")
		dialog.ShowConfirm("New Version Available",
			"The application binary has been updated.\nRestart now?",
			func(restart bool) {
				if !restart {
					reloader.ResetBaseline()
					reloader.Start()
					return
				}
				log.Println("Hot reload: saving preferences before restart...")
				win.SavePreferences()
				log.Println("Hot reload: restarting...")
				if err := reloader.Restart(); err != nil {
					log.Printf("Hot reload: restart failed: %v", err)
				}
			}, win.Window)
	})

	reloader.Start()
}
