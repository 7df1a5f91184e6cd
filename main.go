// Package main provides the entry point for the Leak Viewer application.
package main

import (
	"log"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"leak-viewer/internal/app"
	"leak-viewer/internal/config"
	"leak-viewer/internal/version"
	"leak-viewer/ui/mainwindow"
	"leak-viewer/ui/prefs"
)

const appTitle = "Leak Viewer"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	fyneApp := fyneapp.NewWithID("leak-viewer")

	appState := app.NewState()
	appPrefs := prefs.Load()
	cfg := loadConfig()

	win := mainwindow.New(fyneApp, appState, appPrefs, cfg)
	win.SetTitle(appTitle)
	win.Resize(windowSize(appPrefs))

	// A session or network file on the command line overrides the
	// remembered session.
	if len(os.Args) > 1 {
		openArgument(appState, os.Args[1])
	} else if last := appPrefs.String(prefs.KeyLastSession); last != "" {
		if err := appState.LoadSession(last); err != nil {
			log.Printf("Failed to restore session %s: %v", last, err)
		}
	}

	watcher, err := app.NewSnapshotWatcher(appState)
	if err != nil {
		log.Printf("Snapshot watcher disabled: %v", err)
	} else {
		defer watcher.Close()
	}

	win.ShowAndRun()

	appPrefs.SetFloat(prefs.KeyWindowWidth, float64(win.Canvas().Size().Width))
	appPrefs.SetFloat(prefs.KeyWindowHeight, float64(win.Canvas().Size().Height))
	if err := appPrefs.Save(); err != nil {
		log.Printf("Failed to save preferences: %v", err)
	}
}

// loadConfig reads the optional viewer.toml next to the preferences.
func loadConfig() config.Viewer {
	path := ""
	if dir, err := os.UserConfigDir(); err == nil {
		path = filepath.Join(dir, "leak-viewer", "viewer.toml")
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Printf("Ignoring config %s: %v", path, err)
		return config.Default()
	}
	return cfg
}

// openArgument loads a session or a bare network snapshot by extension.
func openArgument(state *app.State, path string) {
	var err error
	if filepath.Ext(path) == ".leakview" {
		err = state.LoadSession(path)
	} else {
		err = state.LoadNetwork(path)
	}
	if err != nil {
		log.Printf("Failed to open %s: %v", path, err)
	}
}

func windowSize(p *prefs.Prefs) fyne.Size {
	return fyne.NewSize(
		float32(p.FloatWithFallback(prefs.KeyWindowWidth, 1280)),
		float32(p.FloatWithFallback(prefs.KeyWindowHeight, 800)),
	)
}
