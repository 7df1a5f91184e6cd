// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"leak-viewer/internal/app"
	"leak-viewer/internal/config"
	"leak-viewer/internal/version"
	"leak-viewer/ui/canvas"
	"leak-viewer/ui/panels"
	"leak-viewer/ui/prefs"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	prefs     *prefs.Prefs
	config    config.Viewer
	canvas    *canvas.NetworkCanvas
	sidePanel *panels.SidePanel
	statusBar *widget.Label
	zoomLabel *widget.Label
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs, cfg config.Viewer) *MainWindow {
	win := fyneApp.NewWindow("Leak Viewer")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
		config: cfg,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.New()
	mw.canvas.SetHitThreshold(mw.config.View.HitThresholdPx)
	mw.canvas.Controller().SetZoomBounds(mw.config.View.MinZoom, mw.config.View.MaxZoom)
	mw.canvas.Controller().SetPanSensitivity(mw.config.View.PanSensitivity)
	mw.canvas.SetHeatEncoding(
		mw.config.Heatmap.RadiusScale,
		mw.config.Heatmap.RadiusMin,
		mw.config.Heatmap.OpacityScale,
	)
	showLabels := mw.prefs.Bool(prefs.KeyShowLabels, mw.config.Layers.ShowLabels)
	mw.canvas.SetShowLabels(showLabels)

	mw.sidePanel = panels.NewSidePanel(mw.state, mw.canvas, mw.prefs, showLabels)

	mw.statusBar = widget.NewLabel("Ready")
	mw.zoomLabel = widget.NewLabel("Zoom: 100%")

	mw.canvas.OnHover(func(id string) {
		if id == "" {
			mw.updateStatus("Ready")
			return
		}
		mw.updateStatus("Node: " + id)
	})
	mw.canvas.OnViewChange(func(zoom float64) {
		mw.zoomLabel.SetText(fmt.Sprintf("Zoom: %.0f%%", zoom*100))
	})

	toolbar := mw.createToolbar()

	canvasArea := container.NewBorder(
		toolbar,   // top
		nil,       // bottom
		nil,       // left
		nil,       // right
		mw.canvas, // center
	)

	split := container.NewHSplit(
		mw.sidePanel.Container(),
		canvasArea,
	)
	split.SetOffset(0.22)

	statusRow := container.NewBorder(nil, nil, nil, mw.zoomLabel, mw.statusBar)
	content := container.NewBorder(
		nil,                            // top
		container.NewPadded(statusRow), // bottom
		nil,                            // left
		nil,                            // right
		split,                          // center
	)

	mw.SetContent(content)
}

// createToolbar creates the toolbar with zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	zoomOutBtn := widget.NewButton("-", func() {
		mw.onZoomOut()
	})
	zoomInBtn := widget.NewButton("+", func() {
		mw.onZoomIn()
	})
	resetBtn := widget.NewButton("Fit", func() {
		mw.onResetView()
	})

	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		resetBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Session...", mw.onOpenSession),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Open Network...", mw.onOpenNetwork),
		fyne.NewMenuItem("Open Predictions...", mw.onOpenPredictions),
		fyne.NewMenuItem("Open Ground Truth...", mw.onOpenGroundTruth),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Session", mw.onSaveSession),
		fyne.NewMenuItem("Save Session As...", mw.onSaveSessionAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		fyne.NewMenuItem("Reset View", mw.onResetView),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mainMenu := fyne.NewMainMenu(fileMenu, viewMenu, helpMenu)
	mw.SetMainMenu(mainMenu)
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	syncCanvas := func(resetView bool) {
		n, preds, gt := mw.state.Snapshot()
		mw.canvas.SetData(n, preds, gt, resetView)
	}

	mw.state.On(app.EventNetworkLoaded, func(data interface{}) {
		syncCanvas(true)
		if path, ok := data.(string); ok {
			mw.updateStatus("Network loaded: " + path)
		}
	})

	mw.state.On(app.EventNetworkReloaded, func(data interface{}) {
		// Same network path rewritten on disk: keep the viewport.
		syncCanvas(false)
		mw.updateStatus("Network reloaded")
	})

	mw.state.On(app.EventOverlaysChanged, func(data interface{}) {
		syncCanvas(false)
		if path, ok := data.(string); ok {
			mw.updateStatus("Loaded: " + filepath.Base(path))
		}
	})

	mw.state.On(app.EventFlagsChanged, func(interface{}) {
		mw.canvas.SetFlags(mw.state.Flags)
	})

	mw.state.On(app.EventSessionLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("Leak Viewer - " + filepath.Base(path))
			mw.updateStatus("Session loaded: " + path)
			mw.prefs.SetString(prefs.KeyLastSession, path)
			_ = mw.prefs.Save()
		}
		mw.canvas.SetFlags(mw.state.Flags)
	})

	mw.state.On(app.EventSessionSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("Leak Viewer - " + filepath.Base(path))
			mw.updateStatus("Session saved: " + path)
			mw.prefs.SetString(prefs.KeyLastSession, path)
			_ = mw.prefs.Save()
		}
	})

	mw.state.On(app.EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok && modified {
			title := mw.Title()
			if len(title) > 0 && title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		}
	})
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastNetworkDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastNetworkDir, filepath.Dir(filePath))
	_ = mw.prefs.Save()
}

// openFile shows a JSON file-open dialog and hands the path to load.
func (mw *MainWindow) openFile(extensions []string, load func(path string) error) {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := load(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(extensions))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// Menu action handlers

func (mw *MainWindow) onOpenSession() {
	mw.openFile([]string{".leakview"}, mw.state.LoadSession)
}

func (mw *MainWindow) onOpenNetwork() {
	mw.openFile([]string{".json"}, mw.state.LoadNetwork)
}

func (mw *MainWindow) onOpenPredictions() {
	mw.openFile([]string{".json"}, mw.state.LoadPredictions)
}

func (mw *MainWindow) onOpenGroundTruth() {
	mw.openFile([]string{".json"}, mw.state.LoadGroundTruth)
}

func (mw *MainWindow) onSaveSession() {
	if mw.state.SessionPath == "" {
		mw.onSaveSessionAs()
		return
	}
	if err := mw.state.SaveSession(mw.state.SessionPath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveSessionAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".leakview" {
			path += ".leakview"
		}
		mw.saveLastDir(path)
		if err := mw.state.SaveSession(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName("session.leakview")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onZoomIn() {
	mw.canvas.Controller().Wheel(1)
}

func (mw *MainWindow) onZoomOut() {
	mw.canvas.Controller().Wheel(-1)
}

func (mw *MainWindow) onResetView() {
	mw.canvas.Controller().Reset()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Leak Viewer",
		fmt.Sprintf("Leak Viewer v%s\n\n"+
			"Visualizes water-network leak detections:\n"+
			"network geometry, sensor placement, predictions,\n"+
			"and ground-truth overlays.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
