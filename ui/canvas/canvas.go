// Package canvas provides the network canvas with pan, zoom, and
// nearest-node picking.
package canvas

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"leak-viewer/internal/layers"
	"leak-viewer/internal/network"
	"leak-viewer/internal/overlay"
	"leak-viewer/internal/render"
	"leak-viewer/internal/view"
	"leak-viewer/pkg/geometry"
)

// NetworkCanvas renders the current draw list through the raster backend
// and feeds pointer events into the view controller. The draw list is
// rebuilt only when data or flags change; transform changes just trigger
// a re-render of the same list.
type NetworkCanvas struct {
	widget.BaseWidget

	mu sync.RWMutex

	net   *network.Network
	preds []overlay.Prediction
	gt    *overlay.GroundTruth
	flags layers.Flags

	builder    *layers.Builder
	rasterizer *render.Rasterizer
	prims      []layers.Primitive

	controller *view.Controller
	projection view.Projection

	raster *fynecanvas.Raster

	// Raster pixel size of the last render; event positions arrive in
	// device-independent points and are scaled to match.
	lastW, lastH int

	hitThreshold float64
	hoveredNode  string
	selectedNode string

	onHover      func(id string)
	onSelect     func(id string)
	onViewChange func(zoom float64)
}

// New creates an empty network canvas.
func New() *NetworkCanvas {
	nc := &NetworkCanvas{
		builder:      layers.NewBuilder(),
		rasterizer:   render.NewRasterizer(),
		flags:        layers.DefaultFlags(),
		hitThreshold: view.DefaultHitThreshold,
	}
	nc.controller = view.NewController()
	nc.controller.OnChange(func() {
		nc.notifyViewChange()
		nc.Refresh()
	})
	nc.projection = view.NewProjection(geometry.UnitBounds(), geometry.Size{Width: 1, Height: 1})
	nc.raster = fynecanvas.NewRaster(nc.draw)
	nc.ExtendBaseWidget(nc)
	return nc
}

// CreateRenderer returns the widget renderer.
func (nc *NetworkCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(nc.raster)
}

// draw is the raster generator. It runs on the Fyne render path whenever
// the widget refreshes or resizes.
func (nc *NetworkCanvas) draw(w, h int) image.Image {
	nc.mu.Lock()
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	nc.lastW, nc.lastH = w, h
	nc.projection.Viewport = geometry.Size{Width: float64(w), Height: float64(h)}
	prims := nc.prims
	proj := nc.projection
	nc.mu.Unlock()

	return nc.rasterizer.Render(prims, proj, nc.controller.Transform(), w, h)
}

// SetData replaces the snapshots and rebuilds the draw list. When
// resetView is set the world bounds are recomputed and the viewport
// returns to the fitted home position; otherwise the current pan and
// zoom carry over the reload.
func (nc *NetworkCanvas) SetData(n *network.Network, preds []overlay.Prediction, gt *overlay.GroundTruth, resetView bool) {
	nc.mu.Lock()
	nc.net = n
	nc.preds = preds
	nc.gt = gt
	if resetView {
		var pts []geometry.Point2D
		if n != nil {
			pts = n.NodePoints()
		}
		nc.projection.Bounds = geometry.ComputeBounds(pts)
	}
	nc.mu.Unlock()

	nc.rebuild()
	if resetView {
		nc.controller.Reset()
	} else {
		nc.Refresh()
	}
}

// SetFlags updates overlay visibility and rebuilds the draw list.
func (nc *NetworkCanvas) SetFlags(flags layers.Flags) {
	nc.mu.Lock()
	nc.flags = flags
	nc.mu.Unlock()
	nc.rebuild()
	nc.Refresh()
}

// SetShowLabels toggles marker labels.
func (nc *NetworkCanvas) SetShowLabels(show bool) {
	nc.rasterizer.ShowLabels = show
	nc.Refresh()
}

// SetHeatEncoding overrides the heatmap encoding constants and rebuilds
// the draw list.
func (nc *NetworkCanvas) SetHeatEncoding(radiusScale, radiusMin, opacityScale float64) {
	nc.mu.Lock()
	nc.builder.Encoder.RadiusScale = radiusScale
	nc.builder.Encoder.RadiusMin = radiusMin
	nc.builder.Encoder.OpacityScale = opacityScale
	nc.mu.Unlock()
	nc.rebuild()
	nc.Refresh()
}

// SetHitThreshold overrides the pick distance in pixels.
func (nc *NetworkCanvas) SetHitThreshold(px float64) {
	nc.mu.Lock()
	if px > 0 {
		nc.hitThreshold = px
	}
	nc.mu.Unlock()
}

func (nc *NetworkCanvas) rebuild() {
	nc.mu.Lock()
	nc.prims = nc.builder.Build(nc.net, nc.preds, nc.gt, nc.flags)
	nc.mu.Unlock()
}

// Controller exposes the view controller for menu-driven zoom actions.
func (nc *NetworkCanvas) Controller() *view.Controller {
	return nc.controller
}

// OnHover registers a callback fired when the hovered node changes. An
// empty id means the pointer left every node's pick radius.
func (nc *NetworkCanvas) OnHover(fn func(id string)) { nc.onHover = fn }

// OnSelect registers a callback fired when a node is clicked.
func (nc *NetworkCanvas) OnSelect(fn func(id string)) { nc.onSelect = fn }

// OnViewChange registers a callback fired after pan or zoom.
func (nc *NetworkCanvas) OnViewChange(fn func(zoom float64)) { nc.onViewChange = fn }

func (nc *NetworkCanvas) notifyViewChange() {
	if nc.onViewChange != nil {
		nc.onViewChange(nc.controller.Transform().Scale)
	}
}

// SelectedNode returns the id of the currently selected node, or "".
func (nc *NetworkCanvas) SelectedNode() string {
	nc.mu.RLock()
	defer nc.mu.RUnlock()
	return nc.selectedNode
}

// eventPoint converts an event position in points to raster pixels.
func (nc *NetworkCanvas) eventPoint(pos fyne.Position) geometry.Point2D {
	size := nc.Size()
	nc.mu.RLock()
	w, h := nc.lastW, nc.lastH
	nc.mu.RUnlock()

	sx, sy := 1.0, 1.0
	if size.Width > 0 && w > 0 {
		sx = float64(w) / float64(size.Width)
	}
	if size.Height > 0 && h > 0 {
		sy = float64(h) / float64(size.Height)
	}
	return geometry.Point2D{X: float64(pos.X) * sx, Y: float64(pos.Y) * sy}
}

// pick runs the nearest-node test at a screen position.
func (nc *NetworkCanvas) pick(screen geometry.Point2D) string {
	nc.mu.RLock()
	n := nc.net
	proj := nc.projection
	threshold := nc.hitThreshold
	nc.mu.RUnlock()

	if n == nil {
		return ""
	}
	return view.HitTest(screen, n, proj, nc.controller.Transform(), threshold)
}

// Dragged pans the viewport 1:1 with the pointer.
func (nc *NetworkCanvas) Dragged(ev *fyne.DragEvent) {
	p := nc.eventPoint(ev.Position)
	if !nc.controller.Dragging() {
		nc.controller.PointerDown(p.X, p.Y)
		return
	}
	nc.controller.PointerMove(p.X, p.Y)
}

// DragEnd finishes a pan gesture.
func (nc *NetworkCanvas) DragEnd() {
	nc.controller.PointerUp()
}

// Scrolled zooms about the viewport center.
func (nc *NetworkCanvas) Scrolled(ev *fyne.ScrollEvent) {
	nc.controller.Wheel(float64(ev.Scrolled.DY))
}

// Tapped selects the nearest node within the pick radius, or clears the
// selection when nothing is close enough. A tap also takes keyboard
// focus so the arrow keys pan.
func (nc *NetworkCanvas) Tapped(ev *fyne.PointEvent) {
	if c := fyne.CurrentApp().Driver().CanvasForObject(nc); c != nil {
		c.Focus(nc)
	}

	id := nc.pick(nc.eventPoint(ev.Position))

	nc.mu.Lock()
	changed := id != nc.selectedNode
	nc.selectedNode = id
	nc.mu.Unlock()

	if changed && nc.onSelect != nil {
		nc.onSelect(id)
	}
}

// keyPanStep is the screen-space nudge per arrow key press.
const keyPanStep = 40

// FocusGained implements fyne.Focusable.
func (nc *NetworkCanvas) FocusGained() {}

// FocusLost implements fyne.Focusable.
func (nc *NetworkCanvas) FocusLost() {}

// TypedRune zooms on +/- so the keyboard mirrors the toolbar.
func (nc *NetworkCanvas) TypedRune(r rune) {
	switch r {
	case '+', '=':
		nc.controller.Wheel(1)
	case '-':
		nc.controller.Wheel(-1)
	}
}

// TypedKey pans with the arrow keys and resets on Home. The deltas are
// opposite the key direction: pressing right moves the viewport right,
// which shifts the content left.
func (nc *NetworkCanvas) TypedKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeyUp:
		nc.controller.Pan(0, keyPanStep)
	case fyne.KeyDown:
		nc.controller.Pan(0, -keyPanStep)
	case fyne.KeyLeft:
		nc.controller.Pan(keyPanStep, 0)
	case fyne.KeyRight:
		nc.controller.Pan(-keyPanStep, 0)
	case fyne.KeyHome:
		nc.controller.Reset()
	}
}

// MouseIn implements desktop.Hoverable.
func (nc *NetworkCanvas) MouseIn(ev *desktop.MouseEvent) {
	nc.MouseMoved(ev)
}

// MouseMoved tracks the hovered node for the status bar.
func (nc *NetworkCanvas) MouseMoved(ev *desktop.MouseEvent) {
	id := nc.pick(nc.eventPoint(ev.Position))

	nc.mu.Lock()
	changed := id != nc.hoveredNode
	nc.hoveredNode = id
	nc.mu.Unlock()

	if changed && nc.onHover != nil {
		nc.onHover(id)
	}
}

// MouseOut implements desktop.Hoverable.
func (nc *NetworkCanvas) MouseOut() {
	nc.mu.Lock()
	changed := nc.hoveredNode != ""
	nc.hoveredNode = ""
	nc.mu.Unlock()

	if changed && nc.onHover != nil {
		nc.onHover("")
	}
}
