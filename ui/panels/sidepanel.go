// Package panels provides UI panels for the application.
package panels

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"leak-viewer/internal/app"
	"leak-viewer/internal/layers"
	"leak-viewer/internal/overlay"
	"leak-viewer/pkg/geometry"
	"leak-viewer/ui/canvas"
	"leak-viewer/ui/prefs"
)

// SidePanel provides the side panel with tabbed sections.
type SidePanel struct {
	state     *app.State
	canvas    *canvas.NetworkCanvas
	container *container.AppTabs

	layersPanel  *LayersPanel
	networkPanel *NetworkPanel
	detailPanel  *DetailPanel
}

// NewSidePanel creates a new side panel.
func NewSidePanel(state *app.State, cvs *canvas.NetworkCanvas, p *prefs.Prefs, showLabels bool) *SidePanel {
	sp := &SidePanel{
		state:  state,
		canvas: cvs,
	}

	sp.layersPanel = NewLayersPanel(state, cvs, p, showLabels)
	sp.networkPanel = NewNetworkPanel(state)
	sp.detailPanel = NewDetailPanel(state)

	sp.container = container.NewAppTabs(
		container.NewTabItem("Layers", sp.layersPanel.Container()),
		container.NewTabItem("Network", sp.networkPanel.Container()),
		container.NewTabItem("Details", sp.detailPanel.Container()),
	)

	cvs.OnSelect(func(id string) {
		sp.detailPanel.ShowNode(id)
	})

	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// LayersPanel holds the overlay visibility checkboxes.
type LayersPanel struct {
	state     *app.State
	canvas    *canvas.NetworkCanvas
	container fyne.CanvasObject

	gtCheck     *widget.Check
	predCheck   *widget.Check
	errCheck    *widget.Check
	labelsCheck *widget.Check
}

// NewLayersPanel creates the layer visibility panel. The overlay
// checkboxes write through to the state so sessions record the flags;
// the labels toggle is a viewer preference and persists through prefs.
func NewLayersPanel(state *app.State, cvs *canvas.NetworkCanvas, p *prefs.Prefs, showLabels bool) *LayersPanel {
	lp := &LayersPanel{
		state:  state,
		canvas: cvs,
	}

	apply := func() {
		flags := layers.Flags{
			ShowGroundTruth: lp.gtCheck.Checked,
			ShowPredictions: lp.predCheck.Checked,
			ShowErrorLines:  lp.errCheck.Checked,
		}
		state.SetFlags(flags)
	}

	lp.gtCheck = widget.NewCheck("Ground-truth leaks", func(bool) { apply() })
	lp.predCheck = widget.NewCheck("Predictions", func(bool) { apply() })
	lp.errCheck = widget.NewCheck("Error lines", func(bool) { apply() })
	lp.labelsCheck = widget.NewCheck("Marker labels", func(checked bool) {
		cvs.SetShowLabels(checked)
		p.SetBool(prefs.KeyShowLabels, checked)
		_ = p.Save()
	})
	lp.labelsCheck.Checked = showLabels

	lp.syncFromState()

	state.On(app.EventSessionLoaded, func(interface{}) {
		lp.syncFromState()
	})

	lp.container = container.NewVBox(
		widget.NewLabel("Overlays"),
		lp.gtCheck,
		lp.predCheck,
		lp.errCheck,
		widget.NewSeparator(),
		lp.labelsCheck,
	)
	return lp
}

// syncFromState sets checkbox values without re-firing SetFlags.
func (lp *LayersPanel) syncFromState() {
	flags := lp.state.Flags
	lp.gtCheck.Checked = flags.ShowGroundTruth
	lp.predCheck.Checked = flags.ShowPredictions
	lp.errCheck.Checked = flags.ShowErrorLines
	lp.gtCheck.Refresh()
	lp.predCheck.Refresh()
	lp.errCheck.Refresh()
}

// Container returns the panel container.
func (lp *LayersPanel) Container() fyne.CanvasObject {
	return lp.container
}

// NetworkPanel summarizes the loaded snapshots: counts, connectivity,
// and localization error against ground truth.
type NetworkPanel struct {
	state     *app.State
	container fyne.CanvasObject

	summary *widget.Label
}

// NewNetworkPanel creates the network summary panel.
func NewNetworkPanel(state *app.State) *NetworkPanel {
	np := &NetworkPanel{
		state:   state,
		summary: widget.NewLabel("No network loaded"),
	}
	np.summary.Wrapping = fyne.TextWrapWord

	refresh := func(interface{}) { np.refresh() }
	state.On(app.EventNetworkLoaded, refresh)
	state.On(app.EventNetworkReloaded, refresh)
	state.On(app.EventOverlaysChanged, refresh)
	state.On(app.EventSessionLoaded, refresh)

	np.container = container.NewVScroll(np.summary)
	return np
}

// Container returns the panel container.
func (np *NetworkPanel) Container() fyne.CanvasObject {
	return np.container
}

func (np *NetworkPanel) refresh() {
	n, preds, gt := np.state.Snapshot()
	if n == nil {
		np.summary.SetText("No network loaded")
		return
	}

	var b strings.Builder
	resolved, dropped := n.ResolvedLinks()
	fmt.Fprintf(&b, "Nodes: %d\n", n.NodeCount())
	fmt.Fprintf(&b, "Pipes: %d", len(resolved))
	if dropped > 0 {
		fmt.Fprintf(&b, " (%d dropped, unknown endpoints)", dropped)
	}
	fmt.Fprintf(&b, "\nSensors: %d\n", len(n.Sensors))

	report := n.Connectivity()
	fmt.Fprintf(&b, "\nComponents: %d\n", report.Components)
	if report.IsolatedNodes > 0 {
		fmt.Fprintf(&b, "Isolated nodes: %d\n", report.IsolatedNodes)
	}

	if len(preds) > 0 {
		fmt.Fprintf(&b, "\nPredictions: %d\n", len(preds))
	}
	if gt != nil {
		fmt.Fprintf(&b, "Ground-truth leaks: %d\n", len(gt.Leaks))
	}

	if len(preds) > 0 && gt != nil && len(gt.Leaks) > 0 {
		m := overlay.ComputeLocalization(preds, gt, func(id string) (geometry.Point2D, bool) {
			node, found := n.Nodes[id]
			return node.Pos, found
		})
		if m.Matched > 0 {
			fmt.Fprintf(&b, "\nLocalization (matched %d):\n", m.Matched)
			fmt.Fprintf(&b, "  mean error: %.1f\n", m.MeanError)
			fmt.Fprintf(&b, "  max error:  %.1f\n", m.MaxError)
		}
	}

	np.summary.SetText(b.String())
}

// DetailPanel shows the selected node's attributes.
type DetailPanel struct {
	state     *app.State
	container fyne.CanvasObject

	detail *widget.Label
}

// NewDetailPanel creates the node detail panel.
func NewDetailPanel(state *app.State) *DetailPanel {
	dp := &DetailPanel{
		state:  state,
		detail: widget.NewLabel("Click a node to inspect it"),
	}
	dp.detail.Wrapping = fyne.TextWrapWord
	dp.container = container.NewVScroll(dp.detail)
	return dp
}

// Container returns the panel container.
func (dp *DetailPanel) Container() fyne.CanvasObject {
	return dp.container
}

// ShowNode displays the given node; an empty id clears the panel.
func (dp *DetailPanel) ShowNode(id string) {
	if id == "" {
		dp.detail.SetText("Click a node to inspect it")
		return
	}
	n, preds, _ := dp.state.Snapshot()
	if n == nil {
		return
	}
	node, ok := n.Nodes[id]
	if !ok {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Node %s\n", node.ID)
	fmt.Fprintf(&b, "Kind: %s\n", node.Kind)
	fmt.Fprintf(&b, "Position: (%.2f, %.2f)\n", node.Pos.X, node.Pos.Y)
	if node.HasElev {
		fmt.Fprintf(&b, "Elevation: %.2f\n", node.Elevation)
	}
	if n.IsSensor(id) {
		b.WriteString("Sensor: yes\n")
	}

	for _, p := range preds {
		if p.DetectedNode != id {
			continue
		}
		b.WriteString("\nLeak predicted here\n")
		if p.StartTime != "" {
			fmt.Fprintf(&b, "  start: %s\n", p.StartTime)
		}
		fmt.Fprintf(&b, "  severity: %.3f\n", p.CusumSeverity)
		if p.WorkOrder != "" {
			fmt.Fprintf(&b, "  work order: %s\n", p.WorkOrder)
		}
	}

	dp.detail.SetText(b.String())
}
