package layers

import (
	"leak-viewer/internal/network"
	"leak-viewer/internal/overlay"
	"leak-viewer/pkg/colorutil"
	"leak-viewer/pkg/geometry"
)

// Flags controls overlay visibility. The network itself is always drawn.
type Flags struct {
	ShowGroundTruth bool
	ShowPredictions bool
	ShowErrorLines  bool
}

// DefaultFlags shows everything.
func DefaultFlags() Flags {
	return Flags{ShowGroundTruth: true, ShowPredictions: true, ShowErrorLines: true}
}

// Builder assembles the draw list from the current snapshots. Build runs
// when data or flags change, not per frame; the raster backend projects
// the world-space output on every transform change.
type Builder struct {
	Encoder HeatEncoder
}

// NewBuilder returns a builder with default heatmap encoding.
func NewBuilder() *Builder {
	return &Builder{Encoder: NewHeatEncoder()}
}

// Build produces the ordered primitive list. Layer order is fixed
// (painter's algorithm): pipes, nodes, sensors, ground truth, heatmap,
// predictions, error lines. Missing data is simply skipped; links with
// unknown endpoints are dropped without error; each prediction's heatmap
// renders beneath its own marker because all heatmap primitives precede
// all prediction markers.
func (b *Builder) Build(n *network.Network, preds []overlay.Prediction, gt *overlay.GroundTruth, flags Flags) []Primitive {
	var prims []Primitive

	prims = append(prims, b.buildPipes(n))
	prims = append(prims, b.buildNodes(n)...)
	if p := b.buildSensors(n); p != nil {
		prims = append(prims, *p)
	}

	if flags.ShowGroundTruth && gt != nil && len(gt.Leaks) > 0 {
		prims = append(prims, b.buildGroundTruth(gt))
	}

	if flags.ShowPredictions && len(preds) > 0 {
		prims = append(prims, b.buildHeatmaps(preds)...)
		if p := b.buildPredictionMarkers(n, preds); p != nil {
			prims = append(prims, *p)
		}
		if flags.ShowErrorLines && flags.ShowGroundTruth && gt != nil && len(gt.Leaks) > 0 {
			if p := b.buildErrorLines(n, preds, gt); p != nil {
				prims = append(prims, *p)
			}
		}
	}

	return prims
}

// buildPipes batches every resolved link into a single segment
// primitive. An empty or fully-unresolved network still yields the
// (empty) pipes primitive so the layer structure is stable.
func (b *Builder) buildPipes(n *network.Network) Primitive {
	prim := Primitive{
		Layer: LayerPipes,
		Color: colorutil.DimGray,
		Width: 1,
	}
	if n == nil {
		return prim
	}
	resolved, _ := n.ResolvedLinks()
	for _, l := range resolved {
		prim.Seg = append(prim.Seg, Segment{From: l.Start, To: l.End})
	}
	return prim
}

// buildNodes emits one marker primitive per node kind so each kind keeps
// its own style. Sensor nodes are excluded here; they get the distinct
// sensor marker instead.
func (b *Builder) buildNodes(n *network.Network) []Primitive {
	if n == nil {
		return nil
	}

	sensorSet := make(map[string]bool, len(n.Sensors))
	for _, s := range n.Sensors {
		sensorSet[s] = true
	}

	byKind := map[network.NodeKind]*Primitive{}
	var kinds []network.NodeKind
	for _, id := range n.Order {
		node := n.Nodes[id]
		if sensorSet[id] {
			continue
		}
		prim, ok := byKind[node.Kind]
		if !ok {
			style := network.StyleFor(node.Kind)
			shape := ShapeCircle
			if style.Square {
				shape = ShapeSquare
			}
			prim = &Primitive{
				Layer: LayerNodes,
				Shape: shape,
				Color: style.Color,
			}
			byKind[node.Kind] = prim
			kinds = append(kinds, node.Kind)
		}
		style := network.StyleFor(node.Kind)
		prim.Markers = append(prim.Markers, Marker{Pos: node.Pos, Radius: style.Radius})
	}

	prims := make([]Primitive, 0, len(kinds))
	for _, k := range kinds {
		prims = append(prims, *byKind[k])
	}
	return prims
}

// buildSensors renders sensor nodes as hollow rings, visually distinct
// from plain junctions.
func (b *Builder) buildSensors(n *network.Network) *Primitive {
	if n == nil || len(n.Sensors) == 0 {
		return nil
	}
	prim := Primitive{
		Layer: LayerSensors,
		Shape: ShapeRing,
		Color: colorutil.Blue,
		Width: 2,
	}
	for _, id := range n.Sensors {
		node, ok := n.Nodes[id]
		if !ok {
			continue
		}
		prim.Markers = append(prim.Markers, Marker{Pos: node.Pos, Radius: 6, Label: id})
	}
	if len(prim.Markers) == 0 {
		return nil
	}
	return &prim
}

func (b *Builder) buildGroundTruth(gt *overlay.GroundTruth) Primitive {
	prim := Primitive{
		Layer: LayerGroundTruth,
		Shape: ShapeCross,
		Color: colorutil.Red,
		Width: 2,
	}
	for _, leak := range gt.Leaks {
		prim.Markers = append(prim.Markers, Marker{Pos: leak.Pos, Radius: 7, Label: leak.PipeID})
	}
	return prim
}

// buildHeatmaps turns each heatmap point into a circle whose color
// already carries its encoded opacity. Points are emitted per
// prediction, in prediction order, so every heatmap stays beneath its
// own prediction marker.
func (b *Builder) buildHeatmaps(preds []overlay.Prediction) []Primitive {
	var prims []Primitive
	for _, p := range preds {
		if len(p.Heatmap) == 0 {
			continue
		}
		for _, hp := range p.Heatmap {
			sample := b.Encoder.Encode(hp.Weight)
			prims = append(prims, Primitive{
				Layer: LayerHeatmap,
				Shape: ShapeCircle,
				Color: b.Encoder.Color(sample),
				Markers: []Marker{
					{Pos: hp.Pos, Radius: sample.Radius},
				},
			})
		}
	}
	return prims
}

// buildPredictionMarkers places one diamond per locatable prediction.
// Predictions with neither GPS coordinates nor a resolvable detected
// node are skipped, per the missing-reference policy.
func (b *Builder) buildPredictionMarkers(n *network.Network, preds []overlay.Prediction) *Primitive {
	prim := Primitive{
		Layer: LayerPredictions,
		Shape: ShapeDiamond,
		Color: colorutil.Yellow,
		Width: 2,
	}
	for _, p := range preds {
		pos, ok := locate(p, n)
		if !ok {
			continue
		}
		prim.Markers = append(prim.Markers, Marker{Pos: pos, Radius: 8, Label: p.DetectedNode})
	}
	if len(prim.Markers) == 0 {
		return nil
	}
	return &prim
}

// buildErrorLines connects each locatable prediction to its nearest
// ground-truth leak with a dashed segment.
func (b *Builder) buildErrorLines(n *network.Network, preds []overlay.Prediction, gt *overlay.GroundTruth) *Primitive {
	prim := Primitive{
		Layer:  LayerErrorLines,
		Color:  colorutil.Orange,
		Width:  1,
		Dashed: true,
	}
	for _, p := range preds {
		pos, ok := locate(p, n)
		if !ok {
			continue
		}
		var nearest *geometry.Point2D
		bestDist := 0.0
		for i := range gt.Leaks {
			d := pos.Distance(gt.Leaks[i].Pos)
			if nearest == nil || d < bestDist {
				nearest = &gt.Leaks[i].Pos
				bestDist = d
			}
		}
		if nearest != nil {
			prim.Seg = append(prim.Seg, Segment{From: pos, To: *nearest})
		}
	}
	if len(prim.Seg) == 0 {
		return nil
	}
	return &prim
}

func locate(p overlay.Prediction, n *network.Network) (geometry.Point2D, bool) {
	return overlay.Locate(p, func(id string) (geometry.Point2D, bool) {
		if n == nil {
			return geometry.Point2D{}, false
		}
		node, ok := n.Nodes[id]
		return node.Pos, ok
	})
}
