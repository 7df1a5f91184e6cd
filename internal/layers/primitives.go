// Package layers assembles the ordered draw-primitive list that a
// renderer backend paints. Primitives are world-space and
// renderer-agnostic; z-order is fixed by the builder (painter's
// algorithm, back to front).
package layers

import (
	"image/color"

	"leak-viewer/pkg/geometry"
)

// Layer identifies the fixed z-order slot a primitive belongs to.
// Declaration order is paint order: pipes are dimmest and bottom-most,
// prediction markers brightest and top-most, with error-indicator lines
// above everything for legibility.
type Layer int

const (
	LayerPipes Layer = iota
	LayerNodes
	LayerSensors
	LayerGroundTruth
	LayerHeatmap
	LayerPredictions
	LayerErrorLines
)

func (l Layer) String() string {
	switch l {
	case LayerPipes:
		return "pipes"
	case LayerNodes:
		return "nodes"
	case LayerSensors:
		return "sensors"
	case LayerGroundTruth:
		return "ground-truth"
	case LayerHeatmap:
		return "heatmap"
	case LayerPredictions:
		return "predictions"
	case LayerErrorLines:
		return "error-lines"
	default:
		return "unknown"
	}
}

// Shape selects the marker glyph for point primitives.
type Shape int

const (
	ShapeCircle Shape = iota
	ShapeSquare
	ShapeCross    // ground truth: X marker
	ShapeDiamond  // predictions
	ShapeRing     // sensors: hollow circle
)

// Segment is a world-space line segment.
type Segment struct {
	From geometry.Point2D
	To   geometry.Point2D
}

// Marker is a world-positioned glyph with a pixel radius.
type Marker struct {
	Pos    geometry.Point2D
	Radius float64 // screen pixels, not world units
	Label  string
}

// Primitive is one drawable batch. Segment primitives carry many
// segments (all pipes batch into one primitive); marker primitives carry
// many markers of the same style. Opacity is pre-multiplied into Color's
// alpha by the builder.
type Primitive struct {
	Layer   Layer
	Shape   Shape
	Color   color.RGBA
	Width   float64 // stroke width in pixels for segments
	Dashed  bool
	Seg     []Segment
	Markers []Marker
}

// SortStable returns primitives ordered back-to-front by layer,
// preserving in-layer order. The builder already emits in order; this is
// the safety net for callers that merge primitive lists.
func SortStable(prims []Primitive) []Primitive {
	out := make([]Primitive, 0, len(prims))
	for layer := LayerPipes; layer <= LayerErrorLines; layer++ {
		for _, pr := range prims {
			if pr.Layer == layer {
				out = append(out, pr)
			}
		}
	}
	return out
}
