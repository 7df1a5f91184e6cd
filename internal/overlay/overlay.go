// Package overlay holds the leak-detection output that is drawn on top
// of the network: predictions with per-sample probability heatmaps, and
// ground-truth leak locations. The payloads are produced by an external
// pipeline and treated as opaque, already-resolved snapshots.
package overlay

import (
	"leak-viewer/pkg/geometry"
)

// HeatmapPoint is one IDW-style probability sample. Weight is nominally
// in [0,1]; out-of-range values are clamped at encode time, not here.
type HeatmapPoint struct {
	Pos    geometry.Point2D
	Weight float64
}

// Prediction is a single detected leak candidate.
type Prediction struct {
	DetectedNode  string
	StartTime     string
	CusumSeverity float64
	GPS           *geometry.Point2D // explicit location estimate, if provided
	Heatmap       []HeatmapPoint
	WorkOrder     string
}

// GroundTruthLeak is a known leak location, placed on a pipe.
type GroundTruthLeak struct {
	PipeID string
	Pos    geometry.Point2D
}

// GroundTruth is the full ground-truth payload.
type GroundTruth struct {
	Leaks []GroundTruthLeak
	Count int
}
