package overlay

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"leak-viewer/pkg/geometry"
)

// LocalizationMetrics summarizes how far predicted locations land from
// ground truth, matching the pipeline's own reporting (mean localization
// error in world units).
type LocalizationMetrics struct {
	Matched   int // predictions with a usable location and a ground truth to compare
	MeanError float64
	MaxError  float64
}

// Locate returns the prediction's world location: the explicit GPS
// estimate when present, otherwise the detected node's coordinates.
// ok is false when neither resolves.
func Locate(p Prediction, nodePos func(id string) (geometry.Point2D, bool)) (geometry.Point2D, bool) {
	if p.GPS != nil {
		return *p.GPS, true
	}
	if p.DetectedNode != "" {
		return nodePos(p.DetectedNode)
	}
	return geometry.Point2D{}, false
}

// ComputeLocalization measures each located prediction against its
// nearest ground-truth leak. Predictions that cannot be located, or an
// empty ground truth, simply contribute nothing — partial snapshots are
// normal.
func ComputeLocalization(preds []Prediction, gt *GroundTruth, nodePos func(id string) (geometry.Point2D, bool)) LocalizationMetrics {
	if gt == nil || len(gt.Leaks) == 0 {
		return LocalizationMetrics{}
	}

	var errs []float64
	for _, p := range preds {
		pos, ok := Locate(p, nodePos)
		if !ok {
			continue
		}
		nearest := math.Inf(1)
		for _, leak := range gt.Leaks {
			if d := pos.Distance(leak.Pos); d < nearest {
				nearest = d
			}
		}
		errs = append(errs, nearest)
	}

	if len(errs) == 0 {
		return LocalizationMetrics{}
	}
	return LocalizationMetrics{
		Matched:   len(errs),
		MeanError: stat.Mean(errs, nil),
		MaxError:  floats.Max(errs),
	}
}
