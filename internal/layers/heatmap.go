package layers

import (
	"image/color"

	"leak-viewer/pkg/colorutil"
)

// Default heatmap encoding constants. All three are configuration, not
// per-call-site values; see config.Viewer.
const (
	DefaultHeatRadiusScale  = 14.0 // pixels added at weight 1
	DefaultHeatRadiusMin    = 2.0  // floor so near-zero weights stay visible
	DefaultHeatOpacityScale = 0.55 // opacity at weight 1
)

// HeatEncoder maps a scalar probability weight in [0,1] to the visual
// channels of a heatmap point. Radius and opacity are linear in weight,
// so the mapping is monotonic and continuous: overlapping low-weight
// points never overwhelm high-confidence ones.
type HeatEncoder struct {
	RadiusScale  float64
	RadiusMin    float64
	OpacityScale float64
	Scale        colorutil.Gradient
}

// NewHeatEncoder returns an encoder with the default constants and the
// cold-to-hot scale.
func NewHeatEncoder() HeatEncoder {
	return HeatEncoder{
		RadiusScale:  DefaultHeatRadiusScale,
		RadiusMin:    DefaultHeatRadiusMin,
		OpacityScale: DefaultHeatOpacityScale,
		Scale:        colorutil.HeatScale(),
	}
}

// HeatSample is the visual encoding of one heatmap weight.
type HeatSample struct {
	Radius   float64
	Opacity  float64
	ColorPos float64
}

// Encode clamps weight to [0,1] and maps it to radius, opacity, and a
// color-scale position. Out-of-range weights are silently clamped per
// the fail-soft policy.
func (e HeatEncoder) Encode(weight float64) HeatSample {
	if weight < 0 {
		weight = 0
	} else if weight > 1 {
		weight = 1
	}
	return HeatSample{
		Radius:   weight*e.RadiusScale + e.RadiusMin,
		Opacity:  weight * e.OpacityScale,
		ColorPos: weight,
	}
}

// Color resolves the sample to a concrete color with opacity applied.
func (e HeatEncoder) Color(s HeatSample) color.RGBA {
	return colorutil.WithAlpha(e.Scale.Sample(s.ColorPos), s.Opacity)
}
