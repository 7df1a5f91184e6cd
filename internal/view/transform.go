// Package view implements the viewport model: the world-to-screen
// projection, the pan/zoom controller, and the pointer hit-test. All
// operations are synchronous pure or near-pure computations intended to
// run on the UI event thread.
package view

// Zoom limits and wheel step factors. Scale is clamped on every zoom
// operation; offset is unconstrained (free panning).
const (
	MinScale = 0.1
	MaxScale = 10.0

	ZoomInFactor  = 1.1
	ZoomOutFactor = 0.9
)

// Transform is the user-controlled part of the projection: a
// multiplicative zoom applied on top of the fit-to-bounds scale, and a
// post-projection pixel translation.
type Transform struct {
	OffsetX float64
	OffsetY float64
	Scale   float64
}

// IdentityTransform is the initial viewport state: no pan, no zoom.
func IdentityTransform() Transform {
	return Transform{Scale: 1}
}

// ClampScaleTo forces s into [min, max]. MinScale and MaxScale are the
// default bounds; callers may carry configured ones.
func ClampScaleTo(s, min, max float64) float64 {
	if s < min {
		return min
	}
	if s > max {
		return max
	}
	return s
}
