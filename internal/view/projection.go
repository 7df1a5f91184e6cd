package view

import (
	"leak-viewer/pkg/geometry"
)

// FitFraction leaves a margin between the fitted content and the
// viewport edge. Uniform scaling preserves aspect ratio so real-world
// pipe geometry is never distorted.
const FitFraction = 0.85

// Projection maps world coordinates to screen pixels for a given content
// bounds and viewport size. It is a pure value: identical inputs always
// produce identical outputs, which the hit-test relies on.
type Projection struct {
	Bounds   geometry.Bounds
	Viewport geometry.Size
}

// NewProjection builds a projection for the given padded bounds and
// viewport. Degenerate bounds (zero span) are replaced with the unit box
// so the fit scale is always finite.
func NewProjection(bounds geometry.Bounds, viewport geometry.Size) Projection {
	if bounds.Width() <= 0 || bounds.Height() <= 0 {
		bounds = geometry.UnitBounds()
	}
	return Projection{Bounds: bounds, Viewport: viewport}
}

// FitScale is the uniform pixels-per-world-unit factor that fits the
// bounds into the viewport with the FitFraction margin.
func (p Projection) FitScale() float64 {
	sx := p.Viewport.Width / p.Bounds.Width()
	sy := p.Viewport.Height / p.Bounds.Height()
	s := sx
	if sy < sx {
		s = sy
	}
	return s * FitFraction
}

// matrix assembles the full world-to-screen affine for a transform:
// translate the bounds center to the origin, apply the fit scale times
// the user zoom with the Y axis flipped (world Y up, screen Y down),
// then translate to the viewport center plus the pan offset. The pan
// offset is in screen pixels and deliberately not scaled, so panning
// speed is 1:1 with the pointer at any zoom.
func (p Projection) matrix(t Transform) geometry.AffineTransform {
	k := p.FitScale() * t.Scale
	center := p.Bounds.Center()

	return geometry.Translation(p.Viewport.Width/2+t.OffsetX, p.Viewport.Height/2+t.OffsetY).
		Compose(geometry.Scaling(k, -k)).
		Compose(geometry.Translation(-center.X, -center.Y))
}

// WorldToScreen projects a world point to screen pixels.
func (p Projection) WorldToScreen(pt geometry.Point2D, t Transform) geometry.Point2D {
	return p.matrix(t).Apply(pt)
}

// ScreenToWorld is the algebraic inverse of WorldToScreen.
func (p Projection) ScreenToWorld(pt geometry.Point2D, t Transform) geometry.Point2D {
	inv, ok := p.matrix(t).Inverse()
	if !ok {
		// Scale is clamped to a positive range, so the matrix is always
		// invertible in practice.
		return pt
	}
	return inv.Apply(pt)
}
