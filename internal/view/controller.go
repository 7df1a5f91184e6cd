package view

import (
	"leak-viewer/pkg/geometry"
)

// Controller turns pointer and wheel events into transform updates.
// It is the only writer of the Transform; every other component reads
// the value current at call time. Two input-driven transitions exist:
// dragging (pan) and wheel (zoom about the viewport center). All
// transitions are synchronous and immediate.
type Controller struct {
	transform Transform

	minScale       float64
	maxScale       float64
	panSensitivity float64

	dragging bool
	lastX    float64
	lastY    float64

	onChange func()
}

// NewController starts at the identity transform with the default zoom
// bounds and 1:1 panning.
func NewController() *Controller {
	return &Controller{
		transform:      IdentityTransform(),
		minScale:       MinScale,
		maxScale:       MaxScale,
		panSensitivity: 1.0,
	}
}

// SetZoomBounds overrides the scale clamp range. Nonsensical bounds are
// ignored; the current scale is re-clamped into the new range.
func (c *Controller) SetZoomBounds(min, max float64) {
	if min <= 0 || min >= max {
		return
	}
	c.minScale = min
	c.maxScale = max
	if clamped := ClampScaleTo(c.transform.Scale, min, max); clamped != c.transform.Scale {
		c.transform.Scale = clamped
		c.changed()
	}
}

// SetPanSensitivity sets the multiplier applied to pointer deltas while
// panning. Values at or below zero are ignored.
func (c *Controller) SetPanSensitivity(s float64) {
	if s > 0 {
		c.panSensitivity = s
	}
}

// OnChange registers a callback fired after every transform mutation,
// typically a redraw trigger.
func (c *Controller) OnChange(fn func()) {
	c.onChange = fn
}

// Transform returns the current transform value.
func (c *Controller) Transform() Transform {
	return c.transform
}

// Dragging reports whether a pan gesture is in progress.
func (c *Controller) Dragging() bool {
	return c.dragging
}

// PointerDown latches the drag state and the pointer position.
func (c *Controller) PointerDown(x, y float64) {
	c.dragging = true
	c.lastX = x
	c.lastY = y
}

// PointerMove pans while dragging: the pointer delta, scaled by the
// pan sensitivity, is added to the offset in screen space, so at the
// default sensitivity of 1 panning is visually 1:1 regardless of zoom.
// Returns true if the transform changed.
func (c *Controller) PointerMove(x, y float64) bool {
	if !c.dragging {
		return false
	}
	c.transform.OffsetX += (x - c.lastX) * c.panSensitivity
	c.transform.OffsetY += (y - c.lastY) * c.panSensitivity
	c.lastX = x
	c.lastY = y
	c.changed()
	return true
}

// PointerUp ends a drag.
func (c *Controller) PointerUp() {
	c.dragging = false
}

// PointerLeave ends a drag exactly like PointerUp; a pointer leaving the
// viewport must not keep the pan latched.
func (c *Controller) PointerLeave() {
	c.dragging = false
}

// Wheel zooms about the viewport center: positive deltas zoom in by
// ZoomInFactor, negative zoom out by ZoomOutFactor. Scale is clamped on
// every call.
func (c *Controller) Wheel(deltaY float64) {
	if deltaY == 0 {
		return
	}
	if deltaY > 0 {
		c.transform.Scale = ClampScaleTo(c.transform.Scale*ZoomInFactor, c.minScale, c.maxScale)
	} else {
		c.transform.Scale = ClampScaleTo(c.transform.Scale*ZoomOutFactor, c.minScale, c.maxScale)
	}
	c.changed()
}

// SetScale sets an absolute zoom, clamped.
func (c *Controller) SetScale(s float64) {
	c.transform.Scale = ClampScaleTo(s, c.minScale, c.maxScale)
	c.changed()
}

// Reset restores the home transform: no pan, and the identity zoom
// clamped into the configured bounds.
func (c *Controller) Reset() {
	c.transform = IdentityTransform()
	c.transform.Scale = ClampScaleTo(c.transform.Scale, c.minScale, c.maxScale)
	c.dragging = false
	c.changed()
}

// Pan shifts the offset by a screen-space delta without a drag gesture,
// used by keyboard panning.
func (c *Controller) Pan(dx, dy float64) {
	c.transform.OffsetX += dx
	c.transform.OffsetY += dy
	c.changed()
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

// VisibleWorldRect returns the world-space rectangle currently visible,
// for culling by screen-space renderers.
func VisibleWorldRect(p Projection, t Transform) geometry.Bounds {
	tl := p.ScreenToWorld(geometry.Point2D{X: 0, Y: 0}, t)
	br := p.ScreenToWorld(geometry.Point2D{X: p.Viewport.Width, Y: p.Viewport.Height}, t)
	b := geometry.Bounds{MinX: tl.X, MaxX: br.X, MinY: br.Y, MaxY: tl.Y}
	if b.MinX > b.MaxX {
		b.MinX, b.MaxX = b.MaxX, b.MinX
	}
	if b.MinY > b.MaxY {
		b.MinY, b.MaxY = b.MaxY, b.MinY
	}
	return b
}
