package geometry

// DefaultPadFraction is the margin added to each axis of computed bounds,
// as a fraction of the axis span. It keeps edge-of-network content from
// touching the viewport border.
const DefaultPadFraction = 0.08

// Bounds is an axis-aligned bounding box in world coordinates.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// UnitBounds is the fallback box used for empty point sets.
func UnitBounds() Bounds {
	return Bounds{MinX: 0, MaxX: 1, MinY: 0, MaxY: 1}
}

// Width returns the X span.
func (b Bounds) Width() float64 {
	return b.MaxX - b.MinX
}

// Height returns the Y span.
func (b Bounds) Height() float64 {
	return b.MaxY - b.MinY
}

// Center returns the midpoint of the box.
func (b Bounds) Center() Point2D {
	return Point2D{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Contains reports whether p lies inside the box (edges inclusive).
func (b Bounds) Contains(p Point2D) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// ComputeBounds streams once over the points computing min/max per axis,
// then pads each axis by DefaultPadFraction of its span. A zero-span axis
// (single point, or all points collinear on that axis) is padded by one
// unit instead, and an empty point set yields UnitBounds. The result
// therefore always has positive width and height.
func ComputeBounds(points []Point2D) Bounds {
	if len(points) == 0 {
		return UnitBounds()
	}

	b := Bounds{
		MinX: points[0].X, MaxX: points[0].X,
		MinY: points[0].Y, MaxY: points[0].Y,
	}
	for _, p := range points[1:] {
		if p.X < b.MinX {
			b.MinX = p.X
		}
		if p.X > b.MaxX {
			b.MaxX = p.X
		}
		if p.Y < b.MinY {
			b.MinY = p.Y
		}
		if p.Y > b.MaxY {
			b.MaxY = p.Y
		}
	}

	padX := b.Width() * DefaultPadFraction
	if padX == 0 {
		padX = 1
	}
	padY := b.Height() * DefaultPadFraction
	if padY == 0 {
		padY = 1
	}
	b.MinX -= padX
	b.MaxX += padX
	b.MinY -= padY
	b.MaxY += padY
	return b
}
