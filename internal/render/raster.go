// Package render rasterizes a draw-primitive list into an RGBA image.
// This is the manual-canvas backend: primitives are projected to screen
// space at render time, so the output must be re-rendered on every
// transform change as well as on data change.
package render

import (
	"image"
	"image/color"
	"math"

	"leak-viewer/internal/layers"
	"leak-viewer/internal/view"
	"leak-viewer/pkg/colorutil"
	"leak-viewer/pkg/geometry"
)

// Dash pattern for error-indicator lines, in pixels.
const (
	dashLength = 6
	gapLength  = 4
)

// Rasterizer paints primitives into an RGBA buffer.
type Rasterizer struct {
	Background color.RGBA
	ShowLabels bool
}

// NewRasterizer uses a near-black background matching the GUI theme.
func NewRasterizer() *Rasterizer {
	return &Rasterizer{Background: color.RGBA{R: 16, G: 16, B: 20, A: 255}}
}

// Render projects and paints the primitive list. Primitives are painted
// in list order, which the builder guarantees is back-to-front.
func (r *Rasterizer) Render(prims []layers.Primitive, p view.Projection, t view.Transform, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fill(img, r.Background)

	for _, prim := range prims {
		r.paint(img, prim, p, t)
	}
	return img
}

func (r *Rasterizer) paint(img *image.RGBA, prim layers.Primitive, p view.Projection, t view.Transform) {
	width := int(prim.Width)
	if width < 1 {
		width = 1
	}

	for _, seg := range prim.Seg {
		from := p.WorldToScreen(seg.From, t)
		to := p.WorldToScreen(seg.To, t)
		if prim.Dashed {
			drawDashedLine(img, from, to, prim.Color)
		} else {
			drawThickLine(img, from.X, from.Y, to.X, to.Y, width, prim.Color)
		}
	}

	for _, m := range prim.Markers {
		center := p.WorldToScreen(m.Pos, t)
		cx, cy := int(center.X), int(center.Y)
		radius := int(m.Radius)
		if radius < 1 {
			radius = 1
		}

		switch prim.Shape {
		case layers.ShapeSquare:
			fillSquare(img, cx, cy, radius, prim.Color)
		case layers.ShapeCross:
			drawCross(img, cx, cy, radius, width, prim.Color)
		case layers.ShapeDiamond:
			fillDiamond(img, cx, cy, radius, prim.Color)
			drawDiamondOutline(img, cx, cy, radius, colorutil.Darken(prim.Color, 0.4))
		case layers.ShapeRing:
			for wi := 0; wi < width; wi++ {
				drawCircle(img, cx, cy, radius-wi, prim.Color)
			}
		default:
			blendCircle(img, cx, cy, radius, prim.Color)
		}

		if r.ShowLabels && m.Label != "" {
			drawLabel(img, m.Label, cx+radius+3, cy, colorutil.White)
		}
	}
}

func fill(img *image.RGBA, c color.RGBA) {
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
}

// blendCircle fills a circle, alpha-blending against the existing pixels
// so overlapping translucent heatmap points accumulate.
func blendCircle(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	bounds := img.Bounds()
	alpha := float64(c.A) / 255.0
	inv := 1 - alpha

	for y := cy - radius; y <= cy+radius; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := cx - radius; x <= cx+radius; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			if alpha >= 0.999 {
				img.SetRGBA(x, y, color.RGBA{c.R, c.G, c.B, 255})
				continue
			}
			d := img.RGBAAt(x, y)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(float64(c.R)*alpha + float64(d.R)*inv),
				G: uint8(float64(c.G)*alpha + float64(d.G)*inv),
				B: uint8(float64(c.B)*alpha + float64(d.B)*inv),
				A: 255,
			})
		}
	}
}

func fillSquare(img *image.RGBA, cx, cy, half int, c color.RGBA) {
	bounds := img.Bounds()
	for y := cy - half; y <= cy+half; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := cx - half; x <= cx+half; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			img.SetRGBA(x, y, c)
		}
	}
}

func fillDiamond(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	bounds := img.Bounds()
	for y := cy - radius; y <= cy+radius; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		span := radius - abs(y-cy)
		for x := cx - span; x <= cx+span; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			img.SetRGBA(x, y, c)
		}
	}
}

func drawDiamondOutline(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	top := geometry.Point2D{X: float64(cx), Y: float64(cy - radius)}
	right := geometry.Point2D{X: float64(cx + radius), Y: float64(cy)}
	bottom := geometry.Point2D{X: float64(cx), Y: float64(cy + radius)}
	left := geometry.Point2D{X: float64(cx - radius), Y: float64(cy)}
	drawThickLine(img, top.X, top.Y, right.X, right.Y, 1, c)
	drawThickLine(img, right.X, right.Y, bottom.X, bottom.Y, 1, c)
	drawThickLine(img, bottom.X, bottom.Y, left.X, left.Y, 1, c)
	drawThickLine(img, left.X, left.Y, top.X, top.Y, 1, c)
}

// drawCross draws an X marker.
func drawCross(img *image.RGBA, cx, cy, radius, thickness int, c color.RGBA) {
	drawThickLine(img, float64(cx-radius), float64(cy-radius), float64(cx+radius), float64(cy+radius), thickness, c)
	drawThickLine(img, float64(cx-radius), float64(cy+radius), float64(cx+radius), float64(cy-radius), thickness, c)
}

// drawCircle draws a circle outline using Bresenham's algorithm.
func drawCircle(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	if r < 1 {
		return
	}
	bounds := img.Bounds()

	setPixel := func(x, y int) {
		if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			img.SetRGBA(x, y, c)
		}
	}

	x := r
	y := 0
	err := 0

	for x >= y {
		setPixel(cx+x, cy+y)
		setPixel(cx+y, cy+x)
		setPixel(cx-y, cy+x)
		setPixel(cx-x, cy+y)
		setPixel(cx-x, cy-y)
		setPixel(cx-y, cy-x)
		setPixel(cx+y, cy-x)
		setPixel(cx+x, cy-y)

		y++
		if err <= 0 {
			err += 2*y + 1
		}
		if err > 0 {
			x--
			err -= 2*x + 1
		}
	}
}

// drawThickLine draws a line with the given thickness by stacking
// parallel Bresenham lines along the perpendicular.
func drawThickLine(img *image.RGBA, x1, y1, x2, y2 float64, thickness int, c color.RGBA) {
	bounds := img.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	length := math.Sqrt(dx*dx + dy*dy)
	if length == 0 {
		if x1 >= float64(bounds.Min.X) && x1 < float64(bounds.Max.X) &&
			y1 >= float64(bounds.Min.Y) && y1 < float64(bounds.Max.Y) {
			img.SetRGBA(int(x1), int(y1), c)
		}
		return
	}

	px := -dy / length
	py := dx / length

	halfThick := float64(thickness) / 2
	for t := -halfThick; t <= halfThick; t += 1.0 {
		drawLine(img, int(x1+px*t), int(y1+py*t), int(x2+px*t), int(y2+py*t), c, bounds)
	}
}

// drawLine draws a line using Bresenham's algorithm.
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA, bounds image.Rectangle) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	var sx, sy int
	if x1 < x2 {
		sx = 1
	} else {
		sx = -1
	}
	if y1 < y2 {
		sy = 1
	} else {
		sy = -1
	}

	err := dx - dy

	for {
		if x1 >= bounds.Min.X && x1 < bounds.Max.X && y1 >= bounds.Min.Y && y1 < bounds.Max.Y {
			img.SetRGBA(x1, y1, c)
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawDashedLine walks the segment in dash/gap steps.
func drawDashedLine(img *image.RGBA, from, to geometry.Point2D, c color.RGBA) {
	bounds := img.Bounds()
	total := from.Distance(to)
	if total == 0 {
		return
	}
	ux := (to.X - from.X) / total
	uy := (to.Y - from.Y) / total

	pos := 0.0
	for pos < total {
		end := pos + dashLength
		if end > total {
			end = total
		}
		drawLine(img,
			int(from.X+ux*pos), int(from.Y+uy*pos),
			int(from.X+ux*end), int(from.Y+uy*end),
			c, bounds)
		pos = end + gapLength
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
