// Package colorutil provides shared color utilities for the leak viewer.
package colorutil

import (
	"image/color"
)

// Common overlay colors used throughout the application.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Gray    = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	DimGray = color.RGBA{R: 80, G: 80, B: 80, A: 255}
	Red     = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Green   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Blue    = color.RGBA{R: 0, G: 100, B: 255, A: 255}
	Yellow  = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	Cyan    = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	Orange  = color.RGBA{R: 255, G: 128, B: 0, A: 255}
)

// Gradient is a sequential color scale sampled by a position in [0,1].
// Positions outside the range are clamped.
type Gradient struct {
	stops []color.RGBA
}

// NewGradient builds a gradient from at least two evenly spaced stops.
func NewGradient(stops ...color.RGBA) Gradient {
	if len(stops) < 2 {
		stops = []color.RGBA{Black, White}
	}
	return Gradient{stops: stops}
}

// HeatScale is the cold-to-hot scale used for probability heatmaps:
// low weight renders blue, high weight renders red.
func HeatScale() Gradient {
	return NewGradient(
		color.RGBA{R: 0, G: 60, B: 255, A: 255},
		color.RGBA{R: 0, G: 220, B: 220, A: 255},
		color.RGBA{R: 255, G: 220, B: 0, A: 255},
		color.RGBA{R: 255, G: 60, B: 0, A: 255},
	)
}

// Sample returns the interpolated color at position pos in [0,1].
func (g Gradient) Sample(pos float64) color.RGBA {
	if pos <= 0 {
		return g.stops[0]
	}
	if pos >= 1 {
		return g.stops[len(g.stops)-1]
	}

	segments := float64(len(g.stops) - 1)
	scaled := pos * segments
	idx := int(scaled)
	if idx >= len(g.stops)-1 {
		idx = len(g.stops) - 2
	}
	return Lerp(g.stops[idx], g.stops[idx+1], scaled-float64(idx))
}

// Lerp linearly interpolates between two colors, t in [0,1].
func Lerp(a, b color.RGBA, t float64) color.RGBA {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return color.RGBA{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: uint8(float64(a.A) + (float64(b.A)-float64(a.A))*t),
	}
}

// WithAlpha returns c with its alpha channel replaced. opacity is
// clamped to [0,1].
func WithAlpha(c color.RGBA, opacity float64) color.RGBA {
	if opacity < 0 {
		opacity = 0
	} else if opacity > 1 {
		opacity = 1
	}
	c.A = uint8(opacity * 255)
	return c
}

// Darken reduces the brightness of a color.
func Darken(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * (1 - factor)),
		G: uint8(float64(c.G) * (1 - factor)),
		B: uint8(float64(c.B) * (1 - factor)),
		A: c.A,
	}
}
