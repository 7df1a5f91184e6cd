package colorutil

import (
	"image/color"
	"testing"
)

func TestGradientSampleEndpoints(t *testing.T) {
	g := HeatScale()

	cold := g.Sample(0)
	hot := g.Sample(1)
	if cold.B <= cold.R {
		t.Errorf("weight 0 should be cold (blue-dominant), got %+v", cold)
	}
	if hot.R <= hot.B {
		t.Errorf("weight 1 should be hot (red-dominant), got %+v", hot)
	}

	// Out-of-range positions clamp to the endpoints.
	if g.Sample(-2) != cold {
		t.Error("negative position did not clamp to cold end")
	}
	if g.Sample(9) != hot {
		t.Error("overlarge position did not clamp to hot end")
	}
}

func TestGradientDegenerateStops(t *testing.T) {
	g := NewGradient()
	if g.Sample(0) != Black || g.Sample(1) != White {
		t.Error("gradient with too few stops should fall back to black-white")
	}
}

func TestLerp(t *testing.T) {
	mid := Lerp(Black, White, 0.5)
	if mid.R != 127 || mid.G != 127 || mid.B != 127 {
		t.Errorf("midpoint = %+v", mid)
	}
	if Lerp(Black, White, -1) != Black {
		t.Error("t < 0 should clamp to a")
	}
	if Lerp(Black, White, 2) != White {
		t.Error("t > 1 should clamp to b")
	}
}

func TestWithAlpha(t *testing.T) {
	c := WithAlpha(Red, 0.5)
	if c.A != 127 {
		t.Errorf("alpha = %d, want 127", c.A)
	}
	if c.R != Red.R {
		t.Error("color channels must be untouched")
	}
	if WithAlpha(Red, -1).A != 0 {
		t.Error("negative opacity should clamp to 0")
	}
	if WithAlpha(Red, 3).A != 255 {
		t.Error("opacity above 1 should clamp to 255")
	}
}

func TestDarken(t *testing.T) {
	d := Darken(color.RGBA{R: 200, G: 100, B: 50, A: 255}, 0.5)
	if d.R != 100 || d.G != 50 || d.B != 25 {
		t.Errorf("Darken = %+v", d)
	}
	if d.A != 255 {
		t.Error("Darken must not touch alpha")
	}
}
