package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// drawLabel renders small text next to a marker using the fixed 7x13
// bitmap face. x,y is the left edge at the text baseline's vertical
// center.
func drawLabel(img *image.RGBA, text string, x, y int, c color.RGBA) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(x),
			Y: fixed.I(y + face.Height/2 - 2),
		},
	}
	d.DrawString(text)
}
