package render

import (
	"image"
	"image/color"

	"physarum/internal/core"
)

// Snapshot copies the current picture of sim into a new image.
func Snapshot(sim core.Sim) *image.RGBA {
	size := sim.Size()
	img := image.NewRGBA(image.Rect(0, 0, size.W, size.H))
	sim.Pixels(img.Pix)
	return img
}

// Flatten composites straight-alpha RGBA pixels in buf over an opaque
// background, leaving every pixel opaque.
func Flatten(buf []byte, bg color.RGBA) {
	for i := 0; i+3 < len(buf); i += 4 {
		a := uint32(buf[i+3])
		if a == 255 {
			continue
		}
		inv := 255 - a
		buf[i+0] = uint8((uint32(buf[i+0])*a + uint32(bg.R)*inv + 127) / 255)
		buf[i+1] = uint8((uint32(buf[i+1])*a + uint32(bg.G)*inv + 127) / 255)
		buf[i+2] = uint8((uint32(buf[i+2])*a + uint32(bg.B)*inv + 127) / 255)
		buf[i+3] = 255
	}
}

// FlattenImage returns a flattened copy of img.
func FlattenImage(img *image.RGBA, bg color.RGBA) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	copy(out.Pix, img.Pix)
	Flatten(out.Pix, bg)
	return out
}
