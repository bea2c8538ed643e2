//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"physarum/internal/core"
)

// FieldPainter uploads a sim's picture into an ebiten image.
type FieldPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
	bg   color.RGBA
}

// NewFieldPainter allocates a painter for a w*h field drawn over bg.
func NewFieldPainter(w, h int, bg color.RGBA) *FieldPainter {
	fp := &FieldPainter{bg: bg}
	fp.resize(w, h)
	return fp
}

func (fp *FieldPainter) resize(w, h int) {
	if fp.img != nil {
		fp.img.Dispose()
	}
	fp.w, fp.h = w, h
	fp.buf = make([]byte, 4*w*h)
	fp.img = ebiten.NewImage(w, h)
}

// Blit copies the sim picture into the painter image and draws it scaled.
// The painter follows size changes of the sim.
func (fp *FieldPainter) Blit(dst *ebiten.Image, sim core.Sim, scale int) {
	size := sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	if size.W != fp.w || size.H != fp.h {
		fp.resize(size.W, size.H)
	}
	sim.Pixels(fp.buf)
	Flatten(fp.buf, fp.bg)
	fp.img.WritePixels(fp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(fp.img, op)
}

// Size returns the dimensions of the underlying image.
func (fp *FieldPainter) Size() (int, int) { return fp.w, fp.h }
