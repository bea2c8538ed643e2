package field

import (
	"image"
	"math"

	"golang.org/x/image/vector"
)

// Grid is a numeric trail field backed by float32 RGBA cells.
//
// Deposits are rasterized with an anti-aliased coverage mask and blended
// source-over, so a fully opaque color overwrites what it covers. Decay scales
// all four channels, alpha included.
type Grid struct {
	w, h int
	pix  []float32

	raster *vector.Rasterizer
	mask   image.Alpha
}

// NewGrid allocates a blank w×h grid. Non-positive sizes are raised to 1.
func NewGrid(w, h int) *Grid {
	g := &Grid{raster: vector.NewRasterizer(1, 1)}
	g.Resize(w, h)
	return g
}

// Size reports the grid dimensions.
func (g *Grid) Size() (int, int) { return g.w, g.h }

// Resize reallocates the grid and clears it.
func (g *Grid) Resize(w, h int) {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	g.w, g.h = w, h
	g.pix = make([]float32, 4*w*h)
}

// Clear zeroes every cell.
func (g *Grid) Clear() {
	for i := range g.pix {
		g.pix[i] = 0
	}
}

// Sample reads the cell containing (x, y).
func (g *Grid) Sample(x, y float64) Sample {
	cx, cy, ok := cellOf(x, y)
	if !ok || cx < 0 || cy < 0 || cx >= g.w || cy >= g.h {
		return Sample{}
	}
	i := 4 * (cy*g.w + cx)
	return Sample{
		R: float64(g.pix[i+0]),
		G: float64(g.pix[i+1]),
		B: float64(g.pix[i+2]),
		A: float64(g.pix[i+3]),
	}
}

// Set overwrites a single cell. It exists for seeding and tests; agents only
// write through Deposit.
func (g *Grid) Set(x, y int, s Sample) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	i := 4 * (y*g.w + x)
	g.pix[i+0] = float32(s.R)
	g.pix[i+1] = float32(s.G)
	g.pix[i+2] = float32(s.B)
	g.pix[i+3] = float32(s.A)
}

// Deposit rasterizes the stroke and the square of m and blends its color in.
func (g *Grid) Deposit(m Mark) error {
	if err := m.validate(); err != nil {
		return err
	}
	box := m.footprint()
	if box.Dx()*box.Dy() > 4*g.w*g.h {
		return ErrMarkTooLarge
	}
	if !box.Overlaps(image.Rect(0, 0, g.w, g.h)) {
		return nil
	}

	g.prepareMask(box)
	ox, oy := float64(box.Min.X), float64(box.Min.Y)

	fx, fy := m.From.X()-ox, m.From.Y()-oy
	tx, ty := m.To.X()-ox, m.To.Y()-oy
	if length := math.Hypot(tx-fx, ty-fy); length > 0 {
		// Stroke width is 2*Size, so the quad extends Size on each side.
		nx := -(ty - fy) / length * m.Size
		ny := (tx - fx) / length * m.Size
		g.raster.MoveTo(float32(fx+nx), float32(fy+ny))
		g.raster.LineTo(float32(tx+nx), float32(ty+ny))
		g.raster.LineTo(float32(tx-nx), float32(ty-ny))
		g.raster.LineTo(float32(fx-nx), float32(fy-ny))
		g.raster.ClosePath()
		g.raster.Draw(&g.mask, g.mask.Bounds(), image.Opaque, image.Point{})
		g.raster.Reset(box.Dx(), box.Dy())
	}

	g.raster.MoveTo(float32(tx), float32(ty))
	g.raster.LineTo(float32(tx+m.Size), float32(ty))
	g.raster.LineTo(float32(tx+m.Size), float32(ty+m.Size))
	g.raster.LineTo(float32(tx), float32(ty+m.Size))
	g.raster.ClosePath()
	g.raster.Draw(&g.mask, g.mask.Bounds(), image.Opaque, image.Point{})

	g.blendMask(box, m)
	return nil
}

func (g *Grid) prepareMask(box image.Rectangle) {
	w, h := box.Dx(), box.Dy()
	n := w * h
	if cap(g.mask.Pix) < n {
		g.mask.Pix = make([]uint8, n)
	}
	g.mask.Pix = g.mask.Pix[:n]
	for i := range g.mask.Pix {
		g.mask.Pix[i] = 0
	}
	g.mask.Stride = w
	g.mask.Rect = image.Rect(0, 0, w, h)
	g.raster.Reset(w, h)
}

func (g *Grid) blendMask(box image.Rectangle, m Mark) {
	clip := box.Intersect(image.Rect(0, 0, g.w, g.h))
	srcA := float64(m.Color.A) / 255
	src := [3]float64{float64(m.Color.R), float64(m.Color.G), float64(m.Color.B)}
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		row := (y - box.Min.Y) * g.mask.Stride
		for x := clip.Min.X; x < clip.Max.X; x++ {
			cov := g.mask.Pix[row+x-box.Min.X]
			if cov == 0 {
				continue
			}
			a := srcA * float64(cov) / 255
			i := 4 * (y*g.w + x)
			for c := 0; c < 3; c++ {
				g.pix[i+c] = float32(src[c]*a + float64(g.pix[i+c])*(1-a))
			}
			g.pix[i+3] = float32(255*a + float64(g.pix[i+3])*(1-a))
		}
	}
}

// Decay scales every channel of every cell by 1-rate.
func (g *Grid) Decay(rate float64) {
	keep := float32(1 - clampRate(rate))
	for i := range g.pix {
		v := g.pix[i] * keep
		// Drop denormal tails so repeated decay reaches zero.
		if v < 1.0/512 {
			v = 0
		}
		g.pix[i] = v
	}
}

// RGBA writes the grid as 8-bit RGBA.
func (g *Grid) RGBA(dst []byte) {
	n := len(g.pix)
	if len(dst) < n {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		v := g.pix[i]
		switch {
		case v <= 0:
			dst[i] = 0
		case v >= 255:
			dst[i] = 255
		default:
			dst[i] = uint8(v + 0.5)
		}
	}
}
