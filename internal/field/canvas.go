package field

import (
	"fmt"
	"image"

	"github.com/tfriedel6/canvas"
	"github.com/tfriedel6/canvas/backend/softwarebackend"
)

// Canvas is a trail field that is also the picture: deposits are strokes and
// filled rectangles on a 2D canvas, and sampling reads back pixels. Decay acts
// like a destination-out fill, so alpha fades along with the color channels.
type Canvas struct {
	w, h    int
	backend *softwarebackend.SoftwareBackend
	cv      *canvas.Canvas
}

// NewCanvas allocates a blank w×h canvas field. Non-positive sizes are raised to 1.
func NewCanvas(w, h int) *Canvas {
	c := &Canvas{}
	c.Resize(w, h)
	return c
}

// Size reports the canvas dimensions.
func (c *Canvas) Size() (int, int) { return c.w, c.h }

// Resize replaces the backing surface. Like a resized HTML canvas, the new
// surface is blank.
func (c *Canvas) Resize(w, h int) {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	c.w, c.h = w, h
	c.backend = softwarebackend.New(w, h)
	c.cv = canvas.New(c.backend)
}

// Clear erases the whole surface to transparent black.
func (c *Canvas) Clear() {
	c.cv.ClearRect(0, 0, float64(c.w), float64(c.h))
}

// Sample reads the pixel containing (x, y). Backend faults yield a zero Sample.
func (c *Canvas) Sample(x, y float64) (s Sample) {
	cx, cy, ok := cellOf(x, y)
	if !ok || cx < 0 || cy < 0 || cx >= c.w || cy >= c.h {
		return Sample{}
	}
	defer func() {
		if recover() != nil {
			s = Sample{}
		}
	}()
	// The backend takes the max corner, not a width and height.
	img := c.cv.GetImageData(cx, cy, cx+1, cy+1)
	if img == nil {
		return Sample{}
	}
	b := img.Bounds()
	if b.Empty() {
		return Sample{}
	}
	px := img.RGBAAt(b.Min.X, b.Min.Y)
	return Sample{R: float64(px.R), G: float64(px.G), B: float64(px.B), A: float64(px.A)}
}

// Deposit strokes the segment of m and fills its square.
func (c *Canvas) Deposit(m Mark) (err error) {
	if err := m.validate(); err != nil {
		return err
	}
	box := m.footprint()
	if box.Dx()*box.Dy() > 4*c.w*c.h {
		return ErrMarkTooLarge
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("field: canvas deposit: %v", r)
		}
	}()

	c.cv.SetStrokeStyle(m.Color)
	c.cv.SetFillStyle(m.Color)
	c.cv.SetLineWidth(m.Size * 2)
	c.cv.BeginPath()
	c.cv.MoveTo(m.From.X(), m.From.Y())
	c.cv.LineTo(m.To.X(), m.To.Y())
	c.cv.Stroke()
	c.cv.FillRect(m.To.X(), m.To.Y(), m.Size, m.Size)
	return nil
}

// Decay erases rate of every pixel, like a destination-out fill of the whole
// surface. The canvas has no composite operations, so it works on the
// premultiplied backing image. Truncation keeps faint trails from sticking.
func (c *Canvas) Decay(rate float64) {
	rate = clampRate(rate)
	if rate == 0 {
		return
	}
	keep := 1 - rate
	pix := c.backend.Image.Pix
	for i, v := range pix {
		pix[i] = uint8(float64(v) * keep)
	}
}

// RGBA copies the surface into dst.
func (c *Canvas) RGBA(dst []byte) {
	img := c.cv.GetImageData(0, 0, c.w, c.h)
	if img == nil {
		return
	}
	copyRGBA(dst, img, c.w, c.h)
}

func copyRGBA(dst []byte, img *image.RGBA, w, h int) {
	b := img.Bounds()
	rowBytes := 4 * w
	if b.Dx() < w {
		rowBytes = 4 * b.Dx()
	}
	for y := 0; y < h && y < b.Dy(); y++ {
		start := y * 4 * w
		if start+rowBytes > len(dst) {
			return
		}
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(dst[start:start+rowBytes], img.Pix[off:off+rowBytes])
	}
}
