//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/paulmach/orb"

	"physarum/internal/core"
	"physarum/internal/input"
)

type probeProvider interface {
	SensorProbes() []orb.Point
}

type headingProvider interface {
	HeadingSegments(length float64) [][2]orb.Point
}

type pointerProvider interface {
	Pointer() input.Pointer
}

// Overlay draws optional debugging visuals on top of the field.
type Overlay struct {
	sim   core.Sim
	scale int

	showProbes   bool
	showHeadings bool
	showPointer  bool

	pixel *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: scale, showPointer: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles layers: 1 sensor probes, 2 headings, 3 pointer marker.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showProbes = !o.showProbes
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showHeadings = !o.showHeadings
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		o.showPointer = !o.showPointer
	}
}

// Draw renders the enabled layers onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	scale := float64(o.scale)
	if scale <= 0 {
		scale = 1
	}
	if o.showHeadings {
		if p, ok := o.sim.(headingProvider); ok {
			col := color.RGBA{R: 90, G: 200, B: 255, A: 200}
			for _, seg := range p.HeadingSegments(8) {
				vector.StrokeLine(screen,
					float32(seg[0].X()*scale), float32(seg[0].Y()*scale),
					float32(seg[1].X()*scale), float32(seg[1].Y()*scale),
					1, col, false)
			}
		}
	}
	if o.showProbes {
		if p, ok := o.sim.(probeProvider); ok {
			probes := p.SensorProbes()
			for i, pt := range probes {
				col := color.RGBA{R: 255, G: 80, B: 80, A: 220}
				if i%3 == 1 {
					col = color.RGBA{R: 80, G: 255, B: 120, A: 220}
				}
				o.drawPoint(screen, pt.X()*scale, pt.Y()*scale, scale, col)
			}
		}
	}
	if o.showPointer {
		if p, ok := o.sim.(pointerProvider); ok {
			if down, at := p.Pointer().State(); down {
				vector.StrokeCircle(screen, float32(at.X()*scale), float32(at.Y()*scale),
					float32(6*scale), 1.5, color.RGBA{R: 255, G: 220, B: 90, A: 255}, true)
			}
		}
	}
}

func (o *Overlay) drawPoint(screen *ebiten.Image, x, y, size float64, col color.RGBA) {
	if o.pixel == nil || size <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(x-size*0.5, y-size*0.5)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
