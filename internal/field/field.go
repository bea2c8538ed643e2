// Package field implements the shared trail signal that agents sense and mark.
//
// A Field is a 2D buffer of RGBA values in the 0..255 range. Agents read it one
// point at a time with Sample and write to it only through Deposit; the owner
// fades it once per tick with Decay. Every read is bounds tolerant: coordinates
// outside the field, and faults raised by a backend while reading, produce a
// zero Sample instead of an error.
package field

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/paulmach/orb"
)

var (
	// ErrInvalidMark reports a mark with a non-positive size or non-finite coordinates.
	ErrInvalidMark = errors.New("field: invalid mark")
	// ErrMarkTooLarge reports a mark whose footprint dwarfs the field, usually
	// the result of a delta-time spike.
	ErrMarkTooLarge = errors.New("field: mark too large")
)

// Sample is a single RGBA reading.
type Sample struct {
	R, G, B, A float64
}

// RGB returns the summed color channels.
func (s Sample) RGB() float64 { return s.R + s.G + s.B }

// Alpha returns the alpha channel.
func (s Sample) Alpha() float64 { return s.A }

// IsZero reports whether all channels are zero.
func (s Sample) IsZero() bool { return s == Sample{} }

// Mark describes one deposit: a stroke from From to To with a width of twice
// Size, plus a Size×Size square whose top-left corner sits at To.
type Mark struct {
	From  orb.Point
	To    orb.Point
	Size  float64
	Color color.RGBA
}

func (m Mark) validate() error {
	if !(m.Size > 0) || math.IsInf(m.Size, 0) {
		return ErrInvalidMark
	}
	for _, v := range [...]float64{m.From.X(), m.From.Y(), m.To.X(), m.To.Y()} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrInvalidMark
		}
	}
	return nil
}

// footprint returns the integer rectangle covering the stroke and the square.
func (m Mark) footprint() image.Rectangle {
	half := m.Size
	minX := math.Min(m.From.X(), m.To.X()) - half
	minY := math.Min(m.From.Y(), m.To.Y()) - half
	maxX := math.Max(m.From.X(), m.To.X()+m.Size) + half
	maxY := math.Max(m.From.Y(), m.To.Y()+m.Size) + half
	return image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	)
}

// Field is the trail buffer contract consumed by agents and the world.
type Field interface {
	// Sample reads the cell containing (x, y).
	Sample(x, y float64) Sample
	// Deposit paints m into the field.
	Deposit(m Mark) error
	// Decay fades every cell by rate, clamped to [0, 1].
	Decay(rate float64)
	// Size reports the field dimensions in cells.
	Size() (w, h int)
	// Resize reallocates the field. The new field is blank.
	Resize(w, h int)
	// Clear zeroes every cell.
	Clear()
	// RGBA writes the field into dst as row-major 8-bit RGBA. dst must hold
	// 4*w*h bytes.
	RGBA(dst []byte)
}

func clampRate(rate float64) float64 {
	switch {
	case rate < 0 || math.IsNaN(rate):
		return 0
	case rate > 1:
		return 1
	}
	return rate
}

func cellOf(x, y float64) (int, int, bool) {
	if math.IsNaN(x) || math.IsNaN(y) {
		return 0, 0, false
	}
	fx, fy := math.Floor(x), math.Floor(y)
	if fx < math.MinInt32 || fx > math.MaxInt32 || fy < math.MinInt32 || fy > math.MaxInt32 {
		return 0, 0, false
	}
	return int(fx), int(fy), true
}
