package physarum

import (
	"math"

	"github.com/paulmach/orb"

	"physarum/internal/field"
	"physarum/internal/geom"
)

// Reading is what one sensor saw during Sense.
type Reading struct {
	Offset float64
	Probe  orb.Point
	Sample field.Sample
}

// Strength returns the part of the reading that gates steering.
func (r Reading) Strength(ch Channel) float64 {
	if ch == ChannelRGB {
		return r.Sample.RGB()
	}
	return r.Sample.Alpha()
}

// Steer picks the heading change for the left, center and right strengths.
// The first matching rule wins:
//
//   - left leads (left >= center, right < left): turn by offsets[0]*attraction
//   - right leads (right >= center, left < right): turn by offsets[2]*attraction
//   - both flanks at least center: random whole degree in
//     [offsets[0], offsets[2]], divided by attraction
//   - otherwise the center is strongest and the heading is kept.
func Steer(left, center, right float64, offsets [3]float64, attraction float64, rng geom.IntSource) float64 {
	switch {
	case left >= center && right < left:
		return offsets[0] * attraction
	case right >= center && left < right:
		return offsets[2] * attraction
	case left >= center && right >= center:
		lo, hi := math.Ceil(offsets[0]), math.Floor(offsets[2])
		if lo > hi {
			return (offsets[0] + offsets[2]) / 2 / attraction
		}
		return float64(geom.RandomIntInRange(rng, int(lo), int(hi))) / attraction
	}
	return 0
}
