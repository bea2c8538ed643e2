// Package geom holds the angle and point helpers shared by agents and the field.
// Angles are in degrees unless a name says otherwise.
package geom

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// IntSource is the slice of a random generator the helpers need.
type IntSource interface {
	IntN(n int) int
}

// DegreesToRadians converts an angle in degrees to radians.
func DegreesToRadians(deg float64) float64 { return deg * (math.Pi / 180) }

// RadiansToDegrees converts an angle in radians to degrees.
func RadiansToDegrees(rad float64) float64 { return rad * (180 / math.Pi) }

// RandomIntInRange returns a uniform integer in [min, max]. Reversed bounds are
// swapped.
func RandomIntInRange(src IntSource, min, max int) int {
	if min > max {
		min, max = max, min
	}
	return src.IntN(max-min+1) + min
}

// PolarToCartesian returns the offset of length magnitude at the given angle.
func PolarToCartesian(angle, magnitude float64) orb.Point {
	sin, cos := math.Sincos(DegreesToRadians(angle))
	return orb.Point{magnitude * cos, magnitude * sin}
}

// CartesianToPolar returns the angle and length of the vector (x, y).
func CartesianToPolar(x, y float64) (angle, magnitude float64) {
	return RadiansToDegrees(math.Atan2(y, x)), math.Hypot(x, y)
}

// AngleBetween returns the direction from a to b.
func AngleBetween(a, b orb.Point) float64 {
	return RadiansToDegrees(math.Atan2(b.Y()-a.Y(), b.X()-a.X()))
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b orb.Point) float64 {
	return planar.Distance(a, b)
}

// PointOnCircle returns the point on the circle around center at angle.
func PointOnCircle(radius float64, center orb.Point, angle float64) orb.Point {
	off := PolarToCartesian(angle, radius)
	return orb.Point{center.X() + off.X(), center.Y() + off.Y()}
}

// Add returns a+b.
func Add(a, b orb.Point) orb.Point { return orb.Point{a.X() + b.X(), a.Y() + b.Y()} }

// Scale returns p scaled by k.
func Scale(p orb.Point, k float64) orb.Point { return orb.Point{p.X() * k, p.Y() * k} }

// NormalizeDegrees folds any finite angle into [0, 360).
func NormalizeDegrees(angle float64) float64 {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	// -1e-14 + 360 rounds to 360.
	if a >= 360 {
		a = 0
	}
	return a
}
