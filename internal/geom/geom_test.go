package geom

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/paulmach/orb"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestAngleConversions(t *testing.T) {
	cases := []struct{ deg, rad float64 }{
		{0, 0},
		{90, math.Pi / 2},
		{180, math.Pi},
		{-45, -math.Pi / 4},
		{360, 2 * math.Pi},
	}
	for _, tc := range cases {
		if got := DegreesToRadians(tc.deg); !near(got, tc.rad) {
			t.Fatalf("DegreesToRadians(%v) = %v, want %v", tc.deg, got, tc.rad)
		}
		if got := RadiansToDegrees(tc.rad); !near(got, tc.deg) {
			t.Fatalf("RadiansToDegrees(%v) = %v, want %v", tc.rad, got, tc.deg)
		}
	}
}

func TestPolarCartesian(t *testing.T) {
	p := PolarToCartesian(0, 50)
	if !near(p.X(), 50) || !near(p.Y(), 0) {
		t.Fatalf("heading 0 should point along +x, got %v", p)
	}
	p = PolarToCartesian(90, 2)
	if !near(p.X(), 0) || !near(p.Y(), 2) {
		t.Fatalf("heading 90 should point along +y, got %v", p)
	}

	angle, mag := CartesianToPolar(3, 4)
	if !near(mag, 5) {
		t.Fatalf("magnitude = %v, want 5", mag)
	}
	back := PolarToCartesian(angle, mag)
	if !near(back.X(), 3) || !near(back.Y(), 4) {
		t.Fatalf("round trip through polar lost the vector: %v", back)
	}
}

func TestAngleBetweenAndDistance(t *testing.T) {
	a := orb.Point{1, 1}
	b := orb.Point{1, 5}
	if got := AngleBetween(a, b); !near(got, 90) {
		t.Fatalf("AngleBetween = %v, want 90", got)
	}
	if got := AngleBetween(b, a); !near(got, -90) {
		t.Fatalf("AngleBetween = %v, want -90", got)
	}
	if got := Distance(orb.Point{0, 0}, orb.Point{3, 4}); !near(got, 5) {
		t.Fatalf("Distance = %v, want 5", got)
	}
}

func TestPointOnCircle(t *testing.T) {
	p := PointOnCircle(10, orb.Point{100, 50}, 180)
	if !near(p.X(), 90) || math.Abs(p.Y()-50) > 1e-6 {
		t.Fatalf("PointOnCircle = %v, want (90,50)", p)
	}
}

func TestRandomIntInRange(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 0))
	seenMin, seenMax := false, false
	for i := 0; i < 5000; i++ {
		v := RandomIntInRange(r, -45, 45)
		if v < -45 || v > 45 {
			t.Fatalf("value %d outside [-45,45]", v)
		}
		seenMin = seenMin || v == -45
		seenMax = seenMax || v == 45
	}
	if !seenMin || !seenMax {
		t.Fatalf("range should be inclusive on both ends (min=%v max=%v)", seenMin, seenMax)
	}

	for i := 0; i < 100; i++ {
		if v := RandomIntInRange(r, 5, 2); v < 2 || v > 5 {
			t.Fatalf("swapped bounds produced %d", v)
		}
	}
	if v := RandomIntInRange(r, 3, 3); v != 3 {
		t.Fatalf("degenerate range produced %d", v)
	}
}

func TestNormalizeDegrees(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 10000; i++ {
		in := (r.Float64() - 0.5) * 1e5
		got := NormalizeDegrees(in)
		if got < 0 || got >= 360 {
			t.Fatalf("NormalizeDegrees(%v) = %v outside [0,360)", in, got)
		}
	}
	if got := NormalizeDegrees(-90); !near(got, 270) {
		t.Fatalf("NormalizeDegrees(-90) = %v", got)
	}
	if got := NormalizeDegrees(720); got != 0 {
		t.Fatalf("NormalizeDegrees(720) = %v", got)
	}
	if got := NormalizeDegrees(-1e-14); got != 0 {
		t.Fatalf("tiny negative angle should fold to 0, got %v", got)
	}
}
