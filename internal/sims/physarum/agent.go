package physarum

import (
	"image/color"
	"log/slog"
	"math"

	"github.com/paulmach/orb"

	"physarum/internal/core"
	"physarum/internal/field"
	"physarum/internal/geom"
	"physarum/internal/input"
	"physarum/internal/logging"
)

// Deps are the collaborators an agent reads and writes through.
type Deps struct {
	Field   field.Field
	Pointer input.Pointer
	RNG     *core.RNG
	Logger  *slog.Logger
}

// Agent is one trail-following particle. Each Step it senses the field ahead,
// turns, moves and marks its path.
type Agent struct {
	Pos     orb.Point
	LastPos orb.Point
	// Heading is in degrees and kept within [0, 360).
	Heading  float64
	Speed    float64
	MaxSpeed float64

	// Sensors are the left, center and right offsets from the heading.
	Sensors        [3]float64
	SensorDistance float64
	Attraction     float64
	Size           float64
	Color          color.RGBA

	Channel       Channel
	Reflection    Reflection
	PointerBoost  float64
	PointerJitter float64

	deps Deps
}

// NewAgent places an agent at pos, moving at full speed.
func NewAgent(pos orb.Point, heading float64, p Params, deps Deps) *Agent {
	if deps.Pointer == nil {
		deps.Pointer = input.Idle{}
	}
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	if deps.RNG == nil {
		deps.RNG = core.NewRNG(0)
	}
	a := &Agent{
		Pos:      pos,
		LastPos:  pos,
		Speed:    p.MaxSpeed,
		MaxSpeed: p.MaxSpeed,
		deps:     deps,
	}
	a.apply(p)
	a.SetHeading(heading)
	return a
}

// apply copies the tunables of p onto the agent. Position, heading and speed
// are left alone.
func (a *Agent) apply(p Params) {
	a.MaxSpeed = p.MaxSpeed
	a.Sensors = p.sensorOffsets()
	a.SensorDistance = p.SensorDistance
	a.Attraction = p.Attraction
	a.Size = p.AgentSize
	a.Color = p.color()
	a.Channel = p.Channel
	a.Reflection = p.Reflection
	a.PointerBoost = p.PointerBoost
	a.PointerJitter = p.PointerJitter
}

// Step runs one tick: sense, decide, move, deposit.
func (a *Agent) Step(dt float64) {
	a.Rotate(a.Decide(a.Sense()))
	a.Move(dt)
	if err := a.Deposit(); err != nil {
		a.deps.Logger.Debug("deposit skipped", "x", a.Pos.X(), "y", a.Pos.Y(), "err", err)
	}
}

// Probes returns the world positions of the sensors.
func (a *Agent) Probes() [3]orb.Point {
	var out [3]orb.Point
	for i, off := range a.Sensors {
		out[i] = geom.Add(a.Pos, geom.PolarToCartesian(a.Heading+off, a.SensorDistance))
	}
	return out
}

// Sense samples the field at every sensor.
func (a *Agent) Sense() [3]Reading {
	var out [3]Reading
	for i, probe := range a.Probes() {
		out[i] = Reading{
			Offset: a.Sensors[i],
			Probe:  probe,
			Sample: a.deps.Field.Sample(probe.X(), probe.Y()),
		}
	}
	return out
}

// Decide turns readings into a heading change.
func (a *Agent) Decide(r [3]Reading) float64 {
	return Steer(
		r[0].Strength(a.Channel),
		r[1].Strength(a.Channel),
		r[2].Strength(a.Channel),
		a.Sensors, a.Attraction, a.deps.RNG,
	)
}

// Rotate turns the agent by delta degrees.
func (a *Agent) Rotate(delta float64) {
	a.SetHeading(a.Heading + delta)
}

// SetHeading points the agent at angle degrees.
func (a *Agent) SetHeading(angle float64) {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return
	}
	a.Heading = geom.NormalizeDegrees(angle)
}

// Move caps the speed, bounces off the field edges, applies the pointer
// override and integrates the position over dt seconds.
func (a *Agent) Move(dt float64) {
	if a.Speed > a.MaxSpeed {
		a.Speed = a.MaxSpeed
	}
	a.Reflect()
	if down, at := a.deps.Pointer.State(); down {
		j := int(a.PointerJitter)
		a.SetHeading(geom.AngleBetween(a.Pos, at) + float64(geom.RandomIntInRange(a.deps.RNG, -j, j)))
		a.Speed = a.MaxSpeed * a.PointerBoost
	}
	v := geom.PolarToCartesian(a.Heading, a.Speed)
	a.Pos = orb.Point{a.Pos.X() + v.X()*dt, a.Pos.Y() + v.Y()*dt}
}

// Reflect clamps the agent inside the field and turns it away from every edge
// it touched, checking left, top, right and bottom in that order.
func (a *Agent) Reflect() {
	w, h := a.deps.Field.Size()
	x, y := a.Pos.X(), a.Pos.Y()
	if x <= 0 {
		x = 0
		a.bounce(false)
	}
	if y <= 0 {
		y = 0
		a.bounce(true)
	}
	if x+a.Size >= float64(w) {
		x = float64(w) - a.Size
		a.bounce(false)
	}
	if y+a.Size >= float64(h) {
		y = float64(h) - a.Size
		a.bounce(true)
	}
	a.Pos = orb.Point{x, y}
}

func (a *Agent) bounce(horizontalEdge bool) {
	if horizontalEdge && a.Reflection == ReflectAxis {
		a.SetHeading(-a.Heading)
		return
	}
	a.SetHeading(180 - a.Heading)
}

// Deposit marks the path from the last deposit to the current position. The
// last position advances even when the field refuses the mark.
func (a *Agent) Deposit() error {
	err := a.deps.Field.Deposit(field.Mark{
		From:  a.LastPos,
		To:    a.Pos,
		Size:  a.Size,
		Color: a.Color,
	})
	a.LastPos = a.Pos
	return err
}

// Clamp pulls the agent and its last position inside a w×h field.
func (a *Agent) Clamp(w, h int) {
	a.Pos = clampPoint(a.Pos, w, h, a.Size)
	a.LastPos = clampPoint(a.LastPos, w, h, a.Size)
}

func clampPoint(p orb.Point, w, h int, size float64) orb.Point {
	maxX := math.Max(0, float64(w)-size)
	maxY := math.Max(0, float64(h)-size)
	return orb.Point{
		math.Max(0, math.Min(maxX, p.X())),
		math.Max(0, math.Min(maxY, p.Y())),
	}
}
