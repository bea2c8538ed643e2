// Package physarum simulates slime-mold style agents on a decaying trail field.
//
// Every tick each agent samples the field at three sensors ahead of it, turns
// toward the strongest signal, moves, and marks the path it travelled. After
// all agents have moved the whole field fades by a fixed fraction, so trails
// that are not refreshed evaporate. Agents are processed one after another and
// later agents see the marks of earlier ones within the same tick.
package physarum

import (
	"log/slog"
	"math"

	"github.com/paulmach/orb"

	"physarum/internal/core"
	"physarum/internal/field"
	"physarum/internal/geom"
	"physarum/internal/input"
	"physarum/internal/logging"
)

// World owns the trail field and the agent population.
type World struct {
	cfg Config

	field   field.Field
	agents  []*Agent
	pointer input.Pointer
	clock   core.Clock
	rng     *core.RNG
	log     *slog.Logger

	ticks uint64
}

// Option customises a World.
type Option func(*World)

// WithPointer wires the pointer that attracts agents while pressed.
func WithPointer(p input.Pointer) Option {
	return func(w *World) {
		if p != nil {
			w.pointer = p
		}
	}
}

// WithClock replaces the wall clock, e.g. with core.FixedStep.
func WithClock(c core.Clock) Option {
	return func(w *World) {
		if c != nil {
			w.clock = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.log = l
		}
	}
}

// WithField replaces the field picked by cfg.Backend. The field is resized to
// the configured dimensions.
func WithField(f field.Field) Option {
	return func(w *World) {
		if f != nil {
			w.field = f
		}
	}
}

// New validates cfg and builds a populated world.
func New(cfg Config, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Agents = min(cfg.Agents, MaxAgents)
	w := &World{
		cfg:     cfg,
		pointer: input.Idle{},
		clock:   core.NewWallClock(),
		rng:     core.NewRNG(cfg.Seed),
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.field == nil {
		w.field = newField(cfg.Backend, cfg.Width, cfg.Height)
	} else if fw, fh := w.field.Size(); fw != cfg.Width || fh != cfg.Height {
		w.field.Resize(cfg.Width, cfg.Height)
	}
	w.Reset(cfg.Seed)
	return w, nil
}

func newField(b Backend, width, height int) field.Field {
	if b == BackendCanvas {
		return field.NewCanvas(width, height)
	}
	return field.NewGrid(width, height)
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "physarum" }

// Size reports the field dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.cfg.Width, H: w.cfg.Height} }

// Config returns the active configuration.
func (w *World) Config() Config { return w.cfg }

// Field exposes the trail field.
func (w *World) Field() field.Field { return w.field }

// Agents exposes the population in iteration order.
func (w *World) Agents() []*Agent { return w.agents }

// Pointer exposes the wired pointer.
func (w *World) Pointer() input.Pointer { return w.pointer }

// Clock exposes the tick clock.
func (w *World) Clock() core.Clock { return w.clock }

// Ticks reports how many ticks ran since the last Reset.
func (w *World) Ticks() uint64 { return w.ticks }

// Reset clears the field and respawns the population. A zero seed reuses the
// configured one.
func (w *World) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	w.rng.Seed(effective)
	w.field.Clear()
	w.clock.Reset()
	w.ticks = 0

	deps := Deps{Field: w.field, Pointer: w.pointer, RNG: w.rng, Logger: w.log}
	// Spawn on whole cells that leave room for the agent's square.
	inset := int(math.Ceil(w.cfg.Params.AgentSize))
	maxX := max(0, w.cfg.Width-inset)
	maxY := max(0, w.cfg.Height-inset)
	w.agents = make([]*Agent, w.cfg.Agents)
	for i := range w.agents {
		pos := orb.Point{
			float64(geom.RandomIntInRange(w.rng, 0, maxX)),
			float64(geom.RandomIntInRange(w.rng, 0, maxY)),
		}
		w.agents[i] = NewAgent(pos, w.rng.Float64()*360, w.cfg.Params, deps)
	}
	w.log.Info("world reset", "seed", effective, "agents", len(w.agents),
		"width", w.cfg.Width, "height", w.cfg.Height, "backend", w.cfg.Backend)
}

// Step advances one tick using the clock.
func (w *World) Step() { w.Tick() }

// Tick advances one tick using the clock's delta time.
func (w *World) Tick() {
	w.StepDelta(w.clock.Tick())
}

// StepDelta advances one tick of dt seconds: every agent senses, turns, moves
// and deposits in order, then the field decays once.
func (w *World) StepDelta(dt float64) {
	for _, a := range w.agents {
		a.Step(dt)
	}
	w.field.Decay(w.cfg.Params.DecayRate)
	w.ticks++
}

// Resize follows a viewport change. The field is reallocated blank and agents
// are clamped inside the new bounds.
func (w *World) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		w.log.Warn("ignoring resize", "width", width, "height", height)
		return
	}
	if width == w.cfg.Width && height == w.cfg.Height {
		return
	}
	w.cfg.Width, w.cfg.Height = width, height
	w.field.Resize(width, height)
	for _, a := range w.agents {
		a.Clamp(width, height)
	}
	w.log.Info("world resized", "width", width, "height", height)
}

// Clear wipes the trail without touching agents.
func (w *World) Clear() { w.field.Clear() }

// Pixels writes the field picture into dst.
func (w *World) Pixels(dst []byte) { w.field.RGBA(dst) }

// SensorProbes returns every agent's sensor positions, three per agent.
func (w *World) SensorProbes() []orb.Point {
	out := make([]orb.Point, 0, 3*len(w.agents))
	for _, a := range w.agents {
		p := a.Probes()
		out = append(out, p[:]...)
	}
	return out
}

// Stats summarises the population.
type Stats struct {
	Ticks     uint64
	Rate      float64
	Agents    int
	MeanSpeed float64
}

// Stats reports tick count, tick rate and mean agent speed.
func (w *World) Stats() Stats {
	s := Stats{Ticks: w.ticks, Rate: w.clock.Rate(), Agents: len(w.agents)}
	if len(w.agents) == 0 {
		return s
	}
	total := 0.0
	for _, a := range w.agents {
		total += a.Speed
	}
	s.MeanSpeed = total / float64(len(w.agents))
	return s
}

// HeadingSegments returns, per agent, a segment from its position along its
// heading with the given length.
func (w *World) HeadingSegments(length float64) [][2]orb.Point {
	out := make([][2]orb.Point, len(w.agents))
	for i, a := range w.agents {
		out[i] = [2]orb.Point{a.Pos, geom.Add(a.Pos, geom.PolarToCartesian(a.Heading, length))}
	}
	return out
}
