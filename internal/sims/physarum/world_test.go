package physarum

import (
	"errors"
	"image/color"
	"math"
	"slices"
	"testing"

	"github.com/paulmach/orb"

	"physarum/internal/core"
	"physarum/internal/field"
	"physarum/internal/input"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Agents = 50
	cfg.Width = 120
	cfg.Height = 90
	cfg.Seed = 42
	return cfg
}

func positions(w *World) []orb.Point {
	out := make([]orb.Point, 0, len(w.Agents()))
	for _, a := range w.Agents() {
		out = append(out, a.Pos)
	}
	return out
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Agents = 0
	if _, err := New(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestNewCapsPopulation(t *testing.T) {
	cfg := smallConfig()
	cfg.Agents = MaxAgents + 500
	w, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(w.Agents()) != MaxAgents || w.Config().Agents != MaxAgents {
		t.Fatalf("expected %d agents, got %d (config %d)", MaxAgents, len(w.Agents()), w.Config().Agents)
	}
}

func TestNewSpawnsPopulationInsideField(t *testing.T) {
	w, err := New(smallConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(w.Agents()) != 50 {
		t.Fatalf("expected 50 agents, got %d", len(w.Agents()))
	}
	for i, a := range w.Agents() {
		if a.Pos.X() < 0 || a.Pos.X() > 120 || a.Pos.Y() < 0 || a.Pos.Y() > 90 {
			t.Fatalf("agent %d spawned outside the field at %v", i, a.Pos)
		}
		if a.Heading < 0 || a.Heading >= 360 {
			t.Fatalf("agent %d heading %v", i, a.Heading)
		}
		if a.Speed != a.MaxSpeed {
			t.Fatalf("agent %d should start at max speed", i)
		}
	}
	if w.Name() != "physarum" {
		t.Fatalf("unexpected name %q", w.Name())
	}
	if w.Size() != (core.Size{W: 120, H: 90}) {
		t.Fatalf("unexpected size %+v", w.Size())
	}
}

func TestResetDeterministic(t *testing.T) {
	w, err := New(smallConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	initial := positions(w)

	w.StepDelta(0.1)
	w.Reset(0)
	if !slices.Equal(initial, positions(w)) {
		t.Fatal("Reset with config seed not deterministic")
	}
	if w.Ticks() != 0 {
		t.Fatalf("Reset should zero the tick count, got %d", w.Ticks())
	}

	w.Reset(777)
	seeded := positions(w)
	w.Reset(777)
	if !slices.Equal(seeded, positions(w)) {
		t.Fatal("Reset with explicit seed not deterministic")
	}
	if slices.Equal(initial, seeded) {
		t.Fatal("different seeds should spawn different populations")
	}
}

func TestResetClearsField(t *testing.T) {
	w, err := New(smallConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 5; i++ {
		w.StepDelta(0.05)
	}
	buf := make([]byte, 4*120*90)
	w.Pixels(buf)
	if !slices.ContainsFunc(buf, func(b byte) bool { return b != 0 }) {
		t.Fatal("stepping should leave trails")
	}
	w.Reset(0)
	w.Pixels(buf)
	if slices.ContainsFunc(buf, func(b byte) bool { return b != 0 }) {
		t.Fatal("Reset should clear the field")
	}
}

func TestFirstTickDoesNotMoveAgents(t *testing.T) {
	w, err := New(smallConfig(), WithClock(core.NewFixedStep(60)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	before := positions(w)
	w.Tick()
	if !slices.Equal(before, positions(w)) {
		t.Fatal("the first tick has zero delta time and must not move agents")
	}
	w.Tick()
	if slices.Equal(before, positions(w)) {
		t.Fatal("the second tick should move agents")
	}
	if w.Ticks() != 2 {
		t.Fatalf("expected 2 ticks, got %d", w.Ticks())
	}
}

func TestStepDeltaMatchesSingleAgentScenario(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Agents = 1
	g := field.NewGrid(400, 300)
	w, err := New(cfg, WithField(g))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a := w.Agents()[0]
	a.Pos, a.LastPos = orb.Point{200, 150}, orb.Point{200, 150}
	a.SetHeading(0)
	a.Speed = 50
	g.Clear()
	g.Set(206, 150, field.Sample{A: 255})

	w.StepDelta(1)

	if !approx(a.Pos.X(), 250) || !approx(a.Pos.Y(), 150) || !approx(a.Heading, 0) {
		t.Fatalf("expected (250,150) heading 0, got %v heading %v", a.Pos, a.Heading)
	}
	s := g.Sample(225, 150)
	// One decay pass after the deposit: 255 * 0.96.
	if s.A < 240 || s.A > 245 {
		t.Fatalf("expected a decayed trail on the segment, got %+v", s)
	}
}

func TestDecayFadesUntouchedTrail(t *testing.T) {
	cfg := smallConfig()
	cfg.Agents = 1
	g := field.NewGrid(cfg.Width, cfg.Height)
	w, err := New(cfg, WithField(g))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g.Set(5, 5, field.Sample{R: 255, G: 255, B: 255, A: 255})
	prev := g.Sample(5, 5).A
	for i := 0; i < 10; i++ {
		a := w.Agents()[0]
		a.Pos, a.LastPos = orb.Point{100, 80}, orb.Point{100, 80}
		w.StepDelta(0)
		cur := g.Sample(5, 5).A
		if cur >= prev {
			t.Fatalf("tick %d: trail did not fade (%v -> %v)", i, prev, cur)
		}
		prev = cur
	}
}

func TestResizeClampsAgents(t *testing.T) {
	w, err := New(smallConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w.StepDelta(0.1)
	w.Resize(40, 30)
	if w.Size() != (core.Size{W: 40, H: 30}) {
		t.Fatalf("size not updated: %+v", w.Size())
	}
	if fw, fh := w.Field().Size(); fw != 40 || fh != 30 {
		t.Fatalf("field not resized: %dx%d", fw, fh)
	}
	for i, a := range w.Agents() {
		if a.Pos.X() < 0 || a.Pos.X() > 39 || a.Pos.Y() < 0 || a.Pos.Y() > 29 {
			t.Fatalf("agent %d left outside after resize at %v", i, a.Pos)
		}
	}
	buf := make([]byte, 4*40*30)
	w.Pixels(buf)
	if slices.ContainsFunc(buf, func(b byte) bool { return b != 0 }) {
		t.Fatal("resize should start from a blank field")
	}

	w.Resize(0, 10)
	if w.Size() != (core.Size{W: 40, H: 30}) {
		t.Fatal("non-positive resize must be ignored")
	}
}

func TestWorldUsesPointer(t *testing.T) {
	tracker := input.NewTracker()
	cfg := smallConfig()
	cfg.Params.PointerJitter = 0
	w, err := New(cfg, WithPointer(tracker))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tracker.Set(true, orb.Point{60, 45})
	w.StepDelta(0)
	for i, a := range w.Agents() {
		if a.Speed != a.MaxSpeed*a.PointerBoost {
			t.Fatalf("agent %d not boosted: %v", i, a.Speed)
		}
	}
	if st := w.Stats(); st.MeanSpeed != 400 || st.Agents != 50 || st.Ticks != 1 {
		t.Fatalf("unexpected stats %+v", st)
	}
	if w.Pointer() != tracker {
		t.Fatal("Pointer should expose the wired tracker")
	}
}

func TestSensorProbes(t *testing.T) {
	w, err := New(smallConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	probes := w.SensorProbes()
	if len(probes) != 3*len(w.Agents()) {
		t.Fatalf("expected three probes per agent, got %d", len(probes))
	}
	first := w.Agents()[0].Probes()
	if probes[1] != first[1] {
		t.Fatalf("probe order mismatch: %v vs %v", probes[1], first[1])
	}
}

func TestSetFloatParameter(t *testing.T) {
	w, err := New(smallConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !w.SetFloatParameter("sensor_angle", 30) {
		t.Fatal("sensor_angle should be settable")
	}
	for _, a := range w.Agents() {
		if a.Sensors != [3]float64{-30, 0, 30} {
			t.Fatalf("agents should pick up new sensor angle, got %v", a.Sensors)
		}
	}
	if !w.SetFloatParameter("decay", 5) {
		t.Fatal("decay should be settable")
	}
	if got := w.Config().Params.DecayRate; got != 1 {
		t.Fatalf("decay should clamp to 1, got %v", got)
	}
	if w.SetFloatParameter("color", 1) {
		t.Fatal("unknown controls must be rejected")
	}
	p, ok := w.Parameters().Lookup("sensor_angle")
	if !ok || p.Value != "30" {
		t.Fatalf("snapshot should report the new value, got %+v", p)
	}
	if p, ok := w.Parameters().Lookup("channel"); !ok || p.Value != "alpha" {
		t.Fatalf("snapshot should report the channel policy, got %+v", p)
	}
}

func TestCanvasBackendWorld(t *testing.T) {
	cfg := smallConfig()
	cfg.Backend = BackendCanvas
	w, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := w.Field().(*field.Canvas); !ok {
		t.Fatalf("expected canvas field, got %T", w.Field())
	}
	for i := 0; i < 3; i++ {
		w.StepDelta(0.05)
	}
	buf := make([]byte, 4*120*90)
	w.Pixels(buf)
	if !slices.ContainsFunc(buf, func(b byte) bool { return b != 0 }) {
		t.Fatal("canvas backend should show trails")
	}
}

func TestCanvasWorldAgentSensesFlank(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Agents = 1
	cfg.Backend = BackendCanvas
	w, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a := w.Agents()[0]
	a.Pos, a.LastPos = orb.Point{200, 150}, orb.Point{200, 150}
	a.SetHeading(0)
	w.Field().Clear()
	// Right probe of an agent at (200,150) facing 0 lands in cell (204,154).
	mark := field.Mark{From: orb.Point{204, 154}, To: orb.Point{204, 154}, Size: 1, Color: color.RGBA{R: 255, G: 255, B: 255, A: 255}}
	if err := w.Field().Deposit(mark); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if got := a.Decide(a.Sense()); got != 45 {
		t.Fatalf("canvas-backed agent should turn toward the right sensor, got %v", got)
	}
}

func TestHeadingSegments(t *testing.T) {
	w, err := New(smallConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	segs := w.HeadingSegments(10)
	if len(segs) != len(w.Agents()) {
		t.Fatalf("expected one segment per agent, got %d", len(segs))
	}
	for i, s := range segs {
		a := w.Agents()[i]
		if s[0] != a.Pos {
			t.Fatalf("segment %d should start at the agent", i)
		}
		if d := math.Hypot(s[1].X()-s[0].X(), s[1].Y()-s[0].Y()); !approx(d, 10) {
			t.Fatalf("segment %d length %v", i, d)
		}
	}
}

func TestStatusLines(t *testing.T) {
	w, err := New(smallConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w.StepDelta(0)
	lines := w.StatusLines()
	if len(lines) != 3 || lines[0] != "agents 50  field 120x90" || lines[1] != "ticks 1" {
		t.Fatalf("unexpected status %q", lines)
	}
}
