package core

import "time"

// Clock measures the time between ticks.
type Clock interface {
	// Tick returns the seconds elapsed since the previous call. The first
	// call returns 0.
	Tick() float64
	// Rate reports the instantaneous ticks per second of the last Tick.
	Rate() float64
	// Reset forgets the previous tick.
	Reset()
}

// WallClock derives delta time from a time source, by default time.Now.
type WallClock struct {
	now  func() time.Time
	last time.Time
	dt   float64
}

// NewWallClock returns a clock reading time.Now.
func NewWallClock() *WallClock { return &WallClock{now: time.Now} }

// NewWallClockWith returns a clock reading now; tests pass a fake.
func NewWallClockWith(now func() time.Time) *WallClock {
	if now == nil {
		now = time.Now
	}
	return &WallClock{now: now}
}

// Tick implements Clock.
func (c *WallClock) Tick() float64 {
	now := c.now()
	if c.last.IsZero() {
		c.last = now
		c.dt = 0
		return 0
	}
	c.dt = now.Sub(c.last).Seconds()
	if c.dt < 0 {
		c.dt = 0
	}
	c.last = now
	return c.dt
}

// Rate implements Clock.
func (c *WallClock) Rate() float64 {
	if c.dt <= 0 {
		return 0
	}
	return 1 / c.dt
}

// Reset implements Clock.
func (c *WallClock) Reset() {
	c.last = time.Time{}
	c.dt = 0
}

// FixedStep is a Clock that advances by a constant step, so headless runs
// behave the same on any machine. Like WallClock, its first tick is 0.
type FixedStep struct {
	step    float64
	started bool
}

// NewFixedStep constructs a FixedStep targeting the given ticks per second.
func NewFixedStep(tps int) *FixedStep {
	if tps <= 0 {
		tps = 60
	}
	return &FixedStep{step: 1 / float64(tps)}
}

// Tick implements Clock.
func (f *FixedStep) Tick() float64 {
	if !f.started {
		f.started = true
		return 0
	}
	return f.step
}

// Rate implements Clock.
func (f *FixedStep) Rate() float64 {
	if !f.started {
		return 0
	}
	return 1 / f.step
}

// Reset implements Clock.
func (f *FixedStep) Reset() { f.started = false }
