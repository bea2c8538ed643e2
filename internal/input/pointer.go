// Package input carries pointer state from the frontend into the simulation.
package input

import (
	"sync"

	"github.com/paulmach/orb"
)

// Pointer reports whether the pointer is held down and where it is, in field
// coordinates.
type Pointer interface {
	State() (down bool, at orb.Point)
}

// Tracker is a Pointer that the frontend updates. It may be written from a
// different goroutine than the one running the simulation.
type Tracker struct {
	mu   sync.RWMutex
	down bool
	at   orb.Point
}

// NewTracker returns a released pointer at the origin.
func NewTracker() *Tracker { return &Tracker{} }

// State implements Pointer.
func (t *Tracker) State() (bool, orb.Point) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.down, t.at
}

// Set records the button state and position.
func (t *Tracker) Set(down bool, at orb.Point) {
	t.mu.Lock()
	t.down = down
	t.at = at
	t.mu.Unlock()
}

// MoveTo updates the position and keeps the button state.
func (t *Tracker) MoveTo(at orb.Point) {
	t.mu.Lock()
	t.at = at
	t.mu.Unlock()
}

// Release lifts the button.
func (t *Tracker) Release() {
	t.mu.Lock()
	t.down = false
	t.mu.Unlock()
}

// Idle is a Pointer that is never pressed.
type Idle struct{}

// State implements Pointer.
func (Idle) State() (bool, orb.Point) { return false, orb.Point{} }
