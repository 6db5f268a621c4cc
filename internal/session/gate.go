// Package session owns the process-wide authenticated session and the gate
// that routes the UI between the signed-out and signed-in surfaces.
package session

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/wolfpackhq/wolfpack/internal/bus"
)

// State is a gate routing state.
type State string

const (
	Booting   State = "BOOTING"
	SignedOut State = "SIGNED_OUT"
	SignedIn  State = "SIGNED_IN"
)

// validTransitions defines allowed gate transitions.
var validTransitions = map[State][]State{
	Booting:   {SignedOut, SignedIn},
	SignedOut: {SignedIn},
	SignedIn:  {SignedOut},
}

// Gate tracks and enforces routing state. There is exactly one gate per
// process; screens observe it through the bus rather than keeping their own
// presentation flags.
type Gate struct {
	mu      sync.RWMutex
	current State
	bus     *bus.Bus
}

// NewGate creates a gate starting in Booting.
func NewGate(b *bus.Bus) *Gate {
	return &Gate{current: Booting, bus: b}
}

// Current returns the current state.
func (g *Gate) Current() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.current
}

// Transition attempts to move to a new state. Returns error if the
// transition is invalid.
func (g *Gate) Transition(to State) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !slices.Contains(validTransitions[g.current], to) {
		return fmt.Errorf("invalid transition from %s to %s", g.current, to)
	}
	from := g.current
	g.current = to
	if g.bus != nil {
		g.bus.Publish(bus.Event{
			Kind:      bus.KindSessionStateChanged,
			Timestamp: time.Now(),
			Payload:   StateChange{From: from, To: to},
		})
	}
	return nil
}

// StateChange is the payload for gate state change events.
type StateChange struct {
	From State
	To   State
}
