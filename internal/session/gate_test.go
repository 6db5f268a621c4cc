package session

import (
	"testing"
	"time"

	"github.com/wolfpackhq/wolfpack/internal/bus"
)

func TestGateInitialState(t *testing.T) {
	g := NewGate(nil)
	if g.Current() != Booting {
		t.Errorf("initial state = %s, want BOOTING", g.Current())
	}
}

func TestGateValidTransitions(t *testing.T) {
	tests := []struct {
		from State
		to   State
	}{
		{Booting, SignedOut},
		{Booting, SignedIn},
		{SignedOut, SignedIn},
		{SignedIn, SignedOut},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			g := NewGate(nil)
			g.current = tt.from
			if err := g.Transition(tt.to); err != nil {
				t.Errorf("Transition(%s) error = %v", tt.to, err)
			}
			if g.Current() != tt.to {
				t.Errorf("state = %s, want %s", g.Current(), tt.to)
			}
		})
	}
}

func TestGateInvalidTransitions(t *testing.T) {
	tests := []struct {
		from State
		to   State
	}{
		{SignedOut, Booting},
		{SignedIn, Booting},
		{SignedOut, SignedOut},
		{Booting, Booting},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			g := NewGate(nil)
			g.current = tt.from
			if err := g.Transition(tt.to); err == nil {
				t.Errorf("Transition(%s) from %s succeeded, want error", tt.to, tt.from)
			}
			if g.Current() != tt.from {
				t.Errorf("state moved to %s after invalid transition", g.Current())
			}
		})
	}
}

func TestGatePublishesStateChange(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("session.", 4)
	defer unsub()

	g := NewGate(b)
	if err := g.Transition(SignedOut); err != nil {
		t.Fatalf("Transition() error = %v", err)
	}

	select {
	case evt := <-ch:
		if evt.Kind != bus.KindSessionStateChanged {
			t.Errorf("kind = %s, want %s", evt.Kind, bus.KindSessionStateChanged)
		}
		change, ok := evt.Payload.(StateChange)
		if !ok {
			t.Fatalf("payload is %T, want StateChange", evt.Payload)
		}
		if change.From != Booting || change.To != SignedOut {
			t.Errorf("change = %+v", change)
		}
	case <-time.After(time.Second):
		t.Fatal("no state change event")
	}
}
