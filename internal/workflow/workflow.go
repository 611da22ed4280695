// Package workflow provides a small string-typed state machine used by the
// leave, procurement and task services. Each entity family declares its own
// states and triggers and builds a machine once; services fire triggers
// through it instead of comparing status strings inline.
package workflow

import (
	"context"
	"errors"
	"fmt"
)

type State string

func (s State) String() string { return string(s) }

type Trigger string

func (t Trigger) String() string { return string(t) }

var (
	// ErrInvalidTransition is returned when a trigger is not permitted in
	// the current state.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrGuardFailed is returned when every candidate transition for a
	// trigger is blocked by its guard.
	ErrGuardFailed = errors.New("transition guard failed")
)

// GuardFunc decides whether a configured transition may fire. The context
// carries the acting user where guards need it.
type GuardFunc func(ctx context.Context) bool

type transition struct {
	to    State
	guard GuardFunc
}

// Machine validates transitions for a single entity instance. It is cheap to
// build and not safe for concurrent use; services build one per operation.
type Machine struct {
	current     State
	transitions map[State]map[Trigger][]transition
}

// State returns the current state.
func (m *Machine) State() State {
	return m.current
}

// IsTerminal reports whether the current state has no outgoing transitions.
func (m *Machine) IsTerminal() bool {
	return len(m.transitions[m.current]) == 0
}

// CanFire reports whether the trigger has at least one configured transition
// from the current state. Guards are not evaluated here.
func (m *Machine) CanFire(trigger Trigger) bool {
	return len(m.transitions[m.current][trigger]) > 0
}

// Fire attempts the trigger, moving to the target state of the first
// transition whose guard passes.
func (m *Machine) Fire(ctx context.Context, trigger Trigger) error {
	candidates := m.transitions[m.current][trigger]
	if len(candidates) == 0 {
		return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, trigger, m.current)
	}

	for _, t := range candidates {
		if t.guard == nil || t.guard(ctx) {
			m.current = t.to
			return nil
		}
	}

	return fmt.Errorf("%w: %s from %s", ErrGuardFailed, trigger, m.current)
}

// PermittedTriggers lists the triggers configured for the current state.
func (m *Machine) PermittedTriggers() []Trigger {
	out := make([]Trigger, 0, len(m.transitions[m.current]))
	for trigger := range m.transitions[m.current] {
		out = append(out, trigger)
	}
	return out
}
