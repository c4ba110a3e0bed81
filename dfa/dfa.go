// Package dfa implements the subset construction (spec.md §4.3,
// component C4) that turns an NFA into a deterministic byte-indexed
// transition table, and the accept-priority resolution (component C5)
// that resolves which rule wins when a DFA state represents more than
// one accepting NFA state.
package dfa

import (
	"fmt"

	"github.com/coregx/lexgen/nfa"
)

// NoTransition marks the absence of an outgoing edge for a given byte in
// a State's dense table.
const NoTransition = -1

// State is one DFA state: a dense table of 128 byte transitions to other
// state indices, plus whatever accept/anchor information the subset of
// NFA states it represents carries.
//
// AcceptString and Anchor are copied out of the winning NFA node at
// construction time rather than kept as a pointer back into the NFA
// (spec.md §5's resource-model question): the DFA is meant to outlive
// the Builder/NFA arena that produced it.
type State struct {
	trans        [128]int
	acceptString string
	anchor       nfa.Anchor
	hasAccept    bool
}

// Follow returns the next state index for byte b, and false if this
// state has no transition on b.
func (s *State) Follow(b byte) (int, bool) {
	if b >= 128 {
		return 0, false
	}
	t := s.trans[b]
	if t == NoTransition {
		return 0, false
	}
	return t, true
}

// IsAccepting reports whether this state is a match state.
func (s *State) IsAccepting() bool { return s.hasAccept }

// AcceptString returns the action text copied from the winning NFA
// accept node, or "" if this state does not accept.
func (s *State) AcceptString() string { return s.acceptString }

// Anchor returns the anchor bits copied from the winning NFA accept
// node.
func (s *State) Anchor() nfa.Anchor { return s.anchor }

// DFA is an immutable, byte-indexed deterministic automaton.
type DFA struct {
	states []State
	start  int
}

// Start returns the entry state's index.
func (d *DFA) Start() int { return d.start }

// Len returns the number of states.
func (d *DFA) Len() int { return len(d.states) }

// State returns a read-only view of the state at idx.
func (d *DFA) State(idx int) *State {
	if idx < 0 || idx >= len(d.states) {
		return nil
	}
	return &d.states[idx]
}

func (d *DFA) String() string {
	return fmt.Sprintf("DFA{states: %d, start: %d}", len(d.states), d.start)
}
