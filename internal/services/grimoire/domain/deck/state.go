// Package deck implements the grimoire composition engines: the mutable deck
// state, aspect eligibility and selection, the card quantity ledger with its
// capacity model, and the rank-cap transition rules.
//
// All engine operations take the current State and return the next one.
// Constraint violations are not errors; a disallowed mutation returns the
// input state unchanged together with a result value describing the refusal.
package deck

import "errors"

// Rank cap bounds for card visibility.
const (
	RankMin = 1
	RankMax = 5
)

// ErrInvalidRankCap indicates a requested rank cap outside RankMin..RankMax.
var ErrInvalidRankCap = errors.New("rank cap must be in range 1..5")

// State is the mutable deck state. It is mutated exclusively through the
// engine operations in this package; collaborators read it or replace it
// wholesale.
type State struct {
	// RankCap is the visibility ceiling for card ranks.
	RankCap int
	// Basics holds selected basic aspects. Basics are free and unlimited.
	Basics map[string]struct{}
	// Chosen holds selected capacity-constrained aspects.
	Chosen map[string]struct{}
	// Unlocked holds aspects revealed via codes. It persists independently
	// of selection.
	Unlocked map[string]struct{}
	// Entries maps card ids to quantities. Zero quantities are not stored.
	Entries map[string]int
	// OverrideAll disables every constraint and unlocks everything. It is a
	// debug escape hatch checked once at the entry of each engine rule.
	OverrideAll bool
}

// NewState creates the session-start state: rank cap 1, a single default
// basic aspect selected, no entries.
func NewState(defaultBasic string) State {
	s := State{
		RankCap:  RankMin,
		Basics:   map[string]struct{}{},
		Chosen:   map[string]struct{}{},
		Unlocked: map[string]struct{}{},
		Entries:  map[string]int{},
	}
	if defaultBasic != "" {
		s.Basics[defaultBasic] = struct{}{}
	}
	return s
}

// Clone returns a deep copy. Engine operations clone before mutating so a
// refused operation can hand back the untouched input state.
func (s State) Clone() State {
	out := State{
		RankCap:     s.RankCap,
		Basics:      make(map[string]struct{}, len(s.Basics)),
		Chosen:      make(map[string]struct{}, len(s.Chosen)),
		Unlocked:    make(map[string]struct{}, len(s.Unlocked)),
		Entries:     make(map[string]int, len(s.Entries)),
		OverrideAll: s.OverrideAll,
	}
	for slug := range s.Basics {
		out.Basics[slug] = struct{}{}
	}
	for slug := range s.Chosen {
		out.Chosen[slug] = struct{}{}
	}
	for slug := range s.Unlocked {
		out.Unlocked[slug] = struct{}{}
	}
	for id, qty := range s.Entries {
		out.Entries[id] = qty
	}
	return out
}

// Quantity returns the stored quantity for a card id, zero when absent.
func (s State) Quantity(cardID string) int {
	return s.Entries[cardID]
}

// setEntry stores a quantity, removing the entry when it reaches zero.
func (s State) setEntry(cardID string, qty int) {
	if qty <= 0 {
		delete(s.Entries, cardID)
		return
	}
	s.Entries[cardID] = qty
}
