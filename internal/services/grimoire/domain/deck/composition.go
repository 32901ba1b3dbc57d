package deck

import "github.com/louisbranch/grimoire.cards/internal/services/grimoire/domain/catalog"

// PageBudget is the shared capacity for countable card types. Astral and
// Shadow cards do not consume it.
const PageBudget = 30

// typeLimits holds the per-type quantity caps. For countable types the cap
// applies inside the page budget; for special types it is an absolute cap.
var typeLimits = map[catalog.CardType]int{
	catalog.TypeHoly:   4,
	catalog.TypeLight:  24,
	catalog.TypeDark:   2,
	catalog.TypeAstral: 7,
	catalog.TypeShadow: 3,
}

// TypeLimit returns the quantity cap for a card type.
func TypeLimit(t catalog.CardType) int {
	return typeLimits[t]
}

// TypeTotal sums the stored quantities for one card type.
func TypeTotal(cat *catalog.Catalog, s State, t catalog.CardType) int {
	total := 0
	for id, qty := range s.Entries {
		card, ok := cat.Card(id)
		if ok && card.Type == t {
			total += qty
		}
	}
	return total
}

// PageTotal sums the stored quantities of every countable-type card.
func PageTotal(cat *catalog.Catalog, s State) int {
	total := 0
	for id, qty := range s.Entries {
		card, ok := cat.Card(id)
		if ok && card.Type.Countable() {
			total += qty
		}
	}
	return total
}

// TypeRemaining reports the room left under a type's own cap.
func TypeRemaining(cat *catalog.Catalog, s State, t catalog.CardType) int {
	remaining := TypeLimit(t) - TypeTotal(cat, s, t)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// PageRemaining reports the room left in the shared page budget.
func PageRemaining(cat *catalog.Catalog, s State) int {
	remaining := PageBudget - PageTotal(cat, s)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IncrementResult classifies the outcome of IncrementOne.
type IncrementResult int

const (
	// IncrementApplied means the quantity was raised by one.
	IncrementApplied IncrementResult = iota
	// DeniedAspectLocked means the card is not currently accessible.
	DeniedAspectLocked
	// DeniedMaxCopies means the card is already at its own copy limit.
	DeniedMaxCopies
	// DeniedTypeCap means the card type's quantity cap is exhausted.
	DeniedTypeCap
	// DeniedPageCap means the shared page budget is exhausted.
	DeniedPageCap
)

func (r IncrementResult) String() string {
	switch r {
	case IncrementApplied:
		return "applied"
	case DeniedAspectLocked:
		return "denied_aspect_locked"
	case DeniedMaxCopies:
		return "denied_max_copies"
	case DeniedTypeCap:
		return "denied_type_cap"
	case DeniedPageCap:
		return "denied_page_cap"
	default:
		return "unknown"
	}
}

// SetQuantity stores an explicit quantity for a card, clamped to the range
// zero to the card's own copy limit. Type and page quotas are deliberately
// not enforced here; callers reaching for an explicit target use the guarded
// increment and bulk operations when quota clamping matters.
func SetQuantity(cat *catalog.Catalog, s State, cardID string, qty int) State {
	card, ok := cat.Card(cardID)
	if !ok {
		return s
	}
	if qty < 0 {
		qty = 0
	}
	if qty > card.MaxCopies {
		qty = card.MaxCopies
	}
	next := s.Clone()
	next.setEntry(cardID, qty)
	return next
}

// IncrementOne raises a card's quantity by one, refusing when the card is
// inaccessible, at its own copy limit, or blocked by the type or page caps.
func IncrementOne(cat *catalog.Catalog, s State, cardID string) (State, IncrementResult) {
	card, ok := cat.Card(cardID)
	if !ok {
		return s, DeniedAspectLocked
	}
	if !s.OverrideAll {
		if !CardAccessible(cat, s, card) {
			return s, DeniedAspectLocked
		}
		if s.Quantity(cardID) >= card.MaxCopies {
			return s, DeniedMaxCopies
		}
		if TypeRemaining(cat, s, card.Type) == 0 {
			return s, DeniedTypeCap
		}
		if card.Type.Countable() && PageRemaining(cat, s) == 0 {
			return s, DeniedPageCap
		}
	} else if s.Quantity(cardID) >= card.MaxCopies {
		return s, DeniedMaxCopies
	}
	next := s.Clone()
	next.setEntry(cardID, s.Quantity(cardID)+1)
	return next, IncrementApplied
}

// DecrementOne lowers a card's quantity by one, flooring at zero.
func DecrementOne(cat *catalog.Catalog, s State, cardID string) State {
	if _, ok := cat.Card(cardID); !ok {
		return s
	}
	qty := s.Quantity(cardID)
	if qty == 0 {
		return s
	}
	next := s.Clone()
	next.setEntry(cardID, qty-1)
	return next
}

// FillAspect adds as many copies of every accessible card in the aspect as
// room allows, in catalog order. Each card is bounded by its own copy limit,
// its type's remaining quota, and for countable types the remaining page
// budget. Cards of locked aspects and cards above the rank cap are skipped.
// The fill is greedy and never reduces an existing allocation.
func FillAspect(cat *catalog.Catalog, s State, slug string) State {
	next := s.Clone()
	for _, card := range cat.CardsByAspect(slug) {
		if !next.OverrideAll && !CardAccessible(cat, next, card) {
			continue
		}
		room := card.MaxCopies - next.Quantity(card.ID)
		if room <= 0 {
			continue
		}
		if !next.OverrideAll {
			if typeRoom := TypeRemaining(cat, next, card.Type); typeRoom < room {
				room = typeRoom
			}
			if card.Type.Countable() {
				if pageRoom := PageRemaining(cat, next); pageRoom < room {
					room = pageRoom
				}
			}
		}
		if room <= 0 {
			continue
		}
		next.setEntry(card.ID, next.Quantity(card.ID)+room)
	}
	return next
}

// ClearAspect zeroes every entry for the aspect's cards unconditionally.
func ClearAspect(cat *catalog.Catalog, s State, slug string) State {
	next := s.Clone()
	clearAspectEntries(cat, next, slug)
	return next
}

// SetMaxSingle raises one card as far as its room allows. Special-type cards
// jump straight to their copy limit, bounded only by their type's absolute
// cap; countable cards additionally respect the remaining page budget.
func SetMaxSingle(cat *catalog.Catalog, s State, cardID string) State {
	card, ok := cat.Card(cardID)
	if !ok {
		return s
	}
	if !s.OverrideAll && !CardAccessible(cat, s, card) {
		return s
	}
	room := card.MaxCopies - s.Quantity(cardID)
	if room <= 0 {
		return s
	}
	if !s.OverrideAll {
		if typeRoom := TypeRemaining(cat, s, card.Type); typeRoom < room {
			room = typeRoom
		}
		if card.Type.Countable() {
			if pageRoom := PageRemaining(cat, s); pageRoom < room {
				room = pageRoom
			}
		}
	}
	if room <= 0 {
		return s
	}
	next := s.Clone()
	next.setEntry(cardID, s.Quantity(cardID)+room)
	return next
}
