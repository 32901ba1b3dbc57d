package deck

import "github.com/louisbranch/grimoire.cards/internal/services/grimoire/domain/catalog"

// ToggleAspect flips the selection of an aspect. Toggling off is always
// permitted and atomically zeroes every entry belonging to the aspect's
// cards. Toggling on is subject to the selection capacity rules; a refused
// toggle returns the input state unchanged with applied=false.
//
// Under override mode the capacity rules are bypassed entirely: any known
// aspect toggles unconditionally.
func ToggleAspect(cat *catalog.Catalog, s State, slug string) (State, bool) {
	aspect, ok := cat.Aspect(slug)
	if !ok {
		return s, false
	}
	if s.OverrideAll {
		next := s.Clone()
		set := next.Chosen
		if aspect.Basic {
			set = next.Basics
		}
		if _, selected := set[slug]; selected {
			delete(set, slug)
			clearAspectEntries(cat, next, slug)
		} else {
			set[slug] = struct{}{}
		}
		return next, true
	}

	if _, selected := s.Basics[slug]; selected {
		next := s.Clone()
		delete(next.Basics, slug)
		clearAspectEntries(cat, next, slug)
		return next, true
	}
	if _, selected := s.Chosen[slug]; selected {
		next := s.Clone()
		delete(next.Chosen, slug)
		clearAspectEntries(cat, next, slug)
		return next, true
	}

	if !AspectEligible(cat, s, slug) || !AspectUnlocked(cat, s, slug) {
		return s, false
	}
	next := s.Clone()
	if aspect.Basic {
		next.Basics[slug] = struct{}{}
		return next, true
	}
	if !canSelect(cat, s, slug) {
		return s, false
	}
	next.Chosen[slug] = struct{}{}
	return next, true
}

// canSelect applies the non-basic selection capacity rule. Specials never
// count and may always join. Otherwise at most two aspects may be active,
// with one exception: a third is admitted only when it completes the full
// dark trio.
func canSelect(cat *catalog.Catalog, s State, slug string) bool {
	aspect, ok := cat.Aspect(slug)
	if !ok {
		return false
	}
	if aspect.Basic || aspect.Special {
		return true
	}

	active := activeChosen(cat, s)
	switch {
	case len(active) < 2:
		return true
	case len(active) == 2:
		return completesDarkTrio(cat, active, aspect)
	default:
		return false
	}
}

// activeChosen returns the chosen non-special aspects that are currently
// eligible. Only these count toward the selection limit.
func activeChosen(cat *catalog.Catalog, s State) []catalog.Aspect {
	var out []catalog.Aspect
	for slug := range s.Chosen {
		aspect, ok := cat.Aspect(slug)
		if !ok || aspect.Special {
			continue
		}
		if AspectEligible(cat, s, slug) {
			out = append(out, aspect)
		}
	}
	return out
}

// completesDarkTrio reports whether active plus candidate is exactly the
// complete set of dark-flagged aspects, which must number three. Any mixed
// standard and dark combination at the boundary is rejected.
func completesDarkTrio(cat *catalog.Catalog, active []catalog.Aspect, candidate catalog.Aspect) bool {
	if !candidate.Dark {
		return false
	}
	dark := cat.DarkSlugs()
	if len(dark) != 3 {
		return false
	}
	union := map[string]struct{}{candidate.Slug: {}}
	for _, aspect := range active {
		if !aspect.Dark {
			return false
		}
		union[aspect.Slug] = struct{}{}
	}
	if len(union) != len(dark) {
		return false
	}
	for _, slug := range dark {
		if _, ok := union[slug]; !ok {
			return false
		}
	}
	return true
}

// clearAspectEntries zeroes every entry for the aspect's cards in place on an
// already-cloned state. Deselect-and-clear is one transition, not two.
func clearAspectEntries(cat *catalog.Catalog, s State, slug string) {
	for _, card := range cat.CardsByAspect(slug) {
		delete(s.Entries, card.ID)
	}
}
