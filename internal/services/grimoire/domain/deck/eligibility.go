package deck

import "github.com/louisbranch/grimoire.cards/internal/services/grimoire/domain/catalog"

// AspectEligible reports whether the lowest card rank within the aspect is
// within the current rank cap. An aspect with no cards is never eligible, and
// neither is an unknown slug.
func AspectEligible(cat *catalog.Catalog, s State, slug string) bool {
	rank, ok := cat.MinRank(slug)
	if !ok {
		return false
	}
	return rank <= s.RankCap
}

// AspectUnlocked reports whether the aspect is available for selection at
// all: override mode, a redeemed unlock, or the basic tier.
func AspectUnlocked(cat *catalog.Catalog, s State, slug string) bool {
	if s.OverrideAll {
		return true
	}
	aspect, ok := cat.Aspect(slug)
	if !ok {
		return false
	}
	if aspect.Basic {
		return true
	}
	_, ok = s.Unlocked[slug]
	return ok
}

// AspectSelected reports whether the aspect is currently active. Override
// mode treats every aspect as selected.
func AspectSelected(cat *catalog.Catalog, s State, slug string) bool {
	if s.OverrideAll {
		_, ok := cat.Aspect(slug)
		return ok
	}
	if _, ok := s.Basics[slug]; ok {
		return true
	}
	_, ok := s.Chosen[slug]
	return ok
}

// AspectSelectable reports whether a toggle-on for the aspect would be
// accepted: eligible, unlocked, and within the selection capacity rules.
func AspectSelectable(cat *catalog.Catalog, s State, slug string) bool {
	if s.OverrideAll {
		_, ok := cat.Aspect(slug)
		return ok
	}
	if !AspectEligible(cat, s, slug) || !AspectUnlocked(cat, s, slug) {
		return false
	}
	return canSelect(cat, s, slug)
}

// CardAccessible reports whether a card can currently hold copies: its
// aspect must be selected and its rank within the cap.
func CardAccessible(cat *catalog.Catalog, s State, card catalog.Card) bool {
	if card.Rank > s.RankCap {
		return false
	}
	return AspectSelected(cat, s, card.Aspect)
}

// AvailableCards returns the cards of every selected aspect, rank filtered,
// grouped by aspect in display order.
func AvailableCards(cat *catalog.Catalog, s State) []catalog.Card {
	var out []catalog.Card
	for _, aspect := range cat.Aspects() {
		if !AspectSelected(cat, s, aspect.Slug) {
			continue
		}
		for _, card := range cat.CardsByAspect(aspect.Slug) {
			if card.Rank <= s.RankCap {
				out = append(out, card)
			}
		}
	}
	return out
}
