package deck

import "github.com/louisbranch/grimoire.cards/internal/services/grimoire/domain/catalog"

// StrandedEntry describes a held card that a rank-cap decrease would orphan.
type StrandedEntry struct {
	CardID     string
	Name       string
	AspectName string
	Rank       int
	Type       catalog.CardType
	Quantity   int
}

// Stranded returns the entries with a positive quantity whose card rank
// exceeds next, in catalog display order. Raising or keeping the cap never
// strands anything.
func Stranded(cat *catalog.Catalog, s State, next int) []StrandedEntry {
	if next >= s.RankCap {
		return nil
	}
	var out []StrandedEntry
	for _, aspect := range cat.Aspects() {
		for _, card := range cat.CardsByAspect(aspect.Slug) {
			qty := s.Quantity(card.ID)
			if qty == 0 || card.Rank <= next {
				continue
			}
			out = append(out, StrandedEntry{
				CardID:     card.ID,
				Name:       card.Name,
				AspectName: aspect.Name,
				Rank:       card.Rank,
				Type:       card.Type,
				Quantity:   qty,
			})
		}
	}
	return out
}

// StrandedTotals partitions a stranded list into a total unit count and
// per-type unit counts.
func StrandedTotals(entries []StrandedEntry) (int, map[catalog.CardType]int) {
	total := 0
	byType := make(map[catalog.CardType]int)
	for _, entry := range entries {
		total += entry.Quantity
		byType[entry.Type] += entry.Quantity
	}
	return total, byType
}

// ApplyRankCap sets the rank cap and zeroes every entry the change strands.
// Callers that require confirmation compute Stranded first and only apply
// after an explicit acknowledgement.
func ApplyRankCap(cat *catalog.Catalog, s State, next int) (State, error) {
	if next < RankMin || next > RankMax {
		return s, ErrInvalidRankCap
	}
	stranded := Stranded(cat, s, next)
	out := s.Clone()
	out.RankCap = next
	for _, entry := range stranded {
		delete(out.Entries, entry.CardID)
	}
	return out, nil
}
