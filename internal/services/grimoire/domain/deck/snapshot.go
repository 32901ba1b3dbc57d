package deck

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/domain/catalog"
)

// SnapshotVersion tags the persisted deck layout.
const SnapshotVersion = 1

// Snapshot is the persisted and shared deck layout. Unlocked aspects are
// deliberately absent: unlock state outlives any single deck.
type Snapshot struct {
	Version int            `json:"version"`
	Name    string         `json:"name"`
	RankCap int            `json:"rank_cap"`
	Basics  []string       `json:"basics_selected"`
	Chosen  []string       `json:"chosen_aspects"`
	Entries map[string]int `json:"entries"`
}

// NewSnapshot captures a state into the persisted layout. Selection sets are
// sorted so equal states serialize identically.
func NewSnapshot(s State, name string) Snapshot {
	snapshot := Snapshot{
		Version: SnapshotVersion,
		Name:    name,
		RankCap: s.RankCap,
		Basics:  sortedSlugs(s.Basics),
		Chosen:  sortedSlugs(s.Chosen),
		Entries: make(map[string]int, len(s.Entries)),
	}
	for id, qty := range s.Entries {
		snapshot.Entries[id] = qty
	}
	return snapshot
}

func sortedSlugs(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for slug := range set {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out
}

// Encode serializes the snapshot as JSON.
func (sn Snapshot) Encode() ([]byte, error) {
	data, err := json.Marshal(sn)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a persisted snapshot payload. Only an unparseable
// payload fails; unknown fields are ignored and missing ones default during
// rehydration.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snapshot, nil
}

// Rehydrate rebuilds a state from a snapshot against the current catalog.
// Out-of-range values are defaulted, unknown aspect slugs and card ids are
// dropped, and quantities are clamped to each card's copy limit and, in
// catalog order, truncated to the type and page quotas. The unlocked set
// starts empty; persistence overlays it separately.
func Rehydrate(cat *catalog.Catalog, snapshot Snapshot) State {
	s := State{
		RankCap:  snapshot.RankCap,
		Basics:   map[string]struct{}{},
		Chosen:   map[string]struct{}{},
		Unlocked: map[string]struct{}{},
		Entries:  map[string]int{},
	}
	if s.RankCap < RankMin || s.RankCap > RankMax {
		s.RankCap = RankMin
	}
	for _, slug := range snapshot.Basics {
		if aspect, ok := cat.Aspect(slug); ok && aspect.Basic {
			s.Basics[slug] = struct{}{}
		}
	}
	for _, slug := range snapshot.Chosen {
		if aspect, ok := cat.Aspect(slug); ok && !aspect.Basic {
			s.Chosen[slug] = struct{}{}
		}
	}
	typeTotals := map[catalog.CardType]int{}
	pageTotal := 0
	for _, card := range cat.Cards() {
		qty := snapshot.Entries[card.ID]
		if qty <= 0 {
			continue
		}
		if qty > card.MaxCopies {
			qty = card.MaxCopies
		}
		if room := TypeLimit(card.Type) - typeTotals[card.Type]; qty > room {
			qty = room
		}
		if card.Type.Countable() {
			if room := PageBudget - pageTotal; qty > room {
				qty = room
			}
		}
		if qty <= 0 {
			continue
		}
		typeTotals[card.Type] += qty
		if card.Type.Countable() {
			pageTotal += qty
		}
		s.Entries[card.ID] = qty
	}
	return s
}
