package filter

import (
	"testing"

	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/domain/catalog"
)

var testCards = []catalog.Card{
	{ID: "strike", Name: "Sunfire Strike", Type: catalog.TypeHoly, Rank: 1, MaxCopies: 4, Aspect: "focus"},
	{ID: "aegis", Name: "Aegis of Dawn", Type: catalog.TypeLight, Rank: 2, MaxCopies: 6, Aspect: "ember"},
	{ID: "hymn", Name: "Gloaming Hymn", Type: catalog.TypeDark, Rank: 3, MaxCopies: 2, Aspect: "gloom"},
	{ID: "sigil", Name: "Star Sigil", Type: catalog.TypeAstral, Rank: 5, MaxCopies: 9, Aspect: "starweave"},
}

func matchIDs(t *testing.T, filterStr string) []string {
	t.Helper()
	e, err := Parse(filterStr)
	if err != nil {
		t.Fatalf("parse %q: %v", filterStr, err)
	}
	var ids []string
	for _, card := range testCards {
		ok, err := e.MatchCard(card)
		if err != nil {
			t.Fatalf("match %q against %s: %v", filterStr, card.ID, err)
		}
		if ok {
			ids = append(ids, card.ID)
		}
	}
	return ids
}

func TestParseEmpty(t *testing.T) {
	e, err := Parse("   ")
	if err != nil {
		t.Fatalf("parse empty: %v", err)
	}
	if !e.Empty() {
		t.Fatal("expected empty expression")
	}
	ok, err := e.MatchCard(testCards[0])
	if err != nil || !ok {
		t.Fatalf("empty expression should match everything, got %v err %v", ok, err)
	}
}

func TestMatchCard(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		want   []string
	}{
		{"type equality", `type = "Holy"`, []string{"strike"}},
		{"type is case-insensitive", `type = "holy"`, []string{"strike"}},
		{"rank upper bound", `rank <= 2`, []string{"strike", "aegis"}},
		{"rank strict lower bound", `rank > 3`, []string{"sigil"}},
		{"aspect", `aspect = "gloom"`, []string{"hymn"}},
		{"max copies", `max_copies >= 6`, []string{"aegis", "sigil"}},
		{"role from name keywords", `role = "warding"`, []string{"aegis"}},
		{"conjunction", `type = "Light" AND rank = 2`, []string{"aegis"}},
		{"conjunction prunes", `type = "Light" AND rank = 3`, nil},
		{"disjunction", `rank = 1 OR rank = 5`, []string{"strike", "sigil"}},
		{"negated equality", `type != "Astral"`, []string{"strike", "aegis", "hymn"}},
		{"no matches", `name = "Unwritten"`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchIDs(t, tt.filter)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, filterStr := range []string{
		`rank = `,
		`type == "Holy"`,
		`(rank = 1`,
	} {
		if _, err := Parse(filterStr); err == nil {
			t.Fatalf("expected parse error for %q", filterStr)
		}
	}
}

func TestParseRejectsUnknownField(t *testing.T) {
	if _, err := Parse(`power = 9`); err == nil {
		t.Fatal("expected error for undeclared field")
	}
}

func TestMatchCardTypeMismatch(t *testing.T) {
	e, err := Parse(`rank = "three"`)
	if err != nil {
		// Declaration checking may already reject the comparison.
		return
	}
	if _, err := e.MatchCard(testCards[0]); err == nil {
		t.Fatal("expected evaluation error for mismatched types")
	}
}
