// Package catalog holds the immutable reference data the deck engines read:
// aspects and the cards they unlock. A Catalog is assembled once at load time
// and never mutated afterwards.
package catalog

import (
	"fmt"
	"sort"
)

// Aspect is a thematic category that unlocks a subset of cards.
type Aspect struct {
	Slug    string
	Name    string
	Basic   bool
	Dark    bool
	Special bool
	// Order positions the aspect in display listings. Aspects without an
	// order sort after those with one, keeping catalog order as tiebreak.
	Order *int
}

// Category identifies how the selection engine treats an aspect.
type Category string

const (
	CategoryBasic    Category = "basic"
	CategoryDark     Category = "dark"
	CategorySpecial  Category = "special"
	CategoryStandard Category = "standard"
)

// Category derives the selection category from the aspect flags. Basic wins
// over dark and special so a mislabeled row degrades to the free tier.
func (a Aspect) Category() Category {
	switch {
	case a.Basic:
		return CategoryBasic
	case a.Special:
		return CategorySpecial
	case a.Dark:
		return CategoryDark
	default:
		return CategoryStandard
	}
}

// Card is a single collectible card belonging to exactly one aspect.
type Card struct {
	ID        string
	Name      string
	Type      CardType
	Rank      int
	MaxCopies int
	Aspect    string
}

// Catalog is the immutable card and aspect reference data.
type Catalog struct {
	aspects       []Aspect
	cards         []Card
	aspectBySlug  map[string]Aspect
	cardByID      map[string]Card
	cardsByAspect map[string][]Card
	minRank       map[string]int
	darkSlugs     []string
	dropped       []string
}

// New assembles a catalog from ordered aspect and card rows. Duplicate aspect
// slugs and duplicate card ids are hard errors. Cards referencing an unknown
// aspect, or carrying an invalid rank or copy count, are dropped by exclusion
// and reported through DroppedCards.
func New(aspects []Aspect, cards []Card) (*Catalog, error) {
	c := &Catalog{
		aspectBySlug:  make(map[string]Aspect, len(aspects)),
		cardByID:      make(map[string]Card, len(cards)),
		cardsByAspect: make(map[string][]Card),
		minRank:       make(map[string]int),
	}

	for _, aspect := range aspects {
		if aspect.Slug == "" {
			return nil, fmt.Errorf("aspect slug is required")
		}
		if _, ok := c.aspectBySlug[aspect.Slug]; ok {
			return nil, fmt.Errorf("duplicate aspect slug %q", aspect.Slug)
		}
		c.aspectBySlug[aspect.Slug] = aspect
		c.aspects = append(c.aspects, aspect)
	}
	sortAspects(c.aspects)

	for _, aspect := range c.aspects {
		if aspect.Dark {
			c.darkSlugs = append(c.darkSlugs, aspect.Slug)
		}
	}

	for _, card := range cards {
		if card.ID == "" {
			return nil, fmt.Errorf("card id is required")
		}
		if _, ok := c.cardByID[card.ID]; ok {
			return nil, fmt.Errorf("duplicate card id %q", card.ID)
		}
		if !card.Type.Valid() || card.Rank < 1 || card.MaxCopies < 0 {
			c.dropped = append(c.dropped, card.ID)
			continue
		}
		if _, ok := c.aspectBySlug[card.Aspect]; !ok {
			c.dropped = append(c.dropped, card.ID)
			continue
		}
		c.cardByID[card.ID] = card
		c.cards = append(c.cards, card)
		c.cardsByAspect[card.Aspect] = append(c.cardsByAspect[card.Aspect], card)
		if rank, ok := c.minRank[card.Aspect]; !ok || card.Rank < rank {
			c.minRank[card.Aspect] = card.Rank
		}
	}

	return c, nil
}

// sortAspects orders by explicit Order first, then original position.
func sortAspects(aspects []Aspect) {
	sort.SliceStable(aspects, func(i, j int) bool {
		left, right := aspects[i].Order, aspects[j].Order
		switch {
		case left == nil && right == nil:
			return false
		case left == nil:
			return false
		case right == nil:
			return true
		default:
			return *left < *right
		}
	})
}

// Aspects returns all aspects in display order.
func (c *Catalog) Aspects() []Aspect {
	out := make([]Aspect, len(c.aspects))
	copy(out, c.aspects)
	return out
}

// Aspect looks up an aspect by slug.
func (c *Catalog) Aspect(slug string) (Aspect, bool) {
	aspect, ok := c.aspectBySlug[slug]
	return aspect, ok
}

// Cards returns every retained card in catalog order.
func (c *Catalog) Cards() []Card {
	out := make([]Card, len(c.cards))
	copy(out, c.cards)
	return out
}

// Card looks up a card by id.
func (c *Catalog) Card(id string) (Card, bool) {
	card, ok := c.cardByID[id]
	return card, ok
}

// CardsByAspect returns the cards belonging to an aspect in catalog order.
func (c *Catalog) CardsByAspect(slug string) []Card {
	cards := c.cardsByAspect[slug]
	out := make([]Card, len(cards))
	copy(out, cards)
	return out
}

// MinRank reports the lowest card rank within an aspect. The second return
// is false for aspects with no cards; such aspects are never eligible.
func (c *Catalog) MinRank(slug string) (int, bool) {
	rank, ok := c.minRank[slug]
	return rank, ok
}

// DarkSlugs returns the slugs of every dark-flagged aspect in display order.
func (c *Catalog) DarkSlugs() []string {
	out := make([]string, len(c.darkSlugs))
	copy(out, c.darkSlugs)
	return out
}

// DroppedCards lists card ids excluded during assembly.
func (c *Catalog) DroppedCards() []string {
	out := make([]string, len(c.dropped))
	copy(out, c.dropped)
	return out
}
