// Package catalogcsv decodes card catalogs from their CSV interchange format.
// The same codec backs the catalog-importer command and the embedded default
// catalog.
//
// The format is three files:
//
//	aspects.csv  slug,name,category,order
//	cards.csv    id,name,type,rank,max_copies,aspect
//	codes.csv    code,target
package catalogcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/domain/catalog"
	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/domain/unlock"
	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/storage"
)

// Aspect category labels accepted in aspects.csv.
const (
	categoryBasic    = "basic"
	categoryDark     = "dark"
	categorySpecial  = "special"
	categoryStandard = "standard"
)

// ParseAspects decodes aspects.csv rows.
func ParseAspects(r io.Reader) ([]catalog.Aspect, error) {
	records, err := readRecords(r, []string{"slug", "name", "category", "order"})
	if err != nil {
		return nil, fmt.Errorf("aspects: %w", err)
	}

	aspects := make([]catalog.Aspect, 0, len(records))
	for i, record := range records {
		aspect := catalog.Aspect{
			Slug: strings.TrimSpace(record[0]),
			Name: strings.TrimSpace(record[1]),
		}
		switch category := strings.ToLower(strings.TrimSpace(record[2])); category {
		case categoryBasic:
			aspect.Basic = true
		case categoryDark:
			aspect.Dark = true
		case categorySpecial:
			aspect.Special = true
		case categoryStandard, "":
		default:
			return nil, fmt.Errorf("aspects row %d: unknown category %q", i+2, category)
		}
		if raw := strings.TrimSpace(record[3]); raw != "" {
			order, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("aspects row %d: order: %w", i+2, err)
			}
			aspect.Order = &order
		}
		aspects = append(aspects, aspect)
	}
	return aspects, nil
}

// ParseCards decodes cards.csv rows. Type, rank, and aspect validity is left
// to catalog construction, which drops invalid cards by exclusion.
func ParseCards(r io.Reader) ([]catalog.Card, error) {
	records, err := readRecords(r, []string{"id", "name", "type", "rank", "max_copies", "aspect"})
	if err != nil {
		return nil, fmt.Errorf("cards: %w", err)
	}

	cards := make([]catalog.Card, 0, len(records))
	for i, record := range records {
		rank, err := strconv.Atoi(strings.TrimSpace(record[3]))
		if err != nil {
			return nil, fmt.Errorf("cards row %d: rank: %w", i+2, err)
		}
		maxCopies, err := strconv.Atoi(strings.TrimSpace(record[4]))
		if err != nil {
			return nil, fmt.Errorf("cards row %d: max_copies: %w", i+2, err)
		}
		cards = append(cards, catalog.Card{
			ID:        strings.TrimSpace(record[0]),
			Name:      strings.TrimSpace(record[1]),
			Type:      catalog.CardType(strings.TrimSpace(record[2])),
			Rank:      rank,
			MaxCopies: maxCopies,
			Aspect:    strings.TrimSpace(record[5]),
		})
	}
	return cards, nil
}

// ParseCodes decodes codes.csv rows into a normalized unlock table.
func ParseCodes(r io.Reader) (map[string]string, error) {
	records, err := readRecords(r, []string{"code", "target"})
	if err != nil {
		return nil, fmt.Errorf("codes: %w", err)
	}

	codes := make(map[string]string, len(records))
	for i, record := range records {
		code := unlock.Normalize(record[0])
		target := strings.TrimSpace(record[1])
		if code == "" {
			return nil, fmt.Errorf("codes row %d: code is required", i+2)
		}
		if target == "" {
			return nil, fmt.Errorf("codes row %d: target is required", i+2)
		}
		if _, ok := codes[code]; ok {
			return nil, fmt.Errorf("codes row %d: duplicate code %q", i+2, code)
		}
		codes[code] = target
	}
	return codes, nil
}

// ParseBundle decodes all three catalog files into a storage bundle and
// verifies the result builds a valid catalog. Cards the catalog drops by
// exclusion are kept out of the bundle; their IDs are returned so callers can
// report them.
func ParseBundle(aspects, cards, codes io.Reader) (storage.CatalogBundle, []string, error) {
	parsedAspects, err := ParseAspects(aspects)
	if err != nil {
		return storage.CatalogBundle{}, nil, err
	}
	parsedCards, err := ParseCards(cards)
	if err != nil {
		return storage.CatalogBundle{}, nil, err
	}
	parsedCodes, err := ParseCodes(codes)
	if err != nil {
		return storage.CatalogBundle{}, nil, err
	}

	cat, err := catalog.New(parsedAspects, parsedCards)
	if err != nil {
		return storage.CatalogBundle{}, nil, fmt.Errorf("build catalog: %w", err)
	}

	dropped := cat.DroppedCards()
	kept := parsedCards
	if len(dropped) > 0 {
		droppedIDs := make(map[string]struct{}, len(dropped))
		for _, id := range dropped {
			droppedIDs[id] = struct{}{}
		}
		kept = make([]catalog.Card, 0, len(parsedCards)-len(dropped))
		for _, card := range parsedCards {
			if _, ok := droppedIDs[card.ID]; !ok {
				kept = append(kept, card)
			}
		}
	}

	return storage.CatalogBundle{
		Aspects: parsedAspects,
		Cards:   kept,
		Codes:   parsedCodes,
	}, dropped, nil
}

func readRecords(r io.Reader, header []string) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(header)
	reader.TrimLeadingSpace = true

	first, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header row")
	}
	if err != nil {
		return nil, err
	}
	for i, column := range header {
		if !strings.EqualFold(strings.TrimSpace(first[i]), column) {
			return nil, fmt.Errorf("header column %d is %q, want %q", i+1, first[i], column)
		}
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}
