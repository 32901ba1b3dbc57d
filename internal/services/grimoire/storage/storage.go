// Package storage defines persistence contracts for grimoire state.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/domain/catalog"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// Deck stores one saved deck as an encoded snapshot.
type Deck struct {
	ID        string
	Name      string
	Snapshot  []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DeckPage stores one page of saved decks.
type DeckPage struct {
	Decks         []Deck
	NextPageToken string
}

// CatalogBundle stores one complete card catalog: aspects, cards, and the
// unlock code table. ReplaceCatalog swaps it atomically.
type CatalogBundle struct {
	Aspects []catalog.Aspect
	Cards   []catalog.Card
	Codes   map[string]string
}

// DeckStore persists saved decks.
type DeckStore interface {
	CreateDeck(ctx context.Context, deck Deck) error
	GetDeck(ctx context.Context, id string) (Deck, error)
	UpdateDeck(ctx context.Context, deck Deck) error
	ListDecks(ctx context.Context, pageSize int, pageToken string) (DeckPage, error)
	DeleteDeck(ctx context.Context, id string) error
}

// CatalogStore persists the imported card catalog.
type CatalogStore interface {
	ReplaceCatalog(ctx context.Context, bundle CatalogBundle) error
	LoadCatalog(ctx context.Context) (CatalogBundle, error)
}

// Store combines every grimoire persistence contract.
type Store interface {
	DeckStore
	CatalogStore
	Close() error
}
