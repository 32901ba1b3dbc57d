// Package sqlite provides a SQLite-backed grimoire storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	sqlitemigrate "github.com/louisbranch/grimoire.cards/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/domain/catalog"
	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/storage"
	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/storage/sqlite/migrations"
)

// Store persists grimoire state in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite grimoire store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreateDeck inserts one saved deck.
func (s *Store) CreateDeck(ctx context.Context, deck storage.Deck) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(deck.ID)
	name := strings.TrimSpace(deck.Name)
	if id == "" {
		return fmt.Errorf("deck id is required")
	}
	if name == "" {
		return fmt.Errorf("deck name is required")
	}
	if len(deck.Snapshot) == 0 {
		return fmt.Errorf("deck snapshot is required")
	}
	createdAt := deck.CreatedAt.UTC()
	updatedAt := deck.UpdatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO decks (id, name, snapshot, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		id,
		name,
		deck.Snapshot,
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create deck: %w", err)
	}
	return nil
}

// GetDeck returns one saved deck by ID.
func (s *Store) GetDeck(ctx context.Context, id string) (storage.Deck, error) {
	if err := ctx.Err(); err != nil {
		return storage.Deck{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Deck{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.Deck{}, fmt.Errorf("deck id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, snapshot, created_at, updated_at FROM decks WHERE id = ?`,
		id,
	)

	var deck storage.Deck
	var createdAt int64
	var updatedAt int64
	if err := row.Scan(&deck.ID, &deck.Name, &deck.Snapshot, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Deck{}, storage.ErrNotFound
		}
		return storage.Deck{}, fmt.Errorf("get deck: %w", err)
	}
	deck.CreatedAt = fromMillis(createdAt)
	deck.UpdatedAt = fromMillis(updatedAt)
	return deck, nil
}

// UpdateDeck replaces the name and snapshot of one saved deck.
func (s *Store) UpdateDeck(ctx context.Context, deck storage.Deck) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(deck.ID)
	name := strings.TrimSpace(deck.Name)
	if id == "" {
		return fmt.Errorf("deck id is required")
	}
	if name == "" {
		return fmt.Errorf("deck name is required")
	}
	if len(deck.Snapshot) == 0 {
		return fmt.Errorf("deck snapshot is required")
	}
	updatedAt := deck.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE decks SET name = ?, snapshot = ?, updated_at = ? WHERE id = ?`,
		name,
		deck.Snapshot,
		toMillis(updatedAt),
		id,
	)
	if err != nil {
		return fmt.Errorf("update deck: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update deck: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListDecks returns one page of saved decks ordered by ID.
func (s *Store) ListDecks(ctx context.Context, pageSize int, pageToken string) (storage.DeckPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.DeckPage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.DeckPage{}, fmt.Errorf("storage is not configured")
	}
	if pageSize <= 0 {
		return storage.DeckPage{}, fmt.Errorf("page size must be greater than zero")
	}
	pageToken = strings.TrimSpace(pageToken)

	page := storage.DeckPage{
		Decks: make([]storage.Deck, 0, pageSize),
	}

	var (
		rows *sql.Rows
		err  error
	)
	if pageToken == "" {
		rows, err = s.sqlDB.QueryContext(
			ctx,
			`SELECT id, name, snapshot, created_at, updated_at
			   FROM decks
			  ORDER BY id ASC
			  LIMIT ?`,
			pageSize+1,
		)
	} else {
		rows, err = s.sqlDB.QueryContext(
			ctx,
			`SELECT id, name, snapshot, created_at, updated_at
			   FROM decks
			  WHERE id > ?
			  ORDER BY id ASC
			  LIMIT ?`,
			pageToken,
			pageSize+1,
		)
	}
	if err != nil {
		return storage.DeckPage{}, fmt.Errorf("list decks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var deck storage.Deck
		var createdAt int64
		var updatedAt int64
		if err := rows.Scan(&deck.ID, &deck.Name, &deck.Snapshot, &createdAt, &updatedAt); err != nil {
			return storage.DeckPage{}, fmt.Errorf("list decks: %w", err)
		}
		deck.CreatedAt = fromMillis(createdAt)
		deck.UpdatedAt = fromMillis(updatedAt)
		page.Decks = append(page.Decks, deck)
	}
	if err := rows.Err(); err != nil {
		return storage.DeckPage{}, fmt.Errorf("list decks: %w", err)
	}
	if len(page.Decks) > pageSize {
		page.NextPageToken = page.Decks[pageSize-1].ID
		page.Decks = page.Decks[:pageSize]
	}

	return page, nil
}

// DeleteDeck removes one saved deck.
func (s *Store) DeleteDeck(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("deck id is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete deck: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete deck: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ReplaceCatalog swaps the stored catalog for the given bundle in one
// transaction.
func (s *Store) ReplaceCatalog(ctx context.Context, bundle storage.CatalogBundle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin catalog replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"catalog_cards", "catalog_aspects", "unlock_codes"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, aspect := range bundle.Aspects {
		var order sql.NullInt64
		if aspect.Order != nil {
			order = sql.NullInt64{Int64: int64(*aspect.Order), Valid: true}
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO catalog_aspects (slug, name, basic, dark, special, display_order)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			aspect.Slug,
			aspect.Name,
			boolToInt(aspect.Basic),
			boolToInt(aspect.Dark),
			boolToInt(aspect.Special),
			order,
		); err != nil {
			return fmt.Errorf("insert aspect %s: %w", aspect.Slug, err)
		}
	}

	for _, card := range bundle.Cards {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO catalog_cards (id, name, type, rank, max_copies, aspect)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			card.ID,
			card.Name,
			string(card.Type),
			card.Rank,
			card.MaxCopies,
			card.Aspect,
		); err != nil {
			return fmt.Errorf("insert card %s: %w", card.ID, err)
		}
	}

	for code, target := range bundle.Codes {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO unlock_codes (code, target) VALUES (?, ?)`,
			code,
			target,
		); err != nil {
			return fmt.Errorf("insert unlock code: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog replace: %w", err)
	}
	return nil
}

// LoadCatalog returns the stored catalog bundle. An empty store reports
// ErrNotFound so callers can fall back to the embedded catalog.
func (s *Store) LoadCatalog(ctx context.Context) (storage.CatalogBundle, error) {
	if err := ctx.Err(); err != nil {
		return storage.CatalogBundle{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.CatalogBundle{}, fmt.Errorf("storage is not configured")
	}

	var bundle storage.CatalogBundle

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT slug, name, basic, dark, special, display_order FROM catalog_aspects`,
	)
	if err != nil {
		return storage.CatalogBundle{}, fmt.Errorf("load aspects: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var aspect catalog.Aspect
		var basic, dark, special int
		var order sql.NullInt64
		if err := rows.Scan(&aspect.Slug, &aspect.Name, &basic, &dark, &special, &order); err != nil {
			return storage.CatalogBundle{}, fmt.Errorf("load aspects: %w", err)
		}
		aspect.Basic = basic != 0
		aspect.Dark = dark != 0
		aspect.Special = special != 0
		if order.Valid {
			value := int(order.Int64)
			aspect.Order = &value
		}
		bundle.Aspects = append(bundle.Aspects, aspect)
	}
	if err := rows.Err(); err != nil {
		return storage.CatalogBundle{}, fmt.Errorf("load aspects: %w", err)
	}
	if len(bundle.Aspects) == 0 {
		return storage.CatalogBundle{}, storage.ErrNotFound
	}

	cardRows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, name, type, rank, max_copies, aspect FROM catalog_cards ORDER BY rowid ASC`,
	)
	if err != nil {
		return storage.CatalogBundle{}, fmt.Errorf("load cards: %w", err)
	}
	defer cardRows.Close()
	for cardRows.Next() {
		var card catalog.Card
		var cardType string
		if err := cardRows.Scan(&card.ID, &card.Name, &cardType, &card.Rank, &card.MaxCopies, &card.Aspect); err != nil {
			return storage.CatalogBundle{}, fmt.Errorf("load cards: %w", err)
		}
		card.Type = catalog.CardType(cardType)
		bundle.Cards = append(bundle.Cards, card)
	}
	if err := cardRows.Err(); err != nil {
		return storage.CatalogBundle{}, fmt.Errorf("load cards: %w", err)
	}

	codeRows, err := s.sqlDB.QueryContext(ctx, `SELECT code, target FROM unlock_codes`)
	if err != nil {
		return storage.CatalogBundle{}, fmt.Errorf("load unlock codes: %w", err)
	}
	defer codeRows.Close()
	bundle.Codes = make(map[string]string)
	for codeRows.Next() {
		var code, target string
		if err := codeRows.Scan(&code, &target); err != nil {
			return storage.CatalogBundle{}, fmt.Errorf("load unlock codes: %w", err)
		}
		bundle.Codes[code] = target
	}
	if err := codeRows.Err(); err != nil {
		return storage.CatalogBundle{}, fmt.Errorf("load unlock codes: %w", err)
	}

	return bundle, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed")
}

var _ storage.Store = (*Store)(nil)
