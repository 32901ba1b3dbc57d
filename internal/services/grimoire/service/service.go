// Package service exposes the deck-building engine behind a session facade:
// one mutable deck state, catalog lookups, rank-change confirmation,
// code redemption, persistence, and share grants.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/grimoire.cards/internal/platform/errors"
	i18n "github.com/louisbranch/grimoire.cards/internal/platform/i18n/catalog"
	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/domain/catalog"
	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/domain/catalog/filter"
	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/domain/classifier"
	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/domain/deck"
	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/domain/unlock"
	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/storage"
)

const tracerName = "grimoire.cards/service"

// Service owns one deck-building session. All mutations go through it; the
// domain engines stay pure.
type Service struct {
	mu sync.Mutex

	cat      *catalog.Catalog
	codes    unlock.Table
	store    storage.Store
	bundle   *i18n.Bundle
	locale   string
	shareCfg *ShareConfig
	tracer   trace.Tracer
	now      func() time.Time

	state   deck.State
	pending *pendingRankChange
	notices *noticeBoard
}

type pendingRankChange struct {
	target   int
	stranded []deck.StrandedEntry
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithStore enables the saved-deck library and catalog persistence.
func WithStore(store storage.Store) Option {
	return func(s *Service) { s.store = store }
}

// WithShareConfig enables deck share grant export and import.
func WithShareConfig(cfg ShareConfig) Option {
	return func(s *Service) { s.shareCfg = &cfg }
}

// WithClock injects the time source used for notices and share grants.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocale selects the message locale from a BCP 47 accept string.
func WithLocale(accept string) Option {
	return func(s *Service) {
		if s.bundle != nil {
			s.locale = s.bundle.Match(accept)
		}
	}
}

// New builds a session service over the given catalog and unlock table. The
// initial deck state selects the catalog's first basic aspect at rank cap 1.
func New(cat *catalog.Catalog, codes unlock.Table, bundle *i18n.Bundle, opts ...Option) (*Service, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if bundle == nil {
		return nil, fmt.Errorf("message bundle is required")
	}

	s := &Service{
		cat:    cat,
		codes:  codes,
		bundle: bundle,
		locale: i18n.BaseLocale,
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.notices = newNoticeBoard(defaultNoticeTTL)
	s.state = deck.NewState(defaultBasicSlug(cat))
	return s, nil
}

func defaultBasicSlug(cat *catalog.Catalog) string {
	for _, aspect := range cat.Aspects() {
		if aspect.Basic {
			return aspect.Slug
		}
	}
	return ""
}

func (s *Service) span(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name)
}

func (s *Service) message(key string, args ...any) string {
	format, ok := s.bundle.Message(s.locale, key)
	if !ok {
		return key
	}
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// Reset discards the session deck and returns to the default state. Unlocked
// aspects survive a reset; they are tied to the session, not the deck.
func (s *Service) Reset(ctx context.Context) {
	_, span := s.span(ctx, "Reset")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	unlocked := s.state.Unlocked
	s.state = deck.NewState(defaultBasicSlug(s.cat))
	for slug := range unlocked {
		s.state.Unlocked[slug] = struct{}{}
	}
	s.pending = nil
	s.notices.clear()
}

// SetOverride switches the constraint escape hatch on or off.
func (s *Service) SetOverride(ctx context.Context, enabled bool) {
	_, span := s.span(ctx, "SetOverride")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state.Clone()
	next.OverrideAll = enabled
	s.state = next
}

// ToggleAspect flips an aspect selection. It reports whether the toggle was
// applied; refusals are silent per the selection rules.
func (s *Service) ToggleAspect(ctx context.Context, slug string) bool {
	_, span := s.span(ctx, "ToggleAspect")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	next, applied := deck.ToggleAspect(s.cat, s.state, slug)
	s.state = next
	return applied
}

// SetQuantity stores an explicit card quantity, clamped to the card's own
// copy limit.
func (s *Service) SetQuantity(ctx context.Context, cardID string, qty int) {
	_, span := s.span(ctx, "SetQuantity")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = deck.SetQuantity(s.cat, s.state, cardID, qty)
}

// IncrementCard raises a card quantity by one. Cap refusals post an
// ephemeral notice alongside the result.
func (s *Service) IncrementCard(ctx context.Context, cardID string) deck.IncrementResult {
	_, span := s.span(ctx, "IncrementCard")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	next, result := deck.IncrementOne(s.cat, s.state, cardID)
	s.state = next

	switch result {
	case deck.DeniedTypeCap:
		if card, ok := s.cat.Card(cardID); ok {
			s.notices.push(NoticeTypeCap, s.message("notice.type_cap", string(card.Type)), s.now())
		}
	case deck.DeniedPageCap:
		s.notices.push(NoticePageCap, s.message("notice.page_cap"), s.now())
	}
	return result
}

// DecrementCard lowers a card quantity by one, flooring at zero.
func (s *Service) DecrementCard(ctx context.Context, cardID string) {
	_, span := s.span(ctx, "DecrementCard")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = deck.DecrementOne(s.cat, s.state, cardID)
}

// FillAspect raises every accessible card of an aspect as far as the quotas
// allow.
func (s *Service) FillAspect(ctx context.Context, slug string) {
	_, span := s.span(ctx, "FillAspect")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = deck.FillAspect(s.cat, s.state, slug)
}

// ClearAspect zeroes every entry of an aspect.
func (s *Service) ClearAspect(ctx context.Context, slug string) {
	_, span := s.span(ctx, "ClearAspect")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = deck.ClearAspect(s.cat, s.state, slug)
}

// SetMaxSingle raises one card to the highest quantity the quotas allow.
func (s *Service) SetMaxSingle(ctx context.Context, cardID string) {
	_, span := s.span(ctx, "SetMaxSingle")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = deck.SetMaxSingle(s.cat, s.state, cardID)
}

// Redemption reports the outcome of an unlock code redemption.
type Redemption struct {
	Status   unlock.Status
	Unlocked []catalog.Aspect
	Message  string
}

// Redeem applies an unlock code against the session.
func (s *Service) Redeem(ctx context.Context, code string) Redemption {
	_, span := s.span(ctx, "Redeem")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	next, result := unlock.Redeem(s.cat, s.state, s.codes, code)
	s.state = next

	redemption := Redemption{Status: result.Status, Unlocked: result.Unlocked}
	switch result.Status {
	case unlock.StatusOK:
		names := make([]string, 0, len(result.Unlocked))
		for _, aspect := range result.Unlocked {
			names = append(names, aspect.Name)
		}
		redemption.Message = s.message("redeem.ok", strings.Join(names, ", "))
	case unlock.StatusUsed:
		redemption.Message = s.message("redeem.used")
	default:
		redemption.Message = s.message("redeem.invalid")
	}
	return redemption
}

// FilterCards evaluates an AIP-160 filter over the catalog's card pool.
func (s *Service) FilterCards(ctx context.Context, filterStr string) ([]catalog.Card, error) {
	_, span := s.span(ctx, "FilterCards")
	defer span.End()

	expression, err := filter.Parse(filterStr)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFilterInvalid, "parse card filter", err)
	}

	var matched []catalog.Card
	for _, card := range s.cat.Cards() {
		ok, err := expression.MatchCard(card)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeFilterInvalid, "evaluate card filter", err)
		}
		if ok {
			matched = append(matched, card)
		}
	}
	return matched, nil
}

// SaveDeck persists the session deck under the given ID and name. An
// existing deck with the same ID is overwritten.
func (s *Service) SaveDeck(ctx context.Context, id, name string) error {
	ctx, span := s.span(ctx, "SaveDeck")
	defer span.End()

	if s.store == nil {
		return apperrors.New(apperrors.CodeStorage, "deck storage is not configured")
	}
	if strings.TrimSpace(name) == "" {
		return apperrors.New(apperrors.CodeDeckNameEmpty, "deck name is required")
	}

	s.mu.Lock()
	snapshot := deck.NewSnapshot(s.state, name)
	s.mu.Unlock()

	encoded, err := snapshot.Encode()
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "encode deck snapshot", err)
	}

	record := storage.Deck{ID: id, Name: name, Snapshot: encoded, UpdatedAt: s.now().UTC()}
	err = s.store.CreateDeck(ctx, record)
	if errors.Is(err, storage.ErrAlreadyExists) {
		err = s.store.UpdateDeck(ctx, record)
	}
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "save deck", err)
	}
	return nil
}

// LoadDeck replaces the session deck with a saved snapshot. Rehydration is
// tolerant of stale slugs; only a corrupt payload fails. Unlocked aspects
// are kept from the current session.
func (s *Service) LoadDeck(ctx context.Context, id string) error {
	ctx, span := s.span(ctx, "LoadDeck")
	defer span.End()

	if s.store == nil {
		return apperrors.New(apperrors.CodeStorage, "deck storage is not configured")
	}

	record, err := s.store.GetDeck(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.New(apperrors.CodeNotFound, "deck not found")
	}
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "load deck", err)
	}

	snapshot, err := deck.DecodeSnapshot(record.Snapshot)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDeckSnapshotCorrupt, "decode deck snapshot", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	unlocked := s.state.Unlocked
	s.state = deck.Rehydrate(s.cat, snapshot)
	for slug := range unlocked {
		s.state.Unlocked[slug] = struct{}{}
	}
	s.pending = nil
	return nil
}

// SavedDeck describes one saved deck in the library.
type SavedDeck struct {
	ID        string
	Name      string
	UpdatedAt time.Time
}

// ListDecks returns one page of the saved-deck library.
func (s *Service) ListDecks(ctx context.Context, pageSize int, pageToken string) ([]SavedDeck, string, error) {
	ctx, span := s.span(ctx, "ListDecks")
	defer span.End()

	if s.store == nil {
		return nil, "", apperrors.New(apperrors.CodeStorage, "deck storage is not configured")
	}

	page, err := s.store.ListDecks(ctx, pageSize, pageToken)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.CodeStorage, "list decks", err)
	}
	decks := make([]SavedDeck, 0, len(page.Decks))
	for _, record := range page.Decks {
		decks = append(decks, SavedDeck{ID: record.ID, Name: record.Name, UpdatedAt: record.UpdatedAt})
	}
	return decks, page.NextPageToken, nil
}

// DeleteDeck removes one saved deck.
func (s *Service) DeleteDeck(ctx context.Context, id string) error {
	ctx, span := s.span(ctx, "DeleteDeck")
	defer span.End()

	if s.store == nil {
		return apperrors.New(apperrors.CodeStorage, "deck storage is not configured")
	}
	err := s.store.DeleteDeck(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.New(apperrors.CodeNotFound, "deck not found")
	}
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "delete deck", err)
	}
	return nil
}

// CardQuantity returns the current deck quantity for one card.
func (s *Service) CardQuantity(cardID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Quantity(cardID)
}

// Snapshot returns the current session snapshot under the given name.
func (s *Service) Snapshot(name string) deck.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deck.NewSnapshot(s.state, name)
}

// AspectView describes one aspect for presentation.
type AspectView struct {
	Slug       string
	Name       string
	Category   catalog.Category
	Eligible   bool
	Unlocked   bool
	Selected   bool
	Selectable bool
}

// CardView describes one available card with its deck quantity.
type CardView struct {
	ID        string
	Name      string
	Type      catalog.CardType
	Rank      int
	MaxCopies int
	Quantity  int
	Aspect    string
	Role      classifier.Role
}

// TypeUsage reports quantity consumption for one card type.
type TypeUsage struct {
	Type      catalog.CardType
	Total     int
	Limit     int
	Remaining int
}

// Overview is the full presentation view of the session.
type Overview struct {
	RankCap       int
	OverrideAll   bool
	Aspects       []AspectView
	Cards         []CardView
	Types         []TypeUsage
	PageTotal     int
	PageRemaining int
	Rank          RankChangeView
	Notices       []Notice
}

// Overview assembles the derived presentation state: aspect flags per
// category, available cards in display order, capacity counters, the rank
// transition state, and active notices.
func (s *Service) Overview(ctx context.Context) Overview {
	_, span := s.span(ctx, "Overview")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	view := Overview{
		RankCap:       s.state.RankCap,
		OverrideAll:   s.state.OverrideAll,
		PageTotal:     deck.PageTotal(s.cat, s.state),
		PageRemaining: deck.PageRemaining(s.cat, s.state),
		Rank:          s.rankViewLocked(),
		Notices:       s.notices.active(s.now()),
	}

	for _, aspect := range s.cat.Aspects() {
		view.Aspects = append(view.Aspects, AspectView{
			Slug:       aspect.Slug,
			Name:       aspect.Name,
			Category:   aspect.Category(),
			Eligible:   deck.AspectEligible(s.cat, s.state, aspect.Slug),
			Unlocked:   deck.AspectUnlocked(s.cat, s.state, aspect.Slug),
			Selected:   deck.AspectSelected(s.cat, s.state, aspect.Slug),
			Selectable: deck.AspectSelectable(s.cat, s.state, aspect.Slug),
		})
	}

	for _, card := range deck.AvailableCards(s.cat, s.state) {
		view.Cards = append(view.Cards, CardView{
			ID:        card.ID,
			Name:      card.Name,
			Type:      card.Type,
			Rank:      card.Rank,
			MaxCopies: card.MaxCopies,
			Quantity:  s.state.Quantity(card.ID),
			Aspect:    card.Aspect,
			Role:      classifier.Classify(card.Name),
		})
	}

	for _, t := range catalog.CardTypes() {
		view.Types = append(view.Types, TypeUsage{
			Type:      t,
			Total:     deck.TypeTotal(s.cat, s.state, t),
			Limit:     deck.TypeLimit(t),
			Remaining: deck.TypeRemaining(s.cat, s.state, t),
		})
	}

	return view
}
