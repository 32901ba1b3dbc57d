package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	apperrors "github.com/louisbranch/grimoire.cards/internal/platform/errors"
	i18n "github.com/louisbranch/grimoire.cards/internal/platform/i18n/catalog"
	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/domain/catalog"
	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/domain/deck"
	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/domain/unlock"
	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/storage"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	aspects := []catalog.Aspect{
		{Slug: "focus", Name: "Focus", Basic: true},
		{Slug: "ember", Name: "Ember"},
		{Slug: "tide", Name: "Tide"},
		{Slug: "gloom", Name: "Gloom", Dark: true},
		{Slug: "dread", Name: "Dread", Dark: true},
		{Slug: "murk", Name: "Murk", Dark: true},
		{Slug: "starweave", Name: "Starweave", Special: true},
	}
	cards := []catalog.Card{
		{ID: "holy1", Name: "Sunfire Strike", Type: catalog.TypeHoly, Rank: 1, MaxCopies: 4, Aspect: "focus"},
		{ID: "holy2", Name: "Dawn Hymn", Type: catalog.TypeHoly, Rank: 1, MaxCopies: 4, Aspect: "ember"},
		{ID: "light1", Name: "Glimmer Ward", Type: catalog.TypeLight, Rank: 1, MaxCopies: 24, Aspect: "focus"},
		{ID: "light2", Name: "Ember Veil", Type: catalog.TypeLight, Rank: 2, MaxCopies: 6, Aspect: "ember"},
		{ID: "dark1", Name: "Gloaming Rite", Type: catalog.TypeDark, Rank: 1, MaxCopies: 2, Aspect: "gloom"},
		{ID: "astral1", Name: "Star Sigil", Type: catalog.TypeAstral, Rank: 1, MaxCopies: 9, Aspect: "starweave"},
	}
	cat, err := catalog.New(aspects, cards)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return cat
}

func testCodes() unlock.Table {
	return unlock.Table{
		"EMBER-RISES": "ember",
		"NIGHTFALL":   unlock.TargetDarkAspects,
	}
}

func testBundle(t *testing.T) *i18n.Bundle {
	t.Helper()
	bundle, err := i18n.LoadEmbedded()
	if err != nil {
		t.Fatalf("load message bundle: %v", err)
	}
	return bundle
}

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	svc, err := New(testCatalog(t), testCodes(), testBundle(t), opts...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

// fakeStore is an in-memory storage.Store for facade tests.
type fakeStore struct {
	decks  map[string]storage.Deck
	bundle *storage.CatalogBundle
}

func newFakeStore() *fakeStore {
	return &fakeStore{decks: map[string]storage.Deck{}}
}

func (f *fakeStore) CreateDeck(_ context.Context, deck storage.Deck) error {
	if _, ok := f.decks[deck.ID]; ok {
		return storage.ErrAlreadyExists
	}
	f.decks[deck.ID] = deck
	return nil
}

func (f *fakeStore) GetDeck(_ context.Context, id string) (storage.Deck, error) {
	deck, ok := f.decks[id]
	if !ok {
		return storage.Deck{}, storage.ErrNotFound
	}
	return deck, nil
}

func (f *fakeStore) UpdateDeck(_ context.Context, deck storage.Deck) error {
	if _, ok := f.decks[deck.ID]; !ok {
		return storage.ErrNotFound
	}
	f.decks[deck.ID] = deck
	return nil
}

func (f *fakeStore) ListDecks(_ context.Context, pageSize int, pageToken string) (storage.DeckPage, error) {
	ids := make([]string, 0, len(f.decks))
	for id := range f.decks {
		if id > pageToken {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	page := storage.DeckPage{}
	for i, id := range ids {
		if i == pageSize {
			page.NextPageToken = ids[i-1]
			break
		}
		page.Decks = append(page.Decks, f.decks[id])
	}
	return page, nil
}

func (f *fakeStore) DeleteDeck(_ context.Context, id string) error {
	if _, ok := f.decks[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.decks, id)
	return nil
}

func (f *fakeStore) ReplaceCatalog(_ context.Context, bundle storage.CatalogBundle) error {
	f.bundle = &bundle
	return nil
}

func (f *fakeStore) LoadCatalog(_ context.Context) (storage.CatalogBundle, error) {
	if f.bundle == nil {
		return storage.CatalogBundle{}, storage.ErrNotFound
	}
	return *f.bundle, nil
}

func (f *fakeStore) Close() error { return nil }

func TestNewSelectsDefaultBasic(t *testing.T) {
	svc := newTestService(t)
	view := svc.Overview(context.Background())

	if view.RankCap != deck.RankMin {
		t.Fatalf("rank cap = %d, want %d", view.RankCap, deck.RankMin)
	}
	for _, aspect := range view.Aspects {
		if aspect.Slug == "focus" && !aspect.Selected {
			t.Fatal("default basic aspect should start selected")
		}
	}
}

func TestToggleAndIncrementFlow(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if got := svc.IncrementCard(ctx, "holy1"); got != deck.IncrementApplied {
		t.Fatalf("increment = %s", got)
	}
	if applied := svc.ToggleAspect(ctx, "ember"); applied {
		t.Fatal("locked aspect toggle should be refused")
	}

	redemption := svc.Redeem(ctx, "EMBER-RISES")
	if redemption.Status != unlock.StatusOK {
		t.Fatalf("redeem status = %s", redemption.Status)
	}
	if applied := svc.ToggleAspect(ctx, "ember"); !applied {
		t.Fatal("unlocked aspect toggle should be applied")
	}
	if got := svc.IncrementCard(ctx, "holy2"); got != deck.IncrementApplied {
		t.Fatalf("increment after unlock = %s", got)
	}

	view := svc.Overview(ctx)
	var holyTotal int
	for _, usage := range view.Types {
		if usage.Type == catalog.TypeHoly {
			holyTotal = usage.Total
		}
	}
	if holyTotal != 2 {
		t.Fatalf("holy total = %d, want 2", holyTotal)
	}
}

func TestOverviewTypeDisplayOrder(t *testing.T) {
	svc := newTestService(t)

	view := svc.Overview(context.Background())
	if len(view.Types) != len(catalog.CardTypes()) {
		t.Fatalf("type usages = %d, want %d", len(view.Types), len(catalog.CardTypes()))
	}
	for i, want := range catalog.CardTypes() {
		if view.Types[i].Type != want {
			t.Fatalf("type usage %d = %s, want %s", i, view.Types[i].Type, want)
		}
	}
}

func TestQuantityOperations(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	svc.SetQuantity(ctx, "light1", 99)
	view := svc.Overview(ctx)
	if qty := cardQuantity(view, "light1"); qty != 24 {
		t.Fatalf("set quantity clamps to max copies, got %d", qty)
	}

	svc.DecrementCard(ctx, "light1")
	if qty := cardQuantity(svc.Overview(ctx), "light1"); qty != 23 {
		t.Fatalf("decrement = %d, want 23", qty)
	}

	svc.ClearAspect(ctx, "focus")
	if qty := cardQuantity(svc.Overview(ctx), "light1"); qty != 0 {
		t.Fatalf("clear aspect left %d", qty)
	}

	svc.SetMaxSingle(ctx, "holy1")
	if qty := cardQuantity(svc.Overview(ctx), "holy1"); qty != 4 {
		t.Fatalf("set max single = %d, want 4", qty)
	}
}

func cardQuantity(view Overview, cardID string) int {
	for _, card := range view.Cards {
		if card.ID == cardID {
			return card.Quantity
		}
	}
	return 0
}

func TestRedeemMessages(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	ok := svc.Redeem(ctx, "EMBER-RISES")
	if ok.Status != unlock.StatusOK || ok.Message == "" {
		t.Fatalf("ok redemption = %+v", ok)
	}
	used := svc.Redeem(ctx, "EMBER-RISES")
	if used.Status != unlock.StatusUsed || used.Message == "" {
		t.Fatalf("used redemption = %+v", used)
	}
	invalid := svc.Redeem(ctx, "NO-SUCH-CODE")
	if invalid.Status != unlock.StatusInvalid || invalid.Message == "" {
		t.Fatalf("invalid redemption = %+v", invalid)
	}
}

func TestResetKeepsUnlocks(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	svc.Redeem(ctx, "EMBER-RISES")
	svc.IncrementCard(ctx, "holy1")
	svc.Reset(ctx)

	view := svc.Overview(ctx)
	if view.PageTotal != 0 {
		t.Fatalf("reset left %d pages used", view.PageTotal)
	}
	for _, aspect := range view.Aspects {
		if aspect.Slug == "ember" && !aspect.Unlocked {
			t.Fatal("reset should keep unlocked aspects")
		}
	}
}

func TestOverrideBypassesSelection(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	svc.SetOverride(ctx, true)
	view := svc.Overview(ctx)
	if !view.OverrideAll {
		t.Fatal("override flag not set")
	}
	for _, aspect := range view.Aspects {
		if !aspect.Selected {
			t.Fatalf("aspect %s should report selected under override", aspect.Slug)
		}
	}
	if got := svc.IncrementCard(ctx, "holy2"); got != deck.IncrementApplied {
		t.Fatalf("override increment = %s", got)
	}
}

func TestSaveLoadDeckRoundTrip(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, WithStore(store))
	ctx := context.Background()

	svc.IncrementCard(ctx, "holy1")
	svc.IncrementCard(ctx, "light1")
	if err := svc.SaveDeck(ctx, "deck-1", "Dawn Patrol"); err != nil {
		t.Fatalf("save deck: %v", err)
	}

	svc.Reset(ctx)
	if qty := cardQuantity(svc.Overview(ctx), "holy1"); qty != 0 {
		t.Fatalf("reset left %d", qty)
	}

	if err := svc.LoadDeck(ctx, "deck-1"); err != nil {
		t.Fatalf("load deck: %v", err)
	}
	view := svc.Overview(ctx)
	if cardQuantity(view, "holy1") != 1 || cardQuantity(view, "light1") != 1 {
		t.Fatal("loaded deck does not match saved entries")
	}
}

func TestSaveDeckOverwritesExisting(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, WithStore(store))
	ctx := context.Background()

	if err := svc.SaveDeck(ctx, "deck-1", "First"); err != nil {
		t.Fatalf("save deck: %v", err)
	}
	svc.IncrementCard(ctx, "holy1")
	if err := svc.SaveDeck(ctx, "deck-1", "Second"); err != nil {
		t.Fatalf("save deck again: %v", err)
	}
	if store.decks["deck-1"].Name != "Second" {
		t.Fatalf("deck name = %q, want overwrite", store.decks["deck-1"].Name)
	}
}

func TestSaveDeckRequiresName(t *testing.T) {
	svc := newTestService(t, WithStore(newFakeStore()))
	err := svc.SaveDeck(context.Background(), "deck-1", "   ")
	if !errors.Is(err, apperrors.New(apperrors.CodeDeckNameEmpty, "")) {
		t.Fatalf("expected DECK_NAME_EMPTY, got %v", err)
	}
}

func TestLoadDeckErrors(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, WithStore(store))
	ctx := context.Background()

	err := svc.LoadDeck(ctx, "missing")
	if !errors.Is(err, apperrors.New(apperrors.CodeNotFound, "")) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}

	store.decks["broken"] = storage.Deck{ID: "broken", Name: "x", Snapshot: []byte("{not json")}
	err = svc.LoadDeck(ctx, "broken")
	if !errors.Is(err, apperrors.New(apperrors.CodeDeckSnapshotCorrupt, "")) {
		t.Fatalf("expected DECK_SNAPSHOT_CORRUPT, got %v", err)
	}
}

func TestListAndDeleteDecks(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, WithStore(store))
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		if err := svc.SaveDeck(ctx, id, "Deck "+id); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	decks, _, err := svc.ListDecks(ctx, 10, "")
	if err != nil {
		t.Fatalf("list decks: %v", err)
	}
	if len(decks) != 2 {
		t.Fatalf("expected 2 decks, got %d", len(decks))
	}

	if err := svc.DeleteDeck(ctx, "a"); err != nil {
		t.Fatalf("delete deck: %v", err)
	}
	err = svc.DeleteDeck(ctx, "a")
	if !errors.Is(err, apperrors.New(apperrors.CodeNotFound, "")) {
		t.Fatalf("expected NOT_FOUND on repeat delete, got %v", err)
	}
}

func TestStoreNotConfigured(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.SaveDeck(ctx, "deck-1", "Name"); !errors.Is(err, apperrors.New(apperrors.CodeStorage, "")) {
		t.Fatalf("expected STORAGE_FAILURE, got %v", err)
	}
	if err := svc.LoadDeck(ctx, "deck-1"); !errors.Is(err, apperrors.New(apperrors.CodeStorage, "")) {
		t.Fatalf("expected STORAGE_FAILURE, got %v", err)
	}
}

func TestFilterCards(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cards, err := svc.FilterCards(ctx, `type = "Holy"`)
	if err != nil {
		t.Fatalf("filter cards: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 holy cards, got %d", len(cards))
	}

	_, err = svc.FilterCards(ctx, `rank = `)
	if !errors.Is(err, apperrors.New(apperrors.CodeFilterInvalid, "")) {
		t.Fatalf("expected FILTER_INVALID, got %v", err)
	}
}

func TestLocaleSelection(t *testing.T) {
	svc := newTestService(t, WithLocale("pt-BR"))
	redemption := svc.Redeem(context.Background(), "NO-SUCH-CODE")
	if redemption.Message != "Este código não é reconhecido" {
		t.Fatalf("localized message = %q", redemption.Message)
	}
}

func TestIncrementPostsTypeCapNotice(t *testing.T) {
	current := time.Date(2026, time.August, 12, 9, 0, 0, 0, time.UTC)
	svc := newTestService(t, WithClock(func() time.Time { return current }))
	ctx := context.Background()

	svc.Redeem(ctx, "EMBER-RISES")
	svc.ToggleAspect(ctx, "ember")
	for i := 0; i < 4; i++ {
		if got := svc.IncrementCard(ctx, "holy1"); got != deck.IncrementApplied {
			t.Fatalf("setup increment %d = %s", i, got)
		}
	}

	if got := svc.IncrementCard(ctx, "holy2"); got != deck.DeniedTypeCap {
		t.Fatalf("expected type cap denial, got %s", got)
	}
	notices := svc.Overview(ctx).Notices
	if len(notices) != 1 || notices[0].Kind != NoticeTypeCap {
		t.Fatalf("notices = %+v", notices)
	}

	current = current.Add(10 * time.Second)
	if notices := svc.Overview(ctx).Notices; len(notices) != 0 {
		t.Fatalf("expired notices still visible: %+v", notices)
	}
}
