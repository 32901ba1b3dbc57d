package service

import (
	"context"
	"errors"

	apperrors "github.com/louisbranch/grimoire.cards/internal/platform/errors"
	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/domain/catalog"
	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/domain/deck"
)

// RankPhase names the rank transition handler state.
type RankPhase string

const (
	// RankStable means no rank change is awaiting confirmation.
	RankStable RankPhase = "stable"
	// RankPendingLowerConfirmation means a lowering change is parked until
	// the caller confirms losing the stranded entries.
	RankPendingLowerConfirmation RankPhase = "pending_lower_confirmation"
)

// RankChangeView reports the rank transition state for confirmation UI.
type RankChangeView struct {
	Phase          RankPhase
	RankCap        int
	Target         int
	Stranded       []deck.StrandedEntry
	StrandedTotal  int
	StrandedByType map[catalog.CardType]int
	Message        string
}

func (s *Service) rankViewLocked() RankChangeView {
	view := RankChangeView{Phase: RankStable, RankCap: s.state.RankCap}
	if s.pending == nil {
		return view
	}
	total, byType := deck.StrandedTotals(s.pending.stranded)
	view.Phase = RankPendingLowerConfirmation
	view.Target = s.pending.target
	view.Stranded = s.pending.stranded
	view.StrandedTotal = total
	view.StrandedByType = byType
	view.Message = s.message("rank.pending", total)
	return view
}

// RequestRankCap asks for a new rank cap. Raising or lateral changes apply
// immediately. Lowering past entries that would become stranded parks the
// change until ConfirmRankCap or CancelRankCap resolves it.
func (s *Service) RequestRankCap(ctx context.Context, target int) (RankChangeView, error) {
	_, span := s.span(ctx, "RequestRankCap")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		return s.rankViewLocked(), apperrors.New(apperrors.CodeDeckRankChangePending,
			"a rank change is already awaiting confirmation")
	}
	if target < deck.RankMin || target > deck.RankMax {
		return s.rankViewLocked(), apperrors.Wrap(apperrors.CodeDeckInvalidRankCap,
			"rank cap out of range", deck.ErrInvalidRankCap)
	}

	stranded := deck.Stranded(s.cat, s.state, target)
	if len(stranded) == 0 {
		next, err := deck.ApplyRankCap(s.cat, s.state, target)
		if err != nil {
			if errors.Is(err, deck.ErrInvalidRankCap) {
				return s.rankViewLocked(), apperrors.Wrap(apperrors.CodeDeckInvalidRankCap,
					"rank cap out of range", err)
			}
			return s.rankViewLocked(), err
		}
		s.state = next
		return s.rankViewLocked(), nil
	}

	s.pending = &pendingRankChange{target: target, stranded: stranded}
	return s.rankViewLocked(), nil
}

// ConfirmRankCap applies the parked lowering change, zeroing its stranded
// entries.
func (s *Service) ConfirmRankCap(ctx context.Context) (RankChangeView, error) {
	_, span := s.span(ctx, "ConfirmRankCap")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return s.rankViewLocked(), apperrors.New(apperrors.CodeDeckNoPendingChange,
			"no rank change is awaiting confirmation")
	}

	next, err := deck.ApplyRankCap(s.cat, s.state, s.pending.target)
	if err != nil {
		return s.rankViewLocked(), err
	}
	s.state = next
	s.pending = nil
	return s.rankViewLocked(), nil
}

// CancelRankCap discards the parked lowering change without touching the
// deck.
func (s *Service) CancelRankCap(ctx context.Context) (RankChangeView, error) {
	_, span := s.span(ctx, "CancelRankCap")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return s.rankViewLocked(), apperrors.New(apperrors.CodeDeckNoPendingChange,
			"no rank change is awaiting confirmation")
	}
	s.pending = nil
	return s.rankViewLocked(), nil
}
