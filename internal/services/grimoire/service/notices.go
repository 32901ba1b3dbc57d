package service

import "time"

const defaultNoticeTTL = 4 * time.Second

// NoticeKind classifies an ephemeral capacity notice.
type NoticeKind string

const (
	// NoticeTypeCap flags an exhausted per-type quantity cap.
	NoticeTypeCap NoticeKind = "type_cap"
	// NoticePageCap flags the exhausted shared page budget.
	NoticePageCap NoticeKind = "page_cap"
)

// Notice is one ephemeral user-facing capacity message.
type Notice struct {
	Kind    NoticeKind
	Message string
	Expires time.Time
}

// noticeBoard keeps short-lived notices, pruned lazily on read against the
// injected clock.
type noticeBoard struct {
	ttl     time.Duration
	entries []Notice
}

func newNoticeBoard(ttl time.Duration) *noticeBoard {
	if ttl <= 0 {
		ttl = defaultNoticeTTL
	}
	return &noticeBoard{ttl: ttl}
}

func (b *noticeBoard) push(kind NoticeKind, message string, now time.Time) {
	// One live notice per kind; a repeat refresh extends the expiry.
	for i := range b.entries {
		if b.entries[i].Kind == kind {
			b.entries[i].Message = message
			b.entries[i].Expires = now.Add(b.ttl)
			return
		}
	}
	b.entries = append(b.entries, Notice{Kind: kind, Message: message, Expires: now.Add(b.ttl)})
}

func (b *noticeBoard) active(now time.Time) []Notice {
	live := b.entries[:0]
	for _, notice := range b.entries {
		if notice.Expires.After(now) {
			live = append(live, notice)
		}
	}
	b.entries = live
	if len(live) == 0 {
		return nil
	}
	out := make([]Notice, len(live))
	copy(out, live)
	return out
}

func (b *noticeBoard) clear() {
	b.entries = nil
}
