// Package unlock implements redemption of aspect unlock codes.
package unlock

import (
	"strings"

	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/domain/catalog"
	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/domain/deck"
)

// Sentinel targets a code may map to instead of a single aspect slug.
const (
	// TargetAllAspects unlocks every non-basic aspect in the catalog.
	TargetAllAspects = "*"
	// TargetDarkAspects unlocks every dark-flagged aspect.
	TargetDarkAspects = "dark:*"
)

// Status classifies a redemption attempt. Redemption failures are reported
// as results, never as errors, so callers can drive user-facing messaging.
type Status string

const (
	StatusOK      Status = "ok"
	StatusUsed    Status = "used"
	StatusInvalid Status = "invalid"
)

// Table maps normalized code strings to an aspect slug or a sentinel.
type Table map[string]string

// Result reports the outcome of a redemption, including the aspects newly
// revealed when the status is ok.
type Result struct {
	Status   Status
	Unlocked []catalog.Aspect
}

// Normalize canonicalizes a user-entered code for table lookup.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Redeem applies a code against the deck state. Unknown codes and codes
// pointing at aspects missing from the catalog report invalid; codes whose
// entire effect is already unlocked report used with no state change.
func Redeem(cat *catalog.Catalog, s deck.State, table Table, code string) (deck.State, Result) {
	target, ok := table[Normalize(code)]
	if !ok {
		return s, Result{Status: StatusInvalid}
	}

	var slugs []string
	switch target {
	case TargetAllAspects:
		for _, aspect := range cat.Aspects() {
			if !aspect.Basic {
				slugs = append(slugs, aspect.Slug)
			}
		}
	case TargetDarkAspects:
		slugs = cat.DarkSlugs()
	default:
		if _, ok := cat.Aspect(target); !ok {
			return s, Result{Status: StatusInvalid}
		}
		slugs = []string{target}
	}
	if len(slugs) == 0 {
		return s, Result{Status: StatusInvalid}
	}

	var fresh []catalog.Aspect
	for _, slug := range slugs {
		if _, already := s.Unlocked[slug]; already {
			continue
		}
		aspect, _ := cat.Aspect(slug)
		fresh = append(fresh, aspect)
	}
	if len(fresh) == 0 {
		return s, Result{Status: StatusUsed}
	}

	next := s.Clone()
	for _, aspect := range fresh {
		next.Unlocked[aspect.Slug] = struct{}{}
	}
	return next, Result{Status: StatusOK, Unlocked: fresh}
}
