// Package filter evaluates AIP-160 filter expressions against catalog cards,
// powering card-pool browsing queries such as
//
//	type = "Holy" AND rank <= 3
package filter

import (
	"fmt"
	"strings"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"

	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/domain/catalog"
	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/domain/classifier"
)

// Card filter fields exposed to queries.
const (
	FieldName      = "name"
	FieldType      = "type"
	FieldRank      = "rank"
	FieldAspect    = "aspect"
	FieldMaxCopies = "max_copies"
	FieldRole      = "role"
)

// Expression is a parsed, checked card filter.
type Expression struct {
	root *expr.Expr
}

// Parse parses an AIP-160 filter string against the card field declarations.
// An empty filter parses to a match-everything expression.
func Parse(filterStr string) (Expression, error) {
	if strings.TrimSpace(filterStr) == "" {
		return Expression{}, nil
	}

	decls, err := filtering.NewDeclarations(
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent(FieldName, filtering.TypeString),
		filtering.DeclareIdent(FieldType, filtering.TypeString),
		filtering.DeclareIdent(FieldRank, filtering.TypeInt),
		filtering.DeclareIdent(FieldAspect, filtering.TypeString),
		filtering.DeclareIdent(FieldMaxCopies, filtering.TypeInt),
		filtering.DeclareIdent(FieldRole, filtering.TypeString),
	)
	if err != nil {
		return Expression{}, fmt.Errorf("declare filter fields: %w", err)
	}

	parsed, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return Expression{}, fmt.Errorf("parse filter: %w", err)
	}
	return Expression{root: parsed.CheckedExpr.Expr}, nil
}

// Empty reports whether the expression matches everything.
func (e Expression) Empty() bool {
	return e.root == nil
}

// MatchCard evaluates the expression against a single card.
func (e Expression) MatchCard(card catalog.Card) (bool, error) {
	return evaluate(e.root, func(field string) (any, bool) {
		switch field {
		case FieldName:
			return card.Name, true
		case FieldType:
			return string(card.Type), true
		case FieldRank:
			return int64(card.Rank), true
		case FieldAspect:
			return card.Aspect, true
		case FieldMaxCopies:
			return int64(card.MaxCopies), true
		case FieldRole:
			return string(classifier.Classify(card.Name)), true
		default:
			return nil, false
		}
	})
}
