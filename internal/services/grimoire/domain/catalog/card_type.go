package catalog

import (
	"fmt"
	"strings"
)

// CardType classifies a card for capacity accounting.
type CardType string

const (
	TypeHoly   CardType = "Holy"
	TypeLight  CardType = "Light"
	TypeDark   CardType = "Dark"
	TypeAstral CardType = "Astral"
	TypeShadow CardType = "Shadow"
)

// CardTypes lists every card type in display order.
func CardTypes() []CardType {
	return []CardType{TypeHoly, TypeLight, TypeDark, TypeAstral, TypeShadow}
}

// Valid reports whether the type is one of the known card types.
func (t CardType) Valid() bool {
	switch t {
	case TypeHoly, TypeLight, TypeDark, TypeAstral, TypeShadow:
		return true
	}
	return false
}

// Countable reports whether the type consumes the shared page budget.
// Astral and Shadow cards live outside the budget under their own caps.
func (t CardType) Countable() bool {
	switch t {
	case TypeHoly, TypeLight, TypeDark:
		return true
	}
	return false
}

// ParseCardType maps a raw catalog value to a CardType.
func ParseCardType(value string) (CardType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "holy":
		return TypeHoly, nil
	case "light":
		return TypeLight, nil
	case "dark":
		return TypeDark, nil
	case "astral":
		return TypeAstral, nil
	case "shadow":
		return TypeShadow, nil
	default:
		return "", fmt.Errorf("unknown card type %q", value)
	}
}
