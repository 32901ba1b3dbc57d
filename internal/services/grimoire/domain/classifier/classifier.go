// Package classifier assigns presentation roles to cards from name keywords.
// It is a pure convenience for grouping card lists and sits entirely outside
// the composition engine; swapping it never affects deck constraints.
package classifier

import "strings"

// Role is a presentation grouping for a card.
type Role string

const (
	RoleOffense Role = "offense"
	RoleWarding Role = "warding"
	RoleRitual  Role = "ritual"
	RoleRelic   Role = "relic"
	RoleUnknown Role = "unknown"
)

// keywordRoles maps lowercase name fragments to roles, first match wins in
// declaration order.
var keywordRoles = []struct {
	keyword string
	role    Role
}{
	{"strike", RoleOffense},
	{"blade", RoleOffense},
	{"bolt", RoleOffense},
	{"wrath", RoleOffense},
	{"ward", RoleWarding},
	{"shield", RoleWarding},
	{"aegis", RoleWarding},
	{"veil", RoleWarding},
	{"rite", RoleRitual},
	{"ritual", RoleRitual},
	{"communion", RoleRitual},
	{"hymn", RoleRitual},
	{"relic", RoleRelic},
	{"talisman", RoleRelic},
	{"sigil", RoleRelic},
}

// Classify maps a card name to a role by case-insensitive substring search.
func Classify(name string) Role {
	lowered := strings.ToLower(name)
	for _, entry := range keywordRoles {
		if strings.Contains(lowered, entry.keyword) {
			return entry.role
		}
	}
	return RoleUnknown
}
