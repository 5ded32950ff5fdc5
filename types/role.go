package types

import "strings"

// Role names a capability a caller may hold against the Manager.
type Role string

const (
	// RoleOwner is the administrative owner of the Manager.
	RoleOwner Role = "owner"
	// RoleOperator is the day-to-day operator and the proposal approver.
	RoleOperator Role = "operator"
	// RoleProposer is the creator of the proposal under consideration.
	RoleProposer Role = "proposer"
	// RoleWhitelisted is membership in the issuance/redemption access list.
	// When enforcement is disabled every caller holds it.
	RoleWhitelisted Role = "whitelisted"
	// RoleAny is held by every caller.
	RoleAny Role = "any"
)

// RoleSet is the set of roles an entry point accepts; a caller holding any
// one of them passes the gate.
type RoleSet []Role

// NewRoleSet builds a RoleSet from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	return RoleSet(roles)
}

// Has reports whether the set contains the role.
func (s RoleSet) Has(role Role) bool {
	for _, r := range s {
		if r == role {
			return true
		}
	}

	return false
}

// String renders the set for error messages.
func (s RoleSet) String() string {
	names := make([]string, len(s))
	for i, r := range s {
		names[i] = string(r)
	}

	return strings.Join(names, "|")
}
