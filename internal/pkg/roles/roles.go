// Package roles is the single place authorization predicates are computed.
// Every gated route and privileged mutation calls through here rather than
// re-deriving the check.
package roles

import "github.com/arabshield/portal/internal/modules/model"

// Default is the role resolved for any profile whose role value is absent
// or unrecognized.
func Default() string { return model.RoleClient }

// Known reports whether r is one of the four defined roles.
func Known(r string) bool {
	switch r {
	case model.RoleClient, model.RoleMember, model.RoleAdmin, model.RoleOwner:
		return true
	}
	return false
}

// Normalize maps an absent or corrupt role value to the default role.
func Normalize(r string) string {
	if !Known(r) {
		return Default()
	}
	return r
}

// IsAdminRole reports whether r carries admin privileges. True only for
// admin and owner; false for every other value, including unknown strings.
func IsAdminRole(r string) bool {
	return r == model.RoleAdmin || r == model.RoleOwner
}

// CanManageTickets reports whether r may advance ticket status.
func CanManageTickets(r string) bool {
	return IsAdminRole(r)
}

// rank orders roles by privilege for comparisons. Unknown roles rank lowest.
func rank(r string) int {
	switch r {
	case model.RoleOwner:
		return 3
	case model.RoleAdmin:
		return 2
	case model.RoleMember:
		return 1
	case model.RoleClient:
		return 0
	}
	return -1
}

// AtLeast reports whether r holds privilege greater than or equal to min.
func AtLeast(r, min string) bool { return rank(r) >= rank(min) }
