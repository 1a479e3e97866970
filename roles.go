package adminauth

import "strings"

// UserRole is the user's role
type UserRole = string

const (
	// RoleEditor can manage content but not other accounts
	RoleEditor UserRole = "editor"
	// RoleAdmin has full access to the admin interface
	RoleAdmin UserRole = "admin"
)

// IsValid checks if the role is one of the predefined valid roles
func IsValidRole(r UserRole) bool {
	switch r {
	case RoleEditor, RoleAdmin:
		return true
	default:
		return false
	}
}

// RoleIsAtLeast checks if a role meets the minimum required level
func RoleIsAtLeast(r, minRole UserRole) bool {
	roleHierarchy := map[UserRole]int{
		RoleEditor: 0,
		RoleAdmin:  1,
	}

	currentLevel, exists := roleHierarchy[r]
	if !exists {
		return false
	}

	minLevel, exists := roleHierarchy[minRole]
	if !exists {
		return false
	}

	return currentLevel >= minLevel
}

// GetAllRoles returns all predefined roles in hierarchical order
func GetAllRoles() []UserRole {
	return []UserRole{
		RoleEditor,
		RoleAdmin,
	}
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, IsValidRole(role)
}

// AdminAllowlist is the fixed set of usernames that may hold the admin
// role. Lookups are case insensitive.
type AdminAllowlist map[string]struct{}

// NewAdminAllowlist builds an allowlist from usernames, normalizing case.
func NewAdminAllowlist(usernames ...string) AdminAllowlist {
	list := make(AdminAllowlist, len(usernames))
	for _, name := range usernames {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		list[name] = struct{}{}
	}
	return list
}

// Allows reports whether the username may be granted the admin role.
func (a AdminAllowlist) Allows(username string) bool {
	_, ok := a[strings.ToLower(username)]
	return ok
}

// ResolveRole applies the role assignment policy: a request for admin is
// silently downgraded to editor unless the username is allow-listed.
// Anything else, including an empty request, resolves to editor.
func (a AdminAllowlist) ResolveRole(username, requested string) UserRole {
	if requested == RoleAdmin && a.Allows(username) {
		return RoleAdmin
	}
	return RoleEditor
}
