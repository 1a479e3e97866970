package adminauth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	adminauth "github.com/kalamiro/go-adminauth"
)

func TestIsValidRole(t *testing.T) {
	assert.True(t, adminauth.IsValidRole(adminauth.RoleAdmin))
	assert.True(t, adminauth.IsValidRole(adminauth.RoleEditor))
	assert.False(t, adminauth.IsValidRole("owner"))
	assert.False(t, adminauth.IsValidRole(""))
}

func TestRoleIsAtLeast(t *testing.T) {
	tests := []struct {
		name    string
		role    adminauth.UserRole
		minRole adminauth.UserRole
		want    bool
	}{
		{"admin meets admin", adminauth.RoleAdmin, adminauth.RoleAdmin, true},
		{"admin meets editor", adminauth.RoleAdmin, adminauth.RoleEditor, true},
		{"editor meets editor", adminauth.RoleEditor, adminauth.RoleEditor, true},
		{"editor below admin", adminauth.RoleEditor, adminauth.RoleAdmin, false},
		{"unknown role fails", "owner", adminauth.RoleEditor, false},
		{"unknown minimum fails", adminauth.RoleAdmin, "owner", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, adminauth.RoleIsAtLeast(tc.role, tc.minRole))
		})
	}
}

func TestParseRole(t *testing.T) {
	role, ok := adminauth.ParseRole("admin")
	assert.True(t, ok)
	assert.Equal(t, adminauth.RoleAdmin, role)

	_, ok = adminauth.ParseRole("superuser")
	assert.False(t, ok)
}

func TestAdminAllowlist(t *testing.T) {
	allowlist := adminauth.NewAdminAllowlist("Root", " ops ", "")

	t.Run("lookups are case insensitive", func(t *testing.T) {
		assert.True(t, allowlist.Allows("root"))
		assert.True(t, allowlist.Allows("ROOT"))
		assert.True(t, allowlist.Allows("ops"))
		assert.False(t, allowlist.Allows("mallory"))
	})

	t.Run("resolves admin for listed usernames", func(t *testing.T) {
		assert.Equal(t, adminauth.RoleAdmin, allowlist.ResolveRole("root", "admin"))
	})

	t.Run("downgrades admin for unlisted usernames", func(t *testing.T) {
		assert.Equal(t, adminauth.RoleEditor, allowlist.ResolveRole("mallory", "admin"))
	})

	t.Run("defaults to editor", func(t *testing.T) {
		assert.Equal(t, adminauth.RoleEditor, allowlist.ResolveRole("root", ""))
		assert.Equal(t, adminauth.RoleEditor, allowlist.ResolveRole("root", "editor"))
	})
}
