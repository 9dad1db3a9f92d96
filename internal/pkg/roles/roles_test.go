package roles

import (
	"testing"

	"github.com/arabshield/portal/internal/modules/model"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "known role passes through", in: model.RoleAdmin, want: model.RoleAdmin},
		{name: "empty role falls back to client", in: "", want: model.RoleClient},
		{name: "unknown role falls back to client", in: "superuser", want: model.RoleClient},
		{name: "case matters", in: "Admin", want: model.RoleClient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestIsAdminRole(t *testing.T) {
	assert.True(t, IsAdminRole(model.RoleAdmin))
	assert.True(t, IsAdminRole(model.RoleOwner))
	assert.False(t, IsAdminRole(model.RoleMember))
	assert.False(t, IsAdminRole(model.RoleClient))
	assert.False(t, IsAdminRole(""))
	assert.False(t, IsAdminRole("administrator"))
}

func TestAtLeast(t *testing.T) {
	assert.True(t, AtLeast(model.RoleOwner, model.RoleAdmin))
	assert.True(t, AtLeast(model.RoleAdmin, model.RoleAdmin))
	assert.True(t, AtLeast(model.RoleMember, model.RoleClient))
	assert.False(t, AtLeast(model.RoleClient, model.RoleMember))
	// Unknown roles rank below every defined role.
	assert.False(t, AtLeast("ghost", model.RoleClient))
	assert.True(t, AtLeast(model.RoleClient, "ghost"))
}
