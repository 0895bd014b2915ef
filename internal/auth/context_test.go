package auth_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/groveline/orchard-api/internal/auth"
	"github.com/groveline/orchard-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserContext_Roles(t *testing.T) {
	user := &auth.UserContext{
		UserID:   uuid.New(),
		GrowerID: "sunridge",
		Roles:    []domain.UserRoleType{domain.RoleGrowerAdmin, domain.RoleOffice},
	}

	assert.True(t, user.HasRole(domain.RoleGrowerAdmin))
	assert.False(t, user.HasRole(domain.RolePlatformAdmin))
	assert.True(t, user.HasAnyRole(domain.RoleViewer, domain.RoleOffice))
	assert.False(t, user.HasAnyRole(domain.RoleViewer, domain.RoleAPIService))
}

func TestUserContext_CanWrite(t *testing.T) {
	tests := []struct {
		name     string
		roles    []domain.UserRoleType
		expected bool
	}{
		{"platform admin", []domain.UserRoleType{domain.RolePlatformAdmin}, true},
		{"grower admin", []domain.UserRoleType{domain.RoleGrowerAdmin}, true},
		{"field manager", []domain.UserRoleType{domain.RoleFieldManager}, true},
		{"office", []domain.UserRoleType{domain.RoleOffice}, true},
		{"api service", []domain.UserRoleType{domain.RoleAPIService}, true},
		{"viewer", []domain.UserRoleType{domain.RoleViewer}, false},
		{"no roles", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &auth.UserContext{Roles: tt.roles}
			assert.Equal(t, tt.expected, user.CanWrite())
		})
	}
}

func TestUserContext_CanAccessGrower(t *testing.T) {
	manager := &auth.UserContext{
		GrowerID: "sunridge",
		Roles:    []domain.UserRoleType{domain.RoleFieldManager},
	}
	assert.True(t, manager.CanAccessGrower("sunridge"))
	assert.False(t, manager.CanAccessGrower("kern-valley"))

	admin := &auth.UserContext{
		GrowerID: "sunridge",
		Roles:    []domain.UserRoleType{domain.RolePlatformAdmin},
	}
	assert.True(t, admin.CanAccessGrower("sunridge"))
	assert.True(t, admin.CanAccessGrower("kern-valley"))
}

func TestUserContext_GetGrowerFilter(t *testing.T) {
	manager := &auth.UserContext{
		GrowerID: "sunridge",
		Roles:    []domain.UserRoleType{domain.RoleFieldManager},
	}
	filter := manager.GetGrowerFilter()
	require.NotNil(t, filter)
	assert.Equal(t, domain.GrowerID("sunridge"), *filter)

	admin := &auth.UserContext{
		GrowerID: "sunridge",
		Roles:    []domain.UserRoleType{domain.RolePlatformAdmin},
	}
	assert.Nil(t, admin.GetGrowerFilter(), "platform admins see all growers")
}

func TestFromContext(t *testing.T) {
	user := &auth.UserContext{UserID: uuid.New(), GrowerID: "sunridge"}
	ctx := auth.WithUserContext(context.Background(), user)

	got, ok := auth.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, user, got)

	_, ok = auth.FromContext(context.Background())
	assert.False(t, ok)
}

func TestMustFromContext_Panics(t *testing.T) {
	assert.Panics(t, func() {
		auth.MustFromContext(context.Background())
	})
}

func TestRolesAsStrings(t *testing.T) {
	user := &auth.UserContext{
		Roles: []domain.UserRoleType{domain.RoleGrowerAdmin, domain.RoleViewer},
	}
	assert.Equal(t, []string{"grower_admin", "viewer"}, user.RolesAsStrings())
}
