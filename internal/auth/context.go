package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/groveline/orchard-api/internal/domain"
)

// UserContext holds authenticated user information
type UserContext struct {
	UserID      uuid.UUID
	DisplayName string
	Email       string
	Roles       []domain.UserRoleType
	GrowerID    domain.GrowerID
}

type contextKey string

const userContextKey contextKey = "userContext"
const growerFilterKey contextKey = "growerFilter"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// MustFromContext extracts user context or panics
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in context")
	}
	return user
}

// HasRole checks if user has a specific role
func (u *UserContext) HasRole(role domain.UserRoleType) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole checks if user has any of the specified roles
func (u *UserContext) HasAnyRole(roles ...domain.UserRoleType) bool {
	for _, role := range roles {
		if u.HasRole(role) {
			return true
		}
	}
	return false
}

// IsPlatformAdmin checks if user is a platform admin (has access to all growers)
func (u *UserContext) IsPlatformAdmin() bool {
	return u.HasRole(domain.RolePlatformAdmin)
}

// IsGrowerAdmin checks if user administers their grower organization
func (u *UserContext) IsGrowerAdmin() bool {
	return u.HasAnyRole(domain.RolePlatformAdmin, domain.RoleGrowerAdmin)
}

// CanWrite checks if user may create or modify records
func (u *UserContext) CanWrite() bool {
	return u.HasAnyRole(
		domain.RolePlatformAdmin,
		domain.RoleGrowerAdmin,
		domain.RoleFieldManager,
		domain.RoleOffice,
		domain.RoleAPIService,
	)
}

// CanAccessGrower checks if user can access data for a specific grower
func (u *UserContext) CanAccessGrower(growerID domain.GrowerID) bool {
	if u.IsPlatformAdmin() {
		return true
	}
	return u.GrowerID == growerID
}

// GetGrowerFilter returns the grower ID to filter queries by
// Returns nil for platform admins (no filtering needed)
func (u *UserContext) GetGrowerFilter() *domain.GrowerID {
	if u.IsPlatformAdmin() {
		return nil
	}
	return &u.GrowerID
}

// RolesAsStrings returns roles as a slice of strings
func (u *UserContext) RolesAsStrings() []string {
	result := make([]string, len(u.Roles))
	for i, role := range u.Roles {
		result[i] = string(role)
	}
	return result
}

// GrowerFilter represents the effective grower filter for queries
// This is set by middleware based on user context and query parameters
type GrowerFilter struct {
	// GrowerID is the grower to filter by (nil means no filter / all growers)
	GrowerID *domain.GrowerID
	// RequestedByAdmin indicates a platform admin explicitly requested a specific grower
	RequestedByAdmin bool
}

// WithGrowerFilter adds grower filter to the context
func WithGrowerFilter(ctx context.Context, filter *GrowerFilter) context.Context {
	return context.WithValue(ctx, growerFilterKey, filter)
}

// GrowerFilterFromContext extracts grower filter from the context
func GrowerFilterFromContext(ctx context.Context) (*GrowerFilter, bool) {
	filter, ok := ctx.Value(growerFilterKey).(*GrowerFilter)
	return filter, ok
}

// GetEffectiveGrowerFilter returns the grower ID to filter queries by
// This should be used by repositories to apply multi-tenant filtering
// Returns nil if no filtering should be applied (user has access to all growers)
func GetEffectiveGrowerFilter(ctx context.Context) *domain.GrowerID {
	if filter, ok := GrowerFilterFromContext(ctx); ok && filter != nil {
		return filter.GrowerID
	}

	if userCtx, ok := FromContext(ctx); ok {
		return userCtx.GetGrowerFilter()
	}

	return nil
}
