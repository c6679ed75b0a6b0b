// Package gate is the permission check shared by the HTTP layer and the admin
// CLI. Users resolve to a Profile; a profile grants "resource:action"
// permissions with wildcard support. The package knows nothing about the CRM
// models, the database or HTTP.
package gate

import "context"

// Gate authorizes users of type U against their resolved profile.
type Gate[U comparable] struct {
	resolver ProfileResolver[U]
}

// New creates a gate backed by resolver.
func New[U comparable](resolver ProfileResolver[U]) *Gate[U] {
	return &Gate[U]{resolver: resolver}
}

// Authorize returns ErrUnauthorized when user is the zero value, has no profile
// or the profile lacks resourceType:action.
func (g *Gate[U]) Authorize(ctx context.Context, user U, action Action, resourceType string) error {
	var zero U
	if user == zero {
		return ErrUnauthorized
	}
	profile, err := g.resolver.Resolve(ctx, user)
	if err != nil || profile == nil {
		return ErrUnauthorized
	}
	if !profile.HasPermission(NewPermission(resourceType, action)) {
		return ErrUnauthorized
	}
	return nil
}

// Can is Authorize as a bool.
func (g *Gate[U]) Can(ctx context.Context, user U, action Action, resourceType string) bool {
	return g.Authorize(ctx, user, action, resourceType) == nil
}

// IsAdmin reports whether the user's profile carries the superadmin permission.
func (g *Gate[U]) IsAdmin(ctx context.Context, user U) bool {
	var zero U
	if user == zero {
		return false
	}
	profile, err := g.resolver.Resolve(ctx, user)
	if err != nil || profile == nil {
		return false
	}
	return profile.HasPermission(PermissionSuperAdmin)
}
