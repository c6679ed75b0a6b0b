// Package policy connects the permission gate to the database profiles and
// exposes it as HTTP middleware.
package policy

import (
	"context"
	"net/http"
	"time"

	"github.com/diewo77/salescrm/auth"
	"github.com/diewo77/salescrm/gate"
	"github.com/diewo77/salescrm/httpx"
	"gorm.io/gorm"
)

// DefaultCacheTTL is how long a resolved profile is reused.
const DefaultCacheTTL = 5 * time.Minute

// AuthGate is the application's authorization point.
type AuthGate struct {
	Gate          *gate.Gate[uint]
	CacheResolver *gate.CachedResolver[uint]
}

// NewAuthGate builds a gate over DB profiles cached for cacheTTL.
func NewAuthGate(db *gorm.DB, cacheTTL time.Duration) *AuthGate {
	return NewAuthGateWithResolver(NewDBProfileResolver(db), cacheTTL)
}

// NewAuthGateWithResolver builds a gate over any resolver.
func NewAuthGateWithResolver(resolver gate.ProfileResolver[uint], cacheTTL time.Duration) *AuthGate {
	cached := gate.NewCachedResolver[uint](resolver, cacheTTL)
	return &AuthGate{Gate: gate.New[uint](cached), CacheResolver: cached}
}

// Authorize checks the session user of ctx.
func (ag *AuthGate) Authorize(ctx context.Context, action gate.Action, resourceType string) error {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return gate.ErrUnauthorized
	}
	return ag.Gate.Authorize(ctx, userID, action, resourceType)
}

func (ag *AuthGate) Can(ctx context.Context, action gate.Action, resourceType string) bool {
	return ag.Authorize(ctx, action, resourceType) == nil
}

// Permissions lists what the session user may do, for the UI to hide
// controls. Nil when the user has no profile.
func (ag *AuthGate) Permissions(ctx context.Context) []gate.Permission {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return nil
	}
	profile, err := ag.CacheResolver.Resolve(ctx, userID)
	if err != nil || profile == nil {
		return nil
	}
	return profile.Permissions()
}

// InvalidateUser drops a user's cached profile after reassignment.
func (ag *AuthGate) InvalidateUser(userID uint) {
	ag.CacheResolver.Invalidate(userID)
}

// InvalidateAll drops every cached profile after permissions change.
func (ag *AuthGate) InvalidateAll() {
	ag.CacheResolver.InvalidateAll()
}

// RequirePermission answers 401 without a session and 403 when the user's
// profile lacks resourceType:action.
func (ag *AuthGate) RequirePermission(resourceType string, action gate.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := auth.UserIDFromContext(r.Context()); !ok {
				httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}
			if !ag.Can(r.Context(), action, resourceType) {
				httpx.JSONError(w, http.StatusForbidden, "forbidden", map[string]string{
					"permission": string(gate.NewPermission(resourceType, action)),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin only lets through profiles holding "*:*".
func (ag *AuthGate) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := auth.UserIDFromContext(r.Context())
			if !ok {
				httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}
			if !ag.Gate.IsAdmin(r.Context(), userID) {
				httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
