package gate

import (
	"context"
	"sync"
)

// Profile is a named set of permissions assigned to a user.
type Profile interface {
	ID() uint
	Name() string
	HasPermission(permission Permission) bool
	Permissions() []Permission
}

// ProfileResolver resolves a user to their profile. A nil profile with a nil
// error means the user has none.
type ProfileResolver[U any] interface {
	Resolve(ctx context.Context, user U) (Profile, error)
}

// StaticProfile is an in-memory Profile, used by tests and the CLI.
type StaticProfile struct {
	id    uint
	name  string
	perms []Permission
}

// NewStaticProfile creates a profile with the given permissions, in order.
func NewStaticProfile(id uint, name string, permissions ...Permission) *StaticProfile {
	return &StaticProfile{id: id, name: name, perms: append([]Permission(nil), permissions...)}
}

func (p *StaticProfile) ID() uint     { return p.id }
func (p *StaticProfile) Name() string { return p.name }

// Permissions returns a copy of the granted permissions.
func (p *StaticProfile) Permissions() []Permission {
	return append([]Permission(nil), p.perms...)
}

func (p *StaticProfile) HasPermission(requested Permission) bool {
	return Grants(p.perms, requested)
}

// Grants reports whether any permission in granted matches requested.
func Grants(granted []Permission, requested Permission) bool {
	for _, perm := range granted {
		if perm.Matches(requested) {
			return true
		}
	}
	return false
}

// StaticResolver maps users to fixed profiles.
type StaticResolver[U comparable] struct {
	mu       sync.RWMutex
	profiles map[U]Profile
}

func NewStaticResolver[U comparable]() *StaticResolver[U] {
	return &StaticResolver[U]{profiles: make(map[U]Profile)}
}

// Set assigns a profile to a user.
func (r *StaticResolver[U]) Set(user U, profile Profile) {
	r.mu.Lock()
	r.profiles[user] = profile
	r.mu.Unlock()
}

func (r *StaticResolver[U]) Resolve(_ context.Context, user U) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.profiles[user], nil
}
