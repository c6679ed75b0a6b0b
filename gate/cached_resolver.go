package gate

import (
	"context"
	"sync"
	"time"
)

// CachedResolver keeps each user's profile for ttl. Nil profiles are cached
// too. Expired entries are swept whenever a fresh one is stored.
type CachedResolver[U comparable] struct {
	inner   ProfileResolver[U]
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
	entries map[U]entry
}

type entry struct {
	profile Profile
	expires time.Time
}

func NewCachedResolver[U comparable](inner ProfileResolver[U], ttl time.Duration) *CachedResolver[U] {
	return &CachedResolver[U]{inner: inner, ttl: ttl, now: time.Now, entries: map[U]entry{}}
}

func (r *CachedResolver[U]) Resolve(ctx context.Context, user U) (Profile, error) {
	now := r.now()
	r.mu.RLock()
	e, ok := r.entries[user]
	r.mu.RUnlock()
	if ok && now.Before(e.expires) {
		return e.profile, nil
	}

	p, err := r.inner.Resolve(ctx, user)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for u, old := range r.entries {
		if !now.Before(old.expires) {
			delete(r.entries, u)
		}
	}
	r.entries[user] = entry{profile: p, expires: now.Add(r.ttl)}
	return p, nil
}

// Invalidate drops user, e.g. after a profile reassignment.
func (r *CachedResolver[U]) Invalidate(user U) {
	r.mu.Lock()
	delete(r.entries, user)
	r.mu.Unlock()
}

// InvalidateAll drops every entry, e.g. after a profile's permissions change.
func (r *CachedResolver[U]) InvalidateAll() {
	r.mu.Lock()
	clear(r.entries)
	r.mu.Unlock()
}

// Len is the number of cached users, expired ones included.
func (r *CachedResolver[U]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
