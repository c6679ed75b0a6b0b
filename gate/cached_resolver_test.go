package gate

import (
	"context"
	"testing"
	"time"
)

func TestCachedResolver_CachesUntilExpiry(t *testing.T) {
	inner := NewStaticResolver[uint]()
	inner.Set(1, NewStaticProfile(1, "viewer"))

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cached := NewCachedResolver[uint](inner, time.Minute)
	cached.now = func() time.Time { return now }

	ctx := context.Background()
	if p, _ := cached.Resolve(ctx, 1); p.Name() != "viewer" {
		t.Fatalf("got %s", p.Name())
	}
	inner.Set(1, NewStaticProfile(1, "sales"))
	if p, _ := cached.Resolve(ctx, 1); p.Name() != "viewer" {
		t.Fatalf("expected cached viewer, got %s", p.Name())
	}
	now = now.Add(2 * time.Minute)
	if p, _ := cached.Resolve(ctx, 1); p.Name() != "sales" {
		t.Fatalf("expected sales after expiry, got %s", p.Name())
	}
}

func TestCachedResolver_Invalidate(t *testing.T) {
	inner := NewStaticResolver[uint]()
	inner.Set(1, NewStaticProfile(1, "viewer"))
	inner.Set(2, NewStaticProfile(2, "viewer"))
	cached := NewCachedResolver[uint](inner, time.Hour)
	ctx := context.Background()

	_, _ = cached.Resolve(ctx, 1)
	_, _ = cached.Resolve(ctx, 2)
	inner.Set(1, NewStaticProfile(1, "admin"))
	inner.Set(2, NewStaticProfile(2, "admin"))

	cached.Invalidate(1)
	if p, _ := cached.Resolve(ctx, 1); p.Name() != "admin" {
		t.Errorf("user 1 should be refreshed, got %s", p.Name())
	}
	if p, _ := cached.Resolve(ctx, 2); p.Name() != "viewer" {
		t.Errorf("user 2 should still be cached, got %s", p.Name())
	}
	cached.InvalidateAll()
	if p, _ := cached.Resolve(ctx, 2); p.Name() != "admin" {
		t.Errorf("user 2 should be refreshed, got %s", p.Name())
	}
}

func TestCachedResolver_SweepsExpiredEntries(t *testing.T) {
	inner := NewStaticResolver[uint]()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cached := NewCachedResolver[uint](inner, time.Minute)
	cached.now = func() time.Time { return now }
	ctx := context.Background()

	for u := uint(1); u <= 3; u++ {
		if p, err := cached.Resolve(ctx, u); err != nil || p != nil {
			t.Fatalf("user %d: want cached nil profile, got %v, %v", u, p, err)
		}
	}
	if cached.Len() != 3 {
		t.Fatalf("want 3 entries, got %d", cached.Len())
	}
	now = now.Add(2 * time.Minute)
	_, _ = cached.Resolve(ctx, 4)
	if cached.Len() != 1 {
		t.Fatalf("expired entries should be swept, got %d", cached.Len())
	}
}
