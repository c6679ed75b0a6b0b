package gate_test

import (
	"context"
	"testing"

	"github.com/diewo77/salescrm/gate"
)

func TestPermission_Parse(t *testing.T) {
	res, act := gate.Permission("client:export").Parse()
	if res != "client" || act != gate.ActionExport {
		t.Fatalf("got %q %q", res, act)
	}
	if res, act := gate.Permission("invalid").Parse(); res != "" || act != "" {
		t.Fatalf("expected empty parts, got %q %q", res, act)
	}
}

func TestParsePermission(t *testing.T) {
	if p, ok := gate.ParsePermission(" apartment:update "); !ok || p != "apartment:update" {
		t.Fatalf("got %q %v", p, ok)
	}
	for _, bad := range []string{"", "client", ":view", "client:"} {
		if _, ok := gate.ParsePermission(bad); ok {
			t.Errorf("%q should not parse", bad)
		}
	}
}

func TestPermission_Matches(t *testing.T) {
	cases := []struct {
		granted, requested gate.Permission
		want               bool
	}{
		{"client:view", "client:view", true},
		{"client:view", "client:update", false},
		{"client:*", "client:update", true},
		{"client:*", "apartment:update", false},
		{"*:*", "ocr:extract", true},
		{"client:*", gate.PermissionSuperAdmin, false},
	}
	for _, c := range cases {
		if got := c.granted.Matches(c.requested); got != c.want {
			t.Errorf("%s matches %s = %v, want %v", c.granted, c.requested, got, c.want)
		}
	}
}

func TestGate_Authorize(t *testing.T) {
	resolver := gate.NewStaticResolver[uint]()
	resolver.Set(1, gate.NewStaticProfile(1, "sales",
		gate.NewPermission(gate.ResourceClient, gate.WildcardAll),
		gate.NewPermission(gate.ResourceApartment, gate.ActionList),
	))
	resolver.Set(2, gate.NewStaticProfile(2, "admin", gate.PermissionSuperAdmin))
	g := gate.New[uint](resolver)
	ctx := context.Background()

	if !g.Can(ctx, 1, gate.ActionCreate, gate.ResourceClient) {
		t.Error("client:* should allow client:create")
	}
	if g.Can(ctx, 1, gate.ActionUpdate, gate.ResourceApartment) {
		t.Error("apartment:update was not granted")
	}
	if err := g.Authorize(ctx, 3, gate.ActionList, gate.ResourceClient); err != gate.ErrUnauthorized {
		t.Errorf("user without profile: got %v", err)
	}
	if g.Can(ctx, 0, gate.ActionList, gate.ResourceClient) {
		t.Error("zero user must be denied")
	}
	if g.IsAdmin(ctx, 1) {
		t.Error("sales is not admin")
	}
	if !g.IsAdmin(ctx, 2) {
		t.Error("*:* is admin")
	}
}

func TestStaticProfile_PermissionsIsACopy(t *testing.T) {
	p := gate.NewStaticProfile(1, "viewer", "client:view")
	perms := p.Permissions()
	perms[0] = "*:*"
	if p.HasPermission("apartment:update") {
		t.Fatal("mutating the returned slice changed the profile")
	}
}
