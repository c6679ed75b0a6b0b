package gate

import "strings"

// Permission is an allowed action on a resource type, written "resource:action"
// (for example "client:create" or "apartment:export").
type Permission string

// Wildcards for super permissions.
const (
	WildcardAll          = "*"
	PermissionSuperAdmin Permission = "*:*"
)

// NewPermission creates a permission from resource type and action.
func NewPermission(resourceType string, action Action) Permission {
	return Permission(resourceType + ":" + string(action))
}

// ParsePermission reads a "resource:action" code. ok is false when the code has
// no separator or an empty side.
func ParsePermission(code string) (Permission, bool) {
	p := Permission(strings.TrimSpace(code))
	res, act := p.Parse()
	if res == "" || act == "" {
		return "", false
	}
	return p, true
}

// Parse splits a permission into resource type and action.
func (p Permission) Parse() (resourceType string, action Action) {
	res, act, ok := strings.Cut(string(p), ":")
	if !ok {
		return "", ""
	}
	return res, Action(act)
}

// Matches reports whether p grants requested. "*:*" grants everything and
// "client:*" grants every client action.
func (p Permission) Matches(requested Permission) bool {
	if p == PermissionSuperAdmin || p == requested {
		return true
	}
	res, act := p.Parse()
	reqRes, _ := requested.Parse()
	return res == reqRes && string(act) == WildcardAll
}
