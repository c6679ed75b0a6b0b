package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func sessionCookie(t *testing.T, uid uint) *http.Cookie {
	t.Helper()
	rr := httptest.NewRecorder()
	CreateSession(rr, uid)
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func TestParseSession_RoundTrip(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookie(t, 42))
	uid, ok := ParseSession(req)
	if !ok || uid != 42 {
		t.Fatalf("got %d %v", uid, ok)
	}
}

func TestParseSession_RejectsTampering(t *testing.T) {
	c := sessionCookie(t, 42)
	c.Value = "43" + c.Value[2:]
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	if _, ok := ParseSession(req); ok {
		t.Fatal("tampered cookie accepted")
	}
}

func TestRequireAuth(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := Middleware(RequireAuth(ok))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/table", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/table", nil)
	req.AddCookie(sessionCookie(t, 7))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("logged in: %d", rr.Code)
	}

	SetUserVerifier(func(ctx context.Context, uid uint) bool { return uid != 7 })
	defer SetUserVerifier(nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("deleted user: %d", rr.Code)
	}
}
