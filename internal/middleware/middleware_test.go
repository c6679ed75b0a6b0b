package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/diewo77/salescrm/i18n"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(http.NotFoundHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "SAMEORIGIN", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "max-age=63072000; includeSubDomains; preload", rr.Header().Get("Strict-Transport-Security"))
	assert.Equal(t, "origin-when-cross-origin", rr.Header().Get("Referrer-Policy"))
	assert.Equal(t, "on", rr.Header().Get("X-DNS-Prefetch-Control"))
}

func TestPrefs(t *testing.T) {
	var got string
	h := Prefs(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = i18n.LangFrom(r.Context())
	}))

	cases := []struct {
		name   string
		target string
		cookie string
		accept string
		want   string
	}{
		{"default", "/", "", "", "es"},
		{"header", "/", "", "en-US,en;q=0.9", "en"},
		{"cookie beats header", "/", "es", "en", "es"},
		{"query beats cookie", "/?lang=en", "es", "", "en"},
		{"unsupported query ignored", "/?lang=de", "", "", "es"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "lang", Value: tc.cookie})
			}
			if tc.accept != "" {
				req.Header.Set("Accept-Language", tc.accept)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAccessLog(t *testing.T) {
	logger, hook := test.NewNullLogger()
	h := AccessLog(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/table/page", nil))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, http.StatusTeapot, entry.Data["status"])
	assert.Equal(t, "/api/table/page", entry.Data["path"])
	assert.Equal(t, http.MethodPost, entry.Data["method"])
}

func TestRecover(t *testing.T) {
	logger, hook := test.NewNullLogger()
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }), Recover(logger))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}
