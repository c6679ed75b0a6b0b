package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSONError(t *testing.T) {
	rr := httptest.NewRecorder()
	JSONError(rr, http.StatusConflict, "duplicate_client", map[string]string{"field": "correo_electronico"})
	if rr.Code != http.StatusConflict {
		t.Fatalf("status %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type %q", ct)
	}
	want := `{"error":"duplicate_client","details":{"field":"correo_electronico"}}`
	if rr.Body.String() != want {
		t.Fatalf("body %s", rr.Body.String())
	}
}

func TestJSON_NilPayload(t *testing.T) {
	rr := httptest.NewRecorder()
	JSON(rr, http.StatusOK, nil)
	if rr.Body.String() != "null" {
		t.Fatalf("body %s", rr.Body.String())
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Key string `json:"key"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"key":"valor_total"}`))
	if err := DecodeJSON(r, &dst); err != nil || dst.Key != "valor_total" {
		t.Fatalf("got %v %q", err, dst.Key)
	}
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nope":1}`))
	if err := DecodeJSON(r, &dst); err == nil {
		t.Fatal("unknown field should fail")
	}
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	if err := DecodeJSON(r, &dst); err == nil {
		t.Fatal("empty body should fail")
	}
}
