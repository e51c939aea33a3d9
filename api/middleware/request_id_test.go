package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRequestIDKeepsWellFormedInboundID(t *testing.T) {
	handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "form-site.42_a")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get(requestIDHeader); got != "form-site.42_a" {
		t.Fatalf("expected inbound id echoed, got %q", got)
	}
}

func TestRequestIDReplacesMalformedInboundID(t *testing.T) {
	handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for _, inbound := range []string{"", "bad id\nforged", strings.Repeat("a", 129)} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestIDHeader, inbound)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		got := rec.Header().Get(requestIDHeader)
		if _, err := uuid.Parse(got); err != nil {
			t.Fatalf("expected minted uuid for %q, got %q", inbound, got)
		}
	}
}
