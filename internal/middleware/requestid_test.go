package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestRequestIDEchoesInboundID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "client-supplied-id")
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	if seen != "client-supplied-id" {
		t.Fatalf("expected handler to see inbound id, got %q", seen)
	}
	if got := resp.Header().Get(HeaderRequestID); got != "client-supplied-id" {
		t.Fatalf("expected inbound id echoed unchanged, got %q", got)
	}
}

func TestRequestIDMintsWhenAbsent(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	if seen == "" {
		t.Fatal("expected a minted request id")
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("minted id is not a uuid: %v", err)
	}
	if got := resp.Header().Get(HeaderRequestID); got != seen {
		t.Fatalf("expected response header %q, got %q", seen, got)
	}
}

func TestRequestIDDoesNotLeakAcrossRequests(t *testing.T) {
	ids := make([]string, 0, 2)
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, RequestIDFromContext(r.Context()))
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	if len(ids) != 2 || ids[0] == ids[1] {
		t.Fatalf("expected distinct ids per request, got %v", ids)
	}
}

func TestRequestIDFromContextOutsideRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := RequestIDFromContext(req.Context()); got != "" {
		t.Fatalf("expected empty id outside the middleware, got %q", got)
	}
}
