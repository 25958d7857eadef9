package profile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/komantuhamid/mintracoo-sub000/internal/apperr"
)

func TestResolveNormalizesFirstUser(t *testing.T) {
	var gotKey, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"users":[{"fid":3,"username":"alice","pfp_url":"https://x/y.png"}]}`))
	}))
	defer srv.Close()

	r := NewResolver("neynar-key")
	r.Endpoint = srv.URL

	p, err := r.Resolve(context.Background(), 3)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.PfpURL != "https://x/y.png" || p.Username != "alice" || p.FID != 3 {
		t.Fatalf("unexpected profile %+v", p)
	}
	if p.DisplayName != "" {
		t.Fatalf("expected empty display name, got %q", p.DisplayName)
	}
	if gotKey != "neynar-key" {
		t.Fatalf("api key header not sent, got %q", gotKey)
	}
	if gotQuery != "fids=3" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
}

func TestResolveNestedDisplayName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"users":[{"fid":7,"username":"bob","pfp_url":"https://x/b.png","profile":{"display_name":"Bob B"}}]}`))
	}))
	defer srv.Close()

	r := NewResolver("neynar-key")
	r.Endpoint = srv.URL

	p, err := r.Resolve(context.Background(), 7)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.DisplayName != "Bob B" {
		t.Fatalf("expected nested display name, got %q", p.DisplayName)
	}
}

func TestResolveInvalidFIDSkipsNetwork(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	r := NewResolver("neynar-key")
	r.Endpoint = srv.URL

	_, err := r.Resolve(context.Background(), 0)
	if apperr.From(err).Kind != apperr.KindBadInput {
		t.Fatalf("expected bad input, got %v", err)
	}
	if hits != 0 {
		t.Fatalf("expected no network call, got %d", hits)
	}
}

func TestResolveUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	r := NewResolver("bad-key")
	r.Endpoint = srv.URL

	_, err := r.Resolve(context.Background(), 3)
	if apperr.From(err).Kind != apperr.KindAuth {
		t.Fatalf("expected auth kind, got %v", err)
	}
}

func TestResolveEmptyUserList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"users":[]}`))
	}))
	defer srv.Close()

	r := NewResolver("neynar-key")
	r.Endpoint = srv.URL

	_, err := r.Resolve(context.Background(), 999)
	if apperr.From(err).Kind != apperr.KindBadUpstream {
		t.Fatalf("expected bad upstream kind, got %v", err)
	}
}
