package control

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/small-frappuccino/discordpager/pkg/storage"
)

func newTestServer(t *testing.T) (*Server, storage.DeckStore) {
	t.Helper()
	store, err := storage.Open(storage.DriverBolt, filepath.Join(t.TempDir(), "decks.bolt"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	srv := NewServer("127.0.0.1:0", store)
	if srv == nil {
		t.Fatalf("expected server")
	}
	return srv, store
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewServerDisabled(t *testing.T) {
	if NewServer("  ", nil) != nil {
		t.Fatalf("empty addr should disable the server")
	}
	var s *Server
	if err := s.Start(); err != nil {
		t.Fatalf("nil Start: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("nil Stop: %v", err)
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv.Handler(), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestDeckCRUD(t *testing.T) {
	srv, store := newTestServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodPut, "/v1/guilds/g1/decks/Rules", `{"pages":[{"title":"One"},{"title":"Two"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put = %d %s", rec.Code, rec.Body.String())
	}
	var sum storage.DeckSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if sum.Name != "rules" || sum.PageCount != 2 {
		t.Fatalf("unexpected summary %+v", sum)
	}

	d, err := store.GetDeck("g1", "rules")
	if err != nil || d == nil || d.Pages[1].Title != "Two" {
		t.Fatalf("deck not stored: %+v, %v", d, err)
	}

	rec = do(t, h, http.MethodGet, "/v1/guilds/g1/decks/", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"name":"rules"`) {
		t.Fatalf("list = %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/v1/guilds/g1/decks/rules", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"title":"One"`) {
		t.Fatalf("get = %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodDelete, "/v1/guilds/g1/decks/rules", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", rec.Code)
	}
	rec = do(t, h, http.MethodDelete, "/v1/guilds/g1/decks/rules", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete = %d", rec.Code)
	}
	rec = do(t, h, http.MethodGet, "/v1/guilds/g1/decks/rules", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete = %d", rec.Code)
	}
}

func TestListEmptyGuild(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv.Handler(), http.MethodGet, "/v1/guilds/nobody/decks/", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"decks":[]}` {
		t.Fatalf("list = %d %q", rec.Code, rec.Body.String())
	}
}

func TestPutDeckRejectsBadInput(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "malformed json", path: "/v1/guilds/g1/decks/a", body: `{"pages":`},
		{name: "no pages", path: "/v1/guilds/g1/decks/a", body: `{"pages":[]}`},
		{name: "long name", path: "/v1/guilds/g1/decks/" + strings.Repeat("n", storage.MaxDeckNameLen+1), body: `{"pages":[{"title":"x"}]}`},
		{name: "oversized body", path: "/v1/guilds/g1/decks/a", body: `{"pages":[{"title":"` + strings.Repeat("x", defaultMaxBodyBytes) + `"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPut, tt.path, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (%s)", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestStartStop(t *testing.T) {
	srv, _ := newTestServer(t)
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	resp, err := http.Get("http://" + srv.Addr() + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if err := srv.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
}
