package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/solution-finder/internal/db"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestLogAndGetByID(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	entry := Entry{
		ID:            "test-1",
		Actor:         "alice",
		Action:        ActionCatalogPublished,
		Summary:       "Published 12 solutions",
		Detail:        "categories: Retail, Restaurant",
		CatalogDigest: "abc123",
	}
	if err := store.Log(ctx, entry); err != nil {
		t.Fatalf("Log: %v", err)
	}

	got, err := store.GetByID(ctx, "test-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Actor != "alice" {
		t.Errorf("Actor = %q, want %q", got.Actor, "alice")
	}
	if got.Action != ActionCatalogPublished {
		t.Errorf("Action = %q, want %q", got.Action, ActionCatalogPublished)
	}
	if got.Summary != "Published 12 solutions" {
		t.Errorf("Summary = %q", got.Summary)
	}
	if got.CatalogDigest != "abc123" {
		t.Errorf("CatalogDigest = %q, want %q", got.CatalogDigest, "abc123")
	}
	if got.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestLogDefaults(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if err := store.Log(ctx, Entry{Action: ActionVersionChanged, Summary: "1.0 -> 1.1"}); err != nil {
		t.Fatalf("Log: %v", err)
	}

	entries, err := store.Query(ctx, QueryFilter{Actor: "system"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].ID == "" {
		t.Error("expected generated ID, got empty string")
	}
	if entries[0].CatalogDigest != "" {
		t.Errorf("CatalogDigest = %q, want empty", entries[0].CatalogDigest)
	}
}

func TestLogRejectsUnknownAction(t *testing.T) {
	store := setupStore(t)
	if err := store.Log(context.Background(), Entry{Action: "doc_created"}); err == nil {
		t.Error("expected error for unknown action")
	}
}

func TestQueryFilterByActor(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for _, actor := range []string{"alice", "bob", "alice"} {
		if err := store.Log(ctx, Entry{Actor: actor, Action: ActionPreviewEnabled}); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	entries, err := store.Query(ctx, QueryFilter{Actor: "alice"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries for alice, got %d", len(entries))
	}
}

func TestQueryFilterByAction(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	actions := []Action{ActionPreviewEnabled, ActionPreviewDisabled, ActionPreviewEnabled}
	for _, a := range actions {
		if err := store.Log(ctx, Entry{Actor: "alice", Action: a}); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	entries, err := store.Query(ctx, QueryFilter{Action: ActionPreviewEnabled})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 preview_enabled entries, got %d", len(entries))
	}
}

func TestQueryNewestFirst(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := store.Log(ctx, Entry{ID: id, Action: ActionCatalogPublished}); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	entries, err := store.Query(ctx, QueryFilter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 3 || entries[0].ID != "c" || entries[2].ID != "a" {
		t.Errorf("unexpected order: %+v", entries)
	}
}

func TestQueryLimitOffset(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := store.Log(ctx, Entry{Action: ActionCatalogPublished}); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	entries, err := store.Query(ctx, QueryFilter{Limit: 2})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries with limit, got %d", len(entries))
	}

	entries, err = store.Query(ctx, QueryFilter{Limit: 2, Offset: 3})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries with offset, got %d", len(entries))
	}

	entries, err = store.Query(ctx, QueryFilter{Offset: 4})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry with offset only, got %d", len(entries))
	}
}

func TestDeleteBefore(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := store.Log(ctx, Entry{Action: ActionPreviewDiscarded}); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	deleted, err := store.DeleteBefore(ctx, time.Now().Add(24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if deleted != 3 {
		t.Errorf("expected 3 deleted, got %d", deleted)
	}

	entries, err := store.Query(ctx, QueryFilter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected 0 remaining entries, got %d", len(entries))
	}
}

func TestGetByIDNotFound(t *testing.T) {
	store := setupStore(t)
	if _, err := store.GetByID(context.Background(), "nonexistent"); err == nil {
		t.Error("expected error for nonexistent ID, got nil")
	}
}

// --- HTTP handler tests ---

func setupRouter(t *testing.T) (chi.Router, *Store) {
	t.Helper()
	store := setupStore(t)
	r := chi.NewRouter()
	RegisterRoutes(r, store)
	return r, store
}

func TestHTTPGetByID(t *testing.T) {
	r, store := setupRouter(t)

	if err := store.Log(context.Background(), Entry{ID: "http-1", Actor: "alice", Action: ActionPreviewEnabled}); err != nil {
		t.Fatalf("Log: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/audit/http-1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var got Entry
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "http-1" || got.Actor != "alice" {
		t.Errorf("got %+v", got)
	}
}

func TestHTTPGetByIDNotFound(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/audit/missing", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHTTPQueryWithFilter(t *testing.T) {
	r, store := setupRouter(t)
	ctx := context.Background()

	for _, actor := range []string{"alice", "bob", "alice"} {
		if err := store.Log(ctx, Entry{Actor: actor, Action: ActionCatalogPublished}); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/audit?actor=alice&limit=10", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var entries []Entry
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries for alice, got %d", len(entries))
	}
}

func TestHTTPQueryEmpty(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/audit", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Errorf("body = %q, want %q", got, "[]\n")
	}
}
