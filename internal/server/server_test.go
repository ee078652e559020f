package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ziadkadry99/solution-finder/internal/catalog"
	"github.com/ziadkadry99/solution-finder/internal/catalog/catalogtest"
	"github.com/ziadkadry99/solution-finder/internal/db"
)

func setupServer(t *testing.T, cfg Config, provider catalog.Provider) *Server {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return New(cfg, database, provider, nil)
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name     string
		provider catalog.Provider
		want     string
	}{
		{"loaded", catalog.Static{Catalog: catalogtest.Retail()}, "loaded"},
		{"unavailable", catalog.Static{}, "unavailable"},
		{"none", nil, "none"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := setupServer(t, Config{Port: 0}, tt.provider)

			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()
			srv.Router().ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}

			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if body["status"] != "ok" {
				t.Errorf("expected status 'ok', got %q", body["status"])
			}
			if body["catalog"] != tt.want {
				t.Errorf("expected catalog %q, got %q", tt.want, body["catalog"])
			}
		})
	}
}

func TestHealthCheckDatabaseDown(t *testing.T) {
	srv := setupServer(t, Config{}, catalog.Static{Catalog: catalogtest.Retail()})
	srv.db.Close()

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "degraded" {
		t.Errorf("expected status 'degraded', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := setupServer(t, Config{Port: 0, AllowAll: true}, nil)

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestCORSAllowedOrigins(t *testing.T) {
	srv := setupServer(t, Config{AllowedOrigins: []string{"https://shop.example"}}, nil)

	for origin, want := range map[string]bool{
		"https://shop.example":  true,
		"https://other.example": false,
	} {
		req := httptest.NewRequest("OPTIONS", "/healthz", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", "GET")
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, req)

		got := w.Header().Get("Access-Control-Allow-Origin") != ""
		if got != want {
			t.Errorf("origin %s: allowed = %v, want %v", origin, got, want)
		}
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	// Grab a free port.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()

	srv := setupServer(t, Config{Port: port}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
