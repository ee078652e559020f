package session

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/solution-finder/internal/wizard"
)

func setupRouter(t *testing.T) (chi.Router, *Manager, *swapProvider) {
	t.Helper()
	m, p := newManager(t)
	r := chi.NewRouter()
	RegisterRoutes(r, m)
	return r, m, p
}

func createSession(t *testing.T, r http.Handler) string {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/sessions", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body = %s", w.Code, w.Body.String())
	}
	var res Result
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return res.Session.ID
}

func postJSON(r http.Handler, path string, v any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(v)
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHTTPEventFlow(t *testing.T) {
	r, _, _ := setupRouter(t)
	id := createSession(t, r)

	w := postJSON(r, "/api/sessions/"+id+"/events", wizard.ChooseCategory("Retail"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var res Result
	json.NewDecoder(w.Body).Decode(&res)
	if res.Directive.Op != DirectivePush || res.Directive.Entry == nil || res.Directive.Entry.Step != wizard.StepFeatures {
		t.Errorf("directive = %+v, want push of step 2", res.Directive)
	}

	w = postJSON(r, "/api/sessions/"+id+"/navigate", NavigateRequest{Direction: Back})
	if w.Code != http.StatusOK {
		t.Fatalf("navigate status = %d", w.Code)
	}
	json.NewDecoder(w.Body).Decode(&res)
	if res.Session.State.Step != wizard.StepCategory {
		t.Errorf("step = %d, want 1", res.Session.State.Step)
	}
}

func TestHTTPErrors(t *testing.T) {
	r, _, _ := setupRouter(t)
	id := createSession(t, r)

	tests := []struct {
		name string
		path string
		body any
		want int
	}{
		{"invalid transition", "/api/sessions/" + id + "/events", wizard.ToStep3(), http.StatusBadRequest},
		{"unknown category", "/api/sessions/" + id + "/events", wizard.ChooseCategory("Garage"), http.StatusBadRequest},
		{"unknown solution", "/api/sessions/" + id + "/events", wizard.OpenModal("nope"), http.StatusBadRequest},
		{"unknown event", "/api/sessions/" + id + "/events", map[string]string{"type": "dance"}, http.StatusBadRequest},
		{"no history", "/api/sessions/" + id + "/navigate", NavigateRequest{Direction: Back}, http.StatusBadRequest},
		{"unknown session", "/api/sessions/missing/events", wizard.Reset(), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(r, tt.path, tt.body)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestHTTPBadBody(t *testing.T) {
	r, _, _ := setupRouter(t)
	id := createSession(t, r)

	req := httptest.NewRequest("POST", "/api/sessions/"+id+"/events", strings.NewReader("{"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHTTPCatalogUnavailable(t *testing.T) {
	r, _, p := setupRouter(t)
	p.set(nil)

	req := httptest.NewRequest("POST", "/api/sessions", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	if !strings.Contains(w.Body.String(), "catalog not loaded") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestHTTPGetAndDelete(t *testing.T) {
	r, _, _ := setupRouter(t)
	id := createSession(t, r)

	req := httptest.NewRequest("GET", "/api/sessions/"+id, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}

	req = httptest.NewRequest("DELETE", "/api/sessions/"+id, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/sessions/"+id, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", w.Code)
	}
}

func TestWebSocketStreamsViews(t *testing.T) {
	r, _, _ := setupRouter(t)
	server := httptest.NewServer(r)
	defer server.Close()

	id := createSession(t, r)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/sessions/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if msg.View == nil || msg.View.State.Step != wizard.StepCategory {
		t.Fatalf("initial message = %+v", msg)
	}

	if w := postJSON(r, "/api/sessions/"+id+"/events", wizard.ChooseCategory("Retail")); w.Code != http.StatusOK {
		t.Fatalf("event status = %d", w.Code)
	}

	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read update: %v", err)
	}
	if msg.View == nil || msg.View.State.Category != "Retail" {
		t.Errorf("update = %+v", msg)
	}
}

func TestWebSocketUnknownSession(t *testing.T) {
	r, _, _ := setupRouter(t)
	server := httptest.NewServer(r)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/sessions/missing/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 response, got %+v", resp)
	}
}

func TestWebSocketEndsWhenSessionDeleted(t *testing.T) {
	r, _, _ := setupRouter(t)
	server := httptest.NewServer(r)
	defer server.Close()

	id := createSession(t, r)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/sessions/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read initial: %v", err)
	}

	req := httptest.NewRequest("DELETE", "/api/sessions/"+id, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}

	msg = Message{}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read closed: %v", err)
	}
	if msg.Type != "closed" || msg.SessionID != id {
		t.Fatalf("message = %+v, want closed", msg)
	}

	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("after closed: err = %v, want normal close", err)
	}
}
