package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ziadkadry99/solution-finder/internal/catalog"
	"github.com/ziadkadry99/solution-finder/internal/wizard"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RegisterRoutes mounts session endpoints under /api/sessions.
func RegisterRoutes(r chi.Router, m *Manager) {
	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", handleCreate(m))
		r.Get("/{id}", handleGet(m))
		r.Delete("/{id}", handleDelete(m))
		r.Post("/{id}/events", handleEvent(m))
		r.Post("/{id}/navigate", handleNavigate(m))
		r.Get("/{id}/ws", handleWebSocket(m))
	})
}

func handleCreate(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := m.Create(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

func handleGet(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := m.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func handleDelete(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := m.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleEvent(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ev wizard.Event
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		res, err := m.Dispatch(r.Context(), chi.URLParam(r, "id"), ev)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func handleNavigate(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req NavigateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		res, err := m.Navigate(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// handleWebSocket streams the session's views: the current one on connect,
// then one per change. A "closed" message ends the stream.
func handleWebSocket(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if m.Hub() == nil {
			http.Error(w, "live updates disabled", http.StatusNotImplemented)
			return
		}

		// Subscribe before reading the view so no change falls between them.
		updates, cancel := m.Hub().Subscribe(id)
		defer cancel()

		view, err := m.View(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			m.logger.Warn("websocket upgrade", zap.Error(err))
			return
		}
		defer conn.Close()

		if err := conn.WriteJSON(Message{Type: "view", SessionID: id, View: &view}); err != nil {
			return
		}

		// The client sends nothing; reading only detects the close.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
						m.logger.Debug("websocket read", zap.Error(err))
					}
					return
				}
			}
		}()

		for {
			select {
			case <-closed:
				return
			case data := <-updates:
				conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					return
				}
				var head struct {
					Type string `json:"type"`
				}
				if json.Unmarshal(data, &head) == nil && head.Type == "closed" {
					conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session deleted"),
						time.Now().Add(time.Second))
					return
				}
			}
		}
	}
}

func writeError(w http.ResponseWriter, err error) {
	var unavailable unavailableError
	switch {
	case errors.As(err, &unavailable):
		catalog.WriteUnavailable(w, unavailable.err)
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, wizard.ErrInvalidTransition),
		errors.Is(err, wizard.ErrUnknownCategory),
		errors.Is(err, wizard.ErrUnknownEvent),
		errors.Is(err, catalog.ErrUnknownSolution),
		errors.Is(err, ErrNoHistory),
		errors.Is(err, ErrUnknownDirection):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
