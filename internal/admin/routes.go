package admin

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/solution-finder/internal/catalog"
)

const maxBody = 10 << 20

// RegisterRoutes mounts the admin endpoints. With an empty token every
// request is refused.
func RegisterRoutes(r chi.Router, p *Publisher, token string) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(requireToken(token))
		r.Get("/catalog", handleGetCatalog(p))
		r.Put("/catalog", handlePutCatalog(p))
	})
}

func requireToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				writeJSON(w, http.StatusForbidden, response{Error: "admin endpoints are disabled"})
				return
			}
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				writeJSON(w, http.StatusUnauthorized, response{Error: "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type response struct {
	Success   bool     `json:"success"`
	Message   string   `json:"message,omitempty"`
	Error     string   `json:"error,omitempty"`
	Receipt   *Receipt `json:"receipt,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"`
}

func handleGetCatalog(p *Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := os.ReadFile(p.Path())
		if errors.Is(err, os.ErrNotExist) {
			writeJSON(w, http.StatusNotFound, response{Error: "no catalog published"})
			return
		}
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, response{Error: err.Error()})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(data)
	}
}

func handlePutCatalog(p *Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, response{Error: "reading body: " + err.Error()})
			return
		}

		receipt, err := p.Publish(r.Context(), data, "admin-api")
		var verr *catalog.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, response{Error: verr.Error()})
			return
		case err != nil:
			writeJSON(w, http.StatusInternalServerError, response{Error: "Internal server error: " + err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, response{
			Success:   true,
			Message:   "Data saved successfully",
			Receipt:   receipt,
			Timestamp: receipt.Timestamp.Format(time.RFC3339),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
