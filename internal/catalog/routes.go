package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts read-only catalog endpoints under /api/catalog.
func RegisterRoutes(r chi.Router, provider Provider) {
	r.Route("/api/catalog", func(r chi.Router) {
		r.Get("/", handleGetCatalog(provider))
		r.Get("/categories", handleListCategories(provider))
		r.Get("/categories/{category}/features", handleListFeatures(provider))
	})
}

func handleGetCatalog(provider Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := provider.Current()
		if err != nil {
			WriteUnavailable(w, err)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, c)
	}
}

func handleListCategories(provider Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := provider.Current()
		if err != nil {
			WriteUnavailable(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c.Categories)
	}
}

func handleListFeatures(provider Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := provider.Current()
		if err != nil {
			WriteUnavailable(w, err)
			return
		}
		category := chi.URLParam(r, "category")
		if !c.HasCategory(category) {
			http.Error(w, "unknown category", http.StatusNotFound)
			return
		}
		features := c.FeaturesFor(category)
		if features == nil {
			features = []Feature{}
		}
		writeJSON(w, http.StatusOK, features)
	}
}

// WriteUnavailable reports a missing catalog as a single recoverable notice.
func WriteUnavailable(w http.ResponseWriter, err error) {
	msg := ErrNotLoaded.Error()
	if err != nil && err != ErrNotLoaded {
		msg = err.Error()
	}
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
