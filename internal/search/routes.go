package search

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/solution-finder/internal/catalog"
)

// RegisterRoutes mounts the stateless keyword search endpoint.
func RegisterRoutes(r chi.Router, provider catalog.Provider) {
	r.Get("/api/search", handleSearch(provider))
}

func handleSearch(provider catalog.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := provider.Current()
		if err != nil {
			catalog.WriteUnavailable(w, err)
			return
		}

		results := Search(r.URL.Query().Get("q"), c)
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 && n < len(results) {
				results = results[:n]
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(results)
	}
}
