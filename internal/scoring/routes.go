package scoring

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/solution-finder/internal/catalog"
)

// RankRequest is the body of POST /api/rank.
type RankRequest struct {
	Category string   `json:"category"`
	Features []string `json:"features"`
}

// RegisterRoutes mounts the stateless ranking endpoint.
func RegisterRoutes(r chi.Router, provider catalog.Provider) {
	r.Post("/api/rank", handleRank(provider))
}

func handleRank(provider catalog.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := provider.Current()
		if err != nil {
			catalog.WriteUnavailable(w, err)
			return
		}

		var req RankRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if !c.HasCategory(req.Category) {
			http.Error(w, "unknown category", http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusOK, Rank(c, req.Category, NewSelection(req.Features...)))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
