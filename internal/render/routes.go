package render

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/solution-finder/internal/catalog"
	"github.com/ziadkadry99/solution-finder/internal/scoring"
)

// RegisterRoutes mounts the solution detail endpoint. The selection is
// passed as ?features=Label1,Label2 and format may be json (default),
// markdown or html.
func RegisterRoutes(r chi.Router, provider catalog.Provider) {
	r.Get("/api/solutions/{id}", handleDetail(provider))
}

func handleDetail(provider catalog.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := provider.Current()
		if err != nil {
			catalog.WriteUnavailable(w, err)
			return
		}

		sol, err := c.Solution(catalog.SolutionID(chi.URLParam(r, "id")))
		if errors.Is(err, catalog.ErrUnknownSolution) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		var labels []string
		if v := r.URL.Query().Get("features"); v != "" {
			for _, l := range strings.Split(v, ",") {
				if l = strings.TrimSpace(l); l != "" {
					labels = append(labels, l)
				}
			}
		}
		a := scoring.Analyze(c, sol, scoring.NewSelection(labels...))

		switch r.URL.Query().Get("format") {
		case "", "json":
			writeJSON(w, http.StatusOK, a)
		case "markdown", "md":
			w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
			w.Write([]byte(Markdown(a)))
		case "html":
			out, err := HTML(a)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(out))
		default:
			http.Error(w, "format must be json, markdown or html", http.StatusBadRequest)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
