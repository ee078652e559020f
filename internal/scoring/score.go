package scoring

import (
	"math"
	"sort"

	"github.com/ziadkadry99/solution-finder/internal/catalog"
)

// Ranked is a solution with its match percentage.
type Ranked struct {
	Solution catalog.Solution `json:"solution"`
	Score    int              `json:"score"`
}

// Score returns the percentage of selected labels that the solution's
// resolved tags cover, rounded to the nearest integer. An empty selection
// scores 100. Tags that do not resolve in the solution's category are
// ignored.
func Score(c *catalog.Catalog, s *catalog.Solution, selection Selection) int {
	if len(selection) == 0 {
		return 100
	}
	if s == nil {
		return 0
	}
	covered := make(map[string]bool)
	for _, label := range c.ResolvedLabels(s) {
		if selection.Has(label) {
			covered[label] = true
		}
	}
	return int(math.Round(100 * float64(len(covered)) / float64(len(selection))))
}

// Rank scores every solution of a category and orders them by score,
// highest first. Equal scores keep catalog order.
func Rank(c *catalog.Catalog, category string, selection Selection) []Ranked {
	pool := c.SolutionsIn(category)
	ranked := make([]Ranked, 0, len(pool))
	for i := range pool {
		ranked = append(ranked, Ranked{Solution: pool[i], Score: Score(c, &pool[i], selection)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
