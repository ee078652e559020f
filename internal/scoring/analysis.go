package scoring

import "github.com/ziadkadry99/solution-finder/internal/catalog"

// Analysis explains how one solution relates to a selection. It backs the
// solution detail overlay.
type Analysis struct {
	Solution catalog.Solution `json:"solution"`
	Score    int              `json:"score"`
	// Matches are selected labels the solution covers, in selection order.
	Matches []string `json:"matches"`
	// Misses are selected labels it does not cover, in selection order.
	Misses []string `json:"misses"`
	// Features lists every tag of the solution, resolved to its label when
	// possible and shown as the raw tag otherwise.
	Features []string `json:"features"`
}

// Analyze builds the detail breakdown for a solution.
func Analyze(c *catalog.Catalog, s *catalog.Solution, selection Selection) Analysis {
	a := Analysis{
		Matches:  []string{},
		Misses:   []string{},
		Features: []string{},
	}
	if s == nil {
		return a
	}
	a.Solution = *s
	a.Score = Score(c, s, selection)

	resolved := NewSelection(c.ResolvedLabels(s)...)
	for _, label := range selection {
		if resolved.Has(label) {
			a.Matches = append(a.Matches, label)
		} else {
			a.Misses = append(a.Misses, label)
		}
	}
	for _, tag := range s.Tags {
		if label, ok := c.Label(s.Category, tag); ok {
			a.Features = append(a.Features, label)
		} else {
			a.Features = append(a.Features, tag)
		}
	}
	return a
}
