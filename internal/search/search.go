// Package search implements keyword search over a solution catalog.
//
// Matching is case-insensitive substring counting: a solution's match count
// is the number of non-overlapping occurrences of the query across its name,
// summary, detail lines, resolved feature labels and special blocks.
package search

import (
	"sort"
	"strings"

	"github.com/ziadkadry99/solution-finder/internal/catalog"
)

// Field names reported in Hit.
const (
	FieldName         = "name"
	FieldSummary      = "summary"
	FieldDetail       = "detail"
	FieldFeature      = "feature"
	FieldSpecialBlock = "special_block"
)

// Hit records how often the query occurred in one field of a solution.
type Hit struct {
	Field string `json:"field"`
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// Result is a solution that matched the query at least once.
type Result struct {
	Solution   catalog.Solution `json:"solution"`
	MatchCount int              `json:"matchCount"`
	Hits       []Hit            `json:"hits,omitempty"`
}

// Normalize trims and lower-cases a raw query.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// CountOccurrences counts non-overlapping occurrences of needle in the
// lower-cased text. needle must already be normalized. An empty needle
// never matches.
func CountOccurrences(text, needle string) int {
	if needle == "" || text == "" {
		return 0
	}
	return strings.Count(strings.ToLower(text), needle)
}

// Search returns every solution whose match count is positive, highest
// count first, ties in catalog order. A blank query or a nil catalog yields
// no results.
func Search(query string, c *catalog.Catalog) []Result {
	q := Normalize(query)
	if q == "" || c == nil {
		return []Result{}
	}

	results := []Result{}
	for i := range c.Solutions {
		s := &c.Solutions[i]
		hits := Match(c, s, q)
		total := 0
		for _, h := range hits {
			total += h.Count
		}
		if total > 0 {
			results = append(results, Result{Solution: *s, MatchCount: total, Hits: hits})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchCount > results[j].MatchCount
	})
	return results
}

// Match returns the per-field hits of a normalized query against one
// solution. Fields with no occurrence are omitted.
func Match(c *catalog.Catalog, s *catalog.Solution, q string) []Hit {
	if s == nil || q == "" {
		return nil
	}
	var hits []Hit
	add := func(field, text string) {
		if n := CountOccurrences(text, q); n > 0 {
			hits = append(hits, Hit{Field: field, Text: text, Count: n})
		}
	}

	add(FieldName, s.Name)
	add(FieldSummary, s.Summary)
	for _, line := range s.Details {
		add(FieldDetail, line)
	}
	for _, label := range c.ResolvedLabels(s) {
		add(FieldFeature, label)
	}
	for _, b := range s.SpecialBlocks {
		add(FieldSpecialBlock, b.Name+" "+b.Description)
	}
	return hits
}
