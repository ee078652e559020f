package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownSolution is returned when a solution id does not resolve.
var ErrUnknownSolution = errors.New("unknown solution")

// Parse decodes a catalog document and builds its lookup indexes.
// The schema is trusted; only JSON syntax errors are reported.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	c.index()
	return &c, nil
}

// New builds a catalog from already decoded parts.
func New(categories []string, features map[string][]Feature, solutions []Solution) *Catalog {
	c := &Catalog{Categories: categories, Features: features, Solutions: solutions}
	c.index()
	return c
}

func (c *Catalog) index() {
	c.labels = make(map[string]map[string]string, len(c.Features))
	for category, features := range c.Features {
		m := make(map[string]string, len(features))
		for _, f := range features {
			m[f.ID] = f.Label
		}
		c.labels[category] = m
	}
	c.byID = make(map[SolutionID]int, len(c.Solutions))
	for i, s := range c.Solutions {
		if _, dup := c.byID[s.ID]; !dup {
			c.byID[s.ID] = i
		}
	}
}

// HasCategory reports whether name is one of the catalog's categories.
func (c *Catalog) HasCategory(name string) bool {
	if c == nil {
		return false
	}
	for _, cat := range c.Categories {
		if cat == name {
			return true
		}
	}
	return false
}

// FeaturesFor returns the ordered feature vocabulary of a category.
func (c *Catalog) FeaturesFor(category string) []Feature {
	if c == nil {
		return nil
	}
	return c.Features[category]
}

// FeatureLabels returns the labels of a category's features in order.
func (c *Catalog) FeatureLabels(category string) []string {
	features := c.FeaturesFor(category)
	labels := make([]string, 0, len(features))
	for _, f := range features {
		labels = append(labels, f.Label)
	}
	return labels
}

// Label resolves a feature id within a category. ok is false for
// unresolvable tags.
func (c *Catalog) Label(category, featureID string) (label string, ok bool) {
	if c == nil {
		return "", false
	}
	if c.labels == nil {
		for _, f := range c.Features[category] {
			if f.ID == featureID && f.Label != "" {
				return f.Label, true
			}
		}
		return "", false
	}
	label, ok = c.labels[category][featureID]
	return label, ok && label != ""
}

// ResolvedLabels returns the labels of a solution's tags that resolve in
// its category's vocabulary, in tag order. Unresolvable tags are dropped.
func (c *Catalog) ResolvedLabels(s *Solution) []string {
	if s == nil {
		return nil
	}
	var out []string
	for _, tag := range s.Tags {
		if label, ok := c.Label(s.Category, tag); ok {
			out = append(out, label)
		}
	}
	return out
}

// SolutionsIn returns the solutions of one category in catalog order.
func (c *Catalog) SolutionsIn(category string) []Solution {
	if c == nil {
		return nil
	}
	var out []Solution
	for _, s := range c.Solutions {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out
}

// Solution looks up a solution by id.
func (c *Catalog) Solution(id SolutionID) (*Solution, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSolution, id)
	}
	if c.byID == nil {
		for i := range c.Solutions {
			if c.Solutions[i].ID == id {
				return &c.Solutions[i], nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownSolution, id)
	}
	i, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSolution, id)
	}
	return &c.Solutions[i], nil
}
