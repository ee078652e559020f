package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SolutionID identifies a solution. Catalog files carry ids either as JSON
// strings or as bare numbers; both decode to the same string form.
type SolutionID string

// UnmarshalJSON accepts a JSON string or number.
func (id *SolutionID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return fmt.Errorf("decoding solution id: %w", err)
		}
		*id = SolutionID(str)
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("solution id must be a string or number, got %s", s)
	}
	*id = SolutionID(s)
	return nil
}

// Feature is a need/capability within a category.
type Feature struct {
	ID    string `json:"id" validate:"required"`
	Label string `json:"label" validate:"required"`
}

// Links holds optional external pages for a solution.
type Links struct {
	Product   string `json:"product,omitempty"`
	Paperwork string `json:"paperwork,omitempty"`
}

// SpecialBlock is a free-form highlight attached to a solution.
type SpecialBlock struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Link        string `json:"link,omitempty"`
}

// Solution is a catalog entry tagged with feature ids.
type Solution struct {
	ID            SolutionID     `json:"id" validate:"required"`
	Name          string         `json:"name" validate:"required"`
	Category      string         `json:"category" validate:"required"`
	Summary       string         `json:"summary"`
	Tags          []string       `json:"tags"`
	Links         *Links         `json:"links,omitempty"`
	SpecialBlocks []SpecialBlock `json:"specialBlocks,omitempty"`
	Details       []string       `json:"details,omitempty"`
}

// Catalog is the full dataset. It is never mutated after Parse.
type Catalog struct {
	Categories []string             `json:"categories" validate:"required"`
	Features   map[string][]Feature `json:"features" validate:"required,dive,dive"`
	Solutions  []Solution           `json:"solutions" validate:"required,dive"`

	labels map[string]map[string]string
	byID   map[SolutionID]int
}
