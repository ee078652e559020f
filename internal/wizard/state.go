package wizard

import (
	"fmt"

	"github.com/ziadkadry99/solution-finder/internal/catalog"
	"github.com/ziadkadry99/solution-finder/internal/scoring"
)

// Step is a wizard page.
type Step int

const (
	StepCategory Step = 1 // choose a business category
	StepFeatures Step = 2 // select needs for the category
	StepResults  Step = 3 // ranked or searched results
)

// Valid reports whether s is one of the three steps.
func (s Step) Valid() bool {
	return s >= StepCategory && s <= StepResults
}

func (s Step) String() string {
	switch s {
	case StepCategory:
		return "category"
	case StepFeatures:
		return "features"
	case StepResults:
		return "results"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// State is the full wizard state of one visitor.
type State struct {
	Step        Step               `json:"step"`
	Category    string             `json:"category,omitempty"`
	Selection   scoring.Selection  `json:"selection"`
	SearchMode  bool               `json:"searchMode"`
	SearchQuery string             `json:"searchQuery,omitempty"`
	ModalOpenID catalog.SolutionID `json:"modalOpenId,omitempty"`
}

// Initial returns the bootstrap state.
func Initial() State {
	return State{Step: StepCategory, Selection: scoring.Selection{}}
}

// Clone returns a copy that shares no slices with s.
func (s State) Clone() State {
	s.Selection = s.Selection.Clone()
	if s.Selection == nil {
		s.Selection = scoring.Selection{}
	}
	return s
}

// Check verifies the state invariants against a catalog. Search mode is an
// overlay on the results step and does not need a category.
func (s State) Check(c *catalog.Catalog) error {
	if !s.Step.Valid() {
		return fmt.Errorf("invalid step %d", s.Step)
	}
	if !s.SearchMode && s.Step >= StepFeatures && s.Category == "" {
		return fmt.Errorf("step %s requires a category", s.Step)
	}
	if s.ModalOpenID != "" {
		if _, err := c.Solution(s.ModalOpenID); err != nil {
			return err
		}
	}
	return nil
}
