package wizard

import (
	"fmt"

	"github.com/ziadkadry99/solution-finder/internal/catalog"
	"github.com/ziadkadry99/solution-finder/internal/scoring"
	"github.com/ziadkadry99/solution-finder/internal/search"
)

// EmptyResultsNotice is shown when a category has no solutions.
const EmptyResultsNotice = "No matches yet. Try adding or removing needs."

// FeatureOption is one checkbox of the needs page.
type FeatureOption struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// View is everything a renderer needs for the current state. Only the
// fields relevant to the current step are filled.
type View struct {
	State          State             `json:"state"`
	Prompt         string            `json:"prompt"`
	Categories     []string          `json:"categories,omitempty"`
	Features       []FeatureOption   `json:"features,omitempty"`
	Ranked         []scoring.Ranked  `json:"ranked,omitempty"`
	Results        []search.Result   `json:"results,omitempty"`
	CanAdjustNeeds bool              `json:"canAdjustNeeds"`
	Notice         string            `json:"notice,omitempty"`
	Modal          *scoring.Analysis `json:"modal,omitempty"`
}

// Render builds the view of s. Scoring and search run fresh on every call.
func Render(c *catalog.Catalog, s State) View {
	v := View{State: s.Clone(), Prompt: Prompt(s)}

	switch {
	case s.Step == StepCategory:
		v.Categories = c.Categories
	case s.Step == StepFeatures:
		for _, f := range c.FeaturesFor(s.Category) {
			v.Features = append(v.Features, FeatureOption{
				ID:       f.ID,
				Label:    f.Label,
				Selected: s.Selection.Has(f.Label),
			})
		}
	case s.SearchMode:
		v.Results = search.Search(s.SearchQuery, c)
	default:
		v.Ranked = scoring.Rank(c, s.Category, s.Selection)
		v.CanAdjustNeeds = true
		if len(v.Ranked) == 0 {
			v.Notice = EmptyResultsNotice
		}
	}

	if s.ModalOpenID != "" {
		if sol, err := c.Solution(s.ModalOpenID); err == nil {
			a := scoring.Analyze(c, sol, s.Selection)
			v.Modal = &a
		}
	}
	return v
}

// Prompt returns the guidance line shown above the current step.
func Prompt(s State) string {
	switch {
	case s.SearchMode && s.SearchQuery == "":
		return "Type a keyword to search every solution."
	case s.SearchMode:
		return fmt.Sprintf("Solutions mentioning %q (most mentions first).", s.SearchQuery)
	case s.Step == StepCategory:
		return "What type of business are you working with today?"
	case s.Step == StepFeatures:
		category := s.Category
		if category == "" {
			category = "business"
		}
		return fmt.Sprintf("Select the needs/features for this %s.", category)
	default:
		return "Here are your matches (highest score first). Tap a card to see details."
	}
}
