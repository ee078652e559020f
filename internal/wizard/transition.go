package wizard

import (
	"errors"
	"fmt"

	"github.com/ziadkadry99/solution-finder/internal/catalog"
	"github.com/ziadkadry99/solution-finder/internal/scoring"
)

var (
	// ErrInvalidTransition is returned for events that are not allowed in
	// the current state. The state is left unchanged.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrUnknownCategory is returned when a category is not in the catalog.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrUnknownEvent is returned for unrecognised event types.
	ErrUnknownEvent = errors.New("unknown event")
)

// stepMoves lists the plain guided-mode page moves as from -> to.
var stepMoves = map[EventType]struct{ from, to Step }{
	EventBackToStep1: {StepFeatures, StepCategory},
	EventToStep3:     {StepFeatures, StepResults},
	EventBackToStep2: {StepResults, StepFeatures},
	EventAdjustNeeds: {StepResults, StepFeatures},
}

// Transition applies ev to s and returns the next state. It is pure: s is
// never modified and the same inputs always give the same output. On error
// the returned state equals s.
func Transition(c *catalog.Catalog, s State, ev Event) (State, error) {
	next := s.Clone()

	if move, ok := stepMoves[ev.Type]; ok {
		if s.SearchMode || s.Step != move.from {
			return s, invalid(s, ev)
		}
		next.Step = move.to
		return next, nil
	}

	switch ev.Type {
	case EventChooseCategory:
		if s.SearchMode || s.Step != StepCategory {
			return s, invalid(s, ev)
		}
		if ev.Category == "" || !c.HasCategory(ev.Category) {
			return s, fmt.Errorf("%w: %q", ErrUnknownCategory, ev.Category)
		}
		next.Category = ev.Category
		next.Step = StepFeatures

	case EventToggleFeature:
		if !canEditSelection(s) || ev.Label == "" {
			return s, invalid(s, ev)
		}
		next.Selection = s.Selection.Toggle(ev.Label)

	case EventSelectAll:
		if !canEditSelection(s) {
			return s, invalid(s, ev)
		}
		next.Selection = scoring.NewSelection(c.FeatureLabels(s.Category)...)
		if next.Selection == nil {
			next.Selection = scoring.Selection{}
		}

	case EventClearAll:
		if !canEditSelection(s) {
			return s, invalid(s, ev)
		}
		next.Selection = scoring.Selection{}

	case EventEnterSearch:
		next.SearchMode = true
		next.Step = StepResults

	case EventExitSearch:
		if !s.SearchMode {
			return s, invalid(s, ev)
		}
		next.SearchMode = false
		next.SearchQuery = ""
		next.Step = StepCategory

	case EventSetQuery:
		if !s.SearchMode {
			return s, invalid(s, ev)
		}
		next.SearchQuery = ev.Query

	case EventReset:
		return Initial(), nil

	case EventOpenModal:
		if _, err := c.Solution(ev.SolutionID); err != nil {
			return s, err
		}
		next.ModalOpenID = ev.SolutionID

	case EventCloseModal:
		if s.ModalOpenID == "" {
			return s, invalid(s, ev)
		}
		next.ModalOpenID = ""

	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
	return next, nil
}

// canEditSelection reports whether feature toggles apply: a guided flow
// with a category chosen.
func canEditSelection(s State) bool {
	return !s.SearchMode && s.Category != "" && s.Step >= StepFeatures
}

func invalid(s State, ev Event) error {
	mode := "guided"
	if s.SearchMode {
		mode = "search"
	}
	return fmt.Errorf("%w: %s at step %s (%s mode)", ErrInvalidTransition, ev.Type, s.Step, mode)
}
