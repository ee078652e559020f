package wizard

import "github.com/ziadkadry99/solution-finder/internal/catalog"

// EventType names a user action.
type EventType string

const (
	EventChooseCategory EventType = "choose_category"
	EventBackToStep1    EventType = "back_to_step1"
	EventToStep3        EventType = "to_step3"
	EventBackToStep2    EventType = "back_to_step2"
	EventAdjustNeeds    EventType = "adjust_needs"
	EventToggleFeature  EventType = "toggle_feature"
	EventSelectAll      EventType = "select_all"
	EventClearAll       EventType = "clear_all"
	EventEnterSearch    EventType = "enter_search"
	EventExitSearch     EventType = "exit_search"
	EventSetQuery       EventType = "set_query"
	EventReset          EventType = "reset"
	EventOpenModal      EventType = "open_modal"
	EventCloseModal     EventType = "close_modal"
)

// Event is a user action together with its argument, if any.
type Event struct {
	Type       EventType          `json:"type"`
	Category   string             `json:"category,omitempty"`
	Label      string             `json:"label,omitempty"`
	Query      string             `json:"query,omitempty"`
	SolutionID catalog.SolutionID `json:"solutionId,omitempty"`
}

// Event constructors.
func ChooseCategory(c string) Event         { return Event{Type: EventChooseCategory, Category: c} }
func BackToStep1() Event                    { return Event{Type: EventBackToStep1} }
func ToStep3() Event                        { return Event{Type: EventToStep3} }
func BackToStep2() Event                    { return Event{Type: EventBackToStep2} }
func AdjustNeeds() Event                    { return Event{Type: EventAdjustNeeds} }
func ToggleFeature(label string) Event      { return Event{Type: EventToggleFeature, Label: label} }
func SelectAll() Event                      { return Event{Type: EventSelectAll} }
func ClearAll() Event                       { return Event{Type: EventClearAll} }
func EnterSearch() Event                    { return Event{Type: EventEnterSearch} }
func ExitSearch() Event                     { return Event{Type: EventExitSearch} }
func SetQuery(q string) Event               { return Event{Type: EventSetQuery, Query: q} }
func Reset() Event                          { return Event{Type: EventReset} }
func OpenModal(id catalog.SolutionID) Event { return Event{Type: EventOpenModal, SolutionID: id} }
func CloseModal() Event                     { return Event{Type: EventCloseModal} }
