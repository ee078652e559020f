package wizard

import "sync"

// Snapshot is the projection of State kept in a navigation history entry.
// It is deliberately lossy: category, selection, query and the id of the
// open solution are not recorded, so moving back or forward restores the
// page, the search overlay and modal visibility but not the exact
// selection that produced them.
type Snapshot struct {
	Step       Step `json:"step"`
	SearchMode bool `json:"searchMode"`
	ModalOpen  bool `json:"modalOpen"`
}

// Project returns the history projection of s.
func Project(s State) Snapshot {
	return Snapshot{Step: s.Step, SearchMode: s.SearchMode, ModalOpen: s.ModalOpenID != ""}
}

// Reconcile rebuilds state after a back/forward navigation landed on
// entry. A nil entry (the root entry, or one written before snapshots
// existed) means the category page. Reconcile is pure and idempotent.
func Reconcile(s State, entry *Snapshot) State {
	next := s.Clone()

	if entry == nil {
		next.Step = StepCategory
		next.SearchMode = false
		next.ModalOpenID = ""
		return next
	}

	// The browser already moved past the modal entry: hide it without
	// touching history. An entry that says "open" cannot name the solution,
	// so an open modal is only ever closed here, never reopened.
	if !entry.ModalOpen {
		next.ModalOpenID = ""
	}

	if entry.SearchMode {
		next.SearchMode = true
		next.Step = StepResults
		return next
	}

	next.SearchMode = false
	next.Step = entry.Step
	if !next.Step.Valid() || (next.Step >= StepFeatures && next.Category == "") {
		next.Step = StepCategory
	}
	return next
}

// Navigator is the boundary to a navigation history (a browser's history
// stack, or Stack for headless use).
type Navigator interface {
	// Push appends an entry after the current one, dropping any forward
	// entries.
	Push(Snapshot)
	// Reset discards the history and leaves s as its only entry.
	Reset(Snapshot)
}

// Rewinder is a Navigator that can also step back, the way a browser's
// history.back() does. Closing a modal on one pops the modal's entry.
type Rewinder interface {
	Navigator
	// Previous returns the entry before the current one without moving.
	Previous() (entry *Snapshot, ok bool)
	Back() (entry *Snapshot, ok bool)
}

// Stack is an in-memory Navigator with back/forward support. A new Stack
// holds a single root entry without a snapshot.
type Stack struct {
	mu      sync.Mutex
	entries []*Snapshot
	cursor  int
}

// NewStack returns a stack holding only the root entry.
func NewStack() *Stack {
	return &Stack{entries: []*Snapshot{nil}}
}

// RestoreStack rebuilds a stack from persisted entries. An out-of-range
// cursor is clamped.
func RestoreStack(entries []*Snapshot, cursor int) *Stack {
	if len(entries) == 0 {
		return NewStack()
	}
	if cursor < 0 {
		cursor = 0
	}
	if cursor >= len(entries) {
		cursor = len(entries) - 1
	}
	cp := make([]*Snapshot, len(entries))
	copy(cp, entries)
	return &Stack{entries: cp, cursor: cursor}
}

func (st *Stack) Push(s Snapshot) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.entries = append(st.entries[:st.cursor+1], &s)
	st.cursor = len(st.entries) - 1
}

func (st *Stack) Reset(s Snapshot) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.entries = []*Snapshot{&s}
	st.cursor = 0
}

// Back moves the cursor one entry back and returns the entry landed on.
// ok is false when already at the oldest entry.
func (st *Stack) Back() (entry *Snapshot, ok bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.cursor == 0 {
		return nil, false
	}
	st.cursor--
	return st.entries[st.cursor], true
}

// Previous returns the entry before the cursor. ok is false at the oldest
// entry.
func (st *Stack) Previous() (entry *Snapshot, ok bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.cursor == 0 {
		return nil, false
	}
	return st.entries[st.cursor-1], true
}

// Forward moves the cursor one entry forward.
func (st *Stack) Forward() (entry *Snapshot, ok bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.cursor >= len(st.entries)-1 {
		return nil, false
	}
	st.cursor++
	return st.entries[st.cursor], true
}

// Len returns the number of entries.
func (st *Stack) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.entries)
}

// Entries returns a copy of the entries and the cursor position.
func (st *Stack) Entries() ([]*Snapshot, int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]*Snapshot, len(st.entries))
	copy(out, st.entries)
	return out, st.cursor
}

// Current returns the entry under the cursor.
func (st *Stack) Current() *Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.entries[st.cursor]
}
