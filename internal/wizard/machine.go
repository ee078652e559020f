package wizard

import (
	"sync"

	"github.com/ziadkadry99/solution-finder/internal/catalog"
)

// Machine owns the wizard state of one visitor. All mutations go through
// Dispatch or Navigate and are serialized, so a Machine can be shared by
// concurrent callers.
type Machine struct {
	mu      sync.Mutex
	catalog *catalog.Catalog
	state   State
	nav     Navigator
	current Snapshot // projection of the history entry the visitor is on

	subMu   sync.Mutex
	subs    map[int]func(State)
	nextSub int
}

// NewMachine creates a machine in the initial state. The catalog must be
// loaded; the wizard is not interactive without one. A nil nav gets a
// fresh Stack.
func NewMachine(c *catalog.Catalog, nav Navigator) (*Machine, error) {
	return Restore(c, nav, Initial())
}

// Restore creates a machine resuming from a saved state.
func Restore(c *catalog.Catalog, nav Navigator, s State) (*Machine, error) {
	if c == nil {
		return nil, catalog.ErrNotLoaded
	}
	if err := s.Check(c); err != nil {
		return nil, err
	}
	if nav == nil {
		nav = NewStack()
	}
	s = s.Clone()
	return &Machine{
		catalog: c,
		state:   s,
		nav:     nav,
		current: Project(s),
		subs:    make(map[int]func(State)),
	}, nil
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// Catalog returns the catalog the machine was built with.
func (m *Machine) Catalog() *catalog.Catalog {
	return m.catalog
}

// Dispatch applies a user action. When the history projection changes a
// new entry is pushed; reset instead collapses the history to the single
// initial entry. Closing a modal steps back over the entry that opening it
// pushed, when the navigator can. Actions that leave the projection unchanged (feature
// toggles, query edits) add no entry.
func (m *Machine) Dispatch(ev Event) (State, error) {
	m.mu.Lock()
	next, err := Transition(m.catalog, m.state, ev)
	if err != nil {
		m.mu.Unlock()
		return m.State(), err
	}

	snap := Project(next)
	switch {
	case ev.Type == EventReset:
		m.nav.Reset(snap)
	case ev.Type == EventCloseModal && m.current.ModalOpen && m.rewind(snap):
	case snap != m.current:
		m.nav.Push(snap)
	}
	m.current = snap
	m.state = next
	out := next.Clone()
	m.mu.Unlock()

	m.notify(out)
	return out, nil
}

// rewind steps the navigator back when the entry before the current one
// projects to snap. A nil entry is the root, which is the category page.
func (m *Machine) rewind(snap Snapshot) bool {
	r, ok := m.nav.(Rewinder)
	if !ok {
		return false
	}
	prev, ok := r.Previous()
	if !ok {
		return false
	}
	want := Snapshot{Step: StepCategory}
	if prev != nil {
		want = *prev
	}
	if want != snap {
		return false
	}
	r.Back()
	return true
}

// Navigate replays a back/forward navigation that landed on entry. It
// never pushes history: the navigator has already moved.
func (m *Machine) Navigate(entry *Snapshot) State {
	m.mu.Lock()
	next := Reconcile(m.state, entry)
	m.state = next
	m.current = Project(next)
	out := next.Clone()
	m.mu.Unlock()

	m.notify(out)
	return out
}

// Subscribe registers fn to receive every new state. The returned func
// removes the subscription.
func (m *Machine) Subscribe(fn func(State)) (cancel func()) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.subs, id)
	}
}

func (m *Machine) notify(s State) {
	m.subMu.Lock()
	fns := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()
	for _, fn := range fns {
		fn(s.Clone())
	}
}
