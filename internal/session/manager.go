package session

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ziadkadry99/solution-finder/internal/catalog"
	"github.com/ziadkadry99/solution-finder/internal/wizard"
)

// Direction is a headless back/forward move through the mirrored history.
type Direction string

const (
	Back    Direction = "back"
	Forward Direction = "forward"
)

var (
	// ErrNoHistory is returned when there is nothing to move back or
	// forward to.
	ErrNoHistory = errors.New("no history entry in that direction")
	// ErrUnknownDirection is returned for a direction other than back or
	// forward.
	ErrUnknownDirection = errors.New("unknown direction")
)

// unavailableError marks a failure to obtain the catalog.
type unavailableError struct{ err error }

func (e unavailableError) Error() string { return e.err.Error() }
func (e unavailableError) Unwrap() error { return e.err }

func (m *Manager) currentCatalog() (*catalog.Catalog, error) {
	c, err := m.provider.Current()
	if err != nil {
		return nil, unavailableError{err}
	}
	return c, nil
}

// NavigateRequest describes a history move. Browser clients send the entry
// their history landed on; headless clients send a Direction instead.
type NavigateRequest struct {
	Direction Direction        `json:"direction,omitempty"`
	Entry     *wizard.Snapshot `json:"entry,omitempty"`
}

// Result is returned by every Manager operation that yields a wizard.
type Result struct {
	Session   *Session    `json:"session"`
	View      wizard.View `json:"view"`
	Directive Directive   `json:"directive"`
}

// Manager runs wizards for many sessions. Operations on one session are
// applied one at a time.
type Manager struct {
	store    Store
	provider catalog.Provider
	hub      *Hub
	logger   *zap.Logger
	now      func() time.Time

	locks [64]sync.Mutex
}

// NewManager creates a manager. hub may be nil.
func NewManager(store Store, provider catalog.Provider, hub *Hub, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, provider: provider, hub: hub, logger: logger, now: time.Now}
}

// Hub returns the view hub, or nil.
func (m *Manager) Hub() *Hub { return m.hub }

func (m *Manager) lock(id string) func() {
	h := fnv.New32a()
	h.Write([]byte(id))
	mu := &m.locks[h.Sum32()%uint32(len(m.locks))]
	mu.Lock()
	return mu.Unlock
}

// Create starts a new session on the category page.
func (m *Manager) Create(ctx context.Context) (*Result, error) {
	c, err := m.currentCatalog()
	if err != nil {
		return nil, err
	}
	now := m.now()
	sess := &Session{
		ID:        uuid.NewString(),
		State:     wizard.Initial(),
		History:   []*wizard.Snapshot{nil},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.store.Put(ctx, sess); err != nil {
		return nil, err
	}
	m.logger.Debug("session created", zap.String("session_id", sess.ID))
	return &Result{
		Session:   sess,
		View:      wizard.Render(c, sess.State),
		Directive: Directive{Op: DirectiveNone},
	}, nil
}

// Get returns the session and its current view.
func (m *Manager) Get(ctx context.Context, id string) (*Result, error) {
	c, err := m.currentCatalog()
	if err != nil {
		return nil, err
	}
	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Result{
		Session:   sess,
		View:      wizard.Render(c, sess.State),
		Directive: Directive{Op: DirectiveNone},
	}, nil
}

// View returns the current view of session id.
func (m *Manager) View(ctx context.Context, id string) (wizard.View, error) {
	res, err := m.Get(ctx, id)
	if err != nil {
		return wizard.View{}, err
	}
	return res.View, nil
}

// Dispatch applies a user action to session id. The result carries the
// history directive the client must apply. On a rejected event nothing is
// stored and the error wraps the wizard's sentinel.
func (m *Manager) Dispatch(ctx context.Context, id string, ev wizard.Event) (*Result, error) {
	return m.apply(ctx, id, func(mach *wizard.Machine, rec *recorder) error {
		_, err := mach.Dispatch(ev)
		return err
	})
}

// Navigate replays a history move on session id. It never produces a push.
func (m *Manager) Navigate(ctx context.Context, id string, req NavigateRequest) (*Result, error) {
	return m.apply(ctx, id, func(mach *wizard.Machine, rec *recorder) error {
		var (
			entry *wizard.Snapshot
			ok    = true
		)
		switch req.Direction {
		case Back:
			entry, ok = rec.Stack.Back()
		case Forward:
			entry, ok = rec.Stack.Forward()
		case "":
			entry = req.Entry
		default:
			return fmt.Errorf("%w %q", ErrUnknownDirection, req.Direction)
		}
		if !ok {
			return ErrNoHistory
		}
		mach.Navigate(entry)
		return nil
	})
}

// Delete removes session id.
func (m *Manager) Delete(ctx context.Context, id string) error {
	unlock := m.lock(id)
	defer unlock()
	if _, err := m.store.Get(ctx, id); err != nil {
		return err
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	if m.hub != nil {
		m.hub.Closed(id)
	}
	return nil
}

func (m *Manager) apply(ctx context.Context, id string, fn func(*wizard.Machine, *recorder) error) (*Result, error) {
	c, err := m.currentCatalog()
	if err != nil {
		return nil, err
	}

	unlock := m.lock(id)
	defer unlock()

	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rec := newRecorder(wizard.RestoreStack(sess.History, sess.Cursor))
	mach, err := wizard.Restore(c, rec, sess.State)
	if err != nil {
		// The catalog changed under the session; start it over.
		m.logger.Warn("session state no longer valid, restarting",
			zap.String("session_id", id), zap.Error(err))
		rec = newRecorder(wizard.NewStack())
		if mach, err = wizard.NewMachine(c, rec); err != nil {
			return nil, err
		}
	}

	if err := fn(mach, rec); err != nil {
		return nil, err
	}

	sess.State = mach.State()
	sess.History, sess.Cursor = rec.Entries()
	sess.UpdatedAt = m.now()
	if err := m.store.Put(ctx, sess); err != nil {
		return nil, err
	}

	res := &Result{
		Session:   sess,
		View:      wizard.Render(c, sess.State),
		Directive: rec.directive,
	}
	// Subscribers only ever see state that reached the store.
	if m.hub != nil {
		m.hub.Publish(ctx, id, res.View)
	}
	return res, nil
}
