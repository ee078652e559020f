// Package session keeps one wizard per visitor and exposes it over HTTP.
// The visitor's browser history is mirrored server-side so headless clients
// can move back and forward too.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/ziadkadry99/solution-finder/internal/wizard"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Session is the persisted form of a visitor's wizard.
type Session struct {
	ID        string             `json:"id"`
	State     wizard.State       `json:"state"`
	History   []*wizard.Snapshot `json:"history"`
	Cursor    int                `json:"cursor"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	cp := *s
	cp.State = s.State.Clone()
	cp.History = make([]*wizard.Snapshot, len(s.History))
	for i, e := range s.History {
		if e != nil {
			snap := *e
			cp.History[i] = &snap
		}
	}
	return &cp
}

// Store persists sessions with a sliding expiry.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// DirectiveOp tells a browser client what to do with its history.
type DirectiveOp string

const (
	DirectiveNone  DirectiveOp = "none"
	DirectivePush  DirectiveOp = "push"
	DirectiveReset DirectiveOp = "reset"
	DirectiveBack  DirectiveOp = "back"
)

// Directive is the history change a client must apply after an event:
// pushState(entry) for push, replace the whole history with entry for
// reset, or history.back() for back, landing on entry.
type Directive struct {
	Op    DirectiveOp      `json:"op"`
	Entry *wizard.Snapshot `json:"entry,omitempty"`
}

// recorder is a Stack that remembers the last history operation.
type recorder struct {
	*wizard.Stack
	directive Directive
}

func newRecorder(st *wizard.Stack) *recorder {
	return &recorder{Stack: st, directive: Directive{Op: DirectiveNone}}
}

func (r *recorder) Push(s wizard.Snapshot) {
	r.Stack.Push(s)
	r.directive = Directive{Op: DirectivePush, Entry: &s}
}

func (r *recorder) Back() (*wizard.Snapshot, bool) {
	entry, ok := r.Stack.Back()
	if ok {
		r.directive = Directive{Op: DirectiveBack, Entry: entry}
	}
	return entry, ok
}

func (r *recorder) Reset(s wizard.Snapshot) {
	r.Stack.Reset(s)
	r.directive = Directive{Op: DirectiveReset, Entry: &s}
}
