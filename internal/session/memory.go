package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	cache *cache.Cache
}

// NewMemoryStore creates a store whose sessions expire after ttl without
// use. Expired sessions are purged every ttl/6.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	cleanup := ttl / 6
	if cleanup < time.Second {
		cleanup = time.Second
	}
	return &MemoryStore{cache: cache.New(ttl, cleanup)}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	x, found := m.cache.Get(id)
	if !found {
		return nil, ErrNotFound
	}
	s := x.(*Session).Clone()
	// Touch to slide the expiry.
	m.cache.Set(id, s.Clone(), cache.DefaultExpiration)
	return s, nil
}

func (m *MemoryStore) Put(ctx context.Context, s *Session) error {
	m.cache.Set(s.ID, s.Clone(), cache.DefaultExpiration)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.cache.Delete(id)
	return nil
}

// Len returns the number of live sessions.
func (m *MemoryStore) Len() int {
	return m.cache.ItemCount()
}
