// Package loader fetches the catalog, honouring the local preview override,
// and keeps the most recently started successful load in effect.
package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ziadkadry99/solution-finder/internal/catalog"
)

// ErrSuperseded is returned by Load when a newer load started before this
// one finished. Its result is discarded.
var ErrSuperseded = errors.New("catalog load superseded")

// Overrides supplies a locally stored catalog that takes precedence over the
// source. *preview.Store implements it.
type Overrides interface {
	Override(ctx context.Context) ([]byte, bool, error)
	Clear(ctx context.Context) error
}

// Origin says where the catalog in effect came from.
type Origin string

const (
	OriginSource  Origin = "source"
	OriginPreview Origin = "preview"
)

// Loader loads and holds the current catalog. It implements catalog.Provider.
type Loader struct {
	source    Source
	overrides Overrides
	logger    *zap.Logger

	mu      sync.RWMutex
	started uint64
	current *catalog.Catalog
	origin  Origin
	err     error

	subs []func(*catalog.Catalog)
}

// Option configures a Loader.
type Option func(*Loader)

// WithOverrides enables the preview override.
func WithOverrides(o Overrides) Option {
	return func(l *Loader) { l.overrides = o }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// New creates a Loader over source. Nothing is fetched until Load.
func New(source Source, opts ...Option) *Loader {
	l := &Loader{source: source, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// OnLoad registers fn to be called with every catalog that takes effect.
func (l *Loader) OnLoad(fn func(*catalog.Catalog)) {
	l.mu.Lock()
	l.subs = append(l.subs, fn)
	l.mu.Unlock()
}

// Load fetches and parses the catalog and makes it current. Concurrent calls
// are allowed; only the last one started takes effect.
func (l *Loader) Load(ctx context.Context) (*catalog.Catalog, error) {
	l.mu.Lock()
	l.started++
	gen := l.started
	l.mu.Unlock()

	c, origin, err := l.fetch(ctx)

	l.mu.Lock()
	if gen != l.started {
		l.mu.Unlock()
		l.logger.Debug("discarding superseded catalog load", zap.Uint64("generation", gen))
		return nil, ErrSuperseded
	}
	if err != nil {
		l.err = err
		l.mu.Unlock()
		return nil, err
	}
	l.current, l.origin, l.err = c, origin, nil
	subs := append([]func(*catalog.Catalog){}, l.subs...)
	l.mu.Unlock()

	l.logger.Info("catalog loaded",
		zap.String("origin", string(origin)),
		zap.Int("categories", len(c.Categories)),
		zap.Int("solutions", len(c.Solutions)),
	)
	for _, fn := range subs {
		fn(c)
	}
	return c, nil
}

func (l *Loader) fetch(ctx context.Context) (*catalog.Catalog, Origin, error) {
	if c, ok := l.fromOverride(ctx); ok {
		return c, OriginPreview, nil
	}
	if l.source == nil {
		return nil, OriginSource, catalog.ErrNotLoaded
	}
	data, err := l.source.Fetch(ctx)
	if err != nil {
		return nil, OriginSource, err
	}
	c, err := catalog.Parse(data)
	if err != nil {
		return nil, OriginSource, fmt.Errorf("loading %s: %w", l.source, err)
	}
	return c, OriginSource, nil
}

// fromOverride returns the preview catalog when one is enabled. A preview
// that fails to parse is cleared so the next load goes to the source.
func (l *Loader) fromOverride(ctx context.Context) (*catalog.Catalog, bool) {
	if l.overrides == nil {
		return nil, false
	}
	data, ok, err := l.overrides.Override(ctx)
	if err != nil {
		l.logger.Warn("reading preview override", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	c, err := catalog.Parse(data)
	if err != nil {
		l.logger.Warn("discarding corrupted preview catalog", zap.Error(err))
		if err := l.overrides.Clear(ctx); err != nil {
			l.logger.Warn("clearing preview override", zap.Error(err))
		}
		return nil, false
	}
	return c, true
}

// Current returns the catalog in effect. Before the first successful load it
// returns the last load error, or catalog.ErrNotLoaded.
func (l *Loader) Current() (*catalog.Catalog, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.current != nil {
		return l.current, nil
	}
	if l.err != nil {
		return nil, l.err
	}
	return nil, catalog.ErrNotLoaded
}

// Origin reports where the current catalog came from.
func (l *Loader) Origin() Origin {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.origin
}

// Err returns the error of the most recent load to take effect, or nil if it
// succeeded.
func (l *Loader) Err() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}
