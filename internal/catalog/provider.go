package catalog

import "errors"

// ErrNotLoaded is returned while no catalog has been loaded successfully.
var ErrNotLoaded = errors.New("catalog not loaded")

// Provider hands out the catalog currently in effect.
type Provider interface {
	Current() (*Catalog, error)
}

// Static is a Provider over a fixed catalog.
type Static struct {
	Catalog *Catalog
}

// Current returns the fixed catalog, or ErrNotLoaded when it is nil.
func (s Static) Current() (*Catalog, error) {
	if s.Catalog == nil {
		return nil, ErrNotLoaded
	}
	return s.Catalog, nil
}
