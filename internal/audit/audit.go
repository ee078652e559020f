package audit

import (
	"context"
	"time"
)

// Action describes what was done.
type Action string

const (
	ActionCatalogPublished Action = "catalog_published"
	ActionPreviewEnabled   Action = "preview_enabled"
	ActionPreviewDisabled  Action = "preview_disabled"
	ActionPreviewDiscarded Action = "preview_discarded"
	ActionVersionChanged   Action = "version_changed"
)

// Entry is a single audit trail record.
type Entry struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Actor         string    `json:"actor"`
	Action        Action    `json:"action"`
	Summary       string    `json:"summary"`
	Detail        string    `json:"detail,omitempty"`
	CatalogDigest string    `json:"catalog_digest,omitempty"`
}

// Logger records audit entries. *Store implements it.
type Logger interface {
	Log(ctx context.Context, entry Entry) error
}
