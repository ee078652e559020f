// Package preview keeps the locally stored catalog override used to review
// unpublished catalog edits, and the last app version that ran.
package preview

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ziadkadry99/solution-finder/internal/db"
)

// Keys in the local_settings table.
const (
	KeyEnabled = "solutions_preview_enabled"
	KeyData    = "solutions_preview_data"
	KeyVersion = "app_version"
)

// Store reads and writes the preview override.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Enabled reports whether the override flag is set to "1".
func (s *Store) Enabled(ctx context.Context) (bool, error) {
	v, ok, err := s.get(ctx, KeyEnabled)
	if err != nil {
		return false, err
	}
	return ok && v == "1", nil
}

// Data returns the serialized override catalog, or nil when none is stored.
func (s *Store) Data(ctx context.Context) ([]byte, error) {
	v, ok, err := s.get(ctx, KeyData)
	if err != nil || !ok {
		return nil, err
	}
	return []byte(v), nil
}

// Override returns the stored catalog when the override is enabled and
// data is present.
func (s *Store) Override(ctx context.Context) ([]byte, bool, error) {
	enabled, err := s.Enabled(ctx)
	if err != nil || !enabled {
		return nil, false, err
	}
	data, err := s.Data(ctx)
	if err != nil {
		return nil, false, err
	}
	return data, len(data) > 0, nil
}

// Enable stores data and turns the override on.
func (s *Store) Enable(ctx context.Context, data []byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning preview update: %w", err)
	}
	defer tx.Rollback()

	if err := put(ctx, tx, KeyData, string(data)); err != nil {
		return err
	}
	if err := put(ctx, tx, KeyEnabled, "1"); err != nil {
		return err
	}
	return tx.Commit()
}

// Disable turns the override off and keeps the stored data.
func (s *Store) Disable(ctx context.Context) error {
	return put(ctx, s.db, KeyEnabled, "0")
}

// Clear removes both override keys.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM local_settings WHERE key IN (?, ?)", KeyEnabled, KeyData)
	if err != nil {
		return fmt.Errorf("clearing preview: %w", err)
	}
	return nil
}

// CheckVersion records version as the current app version. Whenever the
// recorded version differs (or none was recorded) the override is cleared.
// changed is true only when a different version was recorded before.
func (s *Store) CheckVersion(ctx context.Context, version string) (previous string, changed bool, err error) {
	previous, ok, err := s.get(ctx, KeyVersion)
	if err != nil {
		return "", false, err
	}
	if ok && previous == version {
		return previous, false, nil
	}
	if err := s.Clear(ctx); err != nil {
		return previous, false, err
	}
	if err := put(ctx, s.db, KeyVersion, version); err != nil {
		return previous, false, err
	}
	return previous, ok, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func put(ctx context.Context, ex execer, key, value string) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO local_settings (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM local_settings WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return v, true, nil
}
