// Package admin publishes new catalog documents.
package admin

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/solution-finder/internal/audit"
	"github.com/ziadkadry99/solution-finder/internal/catalog"
	"github.com/ziadkadry99/solution-finder/internal/loader"
)

// Receipt describes a successful publication.
type Receipt struct {
	Path       string    `json:"path"`
	Digest     string    `json:"digest"`
	Categories int       `json:"categories"`
	Solutions  int       `json:"solutions"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher validates catalog documents and writes them to the catalog file.
type Publisher struct {
	path     string
	reloader loader.Reloader
	audit    audit.Logger
	logger   *zap.Logger
}

// NewPublisher writes to path. reloader and auditLog may be nil.
func NewPublisher(path string, reloader loader.Reloader, auditLog audit.Logger, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{path: path, reloader: reloader, audit: auditLog, logger: logger}
}

// Path returns the catalog file written to.
func (p *Publisher) Path() string { return p.path }

// Check parses and validates data without writing it.
func Check(data []byte) (*catalog.Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &catalog.ValidationError{Problems: []string{"request body is empty"}}
	}
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &catalog.ValidationError{Problems: []string{"body is not valid JSON: " + err.Error()}}
	}
	obj, ok := probe.(map[string]any)
	if !ok {
		return nil, &catalog.ValidationError{Problems: []string{"catalog must be an object"}}
	}

	var shape []string
	if _, ok := obj["categories"].([]any); !ok {
		shape = append(shape, "categories must be an array")
	}
	if _, ok := obj["features"].(map[string]any); !ok {
		shape = append(shape, "features must be an object")
	}
	if _, ok := obj["solutions"].([]any); !ok {
		shape = append(shape, "solutions must be an array")
	}
	if len(shape) > 0 {
		return nil, &catalog.ValidationError{Problems: shape}
	}

	c, err := catalog.Parse(data)
	if err != nil {
		return nil, &catalog.ValidationError{Problems: []string{err.Error()}}
	}
	if err := catalog.Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Publish validates data, writes it indented to the catalog file, reloads
// the catalog and records the publication.
func (p *Publisher) Publish(ctx context.Context, data []byte, actor string) (*Receipt, error) {
	c, err := Check(data)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, bytes.TrimSpace(data), "", "  "); err != nil {
		return nil, fmt.Errorf("formatting catalog: %w", err)
	}
	out.WriteByte('\n')

	if err := writeAtomic(p.path, out.Bytes()); err != nil {
		return nil, err
	}

	receipt := &Receipt{
		Path:       p.path,
		Digest:     Digest(out.Bytes()),
		Categories: len(c.Categories),
		Solutions:  len(c.Solutions),
		Timestamp:  time.Now().UTC(),
	}
	p.logger.Info("catalog published",
		zap.String("path", p.path),
		zap.String("digest", receipt.Digest),
		zap.Int("solutions", receipt.Solutions),
	)

	if p.reloader != nil {
		if _, err := p.reloader.Load(ctx); err != nil && !errors.Is(err, loader.ErrSuperseded) {
			p.logger.Warn("reloading after publish", zap.Error(err))
		}
	}

	if p.audit != nil {
		err := p.audit.Log(ctx, audit.Entry{
			Actor:         actor,
			Action:        audit.ActionCatalogPublished,
			Summary:       fmt.Sprintf("Published %d solutions in %d categories", receipt.Solutions, receipt.Categories),
			Detail:        "categories: " + strings.Join(c.Categories, ", "),
			CatalogDigest: receipt.Digest,
		})
		if err != nil {
			p.logger.Warn("recording publication", zap.Error(err))
		}
	}
	return receipt, nil
}

// Digest is the hex SHA-256 of a catalog document as stored.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// writeAtomic replaces path through a temp file and rename, so readers never
// see a partial document.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating catalog directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".solutions-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing catalog: %w", err)
	}
	return nil
}
