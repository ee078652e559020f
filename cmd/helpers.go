package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ziadkadry99/solution-finder/internal/audit"
	"github.com/ziadkadry99/solution-finder/internal/config"
	"github.com/ziadkadry99/solution-finder/internal/db"
	"github.com/ziadkadry99/solution-finder/internal/loader"
	"github.com/ziadkadry99/solution-finder/internal/logging"
	"github.com/ziadkadry99/solution-finder/internal/preview"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `solfinder init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the process logger from config. --verbose forces debug.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	opts := logging.Options{Level: cfg.Log.Level, File: cfg.Log.File, JSON: cfg.Log.JSON}
	if verbose {
		opts.Level = "debug"
	}
	return logging.New(opts)
}

// app bundles what every catalog-reading command needs.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *db.DB
	audit   *audit.Store
	preview *preview.Store
	loader  *loader.Loader
}

// openApp loads config, opens the local database, reconciles the app
// version with the stored preview and prepares (but does not run) the
// catalog loader.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		db:      database,
		audit:   audit.NewStore(database),
		preview: preview.NewStore(database),
	}
	if err := a.checkVersion(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.loader = loader.New(catalogSource(cfg),
		loader.WithOverrides(a.preview),
		loader.WithLogger(logger),
	)
	return a, nil
}

// catalogSource picks the remote URL when configured, else the local file.
func catalogSource(cfg *config.Config) loader.Source {
	if cfg.Catalog.URL != "" {
		return loader.NewHTTPSource(cfg.Catalog.URL, cfg.AppVersion)
	}
	return loader.FileSource{Path: cfg.Catalog.Path}
}

// checkVersion discards a stored preview whenever the app version moves.
func (a *app) checkVersion(ctx context.Context) error {
	hadPreview, err := a.preview.Enabled(ctx)
	if err != nil {
		return fmt.Errorf("reading preview state: %w", err)
	}
	previous, changed, err := a.preview.CheckVersion(ctx, a.cfg.AppVersion)
	if err != nil {
		return fmt.Errorf("checking app version: %w", err)
	}

	if changed {
		a.logger.Info("app version changed",
			zap.String("previous", previous),
			zap.String("current", a.cfg.AppVersion),
		)
		if err := a.audit.Log(ctx, audit.Entry{
			Action:  audit.ActionVersionChanged,
			Summary: fmt.Sprintf("App version changed from %s to %s", previous, a.cfg.AppVersion),
		}); err != nil {
			return err
		}
	}
	if hadPreview && previous != a.cfg.AppVersion {
		a.logger.Warn("discarded preview catalog after version change")
		if err := a.audit.Log(ctx, audit.Entry{
			Action:  audit.ActionPreviewDiscarded,
			Summary: "Preview catalog discarded on version change",
		}); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database and flushes the logger.
func (a *app) Close() {
	a.db.Close()
	a.logger.Sync()
}
