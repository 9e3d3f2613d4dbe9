package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"viewsync/internal/catalog"
	"viewsync/internal/config"
	"viewsync/internal/logging"
	"viewsync/internal/persistentview"
	"viewsync/internal/preference"
	"viewsync/internal/query"
	"viewsync/internal/remote"
	"viewsync/internal/repository"
	"viewsync/internal/repository/memory"
	"viewsync/internal/repository/sqlite"
	"viewsync/internal/theme"
)

const closeTimeout = 10 * time.Second

// app is what a command needs once config is loaded: styles, a logger and a
// preference client over the configured backend.
type app struct {
	cfg     *config.Config
	styles  *theme.Styles
	logger  *zap.Logger
	repo    repository.PreferenceRepository
	prefs   *preference.Client
	catalog *catalog.Catalog

	closers []func() error
}

func openApp(opts *rootOptions) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger, err := logging.New(level)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.LoadOrBuiltin(cfg.ViewsFile)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		styles:  theme.Load(cfg.ThemeName),
		logger:  logger,
		catalog: cat,
	}

	if err := a.openBackend(); err != nil {
		return nil, err
	}

	a.prefs = preference.NewClient(a.repo, preference.WithLogger(logger))
	return a, nil
}

func (a *app) openBackend() error {
	switch a.cfg.Backend {
	case config.BackendSQLite:
		db, err := sqlite.NewDB(sqlite.Config{Path: a.cfg.DBPath})
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		a.repo = sqlite.NewPreferenceRepository(db)

	case config.BackendMemory:
		a.logger.Warn("memory backend: preferences are lost on exit")
		a.repo = memory.NewPreferenceRepository()

	case config.BackendHTTP:
		repo, err := remote.NewPreferenceRepository(a.cfg.RemoteURL)
		if err != nil {
			return err
		}
		a.repo = repo

	default:
		return fmt.Errorf("unknown backend %q", a.cfg.Backend)
	}

	a.logger.Debug("preference backend ready", zap.String("backend", a.cfg.Backend))
	return nil
}

// Close waits for pending preference writes, then releases the backend.
func (a *app) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	var errs []error
	if a.prefs != nil {
		if err := a.prefs.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to flush preferences: %w", err))
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	_ = a.logger.Sync()

	return errors.Join(errs...)
}

// bindView builds the persistent view for slug. A nil router leaves the view
// unbound from any URL.
func (a *app) bindView(slug string, router *query.Router) (*persistentview.PersistentView, catalog.Entry, error) {
	entry, err := a.catalog.Get(slug)
	if err != nil {
		return nil, catalog.Entry{}, err
	}

	opts := persistentview.Options{
		Slug:         slug,
		Namespace:    a.cfg.Namespace,
		DefaultView:  entry.DefaultView,
		FilterFields: entry.FilterFields,
		Preferences:  a.prefs,
		Logger:       a.logger,
	}
	if router != nil {
		opts.Location = router
	}

	pv, err := persistentview.New(opts)
	if err != nil {
		return nil, catalog.Entry{}, err
	}
	return pv, entry, nil
}
