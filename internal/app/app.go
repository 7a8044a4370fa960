// Package app assembles the adapters behind every AttentionOS entry point.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"attentionos/internal/adapters/filesystem"
	"attentionos/internal/adapters/memory"
	"attentionos/internal/adapters/sqlite"
	"attentionos/internal/application"
	"attentionos/internal/application/commands"
	"attentionos/internal/config"
	"attentionos/internal/ports"
)

// flushTimeout bounds how long Close waits for queued reminder work
const flushTimeout = 5 * time.Second

// App holds the wired command dependencies
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Deps      *commands.Deps
	Grants    ports.DirectoryGrantStore
	Reminders ports.ReminderLister

	store ports.TriageStore
}

// Open builds the store, settings and reminder scheduler selected by cfg
func Open(cfg *config.Config, logger *slog.Logger) (*App, error) {
	var (
		store     ports.TriageStore
		settings  ports.SettingsStore
		scheduler interface {
			ports.ReminderScheduler
			ports.ReminderLister
		}
	)

	switch cfg.Database.Driver {
	case "memory":
		store = memory.NewStore()
		settings = memory.NewSettings()
		scheduler = memory.NewScheduler(cfg.Reminders.Authorized)
	default:
		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		logger.Debug("database ready", "path", db.Path())
		store = db
		settings = sqlite.NewSettings(db)
		scheduler = sqlite.NewScheduler(db, cfg.Reminders.Authorized)
	}

	reminders := application.NewSynchronizer(scheduler, logger)
	deps := commands.NewDeps(store, settings, reminders)
	deps.Logger = logger
	deps.NotificationsDefault = cfg.Notifications.DefaultEnabled

	return &App{
		Config:    cfg,
		Logger:    logger,
		Deps:      deps,
		Grants:    filesystem.NewGrantStore(settings),
		Reminders: scheduler,
		store:     store,
	}, nil
}

// Close drains queued reminder work and closes the store
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	var errs []error
	if err := a.Deps.Reminders.Flush(ctx); err != nil {
		errs = append(errs, fmt.Errorf("flush reminders: %w", err))
	}
	if err := a.Deps.Reminders.Close(); err != nil {
		errs = append(errs, fmt.Errorf("stop reminders: %w", err))
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	return errors.Join(errs...)
}
