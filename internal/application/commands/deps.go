package commands

import (
	"context"
	"log/slog"
	"time"

	"attentionos/internal/application"
	"attentionos/internal/domain"
	"attentionos/internal/ports"
)

// Deps bundles the collaborators shared by every command
type Deps struct {
	Store     ports.TriageStore
	Settings  ports.SettingsStore
	Reminders *application.Synchronizer
	Clock     func() time.Time
	Logger    *slog.Logger

	// NotificationsDefault applies until the user flips the global toggle
	NotificationsDefault bool
}

// NewDeps wires commands with the wall clock and the default logger
func NewDeps(store ports.TriageStore, settings ports.SettingsStore, reminders *application.Synchronizer) *Deps {
	return &Deps{
		Store:                store,
		Settings:             settings,
		Reminders:            reminders,
		Clock:                time.Now,
		Logger:               slog.Default(),
		NotificationsDefault: true,
	}
}

func (d *Deps) now() time.Time {
	if d.Clock == nil {
		return time.Now()
	}
	return d.Clock()
}

func (d *Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

// NotificationsEnabled reads the global toggle
func (d *Deps) NotificationsEnabled(ctx context.Context) bool {
	if d.Settings == nil {
		return d.NotificationsDefault
	}
	enabled, err := d.Settings.GetBool(ctx, ports.SettingNotificationsEnabled, d.NotificationsDefault)
	if err != nil {
		d.logger().Warn("read notifications setting", "error", err)
		return d.NotificationsDefault
	}
	return enabled
}

func (d *Deps) reconcile(ctx context.Context, entities ...domain.Notifiable) {
	if d.Reminders == nil {
		return
	}
	global := d.NotificationsEnabled(ctx)
	for _, n := range entities {
		d.Reminders.Reconcile(n, global)
	}
}

// syncReconcile is reconcile for entities whose review date was just set
// wholesale: notify follows the review date first
func (d *Deps) syncReconcile(ctx context.Context, n domain.Notifiable) {
	if d.Reminders == nil {
		domain.SyncNotify(n)
		return
	}
	d.Reminders.SyncThenReconcile(n, d.NotificationsEnabled(ctx))
}

func (d *Deps) cancelReminders(entities ...domain.Notifiable) {
	if d.Reminders == nil {
		return
	}
	for _, n := range entities {
		d.Reminders.Cancel(n)
	}
}
