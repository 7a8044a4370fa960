package commands

import (
	"context"
	"fmt"

	"attentionos/internal/domain"
	"attentionos/internal/ports"
)

// SetNotificationsResult contains the result of flipping the global toggle
type SetNotificationsResult struct {
	Enabled    bool
	Authorized bool
	Reconciled int
	Message    string
}

// SetNotificationsCommand turns reminders on or off for everything
type SetNotificationsCommand struct {
	deps    *Deps
	Enabled bool
}

// NewSetNotificationsCommand creates a new SetNotificationsCommand
func NewSetNotificationsCommand(deps *Deps, enabled bool) *SetNotificationsCommand {
	return &SetNotificationsCommand{
		deps:    deps,
		Enabled: enabled,
	}
}

// Execute runs the command. Turning on asks for authorization and
// reconciles every entity; turning off cancels all reminders.
func (c *SetNotificationsCommand) Execute(ctx context.Context) (*SetNotificationsResult, error) {
	if err := c.deps.Settings.SetBool(ctx, ports.SettingNotificationsEnabled, c.Enabled); err != nil {
		return nil, fmt.Errorf("failed to save notifications setting: %w", err)
	}

	result := &SetNotificationsResult{Enabled: c.Enabled}
	if c.deps.Reminders == nil {
		result.Message = fmt.Sprintf("Notifications %s", onOff(c.Enabled))
		return result, nil
	}

	if !c.Enabled {
		c.deps.Reminders.CancelAll()
		result.Message = "Notifications off, all reminders cancelled"
		return result, nil
	}

	result.Authorized = c.deps.Reminders.RequestAuthorization(ctx)
	entities, err := AllNotifiables(ctx, c.deps.Store)
	if err != nil {
		return nil, err
	}
	c.deps.Reminders.ReconcileAll(entities, true)
	result.Reconciled = len(entities)
	result.Message = fmt.Sprintf("Notifications on, %d items reconciled", len(entities))
	if !result.Authorized {
		result.Message += " (reminders not authorized)"
	}
	return result, nil
}

// AllNotifiables loads every inbox item, case and attempt
func AllNotifiables(ctx context.Context, store ports.TriageRepository) ([]domain.Notifiable, error) {
	items, err := store.ListInboxItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list inbox: %w", err)
	}
	cases, err := store.ListCases(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	attempts, err := store.ListAttempts(ctx, ports.AttemptFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	out := make([]domain.Notifiable, 0, len(items)+len(cases)+len(attempts))
	for _, it := range items {
		out = append(out, it)
	}
	for _, cs := range cases {
		out = append(out, cs)
	}
	for _, a := range attempts {
		out = append(out, a)
	}
	return out, nil
}

// NotificationStatusResult describes the reminder state
type NotificationStatusResult struct {
	Enabled bool
	Pending []ports.PendingReminder
	// Listed is false when the scheduler cannot report pending reminders
	Listed bool
}

// NotificationStatusCommand reports the global toggle and pending reminders
type NotificationStatusCommand struct {
	deps   *Deps
	lister ports.ReminderLister
	// DueOnly narrows Pending to reminders that should already have fired
	DueOnly bool
}

// NewNotificationStatusCommand creates a new NotificationStatusCommand.
// lister may be nil.
func NewNotificationStatusCommand(deps *Deps, lister ports.ReminderLister) *NotificationStatusCommand {
	return &NotificationStatusCommand{
		deps:   deps,
		lister: lister,
	}
}

// Execute runs the status command after queued reminder work settles
func (c *NotificationStatusCommand) Execute(ctx context.Context) (*NotificationStatusResult, error) {
	result := &NotificationStatusResult{Enabled: c.deps.NotificationsEnabled(ctx)}
	if c.lister == nil {
		return result, nil
	}
	if c.deps.Reminders != nil {
		if err := c.deps.Reminders.Flush(ctx); err != nil {
			return nil, err
		}
	}
	var pending []ports.PendingReminder
	var err error
	if c.DueOnly {
		pending, err = c.lister.ListDue(ctx, c.deps.now())
	} else {
		pending, err = c.lister.ListPending(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	result.Pending = pending
	result.Listed = true
	return result, nil
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
