package ports

import (
	"context"
	"time"
)

// ReminderScheduler delivers reminders outside the process. Keys are opaque
// and unique per entity.
type ReminderScheduler interface {
	// RequestAuthorization asks for permission once and remembers the answer
	RequestAuthorization(ctx context.Context) bool
	Schedule(ctx context.Context, key string, at time.Time, title, body string) error
	Cancel(ctx context.Context, key string) error
	CancelAll(ctx context.Context) error
}

// PendingReminder is a scheduled reminder as seen by a scheduler that can list them
type PendingReminder struct {
	Key   string
	At    time.Time
	Title string
	Body  string
}

// ReminderLister is implemented by schedulers that can report what is pending
type ReminderLister interface {
	ListPending(ctx context.Context) ([]PendingReminder, error)
	// ListDue returns the pending reminders whose time is at or before now
	ListDue(ctx context.Context, now time.Time) ([]PendingReminder, error)
}
