package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"attentionos/internal/ports"
)

// Scheduler keeps pending reminders in the reminders table, where a
// notifier or the CLI can pick them up
type Scheduler struct {
	db         *sql.DB
	authorized bool
}

var (
	_ ports.ReminderScheduler = (*Scheduler)(nil)
	_ ports.ReminderLister    = (*Scheduler)(nil)
)

// NewScheduler shares the store's database. authorized is the answer given
// to authorization requests.
func NewScheduler(s *Store, authorized bool) *Scheduler {
	return &Scheduler{db: s.db, authorized: authorized}
}

func (s *Scheduler) RequestAuthorization(ctx context.Context) bool {
	return s.authorized
}

func (s *Scheduler) Schedule(ctx context.Context, key string, at time.Time, title, body string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reminders(key, fire_at, title, body, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET fire_at = excluded.fire_at, title = excluded.title,
		   body = excluded.body, created_at = excluded.created_at`,
		key, formatTime(at), title, body, formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("schedule reminder %s: %w", key, err)
	}
	return nil
}

func (s *Scheduler) Cancel(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE key = ?`, key); err != nil {
		return fmt.Errorf("cancel reminder %s: %w", key, err)
	}
	return nil
}

func (s *Scheduler) CancelAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM reminders`); err != nil {
		return fmt.Errorf("cancel all reminders: %w", err)
	}
	return nil
}

// ListPending returns reminders ordered by fire time
func (s *Scheduler) ListPending(ctx context.Context) ([]ports.PendingReminder, error) {
	return s.list(ctx, `SELECT key, fire_at, title, body FROM reminders ORDER BY fire_at, key`)
}

// ListDue returns reminders whose fire time is at or before now
func (s *Scheduler) ListDue(ctx context.Context, now time.Time) ([]ports.PendingReminder, error) {
	return s.list(ctx, `SELECT key, fire_at, title, body FROM reminders WHERE fire_at <= ? ORDER BY fire_at, key`, formatTime(now))
}

func (s *Scheduler) list(ctx context.Context, query string, args ...any) ([]ports.PendingReminder, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	var out []ports.PendingReminder
	for rows.Next() {
		var p ports.PendingReminder
		var at string
		if err := rows.Scan(&p.Key, &at, &p.Title, &p.Body); err != nil {
			return nil, fmt.Errorf("list reminders: scan: %w", err)
		}
		if p.At, err = parseTime(at); err != nil {
			return nil, fmt.Errorf("list reminders: parse fire_at: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
