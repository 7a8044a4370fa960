package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"attentionos/internal/ports"
)

var (
	_ ports.ReminderScheduler = (*Scheduler)(nil)
	_ ports.ReminderLister    = (*Scheduler)(nil)
)

// Scheduler records reminders instead of delivering them
type Scheduler struct {
	mu         sync.Mutex
	authorized bool
	pending    map[string]ports.PendingReminder
}

// NewScheduler creates a scheduler that grants authorization when authorized is true
func NewScheduler(authorized bool) *Scheduler {
	return &Scheduler{authorized: authorized, pending: make(map[string]ports.PendingReminder)}
}

func (s *Scheduler) RequestAuthorization(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authorized
}

// SetAuthorized changes the answer given to later authorization requests
func (s *Scheduler) SetAuthorized(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authorized = v
}

func (s *Scheduler) Schedule(ctx context.Context, key string, at time.Time, title, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[key] = ports.PendingReminder{Key: key, At: at, Title: title, Body: body}
	return nil
}

func (s *Scheduler) Cancel(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, key)
	return nil
}

func (s *Scheduler) CancelAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = make(map[string]ports.PendingReminder)
	return nil
}

// ListPending returns reminders ordered by fire time
func (s *Scheduler) ListPending(ctx context.Context) ([]ports.PendingReminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ports.PendingReminder, 0, len(s.pending))
	for _, p := range s.pending {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].At.Equal(out[j].At) {
			return out[i].At.Before(out[j].At)
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}

// ListDue returns reminders whose fire time is at or before now
func (s *Scheduler) ListDue(ctx context.Context, now time.Time) ([]ports.PendingReminder, error) {
	all, err := s.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	due := all[:0]
	for _, p := range all {
		if !p.At.After(now) {
			due = append(due, p)
		}
	}
	return due, nil
}
