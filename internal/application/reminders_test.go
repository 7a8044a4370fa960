package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"attentionos/internal/domain"
)

type fakeScheduler struct {
	mu         sync.Mutex
	authorized bool
	failSched  bool
	calls      []string
	pending    map[string]time.Time
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{authorized: true, pending: make(map[string]time.Time)}
}

func (f *fakeScheduler) RequestAuthorization(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authorized
}

func (f *fakeScheduler) Schedule(ctx context.Context, key string, at time.Time, title, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSched {
		return errors.New("scheduler unavailable")
	}
	f.calls = append(f.calls, "schedule "+key)
	f.pending[key] = at
	return nil
}

func (f *fakeScheduler) Cancel(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "cancel "+key)
	delete(f.pending, key)
	return nil
}

func (f *fakeScheduler) CancelAll(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "cancelAll")
	f.pending = make(map[string]time.Time)
	return nil
}

func (f *fakeScheduler) snapshot() ([]string, map[string]time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pending := make(map[string]time.Time, len(f.pending))
	for k, v := range f.pending {
		pending[k] = v
	}
	return append([]string(nil), f.calls...), pending
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func scheduledItem(t *testing.T, at time.Time) *domain.InboxItem {
	t.Helper()
	item, err := domain.NewInboxItem("Renew passport", "expires soon", at.Add(-time.Hour))
	if err != nil {
		t.Fatalf("NewInboxItem: %v", err)
	}
	domain.ApplySchedule(&item.TriageRecord, at, at.Add(-time.Hour))
	return item
}

func TestSynchronizer_ScheduleAndCancel(t *testing.T) {
	at := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)
	sched := newFakeScheduler()
	s := NewSynchronizer(sched, quietLogger())
	defer s.Close()

	item := scheduledItem(t, at)
	plan := s.Reconcile(item, true)
	if plan.Action != domain.ReminderSchedule {
		t.Fatalf("expected schedule plan, got %s", plan.Action)
	}
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	_, pending := sched.snapshot()
	if got, ok := pending[item.Key()]; !ok || !got.Equal(at) {
		t.Fatalf("expected reminder at %v, got %v (present=%v)", at, got, ok)
	}

	domain.ApplyDrop(&item.TriageRecord, at)
	s.Reconcile(item, true)
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if _, pending = sched.snapshot(); len(pending) != 0 {
		t.Errorf("expected no pending reminders, got %v", pending)
	}
}

func TestSynchronizer_GlobalToggleOff(t *testing.T) {
	at := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)
	sched := newFakeScheduler()
	s := NewSynchronizer(sched, quietLogger())
	defer s.Close()

	item := scheduledItem(t, at)
	if plan := s.Reconcile(item, false); plan.Action != domain.ReminderCancel {
		t.Fatalf("expected cancel plan with notifications off, got %s", plan.Action)
	}
	_ = s.Flush(context.Background())

	calls, pending := sched.snapshot()
	if len(pending) != 0 {
		t.Errorf("expected nothing scheduled, got %v", pending)
	}
	if len(calls) != 1 || calls[0] != "cancel "+item.Key() {
		t.Errorf("expected a single cancel, got %v", calls)
	}
}

func TestSynchronizer_Idempotent(t *testing.T) {
	at := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)
	sched := newFakeScheduler()
	s := NewSynchronizer(sched, quietLogger())
	defer s.Close()

	item := scheduledItem(t, at)
	for i := 0; i < 3; i++ {
		s.Reconcile(item, true)
	}
	_ = s.Flush(context.Background())

	_, pending := sched.snapshot()
	if len(pending) != 1 {
		t.Errorf("expected exactly one pending reminder, got %d", len(pending))
	}
}

func TestSynchronizer_LastWriteWins(t *testing.T) {
	first := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)
	second := first.Add(48 * time.Hour)
	sched := newFakeScheduler()
	s := NewSynchronizer(sched, quietLogger())
	defer s.Close()

	item := scheduledItem(t, first)
	s.Reconcile(item, true)
	domain.ApplySchedule(&item.TriageRecord, second, first)
	s.Reconcile(item, true)
	_ = s.Flush(context.Background())

	_, pending := sched.snapshot()
	if got := pending[item.Key()]; !got.Equal(second) {
		t.Errorf("expected reminder at %v, got %v", second, got)
	}
}

func TestSynchronizer_UnauthorizedSkipsSchedule(t *testing.T) {
	at := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)
	sched := newFakeScheduler()
	sched.authorized = false
	s := NewSynchronizer(sched, quietLogger())
	defer s.Close()

	s.Reconcile(scheduledItem(t, at), true)
	_ = s.Flush(context.Background())

	if _, pending := sched.snapshot(); len(pending) != 0 {
		t.Errorf("expected nothing scheduled without authorization, got %v", pending)
	}
}

func TestSynchronizer_SchedulerFailureIsSwallowed(t *testing.T) {
	at := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)
	sched := newFakeScheduler()
	sched.failSched = true
	s := NewSynchronizer(sched, quietLogger())

	s.Reconcile(scheduledItem(t, at), true)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, pending := sched.snapshot(); len(pending) != 0 {
		t.Errorf("expected nothing scheduled, got %v", pending)
	}
}

func TestSynchronizer_ReconcileAllAndCancelAll(t *testing.T) {
	at := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)
	sched := newFakeScheduler()
	s := NewSynchronizer(sched, quietLogger())
	defer s.Close()

	var entities []domain.Notifiable
	for i := 0; i < 5; i++ {
		entities = append(entities, scheduledItem(t, at.Add(time.Duration(i)*time.Hour)))
	}
	s.ReconcileAll(entities, true)
	_ = s.Flush(context.Background())
	if _, pending := sched.snapshot(); len(pending) != 5 {
		t.Fatalf("expected 5 pending reminders, got %d", len(pending))
	}

	s.CancelAll()
	_ = s.Flush(context.Background())
	if _, pending := sched.snapshot(); len(pending) != 0 {
		t.Errorf("expected all reminders cancelled, got %d", len(pending))
	}
}

func TestSynchronizer_SyncThenReconcile(t *testing.T) {
	at := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)
	sched := newFakeScheduler()
	s := NewSynchronizer(sched, quietLogger())
	defer s.Close()

	item := scheduledItem(t, at)
	item.NotifyEnabled = false
	if plan := s.SyncThenReconcile(item, true); plan.Action != domain.ReminderSchedule {
		t.Errorf("expected schedule after syncing notify, got %s", plan.Action)
	}
	if !item.NotifyEnabled {
		t.Error("expected notify to follow the review date")
	}
}

func TestSynchronizer_ConcurrentCallers(t *testing.T) {
	at := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)
	sched := newFakeScheduler()
	s := NewSynchronizer(sched, quietLogger())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			item, _ := domain.NewInboxItem(fmt.Sprintf("thought %d", i), "", at)
			domain.ApplySchedule(&item.TriageRecord, at, at)
			s.Reconcile(item, true)
		}(i)
	}
	wg.Wait()
	_ = s.Close()

	if _, pending := sched.snapshot(); len(pending) != 20 {
		t.Errorf("expected 20 pending reminders, got %d", len(pending))
	}
}

func TestSynchronizer_EnqueueAfterClose(t *testing.T) {
	s := NewSynchronizer(newFakeScheduler(), quietLogger())
	_ = s.Close()
	s.CancelAll()
	if err := s.Flush(context.Background()); err != nil {
		t.Errorf("Flush after Close: %v", err)
	}
}
