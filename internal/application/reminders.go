package application

import (
	"context"
	"log/slog"
	"sync"

	"attentionos/internal/domain"
	"attentionos/internal/ports"
)

const reminderQueueSize = 64

// Synchronizer keeps external reminders in line with entity state. Callers
// never wait for the scheduler: plans are queued and applied in order by a
// single worker, and scheduler failures are logged and dropped. The global
// notifications toggle is passed in on every call.
type Synchronizer struct {
	scheduler ports.ReminderScheduler
	logger    *slog.Logger

	mu     sync.RWMutex
	closed bool
	jobs   chan reminderJob
	done   chan struct{}
}

type reminderJob struct {
	plan      domain.ReminderPlan
	cancelAll bool
	barrier   chan struct{}
}

// NewSynchronizer starts the reminder worker
func NewSynchronizer(scheduler ports.ReminderScheduler, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Synchronizer{
		scheduler: scheduler,
		logger:    logger.With("component", "reminders"),
		jobs:      make(chan reminderJob, reminderQueueSize),
		done:      make(chan struct{}),
	}
	go s.run()
	return s
}

// Reconcile schedules or cancels the reminder for n. The returned plan is
// what will be applied.
func (s *Synchronizer) Reconcile(n domain.Notifiable, globalEnabled bool) domain.ReminderPlan {
	plan := domain.PlanReminder(n, globalEnabled)
	s.enqueue(reminderJob{plan: plan})
	return plan
}

// SyncThenReconcile turns notify on exactly when n has a review date, then
// reconciles
func (s *Synchronizer) SyncThenReconcile(n domain.Notifiable, globalEnabled bool) domain.ReminderPlan {
	domain.SyncNotify(n)
	return s.Reconcile(n, globalEnabled)
}

// ReconcileAll reconciles every entity, e.g. after the global toggle flips on
func (s *Synchronizer) ReconcileAll(entities []domain.Notifiable, globalEnabled bool) {
	for _, n := range entities {
		s.Reconcile(n, globalEnabled)
	}
}

// Cancel drops the reminder for n regardless of its fields
func (s *Synchronizer) Cancel(n domain.Notifiable) {
	s.enqueue(reminderJob{plan: domain.ReminderPlan{Action: domain.ReminderCancel, Key: n.Key()}})
}

// CancelAll drops every pending reminder
func (s *Synchronizer) CancelAll() {
	s.enqueue(reminderJob{cancelAll: true})
}

// RequestAuthorization asks the scheduler for permission up front
func (s *Synchronizer) RequestAuthorization(ctx context.Context) bool {
	return s.scheduler.RequestAuthorization(ctx)
}

// Flush waits until everything queued before the call has been applied
func (s *Synchronizer) Flush(ctx context.Context) error {
	barrier := make(chan struct{})
	if !s.enqueue(reminderJob{barrier: barrier}) {
		return nil
	}
	select {
	case <-barrier:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close applies the queued work and stops the worker
func (s *Synchronizer) Close() error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.jobs)
	}
	s.mu.Unlock()
	<-s.done
	return nil
}

func (s *Synchronizer) enqueue(j reminderJob) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.logger.Debug("synchronizer closed, dropping reminder job", "key", j.plan.Key)
		return false
	}
	s.jobs <- j
	return true
}

func (s *Synchronizer) run() {
	defer close(s.done)
	ctx := context.Background()
	for j := range s.jobs {
		switch {
		case j.barrier != nil:
			close(j.barrier)
		case j.cancelAll:
			if err := s.scheduler.CancelAll(ctx); err != nil {
				s.logger.Warn("cancel all reminders failed", "error", err)
			}
		default:
			s.apply(ctx, j.plan)
		}
	}
}

// apply always cancels first so a schedule replaces any earlier reminder
func (s *Synchronizer) apply(ctx context.Context, plan domain.ReminderPlan) {
	if err := s.scheduler.Cancel(ctx, plan.Key); err != nil {
		s.logger.Warn("cancel reminder failed", "key", plan.Key, "error", err)
	}
	if plan.Action != domain.ReminderSchedule {
		return
	}
	if !s.scheduler.RequestAuthorization(ctx) {
		s.logger.Debug("reminders not authorized", "key", plan.Key)
		return
	}
	if err := s.scheduler.Schedule(ctx, plan.Key, plan.At, plan.Title, plan.Body); err != nil {
		s.logger.Warn("schedule reminder failed", "key", plan.Key, "at", plan.At, "error", err)
		return
	}
	s.logger.Debug("reminder scheduled", "key", plan.Key, "at", plan.At)
}
