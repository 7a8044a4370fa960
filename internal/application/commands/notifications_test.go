package commands

import (
	"context"
	"testing"
	"time"

	"attentionos/internal/domain"
)

func TestSetNotificationsCommand_OffThenOn(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	item := env.capture(t, "Dentist")
	if _, err := NewTriageCommand(env.deps, domain.KindInbox, item.ID, TriageSchedule, testNow.Add(time.Hour)).Execute(ctx); err != nil {
		t.Fatal(err)
	}
	cs := env.createCase(t, "Case")
	paused := env.startAttempt(t, cs.ID, "parked", domain.StatePaused)
	if len(env.pending(t)) != 2 {
		t.Fatal("expected 2 reminders before toggling")
	}

	res, err := NewSetNotificationsCommand(env.deps, false).Execute(ctx)
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if res.Enabled {
		t.Error("expected disabled")
	}
	if len(env.pending(t)) != 0 {
		t.Error("expected all reminders cancelled")
	}
	if env.deps.NotificationsEnabled(ctx) {
		t.Error("expected setting persisted as off")
	}

	res, err = NewSetNotificationsCommand(env.deps, true).Execute(ctx)
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if !res.Authorized || res.Reconciled != 3 {
		t.Errorf("expected authorized with 3 reconciled, got %v / %d", res.Authorized, res.Reconciled)
	}
	pending := env.pending(t)
	if _, ok := pending[item.Key()]; !ok {
		t.Error("expected inbox reminder restored")
	}
	if _, ok := pending[paused.Key()]; !ok {
		t.Error("expected attempt reminder restored")
	}
	if _, ok := pending[cs.Key()]; ok {
		t.Error("expected no reminder for a case without review date")
	}
}

func TestNotificationStatusCommand(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	cs := env.createCase(t, "Case")
	env.startAttempt(t, cs.ID, "parked", domain.StatePaused)

	res, err := NewNotificationStatusCommand(env.deps, env.scheduler).Execute(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !res.Enabled || !res.Listed || len(res.Pending) != 1 {
		t.Errorf("expected enabled with one pending reminder, got %+v", res)
	}

	res, err = NewNotificationStatusCommand(env.deps, nil).Execute(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if res.Listed {
		t.Error("expected Listed=false without a lister")
	}
}

func TestNotificationStatusCommand_DueOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	cs := env.createCase(t, "Case")
	env.startAttempt(t, cs.ID, "parked", domain.StatePaused)

	status := NewNotificationStatusCommand(env.deps, env.scheduler)
	status.DueOnly = true
	res, err := status.Execute(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if len(res.Pending) != 0 {
		t.Fatalf("expected nothing due yet, got %+v", res.Pending)
	}

	env.deps.Clock = func() time.Time { return testNow.Add(48 * time.Hour) }
	res, err = status.Execute(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if len(res.Pending) != 1 {
		t.Errorf("expected the paused attempt reminder to be due, got %+v", res.Pending)
	}
}
