package domain

import (
	"testing"
	"time"
)

func TestPlanReminder(t *testing.T) {
	at := time.Date(2025, 3, 5, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		next       *time.Time
		notify     bool
		global     bool
		wantAction ReminderAction
	}{
		{"everything on", &at, true, true, ReminderSchedule},
		{"global off", &at, true, false, ReminderCancel},
		{"entity opted out", &at, false, true, ReminderCancel},
		{"no review date", nil, true, true, ReminderCancel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := &InboxItem{ID: "i1", Thought: "Plan Q2", TriageRecord: TriageRecord{NextReview: tt.next, NotifyEnabled: tt.notify}}
			plan := PlanReminder(it, tt.global)
			if plan.Action != tt.wantAction {
				t.Fatalf("action = %s, want %s", plan.Action, tt.wantAction)
			}
			if plan.Key != "Inbox:i1" {
				t.Errorf("key = %q", plan.Key)
			}
			if plan.Action == ReminderSchedule && (!plan.At.Equal(at) || plan.Title != "Plan Q2") {
				t.Errorf("unexpected plan: %+v", plan)
			}
		})
	}
}

func TestNotificationTextFallbacks(t *testing.T) {
	tests := []struct {
		name      string
		entity    Notifiable
		wantKey   string
		wantTitle string
		wantBody  string
	}{
		{"inbox empty", &InboxItem{ID: "1"}, "Inbox:1", "Inbox Review", "Scheduled review is due."},
		{"inbox filled", &InboxItem{ID: "1", Thought: "t", Why: "w"}, "Inbox:1", "t", "w"},
		{"case empty", &Case{ID: "2"}, "Case:2", "Case Review", "Scheduled case review is due."},
		{"case filled", &Case{ID: "2", Title: "Launch", Brief: "ship it"}, "Case:2", "Launch", "ship it"},
		{"attempt empty", &Attempt{ID: "3"}, "Attempt:3", "Attempt Review", "Scheduled attempt review is due."},
		{"attempt filled", &Attempt{ID: "3", Note: "try X", Outcome: "meh"}, "Attempt:3", "try X", "meh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entity.Key(); got != tt.wantKey {
				t.Errorf("Key() = %q, want %q", got, tt.wantKey)
			}
			if got := tt.entity.NotificationTitle(); got != tt.wantTitle {
				t.Errorf("NotificationTitle() = %q, want %q", got, tt.wantTitle)
			}
			if got := tt.entity.NotificationBody(); got != tt.wantBody {
				t.Errorf("NotificationBody() = %q, want %q", got, tt.wantBody)
			}
		})
	}
}

func TestSyncNotify(t *testing.T) {
	at := time.Now()
	c := &Case{ID: "c", TriageRecord: TriageRecord{NextReview: &at}}
	SyncNotify(c)
	if !c.NotifyEnabled {
		t.Error("expected notify on with a review date")
	}
	c.NextReview = nil
	SyncNotify(c)
	if c.NotifyEnabled {
		t.Error("expected notify off without a review date")
	}
}
