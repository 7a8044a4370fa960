package commands

import (
	"context"
	"testing"
	"time"

	"attentionos/internal/domain"
)

func ids[T domain.Notifiable](items []T) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.NotificationTitle())
	}
	return out
}

func TestReviewCommand_Buckets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	fresh := env.capture(t, "fresh")
	overdue := env.capture(t, "overdue")
	later := env.capture(t, "later")
	urgent := env.capture(t, "urgent")
	_ = fresh

	if _, err := NewTriageCommand(env.deps, domain.KindInbox, overdue.ID, TriageSchedule, testNow.Add(-time.Second)).Execute(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := NewTriageCommand(env.deps, domain.KindInbox, later.ID, TriageSchedule, testNow.Add(time.Second)).Execute(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := NewTriageCommand(env.deps, domain.KindInbox, urgent.ID, TriageDoNow, time.Time{}).Execute(ctx); err != nil {
		t.Fatal(err)
	}

	cs := env.createCase(t, "case due")
	if _, err := NewTriageCommand(env.deps, domain.KindCase, cs.ID, TriageSchedule, testNow.Add(-time.Hour)).Execute(ctx); err != nil {
		t.Fatal(err)
	}

	res, err := NewReviewCommand(env.deps, time.Time{}).Execute(ctx)
	if err != nil {
		t.Fatalf("review: %v", err)
	}

	assertTitles(t, "due", ids(res.Due), "overdue")
	assertTitles(t, "inbox", ids(res.Inbox), "fresh")
	assertTitles(t, "do now", ids(res.DoNow), "urgent")
	assertTitles(t, "scheduled", ids(res.Scheduled), "later")
	assertTitles(t, "due cases", ids(res.DueCases), "case due")
	if len(res.DueAttempts) != 0 {
		t.Errorf("expected no due attempts, got %d", len(res.DueAttempts))
	}
	if res.Empty() {
		t.Error("expected review not to be empty")
	}
}

func TestReviewCommand_Empty(t *testing.T) {
	env := newTestEnv(t)
	res, err := NewReviewCommand(env.deps, testNow).Execute(context.Background())
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if !res.Empty() {
		t.Error("expected empty review")
	}
}

func assertTitles(t *testing.T, bucket string, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("%s: expected %v, got %v", bucket, want, got)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s: expected %v, got %v", bucket, want, got)
			return
		}
	}
}

func TestReviewResult_Sections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.capture(t, "only")

	res, err := NewReviewCommand(env.deps, time.Time{}).Execute(ctx)
	if err != nil {
		t.Fatalf("review: %v", err)
	}

	sections := res.Sections()
	wantTitles := []string{"Due", "Inbox", "Do Now", "Scheduled"}
	if len(sections) != len(wantTitles) {
		t.Fatalf("expected %d sections, got %d", len(wantTitles), len(sections))
	}
	for i, s := range sections {
		if s.Title != wantTitles[i] {
			t.Errorf("section %d: expected %q, got %q", i, wantTitles[i], s.Title)
		}
	}
	if len(sections[1].Items) != 1 {
		t.Errorf("expected the captured item in Inbox, got %d", len(sections[1].Items))
	}
	if sections[0].Empty != "Nothing due right now" {
		t.Errorf("unexpected empty text %q", sections[0].Empty)
	}
}
