package commands

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"attentionos/internal/application"
	"attentionos/internal/domain"
	"attentionos/internal/ports"
)

func TestCreateCaseCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		fields  domain.CaseFields
		wantErr bool
		errMsg  string
	}{
		{"valid", domain.CaseFields{Title: "Ship v1", Importance: 3}, false, ""},
		{"missing title", domain.CaseFields{Title: "  "}, true, "title is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewCreateCaseCommand(nil, tt.fields).Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
			}
		})
	}
}

func TestCreateCaseCommand_OutOfRangeRejected(t *testing.T) {
	env := newTestEnv(t)
	_, err := NewCreateCaseCommand(env.deps, domain.CaseFields{Title: "x", Importance: 11}).Execute(context.Background())
	if !errors.Is(err, application.ErrValidationFailed) {
		t.Errorf("expected validation error, got %v", err)
	}
	cases, _ := env.store.ListCases(context.Background())
	if len(cases) != 0 {
		t.Errorf("expected nothing stored, got %d cases", len(cases))
	}
}

func TestCreateCaseCommand_ReviewDateSchedulesReminder(t *testing.T) {
	env := newTestEnv(t)
	review := testNow.Add(48 * time.Hour)

	res, err := NewCreateCaseCommand(env.deps, domain.CaseFields{Title: "Taxes", NextReview: &review}).Execute(context.Background())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !res.Case.NotifyEnabled {
		t.Error("expected notify to follow the review date")
	}
	if at := env.pending(t)[res.Case.Key()]; !at.Equal(review) {
		t.Errorf("expected reminder at %v, got %v", review, at)
	}
}

func TestEditCaseCommand(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	cs := env.createCase(t, "Draft")

	res, err := NewEditCaseCommand(env.deps, cs.ID, func(f domain.CaseFields) domain.CaseFields {
		f.Title = "Final"
		f.Decision = domain.DecisionDelegate
		return f
	}).Execute(ctx)
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if res.Case.Title != "Final" || res.Case.Decision != domain.DecisionDelegate {
		t.Errorf("unexpected case after edit: %q %s", res.Case.Title, res.Case.Decision)
	}

	_, err = NewEditCaseCommand(env.deps, cs.ID, func(f domain.CaseFields) domain.CaseFields {
		f.Urgency = -1
		f.Title = "Broken"
		return f
	}).Execute(ctx)
	if !errors.Is(err, application.ErrValidationFailed) {
		t.Fatalf("expected validation error, got %v", err)
	}
	stored, _ := env.store.GetCase(ctx, cs.ID)
	if stored.Title != "Final" {
		t.Errorf("expected failed edit to leave the case alone, got %q", stored.Title)
	}
}

func TestListCasesCommand_FilterByState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	keep := env.createCase(t, "keep")
	dropped := env.createCase(t, "dropped")
	if _, err := NewTriageCommand(env.deps, domain.KindCase, dropped.ID, TriageDrop, time.Time{}).Execute(ctx); err != nil {
		t.Fatal(err)
	}

	res, err := NewListCasesCommand(env.deps, domain.StateActive).Execute(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(res.Cases) != 1 || res.Cases[0].ID != keep.ID {
		t.Errorf("expected only the active case, got %d", len(res.Cases))
	}

	all, err := NewListCasesCommand(env.deps, "").Execute(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all.Cases) != 2 {
		t.Errorf("expected 2 cases, got %d", len(all.Cases))
	}
}

func TestShowCaseCommand_RendersMarkdown(t *testing.T) {
	env := newTestEnv(t)
	cs := env.createCase(t, "Plan")
	env.startAttempt(t, cs.ID, "first try", domain.StateActive)

	res, err := NewShowCaseCommand(env.deps, cs.ID).Execute(context.Background())
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if len(res.Case.Attempts) != 1 {
		t.Errorf("expected 1 attempt, got %d", len(res.Case.Attempts))
	}
	if res.Filename != domain.ExportFilename(res.Case) {
		t.Errorf("unexpected filename %q", res.Filename)
	}
	if !strings.Contains(res.Markdown, "first try") {
		t.Errorf("expected attempt in markdown, got:\n%s", res.Markdown)
	}
}

func TestDeleteCaseCommand_CascadesAndCancels(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	review := testNow.Add(time.Hour)
	res, err := NewCreateCaseCommand(env.deps, domain.CaseFields{Title: "Gone", NextReview: &review}).Execute(ctx)
	if err != nil {
		t.Fatal(err)
	}
	cs := res.Case
	a := env.startAttempt(t, cs.ID, "parked", domain.StatePaused)
	if len(env.pending(t)) != 2 {
		t.Fatalf("expected 2 reminders before delete")
	}

	del, err := NewDeleteCaseCommand(env.deps, cs.ID).Execute(ctx)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if del.DeletedAttempts != 1 {
		t.Errorf("expected 1 deleted attempt, got %d", del.DeletedAttempts)
	}
	if _, err := env.store.GetAttempt(ctx, a.ID); !errors.Is(err, application.ErrNotFound) {
		t.Errorf("expected attempt deleted, got %v", err)
	}
	left, _ := env.store.ListAttempts(ctx, ports.AttemptFilter{})
	if len(left) != 0 {
		t.Errorf("expected no attempts left, got %d", len(left))
	}
	if pending := env.pending(t); len(pending) != 0 {
		t.Errorf("expected reminders cancelled, got %v", pending)
	}
}
