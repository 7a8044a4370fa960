package commands

import (
	"context"
	"fmt"

	"attentionos/internal/application"
	"attentionos/internal/domain"
	"attentionos/internal/ports"
)

// CreateCaseResult contains the result of creating a case
type CreateCaseResult struct {
	Case    *domain.Case
	Message string
}

// CreateCaseCommand creates a new case
type CreateCaseCommand struct {
	deps   *Deps
	Fields domain.CaseFields
}

// NewCreateCaseCommand creates a new CreateCaseCommand
func NewCreateCaseCommand(deps *Deps, fields domain.CaseFields) *CreateCaseCommand {
	return &CreateCaseCommand{
		deps:   deps,
		Fields: fields,
	}
}

// Validate checks the case fields
func (c *CreateCaseCommand) Validate() error {
	return application.ValidateRequired("title", c.Fields.Title)
}

// Execute runs the create case command
func (c *CreateCaseCommand) Execute(ctx context.Context) (*CreateCaseResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	cs, err := domain.NewCase(c.Fields, c.deps.now())
	if err != nil {
		return nil, err
	}
	if err := c.deps.Store.InsertCase(ctx, cs); err != nil {
		return nil, fmt.Errorf("failed to create case: %w", err)
	}

	c.deps.syncReconcile(ctx, cs)

	return &CreateCaseResult{
		Case:    cs,
		Message: fmt.Sprintf("Created case: %s", cs.Title),
	}, nil
}

// EditCaseResult contains the result of editing a case
type EditCaseResult struct {
	Case    *domain.Case
	Message string
}

// EditCaseCommand replaces the editable fields of a case
type EditCaseCommand struct {
	deps   *Deps
	CaseID string
	Edit   func(current domain.CaseFields) domain.CaseFields
}

// NewEditCaseCommand creates a new EditCaseCommand. edit receives the
// current values and returns the replacement.
func NewEditCaseCommand(deps *Deps, caseID string, edit func(domain.CaseFields) domain.CaseFields) *EditCaseCommand {
	return &EditCaseCommand{
		deps:   deps,
		CaseID: caseID,
		Edit:   edit,
	}
}

// Validate checks the edit arguments
func (c *EditCaseCommand) Validate() error {
	if err := application.ValidateRequired("caseID", c.CaseID); err != nil {
		return err
	}
	if c.Edit == nil {
		return &application.ValidationError{Field: "edit", Message: "nothing to edit"}
	}
	return nil
}

// Execute runs the edit case command
func (c *EditCaseCommand) Execute(ctx context.Context) (*EditCaseResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var cs *domain.Case
	err := c.deps.Store.WithinTx(ctx, func(tx ports.TriageRepository) error {
		current, err := tx.GetCase(ctx, c.CaseID)
		if err != nil {
			return err
		}
		fields := c.Edit(CaseFieldsFrom(current))
		if err := application.ValidateRequired("title", fields.Title); err != nil {
			return err
		}
		if err := current.Edit(fields, c.deps.now()); err != nil {
			return err
		}
		cs = current
		return tx.SaveCase(ctx, current)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to edit case: %w", err)
	}

	c.deps.syncReconcile(ctx, cs)

	return &EditCaseResult{
		Case:    cs,
		Message: fmt.Sprintf("Updated case: %s", cs.Title),
	}, nil
}

// CaseFieldsFrom seeds an edit with the case's current values
func CaseFieldsFrom(c *domain.Case) domain.CaseFields {
	return domain.CaseFields{
		Title:      c.Title,
		Brief:      c.Brief,
		Details:    c.Details,
		Importance: c.Importance,
		Urgency:    c.Urgency,
		Decision:   c.Decision,
		NextReview: c.NextReview,
	}
}

// ListCasesResult contains the cases, newest first
type ListCasesResult struct {
	Cases []*domain.Case
}

// ListCasesCommand lists cases, optionally narrowed to one state
type ListCasesCommand struct {
	deps  *Deps
	State domain.State
}

// NewListCasesCommand creates a new ListCasesCommand. An empty state lists all.
func NewListCasesCommand(deps *Deps, state domain.State) *ListCasesCommand {
	return &ListCasesCommand{
		deps:  deps,
		State: state,
	}
}

// Execute runs the list cases command
func (c *ListCasesCommand) Execute(ctx context.Context) (*ListCasesResult, error) {
	if c.State != "" && !c.State.Valid() {
		return nil, &application.ValidationError{Field: "state", Message: fmt.Sprintf("unknown state %q", c.State)}
	}

	cases, err := c.deps.Store.ListCases(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	if c.State == "" {
		return &ListCasesResult{Cases: cases}, nil
	}

	filtered := make([]*domain.Case, 0, len(cases))
	for _, cs := range cases {
		if cs.State == c.State {
			filtered = append(filtered, cs)
		}
	}
	return &ListCasesResult{Cases: filtered}, nil
}

// ShowCaseResult contains a case with its attempts and export preview
type ShowCaseResult struct {
	Case     *domain.Case
	Filename string
	Markdown string
}

// ShowCaseCommand loads one case
type ShowCaseCommand struct {
	deps   *Deps
	CaseID string
}

// NewShowCaseCommand creates a new ShowCaseCommand
func NewShowCaseCommand(deps *Deps, caseID string) *ShowCaseCommand {
	return &ShowCaseCommand{
		deps:   deps,
		CaseID: caseID,
	}
}

// Execute runs the show case command
func (c *ShowCaseCommand) Execute(ctx context.Context) (*ShowCaseResult, error) {
	if err := application.ValidateRequired("caseID", c.CaseID); err != nil {
		return nil, err
	}

	cs, err := c.deps.Store.GetCase(ctx, c.CaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load case: %w", err)
	}
	filename, content := domain.RenderCase(cs)
	return &ShowCaseResult{
		Case:     cs,
		Filename: filename,
		Markdown: content,
	}, nil
}

// DeleteCaseResult contains the result of deleting a case
type DeleteCaseResult struct {
	CaseID          string
	DeletedAttempts int
	Message         string
}

// DeleteCaseCommand removes a case, its attempts and their reminders
type DeleteCaseCommand struct {
	deps   *Deps
	CaseID string
}

// NewDeleteCaseCommand creates a new DeleteCaseCommand
func NewDeleteCaseCommand(deps *Deps, caseID string) *DeleteCaseCommand {
	return &DeleteCaseCommand{
		deps:   deps,
		CaseID: caseID,
	}
}

// Validate checks the delete arguments
func (c *DeleteCaseCommand) Validate() error {
	return application.ValidateRequired("caseID", c.CaseID)
}

// Execute runs the delete case command
func (c *DeleteCaseCommand) Execute(ctx context.Context) (*DeleteCaseResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var cs *domain.Case
	err := c.deps.Store.WithinTx(ctx, func(tx ports.TriageRepository) error {
		current, err := tx.GetCase(ctx, c.CaseID)
		if err != nil {
			return err
		}
		cs = current
		return tx.DeleteCase(ctx, c.CaseID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete case: %w", err)
	}

	entities := []domain.Notifiable{cs}
	for _, a := range cs.Attempts {
		entities = append(entities, a)
	}
	c.deps.cancelReminders(entities...)

	return &DeleteCaseResult{
		CaseID:          cs.ID,
		DeletedAttempts: len(cs.Attempts),
		Message:         fmt.Sprintf("Deleted case: %s (%d attempts)", cs.Title, len(cs.Attempts)),
	}, nil
}
