package commands

import (
	"context"
	"fmt"
	"time"

	"attentionos/internal/application"
	"attentionos/internal/domain"
	"attentionos/internal/ports"
)

// guardActivation fails when an attempt other than candidateID is active.
// It must run inside the transaction that writes the activation.
func guardActivation(ctx context.Context, tx ports.TriageRepository, candidateID string) error {
	active, err := tx.ListAttempts(ctx, ports.AttemptFilter{State: domain.StateActive})
	if err != nil {
		return fmt.Errorf("list active attempts: %w", err)
	}
	if domain.CanActivate(candidateID, active) {
		return nil
	}
	for _, a := range active {
		if a.ID != candidateID {
			return &application.ActivationError{AttemptID: candidateID, ActiveID: a.ID}
		}
	}
	return application.ErrConcurrentActiveAttempt
}

// StartAttemptResult contains the result of starting an attempt
type StartAttemptResult struct {
	Attempt *domain.Attempt
	Message string
}

// StartAttemptCommand creates an attempt under a case
type StartAttemptCommand struct {
	deps   *Deps
	CaseID string
	Fields domain.AttemptFields
}

// NewStartAttemptCommand creates a new StartAttemptCommand
func NewStartAttemptCommand(deps *Deps, caseID string, fields domain.AttemptFields) *StartAttemptCommand {
	return &StartAttemptCommand{
		deps:   deps,
		CaseID: caseID,
		Fields: fields,
	}
}

// Validate checks the attempt arguments
func (c *StartAttemptCommand) Validate() error {
	if err := application.ValidateRequired("caseID", c.CaseID); err != nil {
		return err
	}
	if c.Fields.State == domain.StateDone {
		return &application.ValidationError{Field: "state", Message: "a new attempt cannot start as done"}
	}
	return nil
}

// Execute runs the start attempt command. Creating an active attempt while
// another one is active fails and writes nothing.
func (c *StartAttemptCommand) Execute(ctx context.Context) (*StartAttemptResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	attempt, err := domain.NewAttempt(c.CaseID, c.Fields, c.deps.now())
	if err != nil {
		return nil, err
	}

	err = c.deps.Store.WithinTx(ctx, func(tx ports.TriageRepository) error {
		if _, err := tx.GetCase(ctx, c.CaseID); err != nil {
			return err
		}
		if attempt.State == domain.StateActive {
			if err := guardActivation(ctx, tx, attempt.ID); err != nil {
				return err
			}
		}
		return tx.InsertAttempt(ctx, attempt)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start attempt: %w", err)
	}

	c.deps.syncReconcile(ctx, attempt)

	return &StartAttemptResult{
		Attempt: attempt,
		Message: fmt.Sprintf("Started attempt: %s (%s)", attempt.NotificationTitle(), attempt.State),
	}, nil
}

// CompleteAttemptResult contains the result of completing an attempt
type CompleteAttemptResult struct {
	Attempt *domain.Attempt
	Message string
}

// CompleteAttemptCommand closes an attempt with an outcome
type CompleteAttemptCommand struct {
	deps      *Deps
	AttemptID string
	Values    domain.CompletionValues
}

// NewCompleteAttemptCommand creates a new CompleteAttemptCommand
func NewCompleteAttemptCommand(deps *Deps, attemptID string, values domain.CompletionValues) *CompleteAttemptCommand {
	return &CompleteAttemptCommand{
		deps:      deps,
		AttemptID: attemptID,
		Values:    values,
	}
}

// Validate checks the completion before anything is read
func (c *CompleteAttemptCommand) Validate() error {
	if err := application.ValidateRequired("attemptID", c.AttemptID); err != nil {
		return err
	}
	return c.Values.Validate()
}

// Execute runs the complete attempt command
func (c *CompleteAttemptCommand) Execute(ctx context.Context) (*CompleteAttemptResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var attempt *domain.Attempt
	err := c.deps.Store.WithinTx(ctx, func(tx ports.TriageRepository) error {
		a, err := tx.GetAttempt(ctx, c.AttemptID)
		if err != nil {
			return err
		}
		if err := a.Complete(c.Values, c.deps.now()); err != nil {
			return err
		}
		attempt = a
		return tx.SaveAttempt(ctx, a)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to complete attempt: %w", err)
	}

	c.deps.reconcile(ctx, attempt)

	return &CompleteAttemptResult{
		Attempt: attempt,
		Message: fmt.Sprintf("Completed attempt: %s (decision=%s)", attempt.NotificationTitle(), attempt.Decision),
	}, nil
}

// PauseAttemptResult contains the result of pausing an attempt
type PauseAttemptResult struct {
	Attempt *domain.Attempt
	Message string
}

// PauseAttemptCommand parks an active attempt until a review date
type PauseAttemptCommand struct {
	deps      *Deps
	AttemptID string
	Until     time.Time
}

// NewPauseAttemptCommand creates a new PauseAttemptCommand
func NewPauseAttemptCommand(deps *Deps, attemptID string, until time.Time) *PauseAttemptCommand {
	return &PauseAttemptCommand{
		deps:      deps,
		AttemptID: attemptID,
		Until:     until,
	}
}

// Validate checks the pause arguments
func (c *PauseAttemptCommand) Validate() error {
	if err := application.ValidateRequired("attemptID", c.AttemptID); err != nil {
		return err
	}
	return application.ValidateDate("nextReview", c.Until)
}

// Execute runs the pause attempt command
func (c *PauseAttemptCommand) Execute(ctx context.Context) (*PauseAttemptResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var attempt *domain.Attempt
	err := c.deps.Store.WithinTx(ctx, func(tx ports.TriageRepository) error {
		a, err := tx.GetAttempt(ctx, c.AttemptID)
		if err != nil {
			return err
		}
		if err := a.Pause(c.Until, c.deps.now()); err != nil {
			return err
		}
		attempt = a
		return tx.SaveAttempt(ctx, a)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to pause attempt: %w", err)
	}

	c.deps.reconcile(ctx, attempt)

	return &PauseAttemptResult{
		Attempt: attempt,
		Message: fmt.Sprintf("Paused attempt: %s until %s", attempt.NotificationTitle(), c.Until.Format("2006-01-02 15:04")),
	}, nil
}

// EditAttemptResult contains the result of editing an attempt
type EditAttemptResult struct {
	Attempt *domain.Attempt
	Message string
}

// EditAttemptCommand replaces the editable fields of an attempt
type EditAttemptCommand struct {
	deps      *Deps
	AttemptID string
	Edit      func(current domain.AttemptEdit) domain.AttemptEdit
}

// NewEditAttemptCommand creates a new EditAttemptCommand. edit receives the
// current values and returns the replacement.
func NewEditAttemptCommand(deps *Deps, attemptID string, edit func(domain.AttemptEdit) domain.AttemptEdit) *EditAttemptCommand {
	return &EditAttemptCommand{
		deps:      deps,
		AttemptID: attemptID,
		Edit:      edit,
	}
}

// Validate checks the edit arguments
func (c *EditAttemptCommand) Validate() error {
	if err := application.ValidateRequired("attemptID", c.AttemptID); err != nil {
		return err
	}
	if c.Edit == nil {
		return &application.ValidationError{Field: "edit", Message: "nothing to edit"}
	}
	return nil
}

// Execute runs the edit attempt command. Moving into active goes through
// the same guard as starting an attempt.
func (c *EditAttemptCommand) Execute(ctx context.Context) (*EditAttemptResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var attempt *domain.Attempt
	err := c.deps.Store.WithinTx(ctx, func(tx ports.TriageRepository) error {
		a, err := tx.GetAttempt(ctx, c.AttemptID)
		if err != nil {
			return err
		}
		edit := c.Edit(domain.EditFrom(a))
		if edit.Activates(a) {
			if err := guardActivation(ctx, tx, a.ID); err != nil {
				return err
			}
		}
		if err := a.ApplyEdit(edit, c.deps.now()); err != nil {
			return err
		}
		attempt = a
		return tx.SaveAttempt(ctx, a)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to edit attempt: %w", err)
	}

	c.deps.syncReconcile(ctx, attempt)

	return &EditAttemptResult{
		Attempt: attempt,
		Message: fmt.Sprintf("Updated attempt: %s", attempt.NotificationTitle()),
	}, nil
}
