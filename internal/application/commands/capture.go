package commands

import (
	"context"
	"fmt"

	"attentionos/internal/application"
	"attentionos/internal/domain"
)

// CaptureResult contains the result of capturing a thought
type CaptureResult struct {
	Item    *domain.InboxItem
	Message string
}

// CaptureCommand records a raw thought in the inbox
type CaptureCommand struct {
	deps    *Deps
	Thought string
	Why     string
}

// NewCaptureCommand creates a new CaptureCommand
func NewCaptureCommand(deps *Deps, thought, why string) *CaptureCommand {
	return &CaptureCommand{
		deps:    deps,
		Thought: thought,
		Why:     why,
	}
}

// Validate checks that there is something to capture
func (c *CaptureCommand) Validate() error {
	return application.ValidateRequired("thought", c.Thought)
}

// Execute runs the capture command
func (c *CaptureCommand) Execute(ctx context.Context) (*CaptureResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	item, err := domain.NewInboxItem(c.Thought, c.Why, c.deps.now())
	if err != nil {
		return nil, err
	}
	if err := c.deps.Store.InsertInboxItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to capture thought: %w", err)
	}

	return &CaptureResult{
		Item:    item,
		Message: fmt.Sprintf("Captured: %s", item.Thought),
	}, nil
}
