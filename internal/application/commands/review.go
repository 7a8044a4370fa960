package commands

import (
	"context"
	"fmt"
	"time"

	"attentionos/internal/domain"
	"attentionos/internal/ports"
)

// ReviewResult holds the review buckets. Buckets may overlap.
type ReviewResult struct {
	Due       []*domain.InboxItem
	Inbox     []*domain.InboxItem
	DoNow     []*domain.InboxItem
	Scheduled []*domain.InboxItem

	DueCases    []*domain.Case
	DueAttempts []*domain.Attempt
	Now         time.Time
}

// Empty reports whether every bucket is empty
func (r *ReviewResult) Empty() bool {
	return len(r.Due)+len(r.Inbox)+len(r.DoNow)+len(r.Scheduled)+len(r.DueCases)+len(r.DueAttempts) == 0
}

// ReviewCommand computes what needs attention at a point in time
type ReviewCommand struct {
	deps *Deps
	At   time.Time
}

// NewReviewCommand creates a new ReviewCommand. A zero at means now.
func NewReviewCommand(deps *Deps, at time.Time) *ReviewCommand {
	return &ReviewCommand{
		deps: deps,
		At:   at,
	}
}

// Execute runs the review command
func (c *ReviewCommand) Execute(ctx context.Context) (*ReviewResult, error) {
	now := c.At
	if now.IsZero() {
		now = c.deps.now()
	}

	items, err := c.deps.Store.ListInboxItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list inbox: %w", err)
	}
	cases, err := c.deps.Store.ListCases(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	attempts, err := c.deps.Store.ListAttempts(ctx, ports.AttemptFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	return &ReviewResult{
		Due:         domain.ClassifyDue(items, now),
		Inbox:       domain.ClassifyInbox(items),
		DoNow:       domain.ClassifyDoNow(items),
		Scheduled:   domain.ClassifyScheduled(items, now),
		DueCases:    domain.ClassifyDue(cases, now),
		DueAttempts: domain.ClassifyDue(attempts, now),
		Now:         now,
	}, nil
}

// ReviewSection is one titled inbox bucket as shown to the user
type ReviewSection struct {
	Title string
	// Empty is shown instead of the items when there are none
	Empty string
	Items []*domain.InboxItem
}

// Sections returns the inbox buckets in display order
func (r *ReviewResult) Sections() []ReviewSection {
	return []ReviewSection{
		{Title: "Due", Empty: "Nothing due right now", Items: r.Due},
		{Title: "Inbox", Empty: "Inbox is clear", Items: r.Inbox},
		{Title: "Do Now", Empty: "No immediate actions", Items: r.DoNow},
		{Title: "Scheduled", Empty: "Nothing scheduled yet", Items: r.Scheduled},
	}
}
