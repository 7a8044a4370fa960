package ports

import (
	"context"

	"attentionos/internal/domain"
)

// AttemptFilter narrows an attempt fetch. Zero values match everything.
type AttemptFilter struct {
	CaseID string
	State  domain.State
}

// Matches reports whether a passes the filter
func (f AttemptFilter) Matches(a *domain.Attempt) bool {
	if f.CaseID != "" && a.CaseID != f.CaseID {
		return false
	}
	if f.State != "" && a.State != f.State {
		return false
	}
	return true
}

// TriageRepository is the persistence surface used by the commands.
// Lists are newest first; a case's attempts come back in creation order.
type TriageRepository interface {
	// Inbox items
	InsertInboxItem(ctx context.Context, item *domain.InboxItem) error
	GetInboxItem(ctx context.Context, id string) (*domain.InboxItem, error)
	ListInboxItems(ctx context.Context) ([]*domain.InboxItem, error)
	SaveInboxItem(ctx context.Context, item *domain.InboxItem) error
	DeleteInboxItem(ctx context.Context, id string) error

	// Cases
	InsertCase(ctx context.Context, c *domain.Case) error
	GetCase(ctx context.Context, id string) (*domain.Case, error)
	ListCases(ctx context.Context) ([]*domain.Case, error)
	SaveCase(ctx context.Context, c *domain.Case) error
	// DeleteCase removes the case together with all of its attempts
	DeleteCase(ctx context.Context, id string) error

	// Attempts
	InsertAttempt(ctx context.Context, a *domain.Attempt) error
	GetAttempt(ctx context.Context, id string) (*domain.Attempt, error)
	ListAttempts(ctx context.Context, filter AttemptFilter) ([]*domain.Attempt, error)
	SaveAttempt(ctx context.Context, a *domain.Attempt) error
}

// TriageStore adds serialized transactions on top of the repository
type TriageStore interface {
	TriageRepository

	// WithinTx runs fn against a consistent view. Writes made through the
	// passed repository commit together when fn returns nil and are
	// discarded otherwise. Transactions never interleave.
	WithinTx(ctx context.Context, fn func(tx TriageRepository) error) error

	Close() error
}
