package sqlite

import (
	"context"
	"database/sql"

	"attentionos/internal/ports"
)

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// triageTx implements ports.TriageRepository inside one transaction
type triageTx struct {
	repo
	tx *sql.Tx
}

// Ensure triageTx implements TriageRepository
var _ ports.TriageRepository = (*triageTx)(nil)

// Commit commits the transaction
func (t *triageTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *triageTx) Rollback() error {
	return t.tx.Rollback()
}
