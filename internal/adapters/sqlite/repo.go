package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"attentionos/internal/domain"
	"attentionos/internal/ports"
)

// timeLayout is fixed width so stored timestamps sort as text
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

const recordColumns = `importance, urgency, state, decision, benefit, friction, next_review, notify_enabled, manual, created_at, updated_at`

func recordArgs(r *domain.TriageRecord) []any {
	return []any{
		r.Importance, r.Urgency, string(r.State), string(r.Decision), r.Benefit, r.Friction,
		nullTime(r.NextReview), boolInt(r.NotifyEnabled), boolInt(r.Manual),
		formatTime(r.CreatedAt), formatTime(r.UpdatedAt),
	}
}

const recordAssignments = `importance = ?, urgency = ?, state = ?, decision = ?, benefit = ?, friction = ?, next_review = ?, notify_enabled = ?, manual = ?, updated_at = ?`

func recordUpdateArgs(r *domain.TriageRecord) []any {
	return []any{
		r.Importance, r.Urgency, string(r.State), string(r.Decision), r.Benefit, r.Friction,
		nullTime(r.NextReview), boolInt(r.NotifyEnabled), boolInt(r.Manual), formatTime(r.UpdatedAt),
	}
}

// recordScan collects the raw column values of a triage record
type recordScan struct {
	state, decision      string
	nextReview           sql.NullString
	notify, manual       int
	createdAt, updatedAt string
}

func (rs *recordScan) dest(r *domain.TriageRecord) []any {
	return []any{
		&r.Importance, &r.Urgency, &rs.state, &rs.decision, &r.Benefit, &r.Friction,
		&rs.nextReview, &rs.notify, &rs.manual, &rs.createdAt, &rs.updatedAt,
	}
}

func (rs *recordScan) apply(r *domain.TriageRecord) error {
	r.State = domain.State(rs.state)
	r.Decision = domain.Decision(rs.decision)
	r.NotifyEnabled = rs.notify != 0
	r.Manual = rs.manual != 0

	var err error
	if r.CreatedAt, err = parseTime(rs.createdAt); err != nil {
		return fmt.Errorf("parse created_at: %w", err)
	}
	if r.UpdatedAt, err = parseTime(rs.updatedAt); err != nil {
		return fmt.Errorf("parse updated_at: %w", err)
	}
	r.NextReview = nil
	if rs.nextReview.Valid {
		t, err := parseTime(rs.nextReview.String)
		if err != nil {
			return fmt.Errorf("parse next_review: %w", err)
		}
		r.NextReview = &t
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

// repo runs TriageRepository queries against a database or transaction
type repo struct {
	q querier
}

func notFound(kind, id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
	}
	return fmt.Errorf("get %s %s: %w", kind, id, err)
}

func expectAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %s: rows affected: %w", kind, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
	}
	return nil
}

// Inbox items

const inboxSelect = `SELECT id, thought, why, ` + recordColumns + ` FROM inbox_items`

func scanInboxItem(s scanner) (*domain.InboxItem, error) {
	var item domain.InboxItem
	var rs recordScan
	dest := append([]any{&item.ID, &item.Thought, &item.Why}, rs.dest(&item.TriageRecord)...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	if err := rs.apply(&item.TriageRecord); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repo) InsertInboxItem(ctx context.Context, item *domain.InboxItem) error {
	args := append([]any{item.ID, item.Thought, item.Why}, recordArgs(&item.TriageRecord)...)
	_, err := r.q.ExecContext(ctx, `INSERT INTO inbox_items (id, thought, why, `+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		return fmt.Errorf("insert inbox item: %w", err)
	}
	return nil
}

func (r *repo) GetInboxItem(ctx context.Context, id string) (*domain.InboxItem, error) {
	item, err := scanInboxItem(r.q.QueryRowContext(ctx, inboxSelect+` WHERE id = ?`, id))
	if err != nil {
		return nil, notFound("inbox item", id, err)
	}
	return item, nil
}

func (r *repo) ListInboxItems(ctx context.Context) ([]*domain.InboxItem, error) {
	rows, err := r.q.QueryContext(ctx, inboxSelect+` ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list inbox items: %w", err)
	}
	defer rows.Close()

	var items []*domain.InboxItem
	for rows.Next() {
		item, err := scanInboxItem(rows)
		if err != nil {
			return nil, fmt.Errorf("list inbox items: scan: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *repo) SaveInboxItem(ctx context.Context, item *domain.InboxItem) error {
	args := append([]any{item.Thought, item.Why}, recordUpdateArgs(&item.TriageRecord)...)
	res, err := r.q.ExecContext(ctx, `UPDATE inbox_items SET thought = ?, why = ?, `+recordAssignments+` WHERE id = ?`,
		append(args, item.ID)...)
	if err != nil {
		return fmt.Errorf("save inbox item: %w", err)
	}
	return expectAffected(res, "inbox item", item.ID)
}

func (r *repo) DeleteInboxItem(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM inbox_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete inbox item: %w", err)
	}
	return expectAffected(res, "inbox item", id)
}

// Cases

const caseSelect = `SELECT id, title, brief, details, ` + recordColumns + ` FROM cases`

func scanCase(s scanner) (*domain.Case, error) {
	var c domain.Case
	var rs recordScan
	dest := append([]any{&c.ID, &c.Title, &c.Brief, &c.Details}, rs.dest(&c.TriageRecord)...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	if err := rs.apply(&c.TriageRecord); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repo) InsertCase(ctx context.Context, c *domain.Case) error {
	args := append([]any{c.ID, c.Title, c.Brief, c.Details}, recordArgs(&c.TriageRecord)...)
	_, err := r.q.ExecContext(ctx, `INSERT INTO cases (id, title, brief, details, `+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		return fmt.Errorf("insert case: %w", err)
	}
	return nil
}

func (r *repo) GetCase(ctx context.Context, id string) (*domain.Case, error) {
	c, err := scanCase(r.q.QueryRowContext(ctx, caseSelect+` WHERE id = ?`, id))
	if err != nil {
		return nil, notFound("case", id, err)
	}
	if c.Attempts, err = r.ListAttempts(ctx, ports.AttemptFilter{CaseID: id}); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *repo) ListCases(ctx context.Context) ([]*domain.Case, error) {
	rows, err := r.q.QueryContext(ctx, caseSelect+` ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	var cases []*domain.Case
	byID := make(map[string]*domain.Case)
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("list cases: scan: %w", err)
		}
		cases = append(cases, c)
		byID[c.ID] = c
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}

	// Attach attempts in one pass; the single connection cannot hold two cursors
	attempts, err := r.ListAttempts(ctx, ports.AttemptFilter{})
	if err != nil {
		return nil, err
	}
	for _, a := range attempts {
		if c, ok := byID[a.CaseID]; ok {
			c.Attempts = append(c.Attempts, a)
		}
	}
	return cases, nil
}

func (r *repo) SaveCase(ctx context.Context, c *domain.Case) error {
	args := append([]any{c.Title, c.Brief, c.Details}, recordUpdateArgs(&c.TriageRecord)...)
	res, err := r.q.ExecContext(ctx, `UPDATE cases SET title = ?, brief = ?, details = ?, `+recordAssignments+` WHERE id = ?`,
		append(args, c.ID)...)
	if err != nil {
		return fmt.Errorf("save case: %w", err)
	}
	return expectAffected(res, "case", c.ID)
}

func (r *repo) DeleteCase(ctx context.Context, id string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM attempts WHERE case_id = ?`, id); err != nil {
		return fmt.Errorf("delete case attempts: %w", err)
	}
	res, err := r.q.ExecContext(ctx, `DELETE FROM cases WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete case: %w", err)
	}
	return expectAffected(res, "case", id)
}

// Attempts

const attemptSelect = `SELECT id, case_id, note, outcome, ` + recordColumns + ` FROM attempts`

func scanAttempt(s scanner) (*domain.Attempt, error) {
	var a domain.Attempt
	var rs recordScan
	dest := append([]any{&a.ID, &a.CaseID, &a.Note, &a.Outcome}, rs.dest(&a.TriageRecord)...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	if err := rs.apply(&a.TriageRecord); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repo) InsertAttempt(ctx context.Context, a *domain.Attempt) error {
	var exists int
	err := r.q.QueryRowContext(ctx, `SELECT 1 FROM cases WHERE id = ?`, a.CaseID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", notFound("case", a.CaseID, err))
	}

	args := append([]any{a.ID, a.CaseID, a.Note, a.Outcome}, recordArgs(&a.TriageRecord)...)
	_, err = r.q.ExecContext(ctx, `INSERT INTO attempts (id, case_id, note, outcome, `+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

func (r *repo) GetAttempt(ctx context.Context, id string) (*domain.Attempt, error) {
	a, err := scanAttempt(r.q.QueryRowContext(ctx, attemptSelect+` WHERE id = ?`, id))
	if err != nil {
		return nil, notFound("attempt", id, err)
	}
	return a, nil
}

// ListAttempts returns matching attempts in creation order
func (r *repo) ListAttempts(ctx context.Context, filter ports.AttemptFilter) ([]*domain.Attempt, error) {
	var where []string
	var args []any
	if filter.CaseID != "" {
		where = append(where, "case_id = ?")
		args = append(args, filter.CaseID)
	}
	if filter.State != "" {
		where = append(where, "state = ?")
		args = append(args, string(filter.State))
	}
	query := attemptSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at ASC, rowid ASC"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []*domain.Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("list attempts: scan: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

func (r *repo) SaveAttempt(ctx context.Context, a *domain.Attempt) error {
	args := append([]any{a.Note, a.Outcome}, recordUpdateArgs(&a.TriageRecord)...)
	res, err := r.q.ExecContext(ctx, `UPDATE attempts SET note = ?, outcome = ?, `+recordAssignments+` WHERE id = ? AND case_id = ?`,
		append(args, a.ID, a.CaseID)...)
	if err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}
	return expectAffected(res, "attempt", a.ID)
}
