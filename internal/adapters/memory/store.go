// Package memory keeps everything in process memory. It backs tests and the
// "memory" storage driver.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"attentionos/internal/domain"
	"attentionos/internal/ports"
)

var _ ports.TriageStore = (*Store)(nil)

type entry[T any] struct {
	v   *T
	seq uint64
}

type tables struct {
	seq      uint64
	inbox    map[string]entry[domain.InboxItem]
	cases    map[string]entry[domain.Case]
	attempts map[string]entry[domain.Attempt]
}

func newTables() *tables {
	return &tables{
		inbox:    make(map[string]entry[domain.InboxItem]),
		cases:    make(map[string]entry[domain.Case]),
		attempts: make(map[string]entry[domain.Attempt]),
	}
}

func (t *tables) clone() *tables {
	c := &tables{
		seq:      t.seq,
		inbox:    make(map[string]entry[domain.InboxItem], len(t.inbox)),
		cases:    make(map[string]entry[domain.Case], len(t.cases)),
		attempts: make(map[string]entry[domain.Attempt], len(t.attempts)),
	}
	for k, e := range t.inbox {
		c.inbox[k] = entry[domain.InboxItem]{v: copyInboxItem(e.v), seq: e.seq}
	}
	for k, e := range t.cases {
		c.cases[k] = entry[domain.Case]{v: copyCase(e.v), seq: e.seq}
	}
	for k, e := range t.attempts {
		c.attempts[k] = entry[domain.Attempt]{v: copyAttempt(e.v), seq: e.seq}
	}
	return c
}

func (t *tables) next() uint64 {
	t.seq++
	return t.seq
}

// Store is an in-memory TriageStore. Transactions work on a private copy
// that replaces the live tables on commit.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data *tables
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{data: newTables()}
}

// WithinTx runs fn on a snapshot and publishes it when fn succeeds. fn must
// only use the repository it is given.
func (s *Store) WithinTx(ctx context.Context, fn func(tx ports.TriageRepository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(&repo{t: snapshot}); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = snapshot
	s.mu.Unlock()
	return nil
}

// Close is a no-op
func (s *Store) Close() error { return nil }

func (s *Store) read() *repo {
	return &repo{t: s.data}
}

func (s *Store) write(ctx context.Context, fn func(r ports.TriageRepository) error) error {
	return s.WithinTx(ctx, fn)
}

func (s *Store) InsertInboxItem(ctx context.Context, item *domain.InboxItem) error {
	return s.write(ctx, func(r ports.TriageRepository) error { return r.InsertInboxItem(ctx, item) })
}

func (s *Store) GetInboxItem(ctx context.Context, id string) (*domain.InboxItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetInboxItem(ctx, id)
}

func (s *Store) ListInboxItems(ctx context.Context) ([]*domain.InboxItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListInboxItems(ctx)
}

func (s *Store) SaveInboxItem(ctx context.Context, item *domain.InboxItem) error {
	return s.write(ctx, func(r ports.TriageRepository) error { return r.SaveInboxItem(ctx, item) })
}

func (s *Store) DeleteInboxItem(ctx context.Context, id string) error {
	return s.write(ctx, func(r ports.TriageRepository) error { return r.DeleteInboxItem(ctx, id) })
}

func (s *Store) InsertCase(ctx context.Context, c *domain.Case) error {
	return s.write(ctx, func(r ports.TriageRepository) error { return r.InsertCase(ctx, c) })
}

func (s *Store) GetCase(ctx context.Context, id string) (*domain.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetCase(ctx, id)
}

func (s *Store) ListCases(ctx context.Context) ([]*domain.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListCases(ctx)
}

func (s *Store) SaveCase(ctx context.Context, c *domain.Case) error {
	return s.write(ctx, func(r ports.TriageRepository) error { return r.SaveCase(ctx, c) })
}

func (s *Store) DeleteCase(ctx context.Context, id string) error {
	return s.write(ctx, func(r ports.TriageRepository) error { return r.DeleteCase(ctx, id) })
}

func (s *Store) InsertAttempt(ctx context.Context, a *domain.Attempt) error {
	return s.write(ctx, func(r ports.TriageRepository) error { return r.InsertAttempt(ctx, a) })
}

func (s *Store) GetAttempt(ctx context.Context, id string) (*domain.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetAttempt(ctx, id)
}

func (s *Store) ListAttempts(ctx context.Context, filter ports.AttemptFilter) ([]*domain.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListAttempts(ctx, filter)
}

func (s *Store) SaveAttempt(ctx context.Context, a *domain.Attempt) error {
	return s.write(ctx, func(r ports.TriageRepository) error { return r.SaveAttempt(ctx, a) })
}

// repo operates on one set of tables without locking
type repo struct {
	t *tables
}

func (r *repo) InsertInboxItem(ctx context.Context, item *domain.InboxItem) error {
	if _, ok := r.t.inbox[item.ID]; ok {
		return fmt.Errorf("insert inbox item %s: already exists", item.ID)
	}
	r.t.inbox[item.ID] = entry[domain.InboxItem]{v: copyInboxItem(item), seq: r.t.next()}
	return nil
}

func (r *repo) GetInboxItem(ctx context.Context, id string) (*domain.InboxItem, error) {
	e, ok := r.t.inbox[id]
	if !ok {
		return nil, fmt.Errorf("inbox item %s: %w", id, domain.ErrNotFound)
	}
	return copyInboxItem(e.v), nil
}

func (r *repo) ListInboxItems(ctx context.Context) ([]*domain.InboxItem, error) {
	entries := newestFirst(r.t.inbox, func(i *domain.InboxItem) *domain.TriageRecord { return &i.TriageRecord })
	out := make([]*domain.InboxItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, copyInboxItem(e.v))
	}
	return out, nil
}

func (r *repo) SaveInboxItem(ctx context.Context, item *domain.InboxItem) error {
	e, ok := r.t.inbox[item.ID]
	if !ok {
		return fmt.Errorf("save inbox item %s: %w", item.ID, domain.ErrNotFound)
	}
	r.t.inbox[item.ID] = entry[domain.InboxItem]{v: copyInboxItem(item), seq: e.seq}
	return nil
}

func (r *repo) DeleteInboxItem(ctx context.Context, id string) error {
	if _, ok := r.t.inbox[id]; !ok {
		return fmt.Errorf("delete inbox item %s: %w", id, domain.ErrNotFound)
	}
	delete(r.t.inbox, id)
	return nil
}

func (r *repo) InsertCase(ctx context.Context, c *domain.Case) error {
	if _, ok := r.t.cases[c.ID]; ok {
		return fmt.Errorf("insert case %s: already exists", c.ID)
	}
	r.t.cases[c.ID] = entry[domain.Case]{v: copyCase(c), seq: r.t.next()}
	return nil
}

func (r *repo) GetCase(ctx context.Context, id string) (*domain.Case, error) {
	e, ok := r.t.cases[id]
	if !ok {
		return nil, fmt.Errorf("case %s: %w", id, domain.ErrNotFound)
	}
	return r.withAttempts(e.v), nil
}

func (r *repo) ListCases(ctx context.Context) ([]*domain.Case, error) {
	entries := newestFirst(r.t.cases, func(c *domain.Case) *domain.TriageRecord { return &c.TriageRecord })
	out := make([]*domain.Case, 0, len(entries))
	for _, e := range entries {
		out = append(out, r.withAttempts(e.v))
	}
	return out, nil
}

func (r *repo) withAttempts(c *domain.Case) *domain.Case {
	out := copyCase(c)
	out.Attempts = r.attempts(ports.AttemptFilter{CaseID: c.ID})
	return out
}

func (r *repo) SaveCase(ctx context.Context, c *domain.Case) error {
	e, ok := r.t.cases[c.ID]
	if !ok {
		return fmt.Errorf("save case %s: %w", c.ID, domain.ErrNotFound)
	}
	r.t.cases[c.ID] = entry[domain.Case]{v: copyCase(c), seq: e.seq}
	return nil
}

func (r *repo) DeleteCase(ctx context.Context, id string) error {
	if _, ok := r.t.cases[id]; !ok {
		return fmt.Errorf("delete case %s: %w", id, domain.ErrNotFound)
	}
	delete(r.t.cases, id)
	for aid, e := range r.t.attempts {
		if e.v.CaseID == id {
			delete(r.t.attempts, aid)
		}
	}
	return nil
}

func (r *repo) InsertAttempt(ctx context.Context, a *domain.Attempt) error {
	if _, ok := r.t.cases[a.CaseID]; !ok {
		return fmt.Errorf("insert attempt: case %s: %w", a.CaseID, domain.ErrNotFound)
	}
	if _, ok := r.t.attempts[a.ID]; ok {
		return fmt.Errorf("insert attempt %s: already exists", a.ID)
	}
	r.t.attempts[a.ID] = entry[domain.Attempt]{v: copyAttempt(a), seq: r.t.next()}
	return nil
}

func (r *repo) GetAttempt(ctx context.Context, id string) (*domain.Attempt, error) {
	e, ok := r.t.attempts[id]
	if !ok {
		return nil, fmt.Errorf("attempt %s: %w", id, domain.ErrNotFound)
	}
	return copyAttempt(e.v), nil
}

func (r *repo) ListAttempts(ctx context.Context, filter ports.AttemptFilter) ([]*domain.Attempt, error) {
	return r.attempts(filter), nil
}

// attempts returns matches in creation order
func (r *repo) attempts(filter ports.AttemptFilter) []*domain.Attempt {
	var entries []entry[domain.Attempt]
	for _, e := range r.t.attempts {
		if filter.Matches(e.v) {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.v.CreatedAt.Equal(b.v.CreatedAt) {
			return a.v.CreatedAt.Before(b.v.CreatedAt)
		}
		return a.seq < b.seq
	})
	out := make([]*domain.Attempt, 0, len(entries))
	for _, e := range entries {
		out = append(out, copyAttempt(e.v))
	}
	return out
}

func (r *repo) SaveAttempt(ctx context.Context, a *domain.Attempt) error {
	e, ok := r.t.attempts[a.ID]
	if !ok {
		return fmt.Errorf("save attempt %s: %w", a.ID, domain.ErrNotFound)
	}
	if e.v.CaseID != a.CaseID {
		return fmt.Errorf("save attempt %s: case cannot change", a.ID)
	}
	r.t.attempts[a.ID] = entry[domain.Attempt]{v: copyAttempt(a), seq: e.seq}
	return nil
}

func newestFirst[T any](m map[string]entry[T], record func(*T) *domain.TriageRecord) []entry[T] {
	entries := make([]entry[T], 0, len(m))
	for _, e := range m {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := record(entries[i].v), record(entries[j].v)
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return entries[i].seq > entries[j].seq
	})
	return entries
}

func copyRecord(r *domain.TriageRecord) {
	if r.NextReview != nil {
		t := *r.NextReview
		r.NextReview = &t
	}
}

func copyInboxItem(i *domain.InboxItem) *domain.InboxItem {
	c := *i
	copyRecord(&c.TriageRecord)
	return &c
}

func copyCase(c *domain.Case) *domain.Case {
	out := *c
	out.Attempts = nil
	copyRecord(&out.TriageRecord)
	return &out
}

func copyAttempt(a *domain.Attempt) *domain.Attempt {
	c := *a
	copyRecord(&c.TriageRecord)
	return &c
}
