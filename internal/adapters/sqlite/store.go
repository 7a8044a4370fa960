package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"attentionos/internal/domain"
	"attentionos/internal/ports"

	_ "modernc.org/sqlite"
)

// Store implements ports.TriageStore using SQLite
type Store struct {
	db     *sql.DB
	dbPath string

	// mu serializes transactions so read-check-write sequences never interleave
	mu sync.Mutex
}

// Ensure Store implements TriageStore
var _ ports.TriageStore = (*Store)(nil)

// Open opens or creates the database at dbPath and migrates it
func Open(dbPath string) (*Store, error) {
	dbPath, err := expandPath(dbPath)
	if err != nil {
		return nil, err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: writes and guarded transactions are serialized by SQLite itself
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Path returns the database file location
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// WithinTx runs fn inside a database transaction. fn must only use the
// repository it is given.
func (s *Store) WithinTx(ctx context.Context, fn func(tx ports.TriageRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	t := &triageTx{repo: repo{q: tx}, tx: tx}
	if err := fn(t); err != nil {
		_ = t.Rollback()
		return err
	}
	if err := t.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *Store) reader() *repo {
	return &repo{q: s.db}
}

func (s *Store) write(ctx context.Context, fn func(r ports.TriageRepository) error) error {
	return s.WithinTx(ctx, fn)
}

func (s *Store) InsertInboxItem(ctx context.Context, item *domain.InboxItem) error {
	return s.write(ctx, func(r ports.TriageRepository) error { return r.InsertInboxItem(ctx, item) })
}

func (s *Store) GetInboxItem(ctx context.Context, id string) (*domain.InboxItem, error) {
	return s.reader().GetInboxItem(ctx, id)
}

func (s *Store) ListInboxItems(ctx context.Context) ([]*domain.InboxItem, error) {
	return s.reader().ListInboxItems(ctx)
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
	return s.reader().GetCase(ctx, id)
}

func (s *Store) ListCases(ctx context.Context) ([]*domain.Case, error) {
	return s.reader().ListCases(ctx)
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
	return s.reader().GetAttempt(ctx, id)
}

func (s *Store) ListAttempts(ctx context.Context, filter ports.AttemptFilter) ([]*domain.Attempt, error) {
	return s.reader().ListAttempts(ctx, filter)
}

func (s *Store) SaveAttempt(ctx context.Context, a *domain.Attempt) error {
	return s.write(ctx, func(r ports.TriageRepository) error { return r.SaveAttempt(ctx, a) })
}

// expandPath resolves a leading ~ to the home directory
func expandPath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("database path is required")
	}
	if strings.HasPrefix(p, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		p = filepath.Join(home, p[1:])
	}
	return p, nil
}
