package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"attentionos/internal/ports"
)

// Settings implements ports.SettingsStore on the app_state table
type Settings struct {
	db *sql.DB
}

var _ ports.SettingsStore = (*Settings)(nil)

// NewSettings shares the store's database
func NewSettings(s *Store) *Settings {
	return &Settings{db: s.db}
}

func (s *Settings) GetString(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get app_state %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Settings) SetString(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("set app_state: empty key")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO app_state(key, value, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now,
	)
	if err != nil {
		return fmt.Errorf("set app_state %s: upsert: %w", key, err)
	}
	return nil
}

// GetBool returns fallback when the key is missing or not a boolean
func (s *Settings) GetBool(ctx context.Context, key string, fallback bool) (bool, error) {
	value, ok, err := s.GetString(ctx, key)
	if err != nil || !ok {
		return fallback, err
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback, nil
	}
	return b, nil
}

func (s *Settings) SetBool(ctx context.Context, key string, value bool) error {
	return s.SetString(ctx, key, strconv.FormatBool(value))
}

func (s *Settings) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM app_state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete app_state %s: %w", key, err)
	}
	return nil
}
