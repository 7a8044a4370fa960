package memory

import (
	"context"
	"strconv"
	"sync"

	"attentionos/internal/ports"
)

var _ ports.SettingsStore = (*Settings)(nil)

// Settings is a map backed SettingsStore
type Settings struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewSettings() *Settings {
	return &Settings{values: make(map[string]string)}
}

func (s *Settings) GetString(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Settings) SetString(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *Settings) GetBool(ctx context.Context, key string, fallback bool) (bool, error) {
	v, ok, _ := s.GetString(ctx, key)
	if !ok {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, nil
	}
	return b, nil
}

func (s *Settings) SetBool(ctx context.Context, key string, value bool) error {
	return s.SetString(ctx, key, strconv.FormatBool(value))
}

func (s *Settings) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
