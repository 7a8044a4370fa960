package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"attentionos/internal/domain"
	"attentionos/internal/ports"
)

// bookmark is the persisted form of a directory grant
type bookmark struct {
	Path      string    `yaml:"path"`
	GrantedAt time.Time `yaml:"granted_at"`
}

// GrantStore implements ports.DirectoryGrantStore on top of the settings store
type GrantStore struct {
	settings ports.SettingsStore
}

var _ ports.DirectoryGrantStore = (*GrantStore)(nil)

// NewGrantStore creates a grant store backed by settings
func NewGrantStore(settings ports.SettingsStore) *GrantStore {
	return &GrantStore{settings: settings}
}

// StoreBookmark checks that dir is a writable directory and remembers it
func (g *GrantStore) StoreBookmark(ctx context.Context, dir string) error {
	path, err := normalizeDir(dir)
	if err != nil {
		return err
	}
	if err := checkDir(path); err != nil {
		return err
	}
	if err := probeWrite(path); err != nil {
		return err
	}

	data, err := yaml.Marshal(bookmark{Path: path, GrantedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("encode bookmark: %w", err)
	}
	if err := g.settings.SetString(ctx, ports.SettingExportBookmark, string(data)); err != nil {
		return err
	}
	return g.settings.SetString(ctx, ports.SettingExportDisplayPath, path)
}

// HasBookmark reports whether a directory was granted
func (g *GrantStore) HasBookmark(ctx context.Context) bool {
	_, ok, err := g.settings.GetString(ctx, ports.SettingExportBookmark)
	return err == nil && ok
}

// DisplayPath returns the granted directory as shown to the user
func (g *GrantStore) DisplayPath(ctx context.Context) (string, bool) {
	path, ok, err := g.settings.GetString(ctx, ports.SettingExportDisplayPath)
	if err != nil || !ok {
		return "", false
	}
	return path, true
}

// Resolve turns the stored grant back into a usable directory
func (g *GrantStore) Resolve(ctx context.Context) (ports.ExportDirectory, error) {
	raw, ok, err := g.settings.GetString(ctx, ports.SettingExportBookmark)
	if err != nil {
		return nil, fmt.Errorf("read bookmark: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, domain.ErrMissingDirectoryGrant
	}

	var b bookmark
	if err := yaml.Unmarshal([]byte(raw), &b); err != nil || b.Path == "" {
		return nil, fmt.Errorf("decode bookmark: %w", domain.ErrStaleDirectoryGrant)
	}
	if err := checkDir(b.Path); err != nil {
		return nil, err
	}
	return NewDirectory(b.Path), nil
}

func normalizeDir(dir string) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return "", &domain.ValidationError{Field: "directory", Message: "directory is required"}
	}
	if strings.HasPrefix(dir, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, dir[1:])
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	return abs, nil
}

func checkDir(path string) error {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%s: %w", path, domain.ErrAccessDenied)
	case err != nil:
		return fmt.Errorf("%s: %w", path, domain.ErrStaleDirectoryGrant)
	case !info.IsDir():
		return fmt.Errorf("%s is not a directory: %w", path, domain.ErrStaleDirectoryGrant)
	}
	return nil
}

func probeWrite(path string) error {
	f, err := os.CreateTemp(path, ".attentionos-probe-*")
	if err != nil {
		return fmt.Errorf("%s not writable: %w", path, domain.ErrAccessDenied)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
