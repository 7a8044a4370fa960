package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"attentionos/internal/domain"
	"attentionos/internal/ports"
)

// Directory is a granted export directory on the local filesystem
type Directory struct {
	path string

	mu     sync.Mutex
	access int
}

var _ ports.ExportDirectory = (*Directory)(nil)

// NewDirectory wraps path
func NewDirectory(path string) *Directory {
	return &Directory{path: path}
}

// Path returns the directory location
func (d *Directory) Path() string {
	return d.path
}

// StartAccess verifies the directory can be written and opens an access window
func (d *Directory) StartAccess() error {
	if err := checkDir(d.path); err != nil {
		return err
	}
	if err := probeWrite(d.path); err != nil {
		return err
	}
	d.mu.Lock()
	d.access++
	d.mu.Unlock()
	return nil
}

// StopAccess closes the access window
func (d *Directory) StopAccess() {
	d.mu.Lock()
	if d.access > 0 {
		d.access--
	}
	d.mu.Unlock()
}

func (d *Directory) checkAccess() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.access == 0 {
		return fmt.Errorf("write outside access window: %w", domain.ErrAccessDenied)
	}
	return nil
}

// WriteFile replaces name atomically via a temp file and rename
func (d *Directory) WriteFile(name string, data []byte) error {
	if err := d.checkAccess(); err != nil {
		return err
	}
	if err := checkName(name); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(d.path, ".attentionos-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("chmod %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(d.path, name)); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

// Remove deletes name; a missing file is not an error
func (d *Directory) Remove(name string) error {
	if err := d.checkAccess(); err != nil {
		return err
	}
	if err := checkName(name); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(d.path, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

// List returns the exported Markdown files, sorted by name
func (d *Directory) List() ([]string, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read export directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), domain.ExportExt) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// checkName rejects names that would escape the directory
func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return fmt.Errorf("invalid file name %q", name)
	}
	return nil
}
