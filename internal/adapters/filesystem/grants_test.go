package filesystem

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"attentionos/internal/adapters/memory"
	"attentionos/internal/domain"
	"attentionos/internal/ports"
)

func TestGrantStore_MissingGrant(t *testing.T) {
	g := NewGrantStore(memory.NewSettings())

	if g.HasBookmark(context.Background()) {
		t.Error("expected no bookmark")
	}
	if _, err := g.Resolve(context.Background()); !errors.Is(err, domain.ErrMissingDirectoryGrant) {
		t.Errorf("expected ErrMissingDirectoryGrant, got %v", err)
	}
}

func TestGrantStore_StoreAndResolve(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	settings := memory.NewSettings()
	g := NewGrantStore(settings)

	if err := g.StoreBookmark(ctx, dir); err != nil {
		t.Fatalf("StoreBookmark failed: %v", err)
	}
	if !g.HasBookmark(ctx) {
		t.Error("expected bookmark after grant")
	}
	if path, ok := g.DisplayPath(ctx); !ok || path != dir {
		t.Errorf("expected display path %s, got %q (ok=%v)", dir, path, ok)
	}

	resolved, err := g.Resolve(ctx)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resolved.Path() != dir {
		t.Errorf("expected %s, got %s", dir, resolved.Path())
	}

	// The probe file must not be left behind
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("expected empty directory after grant, found %d entries", len(entries))
	}
}

func TestGrantStore_StaleGrant(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "exports")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}
	g := NewGrantStore(memory.NewSettings())
	if err := g.StoreBookmark(ctx, dir); err != nil {
		t.Fatalf("StoreBookmark failed: %v", err)
	}

	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Resolve(ctx); !errors.Is(err, domain.ErrStaleDirectoryGrant) {
		t.Errorf("expected ErrStaleDirectoryGrant, got %v", err)
	}
}

func TestGrantStore_CorruptBookmark(t *testing.T) {
	ctx := context.Background()
	settings := memory.NewSettings()
	_ = settings.SetString(ctx, ports.SettingExportBookmark, "path: [unterminated")
	g := NewGrantStore(settings)

	if _, err := g.Resolve(ctx); !errors.Is(err, domain.ErrStaleDirectoryGrant) {
		t.Errorf("expected ErrStaleDirectoryGrant, got %v", err)
	}
}

func TestGrantStore_RejectsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	g := NewGrantStore(memory.NewSettings())
	if err := g.StoreBookmark(context.Background(), file); err == nil {
		t.Error("expected error granting a regular file")
	}
	if err := g.StoreBookmark(context.Background(), "  "); !errors.Is(err, domain.ErrValidationFailed) {
		t.Errorf("expected validation error for empty path, got %v", err)
	}
}
