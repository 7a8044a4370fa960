package ports

import "context"

// ExportDirectory is a resolved, granted export target. Writes must be
// bracketed by StartAccess and StopAccess.
type ExportDirectory interface {
	Path() string
	StartAccess() error
	StopAccess()
	// WriteFile replaces name atomically
	WriteFile(name string, data []byte) error
	Remove(name string) error
	List() ([]string, error)
}

// DirectoryGrantStore remembers which directory the user allowed exports to
type DirectoryGrantStore interface {
	StoreBookmark(ctx context.Context, dir string) error
	HasBookmark(ctx context.Context) bool
	// DisplayPath is the human readable location of the grant
	DisplayPath(ctx context.Context) (string, bool)
	// Resolve fails with ErrMissingDirectoryGrant, ErrStaleDirectoryGrant
	// or ErrAccessDenied
	Resolve(ctx context.Context) (ExportDirectory, error)
}
