package commands

import (
	"context"
	"fmt"
	"strings"

	"attentionos/internal/application"
	"attentionos/internal/domain"
	"attentionos/internal/ports"
)

// GrantExportResult contains the result of granting an export directory
type GrantExportResult struct {
	Path    string
	Message string
}

// GrantExportCommand remembers the directory exports are written to
type GrantExportCommand struct {
	grants ports.DirectoryGrantStore
	Dir    string
}

// NewGrantExportCommand creates a new GrantExportCommand
func NewGrantExportCommand(grants ports.DirectoryGrantStore, dir string) *GrantExportCommand {
	return &GrantExportCommand{
		grants: grants,
		Dir:    dir,
	}
}

// Validate checks the directory argument
func (c *GrantExportCommand) Validate() error {
	return application.ValidateRequired("directory", c.Dir)
}

// Execute runs the grant export command
func (c *GrantExportCommand) Execute(ctx context.Context) (*GrantExportResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := c.grants.StoreBookmark(ctx, c.Dir); err != nil {
		return nil, fmt.Errorf("failed to grant export directory: %w", err)
	}
	path, _ := c.grants.DisplayPath(ctx)
	return &GrantExportResult{
		Path:    path,
		Message: fmt.Sprintf("Exports will be written to %s", path),
	}, nil
}

// ExportResult reports a batch export. Failures do not undo written files.
type ExportResult struct {
	Directory string
	Written   []string
	Removed   []string
	Failures  []*application.ExportFailure
	Message   string
}

// ExportCommand writes every case, or the selected ones, as Markdown
type ExportCommand struct {
	deps    *Deps
	grants  ports.DirectoryGrantStore
	CaseIDs []string
}

// NewExportCommand creates a new ExportCommand. No IDs exports all cases.
func NewExportCommand(deps *Deps, grants ports.DirectoryGrantStore, caseIDs ...string) *ExportCommand {
	return &ExportCommand{
		deps:    deps,
		grants:  grants,
		CaseIDs: caseIDs,
	}
}

// Execute runs the export command. A missing, stale or unreadable grant
// aborts before any file is touched.
func (c *ExportCommand) Execute(ctx context.Context) (*ExportResult, error) {
	logger := c.deps.logger()

	cases, err := c.cases(ctx)
	if err != nil {
		return nil, err
	}

	dir, err := c.grants.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve export directory: %w", err)
	}
	if err := dir.StartAccess(); err != nil {
		return nil, fmt.Errorf("failed to access export directory: %w", err)
	}
	defer dir.StopAccess()

	existing, err := dir.List()
	if err != nil {
		logger.Warn("list export directory", "path", dir.Path(), "error", err)
	}

	result := &ExportResult{Directory: dir.Path()}
	for _, cs := range cases {
		name, content := domain.RenderCase(cs)
		if err := dir.WriteFile(name, []byte(content)); err != nil {
			logger.Error("export case", "case", cs.ID, "file", name, "error", err)
			result.Failures = append(result.Failures, &application.ExportFailure{CaseID: cs.ID, Title: cs.Title, Err: err})
			continue
		}
		result.Written = append(result.Written, name)

		// A renamed case leaves its previous file behind under the same short id
		suffix := domain.ExportSuffix(cs.ID)
		for _, old := range existing {
			if old == name || !strings.HasSuffix(old, suffix) {
				continue
			}
			if err := dir.Remove(old); err != nil {
				logger.Warn("remove previous export", "file", old, "error", err)
				continue
			}
			result.Removed = append(result.Removed, old)
		}
	}

	result.Message = fmt.Sprintf("Exported %d of %d cases to %s", len(result.Written), len(cases), result.Directory)
	if n := len(result.Failures); n > 0 {
		result.Message += fmt.Sprintf(" (%d failed)", n)
	}
	return result, nil
}

func (c *ExportCommand) cases(ctx context.Context) ([]*domain.Case, error) {
	if len(c.CaseIDs) == 0 {
		cases, err := c.deps.Store.ListCases(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list cases: %w", err)
		}
		return cases, nil
	}
	cases := make([]*domain.Case, 0, len(c.CaseIDs))
	for _, id := range c.CaseIDs {
		cs, err := c.deps.Store.GetCase(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load case %s: %w", id, err)
		}
		cases = append(cases, cs)
	}
	return cases, nil
}
