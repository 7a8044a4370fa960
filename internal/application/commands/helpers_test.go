package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"attentionos/internal/adapters/memory"
	"attentionos/internal/application"
	"attentionos/internal/domain"
	"attentionos/internal/ports"
)

var testNow = time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	deps      *Deps
	store     *memory.Store
	settings  *memory.Settings
	scheduler *memory.Scheduler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	settings := memory.NewSettings()
	scheduler := memory.NewScheduler(true)
	reminders := application.NewSynchronizer(scheduler, logger)
	t.Cleanup(func() { reminders.Close() })

	deps := NewDeps(store, settings, reminders)
	deps.Clock = func() time.Time { return testNow }
	deps.Logger = logger
	return &testEnv{deps: deps, store: store, settings: settings, scheduler: scheduler}
}

// pending flushes queued reminder work and returns the scheduled keys
func (e *testEnv) pending(t *testing.T) map[string]time.Time {
	t.Helper()
	if err := e.deps.Reminders.Flush(context.Background()); err != nil {
		t.Fatalf("flush reminders: %v", err)
	}
	list, err := e.scheduler.ListPending(context.Background())
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	out := make(map[string]time.Time, len(list))
	for _, p := range list {
		out[p.Key] = p.At
	}
	return out
}

func (e *testEnv) capture(t *testing.T, thought string) *domain.InboxItem {
	t.Helper()
	res, err := NewCaptureCommand(e.deps, thought, "").Execute(context.Background())
	if err != nil {
		t.Fatalf("capture %q: %v", thought, err)
	}
	return res.Item
}

func (e *testEnv) createCase(t *testing.T, title string) *domain.Case {
	t.Helper()
	res, err := NewCreateCaseCommand(e.deps, domain.CaseFields{Title: title, Importance: 5, Urgency: 5}).Execute(context.Background())
	if err != nil {
		t.Fatalf("create case %q: %v", title, err)
	}
	return res.Case
}

func (e *testEnv) startAttempt(t *testing.T, caseID, note string, state domain.State) *domain.Attempt {
	t.Helper()
	fields := domain.AttemptFields{Note: note, State: state}
	if state == domain.StatePaused {
		next := testNow.Add(24 * time.Hour)
		fields.NextReview = &next
	}
	res, err := NewStartAttemptCommand(e.deps, caseID, fields).Execute(context.Background())
	if err != nil {
		t.Fatalf("start attempt %q: %v", note, err)
	}
	return res.Attempt
}

func ptr(t time.Time) *time.Time { return &t }

// fakeExportDir keeps exported files in memory
type fakeExportDir struct {
	files     map[string]string
	failOn    string
	accessing bool
	started   int
	stopped   int
}

func newFakeExportDir() *fakeExportDir {
	return &fakeExportDir{files: make(map[string]string)}
}

func (d *fakeExportDir) Path() string { return "/exports" }

func (d *fakeExportDir) StartAccess() error {
	d.accessing = true
	d.started++
	return nil
}

func (d *fakeExportDir) StopAccess() {
	d.accessing = false
	d.stopped++
}

func (d *fakeExportDir) WriteFile(name string, data []byte) error {
	if !d.accessing {
		return errors.New("write outside access window")
	}
	if d.failOn != "" && strings.Contains(name, d.failOn) {
		return errors.New("disk full")
	}
	d.files[name] = string(data)
	return nil
}

func (d *fakeExportDir) Remove(name string) error {
	delete(d.files, name)
	return nil
}

func (d *fakeExportDir) List() ([]string, error) {
	names := make([]string, 0, len(d.files))
	for n := range d.files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

type fakeGrants struct {
	dir *fakeExportDir
	err error
}

func (g *fakeGrants) StoreBookmark(ctx context.Context, dir string) error { return nil }
func (g *fakeGrants) HasBookmark(ctx context.Context) bool                { return g.err == nil }
func (g *fakeGrants) DisplayPath(ctx context.Context) (string, bool)      { return g.dir.Path(), true }

func (g *fakeGrants) Resolve(ctx context.Context) (ports.ExportDirectory, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.dir, nil
}
