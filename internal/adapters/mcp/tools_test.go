package mcp

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attentionos/internal/adapters/filesystem"
	"attentionos/internal/adapters/memory"
	"attentionos/internal/application"
	"attentionos/internal/application/commands"
)

type toolEnv struct {
	deps      *commands.Deps
	grants    *filesystem.GrantStore
	scheduler *memory.Scheduler
}

func newToolEnv(t *testing.T) *toolEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	settings := memory.NewSettings()
	scheduler := memory.NewScheduler(true)
	reminders := application.NewSynchronizer(scheduler, logger)
	t.Cleanup(func() { reminders.Close() })

	deps := commands.NewDeps(memory.NewStore(), settings, reminders)
	deps.Logger = logger
	return &toolEnv{
		deps:      deps,
		grants:    filesystem.NewGrantStore(settings),
		scheduler: scheduler,
	}
}

func call(t *testing.T, handler server.ToolHandlerFunc, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args
	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func getResultText(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if textContent, ok := result.Content[0].(mcp.TextContent); ok {
		return textContent.Text
	}
	return ""
}

// createdID extracts the "ID: ..." line written by create style tools
func createdID(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.False(t, result.IsError, getResultText(result))
	for _, line := range strings.Split(getResultText(result), "\n") {
		if id, ok := strings.CutPrefix(line, "ID: "); ok {
			return id
		}
	}
	t.Fatalf("no ID in %q", getResultText(result))
	return ""
}

func TestCaptureAndReview(t *testing.T) {
	env := newToolEnv(t)

	result := call(t, captureHandler(env.deps), map[string]interface{}{
		"thought": "  call the bank  ",
		"why":     "card expired",
	})
	createdID(t, result)
	assert.Contains(t, getResultText(result), "Captured: call the bank")

	review := call(t, reviewHandler(env.deps), nil)
	require.False(t, review.IsError)
	text := getResultText(review)
	assert.Contains(t, text, "## Inbox\n")
	assert.Contains(t, text, "call the bank")
	assert.Contains(t, text, "Nothing due right now")
	assert.Contains(t, text, "No immediate actions")
	assert.Contains(t, text, "Nothing scheduled yet")
}

func TestCapture_RequiresThought(t *testing.T) {
	env := newToolEnv(t)

	result := call(t, captureHandler(env.deps), map[string]interface{}{"thought": "   "})
	assert.True(t, result.IsError)
	assert.Contains(t, getResultText(result), "thought")
}

func TestTriage_ScheduleMovesItemOutOfInbox(t *testing.T) {
	env := newToolEnv(t)
	id := createdID(t, call(t, captureHandler(env.deps), map[string]interface{}{"thought": "renew passport"}))

	result := call(t, triageHandler(env.deps), map[string]interface{}{
		"id":     id,
		"action": "schedule",
		"date":   "+2d",
	})
	require.False(t, result.IsError, getResultText(result))

	text := getResultText(call(t, reviewHandler(env.deps), nil))
	assert.Contains(t, text, "Inbox is clear")
	assert.Contains(t, text, "## Scheduled\n"+id+"  renew passport")

	require.NoError(t, env.deps.Reminders.Flush(context.Background()))
	pending, err := env.scheduler.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Inbox:"+id, pending[0].Key)
}

func TestTriage_RelativeDatesFollowClock(t *testing.T) {
	env := newToolEnv(t)
	now := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	env.deps.Clock = func() time.Time { return now }
	id := createdID(t, call(t, captureHandler(env.deps), map[string]interface{}{"thought": "renew passport"}))

	result := call(t, triageHandler(env.deps), map[string]interface{}{
		"id":     id,
		"action": "schedule",
		"date":   "tomorrow",
	})
	require.False(t, result.IsError, getResultText(result))

	item, err := env.deps.Store.GetInboxItem(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, item.NextReview)
	assert.True(t, item.NextReview.Equal(time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)), "got %v", item.NextReview)
}

func TestCreateCase_RejectsNonWholeWeights(t *testing.T) {
	tests := []struct {
		name  string
		args  map[string]interface{}
		field string
	}{
		{"fractional importance", map[string]interface{}{"title": "Launch", "importance": 10.9}, "importance"},
		{"negative fractional urgency", map[string]interface{}{"title": "Launch", "urgency": -0.5}, "urgency"},
		{"importance above range", map[string]interface{}{"title": "Launch", "importance": 11.0}, "importance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newToolEnv(t)
			result := call(t, createCaseHandler(env.deps), tt.args)
			assert.True(t, result.IsError)
			assert.Contains(t, getResultText(result), tt.field)

			cases, err := env.deps.Store.ListCases(context.Background())
			require.NoError(t, err)
			assert.Empty(t, cases)
		})
	}
}

func TestTriage_RejectsBadInput(t *testing.T) {
	env := newToolEnv(t)
	id := createdID(t, call(t, captureHandler(env.deps), map[string]interface{}{"thought": "x"}))

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"unknown action", map[string]interface{}{"id": id, "action": "later"}},
		{"unknown kind", map[string]interface{}{"id": id, "action": "drop", "kind": "project"}},
		{"schedule without date", map[string]interface{}{"id": id, "action": "schedule"}},
		{"missing entity", map[string]interface{}{"id": "nope", "action": "drop"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := call(t, triageHandler(env.deps), tt.args)
			assert.True(t, result.IsError)
		})
	}
}

func TestAttemptTools_SingleActiveAttempt(t *testing.T) {
	env := newToolEnv(t)
	caseID := createdID(t, call(t, createCaseHandler(env.deps), map[string]interface{}{
		"title":      "Q2 plan",
		"importance": 7.0,
		"urgency":    4.0,
	}))

	first := createdID(t, call(t, startAttemptHandler(env.deps), map[string]interface{}{
		"case_id": caseID,
		"note":    "draft outline",
	}))

	second := call(t, startAttemptHandler(env.deps), map[string]interface{}{
		"case_id": caseID,
		"note":    "ask for review",
	})
	assert.True(t, second.IsError)
	assert.Contains(t, getResultText(second), "already active")

	paused := call(t, pauseAttemptHandler(env.deps), map[string]interface{}{
		"id":    first,
		"until": "tomorrow",
	})
	require.False(t, paused.IsError, getResultText(paused))

	createdID(t, call(t, startAttemptHandler(env.deps), map[string]interface{}{
		"case_id":  caseID,
		"note":     "ask for review",
		"benefit":  6.5,
		"friction": 2.0,
	}))

	done := call(t, completeAttemptHandler(env.deps), map[string]interface{}{
		"id":       first,
		"decision": "drop",
		"outcome":  "superseded",
	})
	require.False(t, done.IsError, getResultText(done))
	assert.Contains(t, getResultText(done), "decision=drop")

	list := getResultText(call(t, listCasesHandler(env.deps), map[string]interface{}{"state": "active"}))
	assert.Contains(t, list, "Q2 plan")
	assert.Contains(t, list, "attempts=2")
}

func TestCompleteAttempt_RequiresDecision(t *testing.T) {
	env := newToolEnv(t)

	result := call(t, completeAttemptHandler(env.deps), map[string]interface{}{
		"id":       "a1",
		"decision": "undecided",
		"outcome":  "done",
	})
	assert.True(t, result.IsError)
	assert.Contains(t, getResultText(result), "decision")
}

func TestListCases_Empty(t *testing.T) {
	env := newToolEnv(t)

	result := call(t, listCasesHandler(env.deps), nil)
	require.False(t, result.IsError)
	assert.Equal(t, "No results.", getResultText(result))

	bad := call(t, listCasesHandler(env.deps), map[string]interface{}{"state": "archived"})
	assert.True(t, bad.IsError)
}

func TestShowCase_RendersMarkdown(t *testing.T) {
	env := newToolEnv(t)
	caseID := createdID(t, call(t, createCaseHandler(env.deps), map[string]interface{}{
		"title": "Launch",
		"brief": "ship it",
	}))

	result := call(t, showCaseHandler(env.deps), map[string]interface{}{"id": caseID})
	require.False(t, result.IsError, getResultText(result))
	text := getResultText(result)
	assert.True(t, strings.HasPrefix(text, "---\nschema: attentionos.case/v1\n"))
	assert.Contains(t, text, "## Brief\n\nship it")
}

func TestExportCases(t *testing.T) {
	env := newToolEnv(t)
	ctx := context.Background()

	createdID(t, call(t, createCaseHandler(env.deps), map[string]interface{}{"title": "Launch"}))

	missing := call(t, exportCasesHandler(env.deps, env.grants), nil)
	assert.True(t, missing.IsError)

	dir := t.TempDir()
	require.NoError(t, env.grants.StoreBookmark(ctx, dir))

	result := call(t, exportCasesHandler(env.deps, env.grants), nil)
	require.False(t, result.IsError, getResultText(result))
	assert.Contains(t, getResultText(result), "Exported 1 of 1 cases")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "Launch--"))
}
