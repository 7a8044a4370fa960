package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attentionos/internal/application/commands"
	"attentionos/internal/config"
	"attentionos/internal/domain"
)

func testConfig(t *testing.T, driver string) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Database.Driver = driver
	cfg.Database.Path = filepath.Join(t.TempDir(), "attentionos.db")
	cfg.Log.Level = "error"
	cfg.Log.Format = "text"
	cfg.Reminders.Authorized = true
	cfg.Notifications.DefaultEnabled = true
	return cfg
}

func TestOpen_Drivers(t *testing.T) {
	for _, driver := range []string{"memory", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			a, err := Open(testConfig(t, driver), slog.New(slog.NewTextHandler(io.Discard, nil)))
			require.NoError(t, err)

			cs, err := commands.NewCreateCaseCommand(a.Deps, caseFields("Launch")).Execute(ctx)
			require.NoError(t, err)
			_, err = commands.NewStartAttemptCommand(a.Deps, cs.Case.ID, pausedAttempt()).Execute(ctx)
			require.NoError(t, err)

			status, err := commands.NewNotificationStatusCommand(a.Deps, a.Reminders).Execute(ctx)
			require.NoError(t, err)
			assert.True(t, status.Enabled)
			assert.Len(t, status.Pending, 1)

			assert.False(t, a.Grants.HasBookmark(ctx))
			require.NoError(t, a.Close())
		})
	}
}

func TestOpen_SQLitePersists(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, "sqlite")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	a, err := Open(cfg, logger)
	require.NoError(t, err)
	_, err = commands.NewCaptureCommand(a.Deps, "water the plants", "").Execute(ctx)
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b, err := Open(cfg, logger)
	require.NoError(t, err)
	defer b.Close()

	review, err := commands.NewReviewCommand(b.Deps, b.Deps.Clock()).Execute(ctx)
	require.NoError(t, err)
	require.Len(t, review.Inbox, 1)
	assert.Equal(t, "water the plants", review.Inbox[0].Thought)
}

func caseFields(title string) domain.CaseFields {
	return domain.CaseFields{Title: title, Importance: 5, Urgency: 5}
}

func pausedAttempt() domain.AttemptFields {
	next := time.Now().Add(24 * time.Hour)
	return domain.AttemptFields{Note: "outline", State: domain.StatePaused, NextReview: &next}
}
