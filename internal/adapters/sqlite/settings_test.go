package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attentionos/internal/ports"
)

func TestSettings(t *testing.T) {
	ctx := context.Background()
	settings := NewSettings(openTestStore(t))

	enabled, err := settings.GetBool(ctx, ports.SettingNotificationsEnabled, true)
	require.NoError(t, err)
	assert.True(t, enabled, "missing key falls back")

	require.NoError(t, settings.SetBool(ctx, ports.SettingNotificationsEnabled, false))
	enabled, err = settings.GetBool(ctx, ports.SettingNotificationsEnabled, true)
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, settings.SetString(ctx, ports.SettingExportDisplayPath, "/tmp/a"))
	require.NoError(t, settings.SetString(ctx, ports.SettingExportDisplayPath, "/tmp/b"))
	v, ok, err := settings.GetString(ctx, ports.SettingExportDisplayPath)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/tmp/b", v)

	require.NoError(t, settings.Delete(ctx, ports.SettingExportDisplayPath))
	_, ok, err = settings.GetString(ctx, ports.SettingExportDisplayPath)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Error(t, settings.SetString(ctx, " ", "x"))
}

func TestScheduler(t *testing.T) {
	ctx := context.Background()
	sched := NewScheduler(openTestStore(t), true)
	assert.True(t, sched.RequestAuthorization(ctx))

	at := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)
	require.NoError(t, sched.Schedule(ctx, "Case:b", at.Add(time.Hour), "B", "body b"))
	require.NoError(t, sched.Schedule(ctx, "Case:a", at.Add(2*time.Hour), "A", "body a"))
	require.NoError(t, sched.Schedule(ctx, "Case:a", at, "A2", "body a2"))

	pending, err := sched.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "Case:a", pending[0].Key)
	assert.Equal(t, "A2", pending[0].Title)
	assert.True(t, pending[0].At.Equal(at))

	due, err := sched.ListDue(ctx, at.Add(30*time.Minute))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "Case:a", due[0].Key)

	require.NoError(t, sched.Cancel(ctx, "Case:a"))
	pending, err = sched.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	require.NoError(t, sched.CancelAll(ctx))
	pending, err = sched.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	assert.False(t, NewScheduler(openTestStore(t), false).RequestAuthorization(ctx))
}
