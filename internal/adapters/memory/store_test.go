package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attentionos/internal/domain"
	"attentionos/internal/ports"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newCase(t *testing.T, title string, at time.Time) *domain.Case {
	t.Helper()
	c, err := domain.NewCase(domain.CaseFields{Title: title, Importance: 5, Urgency: 5}, at)
	require.NoError(t, err)
	return c
}

func newAttempt(t *testing.T, caseID, note string, state domain.State, at time.Time) *domain.Attempt {
	t.Helper()
	a, err := domain.NewAttempt(caseID, domain.AttemptFields{Note: note, State: state}, at)
	require.NoError(t, err)
	return a
}

func TestStore_InboxRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	item, err := domain.NewInboxItem("Buy milk", "", t0)
	require.NoError(t, err)
	require.NoError(t, s.InsertInboxItem(ctx, item))

	got, err := s.GetInboxItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item, got)

	// Stored values are isolated from the caller
	got.Thought = "changed"
	again, err := s.GetInboxItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", again.Thought)

	require.NoError(t, s.DeleteInboxItem(ctx, item.ID))
	_, err = s.GetInboxItem(ctx, item.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	older := newCase(t, "older", t0)
	newer := newCase(t, "newer", t0.Add(time.Hour))
	require.NoError(t, s.InsertCase(ctx, older))
	require.NoError(t, s.InsertCase(ctx, newer))

	cases, err := s.ListCases(ctx)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "newer", cases[0].Title)
	assert.Equal(t, "older", cases[1].Title)
}

func TestStore_CaseCarriesAttemptsInCreationOrder(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	c := newCase(t, "case", t0)
	require.NoError(t, s.InsertCase(ctx, c))
	second := newAttempt(t, c.ID, "second", domain.StatePaused, t0.Add(2*time.Hour))
	first := newAttempt(t, c.ID, "first", domain.StatePaused, t0.Add(time.Hour))
	require.NoError(t, s.InsertAttempt(ctx, second))
	require.NoError(t, s.InsertAttempt(ctx, first))

	got, err := s.GetCase(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, got.Attempts, 2)
	assert.Equal(t, "first", got.Attempts[0].Note)
	assert.Equal(t, "second", got.Attempts[1].Note)
}

func TestStore_DeleteCaseCascades(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	c := newCase(t, "case", t0)
	other := newCase(t, "other", t0)
	require.NoError(t, s.InsertCase(ctx, c))
	require.NoError(t, s.InsertCase(ctx, other))
	a := newAttempt(t, c.ID, "a", domain.StateActive, t0)
	b := newAttempt(t, other.ID, "b", domain.StatePaused, t0)
	require.NoError(t, s.InsertAttempt(ctx, a))
	require.NoError(t, s.InsertAttempt(ctx, b))

	require.NoError(t, s.DeleteCase(ctx, c.ID))

	_, err := s.GetAttempt(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	remaining, err := s.ListAttempts(ctx, ports.AttemptFilter{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, b.ID, remaining[0].ID)
}

func TestStore_InsertAttemptRequiresCase(t *testing.T) {
	s := NewStore()
	a := newAttempt(t, "missing", "a", domain.StateActive, t0)
	err := s.InsertAttempt(context.Background(), a)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ListAttemptsFilter(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	c := newCase(t, "case", t0)
	require.NoError(t, s.InsertCase(ctx, c))
	require.NoError(t, s.InsertAttempt(ctx, newAttempt(t, c.ID, "active", domain.StateActive, t0)))
	require.NoError(t, s.InsertAttempt(ctx, newAttempt(t, c.ID, "paused", domain.StatePaused, t0.Add(time.Minute))))

	active, err := s.ListAttempts(ctx, ports.AttemptFilter{State: domain.StateActive})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "active", active[0].Note)
}

func TestStore_WithinTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	c := newCase(t, "case", t0)
	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(tx ports.TriageRepository) error {
		if err := tx.InsertCase(ctx, c); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.GetCase(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_WithinTxCommits(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	c := newCase(t, "case", t0)
	a := newAttempt(t, c.ID, "a", domain.StateActive, t0)
	err := s.WithinTx(ctx, func(tx ports.TriageRepository) error {
		if err := tx.InsertCase(ctx, c); err != nil {
			return err
		}
		return tx.InsertAttempt(ctx, a)
	})
	require.NoError(t, err)

	got, err := s.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, got.Attempts, 1)
}

func TestStore_SaveMissing(t *testing.T) {
	s := NewStore()
	c := newCase(t, "ghost", t0)
	assert.ErrorIs(t, s.SaveCase(context.Background(), c), domain.ErrNotFound)
}
