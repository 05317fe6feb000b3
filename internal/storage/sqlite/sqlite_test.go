package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codefathom/fathom/internal/events"
	"github.com/codefathom/fathom/internal/shortcut"
	"github.com/codefathom/fathom/internal/storage"
	"github.com/codefathom/fathom/internal/workflow"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "fathom.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestSession(t *testing.T, s *SQLiteStorage, id string) workflow.WorkflowState {
	t.Helper()
	state := workflow.NewEngine().InitialState(id)
	err := s.CreateSession(context.Background(), &storage.SessionRecord{
		ID:    id,
		Actor: "tester",
		State: state,
	})
	require.NoError(t, err)
	return state
}

func TestCreateAndGetSession(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	newTestSession(t, s, "session-1")

	rec, err := s.GetSession(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, "session-1", rec.ID)
	assert.Equal(t, "tester", rec.Actor)
	assert.Equal(t, workflow.StageOrientation, rec.State.Stage)
	assert.Equal(t, workflow.ViewNone, rec.State.View)
	assert.Equal(t, "session-1", rec.State.SessionID)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestGetSession_NotFound(t *testing.T) {
	s := newTestStorage(t)
	_, err := s.GetSession(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSaveCheckpoint_RoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	newTestSession(t, s, "session-1")

	state, err := workflow.NewWorkflowState(workflow.StageExamination, workflow.ViewDetail, "obs:42", "session-1")
	require.NoError(t, err)
	require.NoError(t, s.SaveCheckpoint(ctx, state, storage.FocusRef{Kind: "observation", ID: "obs:42"}))

	rec, err := s.GetSession(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, state, rec.State, "checkpoint must round-trip exactly")
	assert.Equal(t, storage.FocusRef{Kind: "observation", ID: "obs:42"}, rec.Focus)
}

func TestSaveCheckpoint_RejectsInvalidState(t *testing.T) {
	s := newTestStorage(t)
	newTestSession(t, s, "session-1")

	bad := workflow.WorkflowState{Stage: workflow.Stage("bogus"), SessionID: "session-1"}
	err := s.SaveCheckpoint(context.Background(), bad, storage.FocusRef{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")
}

func TestSaveCheckpoint_UnknownSession(t *testing.T) {
	s := newTestStorage(t)
	state := workflow.NewEngine().InitialState("ghost")
	err := s.SaveCheckpoint(context.Background(), state, storage.FocusRef{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListSessions_MostRecentFirst(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	newTestSession(t, s, "session-a")
	newTestSession(t, s, "session-b")

	// Touch session-a so it sorts first.
	state, err := workflow.NewWorkflowState(workflow.StageExamination, workflow.ViewNone, "", "session-a")
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, s.SaveCheckpoint(ctx, state, storage.FocusRef{}))

	got, err := s.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "session-a", got[0].ID)
}

func TestDeleteSession(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	newTestSession(t, s, "session-1")

	require.NoError(t, s.DeleteSession(ctx, "session-1"))
	_, err := s.GetSession(ctx, "session-1")
	assert.Error(t, err)

	err = s.DeleteSession(ctx, "session-1")
	assert.Error(t, err)
}

func TestShortcutUses_History(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	newTestSession(t, s, "session-1")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.RecordShortcutUse(ctx, "session-1", shortcut.UseRecord{Kind: shortcut.KindToggleDetail, UsedAt: base}))
	require.NoError(t, s.RecordShortcutUse(ctx, "session-1", shortcut.UseRecord{Kind: shortcut.KindRevisitConnections, UsedAt: base.Add(time.Minute)}))

	got, err := s.GetShortcutUses(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, shortcut.KindToggleDetail, got[0].Kind)
	assert.Equal(t, shortcut.KindRevisitConnections, got[1].Kind)

	// History is scoped per session.
	got, err = s.GetShortcutUses(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEvents_StoreAndFilter(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	state := newTestSession(t, s, "session-1")

	require.NoError(t, s.StoreEvent(ctx, events.NewSessionStartedEvent(state)))
	require.NoError(t, s.StoreEvent(ctx, events.NewTransitionRejectedEvent(state, "cannot skip")))

	all, err := s.GetEvents(ctx, events.EventFilter{SessionID: "session-1"})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	rejected, err := s.GetEvents(ctx, events.EventFilter{SessionID: "session-1", Type: events.EventTypeTransitionRejected})
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.Contains(t, rejected[0].Message, "skip")

	limited, err := s.GetEvents(ctx, events.EventFilter{SessionID: "session-1", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestStoreEvent_Validation(t *testing.T) {
	s := newTestStorage(t)
	state := newTestSession(t, s, "session-1")

	ev := events.NewSessionStartedEvent(state)
	ev.Type = events.EventType("party")
	err := s.StoreEvent(context.Background(), ev)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid event type")
}
