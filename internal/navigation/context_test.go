package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codefathom/fathom/internal/workflow"
)

func mustState(t *testing.T, stage workflow.Stage, view workflow.View, focus string) workflow.WorkflowState {
	t.Helper()
	s, err := workflow.NewWorkflowState(stage, view, focus, "session-1")
	require.NoError(t, err)
	return s
}

func TestNew_Valid(t *testing.T) {
	state := mustState(t, workflow.StageExamination, workflow.ViewOverview, "obs:42")
	ctx, err := New(state, FocusObservation, "obs:42")
	require.NoError(t, err)

	assert.Equal(t, state, ctx.ToWorkflowState())
	assert.Equal(t, FocusObservation, ctx.FocusKind)
	assert.NotEmpty(t, ctx.ContextID)
	assert.False(t, ctx.CreatedAt.IsZero())
}

func TestNew_RejectsInvalidConstruction(t *testing.T) {
	state := mustState(t, workflow.StageExamination, workflow.ViewOverview, "obs:42")

	tests := []struct {
		name      string
		state     workflow.WorkflowState
		focusKind FocusKind
		focusID   string
	}{
		{"multi-subject focus", workflow.WorkflowState{Stage: workflow.StageExamination, FocusID: "a;b", SessionID: "s1"}, FocusObservation, "a;b"},
		{"kind without id", state, FocusObservation, ""},
		{"id without kind", state, FocusNone, "obs:42"},
		{"unknown focus kind", state, FocusKind("gadget"), "obs:42"},
		{"focus disagrees with state", state, FocusObservation, "obs:7"},
		{"invalid state", workflow.WorkflowState{Stage: workflow.Stage("bogus"), SessionID: "s1"}, FocusNone, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.state, tt.focusKind, tt.focusID)
			assert.Error(t, err)
		})
	}
}

func TestMultiSubjectFocusFailsImmediately(t *testing.T) {
	state := workflow.WorkflowState{Stage: workflow.StageExamination, FocusID: "a;b", SessionID: "s1"}
	_, err := New(state, FocusObservation, "a;b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple subjects")
}

func TestWithers_FreshIdentityNoMutation(t *testing.T) {
	state := mustState(t, workflow.StageExamination, workflow.ViewOverview, "obs:42")
	ctx, err := New(state, FocusObservation, "obs:42")
	require.NoError(t, err)

	moved, err := ctx.WithView(workflow.ViewDetail)
	require.NoError(t, err)

	assert.NotEqual(t, ctx.ContextID, moved.ContextID, "with-X constructors mint a new identity")
	assert.Equal(t, workflow.ViewOverview, ctx.State.View, "receiver is untouched")
	assert.Equal(t, workflow.ViewDetail, moved.State.View)
	assert.True(t, ctx.IsSameFocus(moved))
	assert.True(t, ctx.IsSameStage(moved))
	assert.False(t, ctx.IsSameView(moved))
}

func TestWithStage_Idempotence(t *testing.T) {
	state := mustState(t, workflow.StageExamination, workflow.ViewOverview, "obs:42")
	ctx, err := New(state, FocusObservation, "obs:42")
	require.NoError(t, err)

	a, err := ctx.WithStage(workflow.StageConnections)
	require.NoError(t, err)
	b, err := a.WithStage(workflow.StageConnections)
	require.NoError(t, err)

	assert.True(t, a.IsSameStage(b))
	assert.False(t, a.Equal(b), "identity equality is never structural")
}

func TestWithFocusAndWithoutFocus(t *testing.T) {
	state := mustState(t, workflow.StageExamination, workflow.ViewOverview, "")
	ctx, err := New(state, FocusNone, "")
	require.NoError(t, err)

	focused, err := ctx.WithFocus(FocusFile, "file:internal/workflow")
	require.NoError(t, err)
	assert.Equal(t, "file:internal/workflow", focused.State.FocusID)
	assert.Equal(t, FocusFile, focused.FocusKind)

	cleared, err := focused.WithoutFocus()
	require.NoError(t, err)
	assert.False(t, cleared.State.HasFocus())
	assert.Equal(t, FocusNone, cleared.FocusKind)
}

func TestWithSession(t *testing.T) {
	state := mustState(t, workflow.StagePatterns, workflow.ViewList, "pattern:builder")
	ctx, err := New(state, FocusPattern, "pattern:builder")
	require.NoError(t, err)

	moved, err := ctx.WithSession("session-2")
	require.NoError(t, err)
	assert.Equal(t, "session-2", moved.State.SessionID)
	assert.True(t, ctx.IsSameFocus(moved))
}

func TestRecordRoundTrip(t *testing.T) {
	state := mustState(t, workflow.StageConnections, workflow.ViewList, "conn:a-b")
	ctx, err := New(state, FocusConnection, "conn:a-b")
	require.NoError(t, err)

	data, err := ctx.MarshalRecord()
	require.NoError(t, err)

	got, err := UnmarshalRecord(data)
	require.NoError(t, err)

	// Field values round-trip; the identity does not. Restoring a position
	// is a new navigation event.
	assert.Equal(t, ctx.State, got.State)
	assert.Equal(t, ctx.FocusKind, got.FocusKind)
	assert.Equal(t, ctx.FocusID, got.FocusID)
	assert.True(t, ctx.CreatedAt.Equal(got.CreatedAt))
	assert.NotEqual(t, ctx.ContextID, got.ContextID)
}

func TestUnmarshalRecord_RejectsCorruptRecords(t *testing.T) {
	_, err := UnmarshalRecord([]byte(`{"workflow_state":{"stage":"daydreaming","session_id":"s1"}}`))
	assert.Error(t, err)

	_, err = UnmarshalRecord([]byte(`not json`))
	assert.Error(t, err)
}
