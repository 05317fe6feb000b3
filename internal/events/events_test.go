package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codefathom/fathom/internal/workflow"
)

func TestConstructorsCarryStateFields(t *testing.T) {
	state, err := workflow.NewWorkflowState(workflow.StageExamination, workflow.ViewDetail, "obs:42", "session-1")
	require.NoError(t, err)

	ev := NewFocusChangedEvent(state, "obs:7")
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "session-1", ev.SessionID)
	assert.Equal(t, EventTypeFocusChanged, ev.Type)
	assert.Equal(t, SeverityInfo, ev.Severity)
	assert.Equal(t, workflow.StageExamination, ev.Stage)
	assert.Equal(t, workflow.ViewDetail, ev.View)
	assert.Equal(t, "obs:42", ev.FocusID)
	assert.False(t, ev.Timestamp.IsZero())
	assert.Contains(t, ev.Message, "obs:7")
}

func TestFocusClearedMessage(t *testing.T) {
	state, err := workflow.NewWorkflowState(workflow.StageExamination, workflow.ViewNone, "", "session-1")
	require.NoError(t, err)

	ev := NewFocusChangedEvent(state, "obs:42")
	assert.Contains(t, ev.Message, "cleared")
}

func TestSeverities(t *testing.T) {
	state, err := workflow.NewWorkflowState(workflow.StageOrientation, workflow.ViewNone, "", "session-1")
	require.NoError(t, err)

	assert.Equal(t, SeverityInfo, NewSessionStartedEvent(state).Severity)
	assert.Equal(t, SeverityWarning, NewTransitionRejectedEvent(state, "nope").Severity)
	assert.Equal(t, SeverityError, NewFailureDetectedEvent(state, "dangling_focus: gone").Severity)
	assert.Equal(t, SeverityWarning, NewRecoveryAppliedEvent(state, "restarting").Severity)
}

func TestEventIDsAreUnique(t *testing.T) {
	state, err := workflow.NewWorkflowState(workflow.StageOrientation, workflow.ViewNone, "", "session-1")
	require.NoError(t, err)

	a := NewSessionStartedEvent(state)
	b := NewSessionStartedEvent(state)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestEventTypeValidity(t *testing.T) {
	for _, et := range []EventType{
		EventTypeSessionStarted, EventTypeSessionResumed, EventTypeStageAdvanced,
		EventTypeViewChanged, EventTypeFocusChanged, EventTypeShortcutUsed,
		EventTypeTransitionRejected, EventTypeFailureDetected, EventTypeRecoveryApplied,
	} {
		assert.True(t, et.IsValid())
	}
	assert.False(t, EventType("party").IsValid())
}
