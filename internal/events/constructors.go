package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/codefathom/fathom/internal/workflow"
)

// newEvent builds the common fields shared by all constructors.
func newEvent(eventType EventType, severity EventSeverity, state workflow.WorkflowState, message string) *NavigationEvent {
	return &NavigationEvent{
		ID:        uuid.New().String(),
		SessionID: state.SessionID,
		Type:      eventType,
		Severity:  severity,
		Message:   message,
		Stage:     state.Stage,
		View:      state.View,
		FocusID:   state.FocusID,
		Timestamp: time.Now(),
	}
}

// NewSessionStartedEvent records the creation of a new session.
func NewSessionStartedEvent(state workflow.WorkflowState) *NavigationEvent {
	return newEvent(EventTypeSessionStarted, SeverityInfo, state, "investigation session started at orientation")
}

// NewSessionResumedEvent records restoring a session from its checkpoint.
func NewSessionResumedEvent(state workflow.WorkflowState) *NavigationEvent {
	return newEvent(EventTypeSessionResumed, SeverityInfo, state,
		fmt.Sprintf("session resumed at %s", state.Stage))
}

// NewStageAdvancedEvent records a forward transition. The event carries the
// post-transition state.
func NewStageAdvancedEvent(state workflow.WorkflowState, transition workflow.Transition) *NavigationEvent {
	return newEvent(EventTypeStageAdvanced, SeverityInfo, state,
		fmt.Sprintf("advanced %s", transition))
}

// NewViewChangedEvent records a view change within a stage.
func NewViewChangedEvent(state workflow.WorkflowState, previous workflow.View) *NavigationEvent {
	return newEvent(EventTypeViewChanged, SeverityInfo, state,
		fmt.Sprintf("view changed from %q to %q", previous, state.View))
}

// NewFocusChangedEvent records a focus change or clear.
func NewFocusChangedEvent(state workflow.WorkflowState, previous string) *NavigationEvent {
	msg := fmt.Sprintf("focus changed from %q to %q", previous, state.FocusID)
	if state.FocusID == "" {
		msg = fmt.Sprintf("focus %q cleared", previous)
	}
	return newEvent(EventTypeFocusChanged, SeverityInfo, state, msg)
}

// NewShortcutUsedEvent records applying a registered shortcut.
func NewShortcutUsedEvent(state workflow.WorkflowState, kind string) *NavigationEvent {
	return newEvent(EventTypeShortcutUsed, SeverityInfo, state,
		fmt.Sprintf("shortcut %s applied", kind))
}

// NewTransitionRejectedEvent records a refused move, with the reason the
// engine gave.
func NewTransitionRejectedEvent(state workflow.WorkflowState, reason string) *NavigationEvent {
	return newEvent(EventTypeTransitionRejected, SeverityWarning, state, reason)
}

// NewFailureDetectedEvent records a classified navigation failure.
func NewFailureDetectedEvent(state workflow.WorkflowState, failure string) *NavigationEvent {
	return newEvent(EventTypeFailureDetected, SeverityError, state, failure)
}

// NewRecoveryAppliedEvent records applying a recovery path. The event
// carries the post-recovery state and the disclosure message.
func NewRecoveryAppliedEvent(state workflow.WorkflowState, message string) *NavigationEvent {
	return newEvent(EventTypeRecoveryApplied, SeverityWarning, state, message)
}
