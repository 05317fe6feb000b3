package events

import (
	"time"

	"github.com/codefathom/fathom/internal/workflow"
)

// EventType represents the type of navigation event recorded in a session's
// audit trail.
type EventType string

const (
	// EventTypeSessionStarted indicates a new investigation session began
	EventTypeSessionStarted EventType = "session_started"
	// EventTypeSessionResumed indicates a session was restored from its checkpoint
	EventTypeSessionResumed EventType = "session_resumed"
	// EventTypeStageAdvanced indicates the session moved forward one stage
	EventTypeStageAdvanced EventType = "stage_advanced"
	// EventTypeViewChanged indicates the presentation view changed
	EventTypeViewChanged EventType = "view_changed"
	// EventTypeFocusChanged indicates the focus subject changed or cleared
	EventTypeFocusChanged EventType = "focus_changed"
	// EventTypeShortcutUsed indicates a registered shortcut was applied
	EventTypeShortcutUsed EventType = "shortcut_used"
	// EventTypeTransitionRejected indicates a requested move was refused
	EventTypeTransitionRejected EventType = "transition_rejected"
	// EventTypeFailureDetected indicates the detector classified a failure
	EventTypeFailureDetected EventType = "failure_detected"
	// EventTypeRecoveryApplied indicates a recovery path was applied
	EventTypeRecoveryApplied EventType = "recovery_applied"
)

// IsValid checks if the event type value is valid
func (t EventType) IsValid() bool {
	switch t {
	case EventTypeSessionStarted, EventTypeSessionResumed, EventTypeStageAdvanced,
		EventTypeViewChanged, EventTypeFocusChanged, EventTypeShortcutUsed,
		EventTypeTransitionRejected, EventTypeFailureDetected, EventTypeRecoveryApplied:
		return true
	}
	return false
}

// EventSeverity indicates how notable an event is.
type EventSeverity string

const (
	SeverityInfo    EventSeverity = "info"
	SeverityWarning EventSeverity = "warning"
	SeverityError   EventSeverity = "error"
)

// IsValid checks if the severity value is valid
func (s EventSeverity) IsValid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityError:
		return true
	}
	return false
}

// NavigationEvent is one entry in a session's audit trail. The trail is
// append-only; the workflow core never reads it back.
type NavigationEvent struct {
	ID        string         `json:"id"`
	SessionID string         `json:"session_id"`
	Type      EventType      `json:"type"`
	Severity  EventSeverity  `json:"severity"`
	Message   string         `json:"message"`
	Stage     workflow.Stage `json:"stage"`
	View      workflow.View  `json:"view,omitempty"`
	FocusID   string         `json:"focus_id,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// EventFilter selects events when querying the audit trail.
type EventFilter struct {
	SessionID string
	Type      EventType
	Severity  EventSeverity
	Limit     int
}
