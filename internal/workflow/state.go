package workflow

import (
	"fmt"
	"strings"
)

// focusDelimiters are characters that would join multiple subject ids into
// one focus reference. A focus id containing any of them violates the
// single-focus invariant.
const focusDelimiters = ";|"

// WorkflowState is the immutable current position of an investigation
// session: which stage it is at, which view (if any) is presented, and
// which single subject (if any) is in focus. All "mutations" produce a new
// value; the zero value is not valid — use NewWorkflowState or
// Engine.InitialState.
//
// Field names and enum string values in the JSON representation are part of
// the checkpoint storage contract and must round-trip exactly.
type WorkflowState struct {
	Stage     Stage  `json:"stage"`
	View      View   `json:"view,omitempty"`
	FocusID   string `json:"focus_id,omitempty"`
	SessionID string `json:"session_id"`
}

// NewWorkflowState constructs a validated WorkflowState.
func NewWorkflowState(stage Stage, view View, focusID, sessionID string) (WorkflowState, error) {
	if !stage.IsValid() {
		return WorkflowState{}, fmt.Errorf("invalid stage: %q", stage)
	}
	if !view.IsValid() {
		return WorkflowState{}, fmt.Errorf("invalid view: %q", view)
	}
	if sessionID == "" {
		return WorkflowState{}, fmt.Errorf("session_id is required")
	}
	if err := ValidateFocusID(focusID); err != nil {
		return WorkflowState{}, err
	}
	return WorkflowState{Stage: stage, View: view, FocusID: focusID, SessionID: sessionID}, nil
}

// ValidateFocusID enforces the single-focus invariant: a focus id names at
// most one subject. Empty means no focus and is valid.
func ValidateFocusID(focusID string) error {
	if focusID == "" {
		return nil
	}
	if strings.TrimSpace(focusID) == "" {
		return fmt.Errorf("focus_id must not be whitespace")
	}
	if strings.ContainsAny(focusID, focusDelimiters) {
		return fmt.Errorf("focus_id %q encodes multiple subjects", focusID)
	}
	return nil
}

// Validate checks the state's structural invariants. Used by callers that
// received a state from storage rather than a constructor.
func (s WorkflowState) Validate() error {
	_, err := NewWorkflowState(s.Stage, s.View, s.FocusID, s.SessionID)
	return err
}

// HasFocus reports whether a subject is in focus.
func (s WorkflowState) HasFocus() bool {
	return s.FocusID != ""
}

// WithStage returns a copy of the state at the given stage. No legality
// check happens here; that is the engine's job.
func (s WorkflowState) WithStage(stage Stage) WorkflowState {
	s.Stage = stage
	return s
}

// WithView returns a copy of the state with the given view.
func (s WorkflowState) WithView(view View) WorkflowState {
	s.View = view
	return s
}

// WithFocus returns a copy of the state focused on the given subject.
func (s WorkflowState) WithFocus(focusID string) WorkflowState {
	s.FocusID = focusID
	return s
}

// WithoutFocus returns a copy of the state with no focus subject.
func (s WorkflowState) WithoutFocus() WorkflowState {
	s.FocusID = ""
	return s
}

func (s WorkflowState) String() string {
	var b strings.Builder
	b.WriteString(string(s.Stage))
	if s.View != ViewNone {
		b.WriteString("/" + string(s.View))
	}
	if s.FocusID != "" {
		b.WriteString(" focus=" + s.FocusID)
	}
	return b.String()
}
