package navigation

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/codefathom/fathom/internal/workflow"
)

// FocusKind categorizes the single subject a context is focused on.
type FocusKind string

const (
	// FocusNone means the context has no focus subject.
	FocusNone FocusKind = ""
	// FocusFile focuses a file or directory.
	FocusFile FocusKind = "file"
	// FocusObservation focuses a recorded observation.
	FocusObservation FocusKind = "observation"
	// FocusConnection focuses a recorded relationship.
	FocusConnection FocusKind = "connection"
	// FocusPattern focuses a recorded pattern.
	FocusPattern FocusKind = "pattern"
	// FocusNote focuses a human note.
	FocusNote FocusKind = "note"
)

// IsValid checks if the focus kind value is valid
func (k FocusKind) IsValid() bool {
	switch k {
	case FocusNone, FocusFile, FocusObservation, FocusConnection, FocusPattern, FocusNote:
		return true
	}
	return false
}

// Context is an immutable, identity-bearing snapshot of an investigation
// position: a WorkflowState plus the single subject under examination. A
// new context is created for every position change and the old one is
// simply discarded.
//
// Identity is the ContextID, not the field values: two contexts built from
// identical fields are still distinct instances. Use the IsSame* helpers
// for structural comparison.
type Context struct {
	State     workflow.WorkflowState `json:"workflow_state"`
	FocusKind FocusKind              `json:"focus_kind,omitempty"`
	FocusID   string                 `json:"focus_id,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	ContextID string                 `json:"context_id"`
}

// New constructs a validated Context with a fresh identity. The focus kind
// and id must be set together, satisfy the single-focus invariant, and
// agree with the state's focus.
func New(state workflow.WorkflowState, focusKind FocusKind, focusID string) (*Context, error) {
	return newContext(state, focusKind, focusID, time.Now())
}

// newContext validates all invariants and assembles the fully-formed value;
// no field is assigned after construction.
func newContext(state workflow.WorkflowState, focusKind FocusKind, focusID string, createdAt time.Time) (*Context, error) {
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workflow state: %w", err)
	}
	if !focusKind.IsValid() {
		return nil, fmt.Errorf("invalid focus kind: %q", focusKind)
	}
	if err := workflow.ValidateFocusID(focusID); err != nil {
		return nil, err
	}
	if (focusKind == FocusNone) != (focusID == "") {
		return nil, fmt.Errorf("focus kind and focus id must be set together (kind=%q, id=%q)", focusKind, focusID)
	}
	if focusID != state.FocusID {
		return nil, fmt.Errorf("context focus %q disagrees with state focus %q", focusID, state.FocusID)
	}
	return &Context{
		State:     state,
		FocusKind: focusKind,
		FocusID:   focusID,
		CreatedAt: createdAt,
		ContextID: uuid.New().String(),
	}, nil
}

// FromWorkflowState builds a context around an existing state, taking the
// focus subject from the state itself.
func FromWorkflowState(state workflow.WorkflowState, focusKind FocusKind) (*Context, error) {
	return New(state, focusKind, state.FocusID)
}

// ToWorkflowState returns the position this context snapshots.
func (c *Context) ToWorkflowState() workflow.WorkflowState {
	return c.State
}

// WithStage returns a brand-new context at the given stage. Like all
// with-X constructors it produces a fresh identity and timestamp; the
// receiver is never mutated.
func (c *Context) WithStage(stage workflow.Stage) (*Context, error) {
	return New(c.State.WithStage(stage), c.FocusKind, c.FocusID)
}

// WithView returns a brand-new context with the given view.
func (c *Context) WithView(view workflow.View) (*Context, error) {
	return New(c.State.WithView(view), c.FocusKind, c.FocusID)
}

// WithFocus returns a brand-new context focused on the given subject.
func (c *Context) WithFocus(focusKind FocusKind, focusID string) (*Context, error) {
	return New(c.State.WithFocus(focusID), focusKind, focusID)
}

// WithoutFocus returns a brand-new context with no focus subject.
func (c *Context) WithoutFocus() (*Context, error) {
	return New(c.State.WithoutFocus(), FocusNone, "")
}

// WithSession returns a brand-new context bound to a different session.
func (c *Context) WithSession(sessionID string) (*Context, error) {
	state, err := workflow.NewWorkflowState(c.State.Stage, c.State.View, c.State.FocusID, sessionID)
	if err != nil {
		return nil, err
	}
	return New(state, c.FocusKind, c.FocusID)
}

// Equal reports identity equality: same ContextID.
func (c *Context) Equal(other *Context) bool {
	return other != nil && c.ContextID == other.ContextID
}

// IsSameStage reports structural equality of stage.
func (c *Context) IsSameStage(other *Context) bool {
	return other != nil && c.State.Stage == other.State.Stage
}

// IsSameView reports structural equality of view.
func (c *Context) IsSameView(other *Context) bool {
	return other != nil && c.State.View == other.State.View
}

// IsSameFocus reports structural equality of the focus subject.
func (c *Context) IsSameFocus(other *Context) bool {
	return other != nil && c.FocusKind == other.FocusKind && c.FocusID == other.FocusID
}

// MarshalRecord serializes the context's stable record representation.
// Field names and enum string values are part of the storage contract.
func (c *Context) MarshalRecord() ([]byte, error) {
	return json.Marshal(c)
}

// UnmarshalRecord reconstructs a context from its record representation.
// The reconstructed context carries the recorded field values but a fresh
// ContextID: restoring a position is itself a new navigation event, so the
// identity is not resurrected.
func UnmarshalRecord(data []byte) (*Context, error) {
	var raw Context
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal navigation context: %w", err)
	}
	return newContext(raw.State, raw.FocusKind, raw.FocusID, raw.CreatedAt)
}
