package storage

import (
	"context"
	"time"

	"github.com/codefathom/fathom/internal/events"
	"github.com/codefathom/fathom/internal/shortcut"
	"github.com/codefathom/fathom/internal/workflow"
)

// SessionRecord is a persisted investigation session: its checkpointed
// position, the focus subject the session layer currently holds, and
// bookkeeping timestamps.
type SessionRecord struct {
	ID        string                 `json:"id"`
	Actor     string                 `json:"actor"`
	State     workflow.WorkflowState `json:"state"`
	Focus     FocusRef               `json:"focus,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// FocusRef is the focus subject the session layer holds: an opaque id plus
// the kind the caller declared when focusing it. The id is never parsed for
// meaning.
type FocusRef struct {
	Kind string `json:"kind,omitempty"`
	ID   string `json:"id,omitempty"`
}

// Storage defines the interface for session persistence backends. The
// workflow core never touches storage; only the session layer does.
type Storage interface {
	// Sessions
	CreateSession(ctx context.Context, rec *SessionRecord) error
	GetSession(ctx context.Context, id string) (*SessionRecord, error)
	ListSessions(ctx context.Context) ([]*SessionRecord, error)
	DeleteSession(ctx context.Context, id string) error

	// SaveCheckpoint persists the session's current position and focus so
	// the investigation can be restored across process restarts.
	SaveCheckpoint(ctx context.Context, state workflow.WorkflowState, focus FocusRef) error

	// Shortcut use history
	RecordShortcutUse(ctx context.Context, sessionID string, use shortcut.UseRecord) error
	GetShortcutUses(ctx context.Context, sessionID string) ([]shortcut.UseRecord, error)

	// Navigation audit trail
	StoreEvent(ctx context.Context, ev *events.NavigationEvent) error
	GetEvents(ctx context.Context, filter events.EventFilter) ([]*events.NavigationEvent, error)

	Close() error
}
