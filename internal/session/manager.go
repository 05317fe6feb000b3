package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/codefathom/fathom/internal/events"
	"github.com/codefathom/fathom/internal/navigation"
	"github.com/codefathom/fathom/internal/recovery"
	"github.com/codefathom/fathom/internal/shortcut"
	"github.com/codefathom/fathom/internal/storage"
	"github.com/codefathom/fathom/internal/workflow"
)

// Manager owns per-session navigation state and threads it through the
// workflow core. The core components it holds are stateless rule tables;
// everything session-specific lives in storage and is passed by value into
// every core call.
type Manager struct {
	store      storage.Storage
	engine     *workflow.Engine
	shortcuts  *shortcut.Registry
	recoveries *recovery.Registry
	detector   *recovery.Detector
	actor      string
	now        func() time.Time
}

// SetClock overrides the time source used for shortcut use records.
// Only used in tests.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// Config holds manager configuration. Store is required; nil registries
// fall back to the fixed default catalogs.
type Config struct {
	Store      storage.Storage
	Engine     *workflow.Engine
	Shortcuts  *shortcut.Registry
	Recoveries *recovery.Registry
	Actor      string
}

// NewManager creates a session manager. Registry construction validates the
// fixed catalogs eagerly, so a misconfigured catalog fails here, at
// startup, rather than at the point of use.
func NewManager(cfg *Config) (*Manager, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("storage is required")
	}
	engine := cfg.Engine
	if engine == nil {
		engine = workflow.NewEngine()
	}
	shortcuts := cfg.Shortcuts
	if shortcuts == nil {
		var err error
		shortcuts, err = shortcut.NewRegistry()
		if err != nil {
			return nil, fmt.Errorf("shortcut registry: %w", err)
		}
	}
	recoveries := cfg.Recoveries
	if recoveries == nil {
		var err error
		recoveries, err = recovery.NewRegistry()
		if err != nil {
			return nil, fmt.Errorf("recovery registry: %w", err)
		}
	}
	actor := cfg.Actor
	if actor == "" {
		actor = "user"
	}
	return &Manager{
		store:      cfg.Store,
		engine:     engine,
		shortcuts:  shortcuts,
		recoveries: recoveries,
		detector:   recovery.NewDetector(shortcuts),
		actor:      actor,
		now:        time.Now,
	}, nil
}

// Outcome reports the result of a requested navigation operation. A
// refusal is a normal outcome carrying the core's reason, not an error;
// errors are reserved for storage and infrastructure problems.
type Outcome struct {
	OK     bool
	Reason string
	State  workflow.WorkflowState
}

// RecoveryOutcome extends Outcome with the selected recovery path so the
// presentation layer can surface its message and lost capabilities.
type RecoveryOutcome struct {
	Outcome
	Path *recovery.RecoveryPath
}

// Begin creates a new investigation session at Orientation.
func (m *Manager) Begin(ctx context.Context) (*storage.SessionRecord, error) {
	id := uuid.New().String()
	state := m.engine.InitialState(id)
	rec := &storage.SessionRecord{
		ID:    id,
		Actor: m.actor,
		State: state,
	}
	if err := m.store.CreateSession(ctx, rec); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if err := m.store.StoreEvent(ctx, events.NewSessionStartedEvent(state)); err != nil {
		return nil, fmt.Errorf("record session start: %w", err)
	}
	return rec, nil
}

// Resume loads a checkpointed session and reports any failures the
// detector finds in the restored position. The caller decides whether to
// recover; Resume never auto-corrects.
func (m *Manager) Resume(ctx context.Context, sessionID string) (*storage.SessionRecord, []recovery.NavigationFailure, error) {
	rec, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	failures := m.detector.Detect(rec.State, rec.Focus.ID, nil)
	for _, f := range failures {
		if err := m.store.StoreEvent(ctx, events.NewFailureDetectedEvent(rec.State, f.String())); err != nil {
			return nil, nil, fmt.Errorf("record failure: %w", err)
		}
	}
	if err := m.store.StoreEvent(ctx, events.NewSessionResumedEvent(rec.State)); err != nil {
		return nil, nil, fmt.Errorf("record resume: %w", err)
	}
	return rec, failures, nil
}

// Current returns the session's checkpointed record.
func (m *Manager) Current(ctx context.Context, sessionID string) (*storage.SessionRecord, error) {
	return m.store.GetSession(ctx, sessionID)
}

// Advance asks the engine to move the session to the target stage, with an
// optional view change. A refusal is recorded in the audit trail and
// returned as a non-OK outcome.
func (m *Manager) Advance(ctx context.Context, sessionID string, target workflow.Stage, targetView workflow.View) (Outcome, error) {
	rec, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		return Outcome{}, err
	}
	return m.advance(ctx, rec, target, targetView)
}

// SetView changes the view within the current stage.
func (m *Manager) SetView(ctx context.Context, sessionID string, view workflow.View) (Outcome, error) {
	rec, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		return Outcome{}, err
	}
	return m.advance(ctx, rec, rec.State.Stage, view)
}

// advance runs a transition against an already-loaded record. A move that
// changes neither stage nor view is a no-op: no checkpoint, no event.
func (m *Manager) advance(ctx context.Context, rec *storage.SessionRecord, target workflow.Stage, targetView workflow.View) (Outcome, error) {
	tr, reason := m.engine.ValidateTransition(rec.State, target, targetView)
	if tr == nil {
		if err := m.store.StoreEvent(ctx, events.NewTransitionRejectedEvent(rec.State, reason)); err != nil {
			return Outcome{}, fmt.Errorf("record rejection: %w", err)
		}
		return Outcome{OK: false, Reason: reason, State: rec.State}, nil
	}

	next := rec.State.WithStage(tr.To)
	if targetView != workflow.ViewNone {
		next = next.WithView(targetView)
	}
	if next == rec.State {
		return Outcome{OK: true, State: rec.State}, nil
	}
	if err := m.store.SaveCheckpoint(ctx, next, rec.Focus); err != nil {
		return Outcome{}, fmt.Errorf("save checkpoint: %w", err)
	}

	var ev *events.NavigationEvent
	if tr.IsSelf() {
		ev = events.NewViewChangedEvent(next, rec.State.View)
	} else {
		ev = events.NewStageAdvancedEvent(next, *tr)
	}
	if err := m.store.StoreEvent(ctx, ev); err != nil {
		return Outcome{}, fmt.Errorf("record transition: %w", err)
	}
	return Outcome{OK: true, State: next}, nil
}

// SetFocus points the session at a single subject. The focus id is opaque;
// only the single-focus invariant is enforced. The declared kind travels
// with the session so a NavigationContext can be rebuilt later.
func (m *Manager) SetFocus(ctx context.Context, sessionID string, kind navigation.FocusKind, focusID string) (Outcome, error) {
	rec, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		return Outcome{}, err
	}
	if focusID == "" {
		return Outcome{OK: false, Reason: "focus requires a subject id", State: rec.State}, nil
	}
	if kind == navigation.FocusNone || !kind.IsValid() {
		return Outcome{OK: false, Reason: fmt.Sprintf("unknown focus kind %q", kind), State: rec.State}, nil
	}
	if err := workflow.ValidateFocusID(focusID); err != nil {
		return Outcome{OK: false, Reason: err.Error(), State: rec.State}, nil
	}

	next := rec.State.WithFocus(focusID)
	focus := storage.FocusRef{Kind: string(kind), ID: focusID}
	if err := m.store.SaveCheckpoint(ctx, next, focus); err != nil {
		return Outcome{}, fmt.Errorf("save checkpoint: %w", err)
	}
	if err := m.store.StoreEvent(ctx, events.NewFocusChangedEvent(next, rec.State.FocusID)); err != nil {
		return Outcome{}, fmt.Errorf("record focus change: %w", err)
	}
	return Outcome{OK: true, State: next}, nil
}

// ClearFocus drops the session's focus subject.
func (m *Manager) ClearFocus(ctx context.Context, sessionID string) (Outcome, error) {
	rec, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		return Outcome{}, err
	}
	next := rec.State.WithoutFocus()
	if err := m.store.SaveCheckpoint(ctx, next, storage.FocusRef{}); err != nil {
		return Outcome{}, fmt.Errorf("save checkpoint: %w", err)
	}
	if err := m.store.StoreEvent(ctx, events.NewFocusChangedEvent(next, rec.State.FocusID)); err != nil {
		return Outcome{}, fmt.Errorf("record focus change: %w", err)
	}
	return Outcome{OK: true, State: next}, nil
}

// Transitions lists the legal moves from the session's current position.
func (m *Manager) Transitions(ctx context.Context, sessionID string) ([]workflow.Transition, error) {
	rec, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return m.engine.AvailableTransitions(rec.State), nil
}

// Shortcuts lists the shortcuts usable from the session's current position
// given its use history.
func (m *Manager) Shortcuts(ctx context.Context, sessionID string) ([]shortcut.Shortcut, error) {
	rec, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	history, err := m.store.GetShortcutUses(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return m.shortcuts.Available(rec.State, rec.Focus.ID, history), nil
}

// UseShortcut applies a registered shortcut by kind. Unavailability is a
// normal non-OK outcome; an applied shortcut updates the checkpoint, the
// use history, and the audit trail.
func (m *Manager) UseShortcut(ctx context.Context, sessionID string, kind shortcut.Kind) (Outcome, error) {
	rec, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		return Outcome{}, err
	}
	history, err := m.store.GetShortcutUses(ctx, sessionID)
	if err != nil {
		return Outcome{}, err
	}

	sc, reason := m.shortcuts.ValidateUse(kind, rec.State, rec.Focus.ID, history)
	if sc == nil {
		if err := m.store.StoreEvent(ctx, events.NewTransitionRejectedEvent(rec.State, reason)); err != nil {
			return Outcome{}, fmt.Errorf("record rejection: %w", err)
		}
		return Outcome{OK: false, Reason: reason, State: rec.State}, nil
	}

	next := m.shortcuts.Apply(*sc, rec.State)
	focus := rec.Focus
	if next.FocusID != rec.State.FocusID {
		// The shortcut moved or cleared the focus; the session focus
		// follows the derived subject, preserving the declared kind while
		// a subject remains.
		focus = storage.FocusRef{ID: next.FocusID}
		if next.HasFocus() {
			focus.Kind = rec.Focus.Kind
		}
	}
	if err := m.store.SaveCheckpoint(ctx, next, focus); err != nil {
		return Outcome{}, fmt.Errorf("save checkpoint: %w", err)
	}
	use := shortcut.UseRecord{Kind: sc.Kind, UsedAt: m.now()}
	if err := m.store.RecordShortcutUse(ctx, sessionID, use); err != nil {
		return Outcome{}, fmt.Errorf("record shortcut use: %w", err)
	}
	if err := m.store.StoreEvent(ctx, events.NewShortcutUsedEvent(next, string(sc.Kind))); err != nil {
		return Outcome{}, fmt.Errorf("record shortcut: %w", err)
	}
	return Outcome{OK: true, State: next}, nil
}

// Diagnose runs the failure detector against the session's current
// position and records what it finds. The caller decides what to do with
// the failures, normally by calling Recover.
func (m *Manager) Diagnose(ctx context.Context, sessionID string, attempted *recovery.AttemptedTransition) ([]recovery.NavigationFailure, error) {
	rec, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	failures := m.detector.Detect(rec.State, rec.Focus.ID, attempted)
	for _, f := range failures {
		if err := m.store.StoreEvent(ctx, events.NewFailureDetectedEvent(rec.State, f.String())); err != nil {
			return nil, fmt.Errorf("record failure: %w", err)
		}
	}
	return failures, nil
}

// Recover applies the sanctioned recovery path for a detected failure. A
// path that requires confirmation is returned without being applied until
// the caller confirms.
func (m *Manager) Recover(ctx context.Context, sessionID string, failure recovery.NavigationFailure, confirmed bool) (RecoveryOutcome, error) {
	rec, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		return RecoveryOutcome{}, err
	}

	path, reason := m.recoveries.ValidateRecoveryPossible(failure, rec.State, rec.Focus.ID)
	if path == nil {
		return RecoveryOutcome{Outcome: Outcome{OK: false, Reason: reason, State: rec.State}}, nil
	}
	if path.RequiresConfirmation && !confirmed {
		return RecoveryOutcome{
			Outcome: Outcome{OK: false, Reason: "recovery requires confirmation", State: rec.State},
			Path:    path,
		}, nil
	}

	next := m.recoveries.BuildTargetState(*path, rec.State, rec.Focus.ID)
	focus := rec.Focus
	if next.FocusID != rec.State.FocusID {
		focus = storage.FocusRef{ID: next.FocusID}
		if next.HasFocus() {
			focus.Kind = rec.Focus.Kind
		}
	}
	if err := m.store.SaveCheckpoint(ctx, next, focus); err != nil {
		return RecoveryOutcome{}, fmt.Errorf("save checkpoint: %w", err)
	}
	if err := m.store.StoreEvent(ctx, events.NewRecoveryAppliedEvent(next, path.Message)); err != nil {
		return RecoveryOutcome{}, fmt.Errorf("record recovery: %w", err)
	}
	return RecoveryOutcome{Outcome: Outcome{OK: true, State: next}, Path: path}, nil
}

// Reveal checks progressive disclosure: may content of this kind be shown
// at the session's current stage?
func (m *Manager) Reveal(ctx context.Context, sessionID string, kind workflow.ContentKind) (Outcome, error) {
	rec, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		return Outcome{}, err
	}
	ok, reason := m.engine.EnforceProgressiveDisclosure(rec.State.Stage, kind)
	return Outcome{OK: ok, Reason: reason, State: rec.State}, nil
}

// Context rebuilds the presentation-layer NavigationContext for the
// session's current position.
func (m *Manager) Context(ctx context.Context, sessionID string) (*navigation.Context, error) {
	rec, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return navigation.New(rec.State, navigation.FocusKind(rec.Focus.Kind), rec.State.FocusID)
}

// Events returns the session's audit trail, newest first.
func (m *Manager) Events(ctx context.Context, sessionID string, limit int) ([]*events.NavigationEvent, error) {
	return m.store.GetEvents(ctx, events.EventFilter{SessionID: sessionID, Limit: limit})
}
