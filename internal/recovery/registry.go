package recovery

import (
	"fmt"

	"github.com/codefathom/fathom/internal/workflow"
)

// Registry maps every failure kind to its sanctioned recovery paths. It is
// populated once at construction and validated eagerly: a failure kind with
// no registered path is a startup error, not a surprise at the point of
// use. After construction the registry is read-only and safe to share.
type Registry struct {
	paths map[FailureKind][]RecoveryPath
}

// defaultPaths is the fixed recovery catalog.
func defaultPaths() []RecoveryPath {
	return []RecoveryPath{
		{
			FailureKind:      FailureDanglingFocus,
			TargetStage:      workflow.StageExamination,
			TargetView:       workflow.ViewList,
			Justification:    "A focus pointing at a vanished subject should not silently repoint; returning to the examination list lets the investigator pick a subject that still exists.",
			LostCapabilities: []string{"detail view of the lost subject"},
			Message:          "The subject you were focused on no longer exists. Returning to the examination list so you can pick another.",
			IsSafe:           true,
		},
		{
			FailureKind:          FailureStaleSnapshot,
			TargetStage:          workflow.StageOrientation,
			Justification:        "A checkpoint that disagrees with the live session cannot be trusted to resume mid-stream; restarting from orientation re-establishes ground truth before any further claims are recorded.",
			LostCapabilities:     []string{"resumed position mid-investigation", "the stale focus subject"},
			Message:              "Your saved position no longer matches the live session. Restart from orientation? Anything not checkpointed will need to be re-established.",
			IsSafe:               false,
			RequiresConfirmation: true,
		},
		{
			FailureKind:      FailureStaleSnapshot,
			TargetStage:      workflow.StageOrientation,
			TargetView:       workflow.ViewOverview,
			Severity:         SeverityCritical,
			Justification:    "Deliberate graceful degradation: when the caller has already judged the snapshot unusable, restarting at the orientation overview without asking avoids presenting untrustworthy position data even once.",
			LostCapabilities: []string{"resumed position mid-investigation", "the stale focus subject", "confirmation prompt"},
			Message:          "Your saved position was unusable and has been discarded. Starting over at the orientation overview.",
			IsSafe:           true,
		},
		{
			FailureKind:      FailureIllegalTransition,
			Justification:    "A refused move changed nothing, so the least surprising recovery is to stand still and let the investigator pick a legal move from where they already are.",
			LostCapabilities: []string{"the requested destination"},
			Message:          "That move is not part of the investigation workflow. You remain where you were; use an available transition or shortcut instead.",
			IsSafe:           true,
		},
		{
			FailureKind:          FailureCorruptedState,
			TargetStage:          workflow.StageOrientation,
			Justification:        "A position with an unknown stage or view supports no inference about where the investigation really was; orientation is the only destination that assumes nothing.",
			LostCapabilities:     []string{"current position", "current focus", "current view"},
			Message:              "Your investigation position was corrupted and cannot be restored. Restart from orientation? The previous position is lost.",
			IsSafe:               false,
			RequiresConfirmation: true,
		},
		{
			FailureKind:      FailureResourceUnavailable,
			TargetView:       workflow.ViewOverview,
			Justification:    "When the detail presentation is missing its subject, the overview of the same stage shows everything that can honestly be shown without inventing a focus.",
			LostCapabilities: []string{"detail presentation"},
			Message:          "The detail view needs a subject in focus and none is available. Showing the stage overview instead.",
			IsSafe:           true,
		},
		{
			FailureKind:          FailureIntegrityViolation,
			TargetStage:          workflow.StageOrientation,
			Justification:        "Deliberate graceful degradation: a multi-subject focus reference is discarded rather than split, because guessing which subject was intended could attach observations to the wrong one; restarting at orientation is the honest fallback.",
			LostCapabilities:     []string{"the malformed focus reference", "current position"},
			Message:              "The focus reference named more than one subject and was discarded. Restart from orientation with a clean slate?",
			IsSafe:               true,
			RequiresConfirmation: true,
		},
	}
}

// NewRegistry creates the registry from the fixed default catalog.
func NewRegistry() (*Registry, error) {
	return NewRegistryFromPaths(defaultPaths())
}

// NewRegistryFromPaths creates a registry from an explicit catalog. Every
// path is validated on registration, and every failure kind must end up
// with at least one path. Exists so tests can exercise alternate catalogs.
func NewRegistryFromPaths(paths []RecoveryPath) (*Registry, error) {
	r := &Registry{paths: make(map[FailureKind][]RecoveryPath)}
	for _, entry := range paths {
		p, err := NewPath(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid recovery catalog: %w", err)
		}
		r.paths[p.FailureKind] = append(r.paths[p.FailureKind], p)
	}
	for _, kind := range AllFailureKinds() {
		if len(r.paths[kind]) == 0 {
			return nil, fmt.Errorf("invalid recovery catalog: no recovery path registered for %s", kind)
		}
	}
	return r, nil
}

// PathsFor returns the registered paths for a failure kind, in registration
// order.
func (r *Registry) PathsFor(kind FailureKind) []RecoveryPath {
	out := make([]RecoveryPath, len(r.paths[kind]))
	copy(out, r.paths[kind])
	return out
}

// RecoveryFor selects the recovery path for a failure. With multiple
// candidates the selection prefers, in order: a severity-tagged match, a
// path whose target view matches the current view, and finally the first
// registered path. A severity-tagged path is reachable only through its
// explicit hint; the view and fallback steps consider untagged paths only,
// so a confirmation-gated default cannot be shadowed by a tagged variant.
// Selection is total and deterministic.
func (r *Registry) RecoveryFor(failure NavigationFailure, current *workflow.WorkflowState, severityHint Severity) RecoveryPath {
	candidates := r.paths[failure.Kind]
	if severityHint != SeverityNone {
		for _, p := range candidates {
			if p.Severity == severityHint {
				return p
			}
		}
	}
	if current != nil && current.View != workflow.ViewNone {
		for _, p := range candidates {
			if p.Severity == SeverityNone && p.TargetView == current.View {
				return p
			}
		}
	}
	for _, p := range candidates {
		if p.Severity == SeverityNone {
			return p
		}
	}
	return candidates[0]
}

// BuildTargetState derives the post-recovery state. Recovery into
// Orientation clears the focus: fresh-start semantics. A path holding
// position keeps the current stage, and its view unless the path overrides
// it.
func (r *Registry) BuildTargetState(path RecoveryPath, current workflow.WorkflowState, sessionFocus string) workflow.WorkflowState {
	next := current
	if !path.HoldsPosition() {
		next = next.WithStage(path.TargetStage).WithView(path.TargetView)
	} else if path.TargetView != workflow.ViewNone {
		next = next.WithView(path.TargetView)
	}

	switch {
	case next.Stage == workflow.StageOrientation:
		next = next.WithoutFocus()
	case path.RequiredFocus == RequiresSessionFocus:
		next = next.WithFocus(sessionFocus)
	case workflow.ValidateFocusID(next.FocusID) != nil:
		next = next.WithoutFocus()
	}
	return next
}

// ValidateRecoveryPossible checks that the selected path can actually be
// applied from the current position. Impossibility is a normal refusal,
// returned as (nil, reason), not an error.
func (r *Registry) ValidateRecoveryPossible(failure NavigationFailure, current workflow.WorkflowState, sessionFocus string) (*RecoveryPath, string) {
	if !failure.Kind.IsValid() {
		return nil, fmt.Sprintf("unknown failure kind %q", failure.Kind)
	}
	path := r.RecoveryFor(failure, &current, SeverityNone)
	if path.RequiredFocus == RequiresSessionFocus && sessionFocus == "" {
		return nil, fmt.Sprintf("recovery from %s needs a session focus subject and none is available", failure.Kind)
	}
	target := r.BuildTargetState(path, current, sessionFocus)
	if err := target.Validate(); err != nil {
		return nil, fmt.Sprintf("recovery from %s would produce an invalid state: %v", failure.Kind, err)
	}
	return &path, ""
}
