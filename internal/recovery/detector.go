package recovery

import (
	"fmt"

	"github.com/codefathom/fathom/internal/shortcut"
	"github.com/codefathom/fathom/internal/workflow"
)

// AttemptedTransition describes a move a caller tried to make, for the
// detector to classify.
type AttemptedTransition struct {
	Stage workflow.Stage
	View  workflow.View
}

// Detector classifies structural problems in navigation state into the
// closed failure taxonomy. It is a pure function over its inputs: no I/O,
// no speculation about causes, only classification of what is wrong.
type Detector struct {
	shortcuts *shortcut.Registry
}

// NewDetector creates a failure detector. The shortcut registry is
// consulted to tell a sanctioned backward move apart from an illegal one.
func NewDetector(shortcuts *shortcut.Registry) *Detector {
	return &Detector{shortcuts: shortcuts}
}

// Detect inspects the given state, the session's focus subject, and an
// optionally attempted transition, and returns every failure it finds.
// Checks run in a fixed order so the result is deterministic.
func (d *Detector) Detect(current workflow.WorkflowState, sessionFocus string, attempted *AttemptedTransition) []NavigationFailure {
	var failures []NavigationFailure

	if current.SessionID == "" {
		failures = append(failures, NavigationFailure{
			Kind:   FailureCorruptedState,
			Detail: "state has no session id",
		})
	}
	if !current.Stage.IsValid() {
		failures = append(failures, NavigationFailure{
			Kind:   FailureCorruptedState,
			Detail: fmt.Sprintf("unknown stage %q", current.Stage),
		})
	}
	if !current.View.IsValid() {
		failures = append(failures, NavigationFailure{
			Kind:   FailureCorruptedState,
			Detail: fmt.Sprintf("unknown view %q", current.View),
		})
	}

	stateFocusOK := true
	if err := workflow.ValidateFocusID(current.FocusID); err != nil {
		stateFocusOK = false
		failures = append(failures, NavigationFailure{
			Kind:   FailureIntegrityViolation,
			Detail: fmt.Sprintf("state focus: %v", err),
		})
	}
	if err := workflow.ValidateFocusID(sessionFocus); err != nil {
		failures = append(failures, NavigationFailure{
			Kind:   FailureIntegrityViolation,
			Detail: fmt.Sprintf("session focus: %v", err),
		})
	} else if stateFocusOK {
		switch {
		case current.HasFocus() && sessionFocus == "":
			failures = append(failures, NavigationFailure{
				Kind:   FailureDanglingFocus,
				Detail: fmt.Sprintf("state focuses %q but the session holds no subject", current.FocusID),
			})
		case current.HasFocus() && sessionFocus != current.FocusID:
			failures = append(failures, NavigationFailure{
				Kind:   FailureStaleSnapshot,
				Detail: fmt.Sprintf("state focuses %q but the session has moved on to %q", current.FocusID, sessionFocus),
			})
		}
	}

	if current.View == workflow.ViewDetail && !current.HasFocus() {
		failures = append(failures, NavigationFailure{
			Kind:   FailureResourceUnavailable,
			Detail: "detail view requires a focus subject",
		})
	}

	if attempted != nil {
		failures = append(failures, d.classifyAttempt(current, *attempted)...)
	}

	return failures
}

// classifyAttempt checks a requested transition for structural illegality.
// A backward move covered by a registered shortcut is not a failure; the
// caller simply has to use the shortcut.
func (d *Detector) classifyAttempt(current workflow.WorkflowState, attempted AttemptedTransition) []NavigationFailure {
	var failures []NavigationFailure

	if !attempted.Stage.IsValid() {
		return append(failures, NavigationFailure{
			Kind:   FailureIllegalTransition,
			Detail: fmt.Sprintf("attempted transition to unknown stage %q", attempted.Stage),
		})
	}
	if !attempted.View.IsValid() {
		failures = append(failures, NavigationFailure{
			Kind:   FailureIllegalTransition,
			Detail: fmt.Sprintf("attempted transition to unknown view %q", attempted.View),
		})
	}

	fromIdx, toIdx := current.Stage.Index(), attempted.Stage.Index()
	switch {
	case toIdx > fromIdx+1:
		failures = append(failures, NavigationFailure{
			Kind:   FailureIllegalTransition,
			Detail: fmt.Sprintf("attempted to skip from %s to %s", current.Stage, attempted.Stage),
		})
	case toIdx < fromIdx && !d.backwardSanctioned(current.Stage, attempted.Stage):
		failures = append(failures, NavigationFailure{
			Kind:   FailureIllegalTransition,
			Detail: fmt.Sprintf("attempted backward move from %s to %s with no registered shortcut", current.Stage, attempted.Stage),
		})
	}
	return failures
}

// backwardSanctioned reports whether any registered shortcut covers the
// given backward stage pair.
func (d *Detector) backwardSanctioned(from, to workflow.Stage) bool {
	if d.shortcuts == nil {
		return false
	}
	for _, sc := range d.shortcuts.All() {
		if sc.FromStage == from && sc.ToStage == to {
			return true
		}
	}
	return false
}
