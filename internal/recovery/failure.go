package recovery

import "fmt"

// FailureKind is the closed set of detectable navigation failures. Each
// kind carries fixed metadata describing its consequences; the metadata
// table is built once and read-only.
type FailureKind string

const (
	// FailureDanglingFocus means the state references a focus subject the
	// session no longer holds.
	FailureDanglingFocus FailureKind = "dangling_focus"
	// FailureStaleSnapshot means the checkpointed position disagrees with
	// the live session and cannot be trusted to resume from.
	FailureStaleSnapshot FailureKind = "stale_snapshot"
	// FailureIllegalTransition means a move was requested that the workflow
	// does not permit and no shortcut sanctions.
	FailureIllegalTransition FailureKind = "illegal_transition"
	// FailureCorruptedState means the position itself is malformed: an
	// unknown stage or view, or a missing session id.
	FailureCorruptedState FailureKind = "corrupted_state"
	// FailureResourceUnavailable means the position requires something the
	// session cannot supply, such as a detail view with no subject.
	FailureResourceUnavailable FailureKind = "resource_unavailable"
	// FailureIntegrityViolation means a focus reference encodes more than
	// one subject, breaking the single-focus invariant.
	FailureIntegrityViolation FailureKind = "integrity_violation"
)

// AllFailureKinds returns every failure kind. Recovery registration is
// validated against this list, so adding a kind without a recovery path
// fails at startup.
func AllFailureKinds() []FailureKind {
	return []FailureKind{
		FailureDanglingFocus,
		FailureStaleSnapshot,
		FailureIllegalTransition,
		FailureCorruptedState,
		FailureResourceUnavailable,
		FailureIntegrityViolation,
	}
}

// IsValid checks if the failure kind value is valid
func (k FailureKind) IsValid() bool {
	switch k {
	case FailureDanglingFocus, FailureStaleSnapshot, FailureIllegalTransition,
		FailureCorruptedState, FailureResourceUnavailable, FailureIntegrityViolation:
		return true
	}
	return false
}

// FailureMeta is the fixed metadata attached to a failure kind.
type FailureMeta struct {
	// RequiresImmediateRecovery marks failures the session must not
	// continue past without recovering.
	RequiresImmediateRecovery bool
	// AllowsContinuation marks failures the session may keep working
	// around while deciding how to recover.
	AllowsContinuation bool
	// LostInformation describes what the failure costs the investigator.
	LostInformation string
}

var failureMeta = map[FailureKind]FailureMeta{
	FailureDanglingFocus: {
		RequiresImmediateRecovery: false,
		AllowsContinuation:        true,
		LostInformation:           "the subject previously in focus",
	},
	FailureStaleSnapshot: {
		RequiresImmediateRecovery: true,
		AllowsContinuation:        false,
		LostInformation:           "work recorded since the checkpoint was taken",
	},
	FailureIllegalTransition: {
		RequiresImmediateRecovery: false,
		AllowsContinuation:        true,
		LostInformation:           "nothing; the request was refused before it changed anything",
	},
	FailureCorruptedState: {
		RequiresImmediateRecovery: true,
		AllowsContinuation:        false,
		LostInformation:           "the current position; its stage and view cannot be trusted",
	},
	FailureResourceUnavailable: {
		RequiresImmediateRecovery: false,
		AllowsContinuation:        true,
		LostInformation:           "the presentation that needed the missing resource",
	},
	FailureIntegrityViolation: {
		RequiresImmediateRecovery: true,
		AllowsContinuation:        false,
		LostInformation:           "the focus reference; it named more than one subject",
	},
}

// Metadata returns the fixed metadata for the failure kind.
func (k FailureKind) Metadata() FailureMeta {
	return failureMeta[k]
}

// NavigationFailure is a detected inconsistency in a caller's navigation
// state. It is a value, not an error: the detector reports zero or more of
// these and leaves the decision of what to do to the caller.
type NavigationFailure struct {
	Kind   FailureKind `json:"kind"`
	Detail string      `json:"detail"`
}

func (f NavigationFailure) String() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Detail)
}
