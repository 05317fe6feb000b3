package recovery

import (
	"fmt"
	"strings"

	"github.com/codefathom/fathom/internal/workflow"
)

// Severity optionally tags a recovery path so callers can steer selection
// when more than one path is registered for a failure kind.
type Severity string

const (
	// SeverityNone is the untagged default.
	SeverityNone Severity = ""
	// SeverityCritical tags the path for callers that consider the failure
	// unrecoverable in place.
	SeverityCritical Severity = "critical"
	// SeverityWarning tags the path for callers treating the failure as a
	// nuisance rather than a stop.
	SeverityWarning Severity = "warning"
)

// IsValid checks if the severity value is valid
func (s Severity) IsValid() bool {
	switch s {
	case SeverityNone, SeverityCritical, SeverityWarning:
		return true
	}
	return false
}

// RequiresSessionFocus is the marker value for RecoveryPath.RequiredFocus:
// the recovery can only proceed when the session holds a focus subject, and
// the rebuilt state adopts that subject.
const RequiresSessionFocus = "session"

// RecoveryPath is the sanctioned destination for a failure kind, together
// with the disclosure a human is owed: what the recovery costs and why it
// is the right move. Paths are immutable once registered.
//
// An empty TargetStage means the recovery holds the current stage rather
// than relocating the session.
type RecoveryPath struct {
	FailureKind          FailureKind    `json:"failure_kind"`
	TargetStage          workflow.Stage `json:"target_stage,omitempty"`
	TargetView           workflow.View  `json:"target_view,omitempty"`
	RequiredFocus        string         `json:"required_focus,omitempty"`
	Justification        string         `json:"justification"`
	LostCapabilities     []string       `json:"lost_capabilities"`
	Message              string         `json:"message"`
	IsSafe               bool           `json:"is_safe"`
	RequiresConfirmation bool           `json:"requires_confirmation"`
	Severity             Severity       `json:"severity,omitempty"`
}

// NewPath constructs a validated RecoveryPath. Malformed paths are hard
// construction errors that abort registry initialization.
func NewPath(p RecoveryPath) (RecoveryPath, error) {
	if !p.FailureKind.IsValid() {
		return RecoveryPath{}, fmt.Errorf("recovery path: invalid failure kind %q", p.FailureKind)
	}
	if p.TargetStage != "" && !p.TargetStage.IsValid() {
		return RecoveryPath{}, fmt.Errorf("recovery path for %s: invalid target stage %q", p.FailureKind, p.TargetStage)
	}
	if !p.TargetView.IsValid() {
		return RecoveryPath{}, fmt.Errorf("recovery path for %s: invalid target view %q", p.FailureKind, p.TargetView)
	}
	if !p.Severity.IsValid() {
		return RecoveryPath{}, fmt.Errorf("recovery path for %s: invalid severity %q", p.FailureKind, p.Severity)
	}
	if p.RequiredFocus != "" && p.RequiredFocus != RequiresSessionFocus {
		return RecoveryPath{}, fmt.Errorf("recovery path for %s: required_focus must be empty or %q", p.FailureKind, RequiresSessionFocus)
	}
	if strings.TrimSpace(p.Message) == "" {
		return RecoveryPath{}, fmt.Errorf("recovery path for %s: message is required", p.FailureKind)
	}
	just := strings.TrimSpace(p.Justification)
	if just == "" {
		return RecoveryPath{}, fmt.Errorf("recovery path for %s: justification is required", p.FailureKind)
	}
	if restatesFailureName(just, p.FailureKind) {
		return RecoveryPath{}, fmt.Errorf("recovery path for %s: justification merely restates the failure name", p.FailureKind)
	}
	// A path that claims safety for a failure the session must not continue
	// past has to spell out that the safety is deliberate degradation, not
	// an omission.
	if p.IsSafe && p.FailureKind.Metadata().RequiresImmediateRecovery && !mentionsDegradation(just) {
		return RecoveryPath{}, fmt.Errorf("recovery path for %s: a safe path for an immediate-recovery failure must justify its graceful degradation", p.FailureKind)
	}
	return p, nil
}

// restatesFailureName reports whether the justification is nothing more
// than the failure name in prose form.
func restatesFailureName(justification string, kind FailureKind) bool {
	norm := func(s string) string {
		s = strings.ToLower(s)
		s = strings.ReplaceAll(s, "_", " ")
		return strings.Join(strings.Fields(s), " ")
	}
	return norm(justification) == norm(string(kind))
}

// mentionsDegradation checks for the deliberate-degradation language the
// registry requires of safe paths covering immediate-recovery failures.
func mentionsDegradation(justification string) bool {
	lower := strings.ToLower(justification)
	return strings.Contains(lower, "degrad") || strings.Contains(lower, "graceful")
}

// HoldsPosition reports whether the path keeps the session at its current
// stage instead of relocating it.
func (p RecoveryPath) HoldsPosition() bool {
	return p.TargetStage == ""
}
