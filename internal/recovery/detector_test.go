package recovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codefathom/fathom/internal/shortcut"
	"github.com/codefathom/fathom/internal/workflow"
)

func newDetector(t *testing.T) *Detector {
	t.Helper()
	reg, err := shortcut.NewRegistry()
	require.NoError(t, err)
	return NewDetector(reg)
}

func kinds(failures []NavigationFailure) []FailureKind {
	out := make([]FailureKind, len(failures))
	for i, f := range failures {
		out[i] = f.Kind
	}
	return out
}

func TestDetect_CleanStateHasNoFailures(t *testing.T) {
	d := newDetector(t)
	s := mustState(t, workflow.StageExamination, workflow.ViewOverview, "obs:42")

	assert.Empty(t, d.Detect(s, "obs:42", nil))
}

func TestDetect_CorruptedState(t *testing.T) {
	d := newDetector(t)

	noSession := workflow.WorkflowState{Stage: workflow.StageOrientation}
	assert.Contains(t, kinds(d.Detect(noSession, "", nil)), FailureCorruptedState)

	badStage := workflow.WorkflowState{Stage: workflow.Stage("bogus"), SessionID: "s1"}
	assert.Contains(t, kinds(d.Detect(badStage, "", nil)), FailureCorruptedState)

	badView := workflow.WorkflowState{Stage: workflow.StageOrientation, View: workflow.View("bogus"), SessionID: "s1"}
	assert.Contains(t, kinds(d.Detect(badView, "", nil)), FailureCorruptedState)
}

func TestDetect_IntegrityViolation(t *testing.T) {
	d := newDetector(t)

	multi := workflow.WorkflowState{Stage: workflow.StageExamination, FocusID: "a;b", SessionID: "s1"}
	assert.Contains(t, kinds(d.Detect(multi, "", nil)), FailureIntegrityViolation)

	clean := mustState(t, workflow.StageExamination, workflow.ViewNone, "a")
	assert.Contains(t, kinds(d.Detect(clean, "a|b", nil)), FailureIntegrityViolation)
}

func TestDetect_DanglingFocus(t *testing.T) {
	d := newDetector(t)

	s := mustState(t, workflow.StageExamination, workflow.ViewOverview, "obs:42")
	got := d.Detect(s, "", nil)
	require.Len(t, got, 1)
	assert.Equal(t, FailureDanglingFocus, got[0].Kind)
	assert.Contains(t, got[0].Detail, "obs:42")
}

func TestDetect_StaleSnapshot(t *testing.T) {
	d := newDetector(t)

	s := mustState(t, workflow.StageExamination, workflow.ViewOverview, "obs:42")
	got := d.Detect(s, "obs:7", nil)
	require.Len(t, got, 1)
	assert.Equal(t, FailureStaleSnapshot, got[0].Kind)
}

func TestDetect_ResourceUnavailable(t *testing.T) {
	d := newDetector(t)

	s := mustState(t, workflow.StageExamination, workflow.ViewDetail, "")
	got := d.Detect(s, "", nil)
	require.Len(t, got, 1)
	assert.Equal(t, FailureResourceUnavailable, got[0].Kind)
}

func TestDetect_AttemptedSkipAhead(t *testing.T) {
	d := newDetector(t)
	s := mustState(t, workflow.StageOrientation, workflow.ViewNone, "")

	got := d.Detect(s, "", &AttemptedTransition{Stage: workflow.StageConnections})
	require.Len(t, got, 1)
	assert.Equal(t, FailureIllegalTransition, got[0].Kind)
	assert.Contains(t, got[0].Detail, "skip")
}

func TestDetect_AttemptedBackwardMoves(t *testing.T) {
	d := newDetector(t)

	// Patterns → Connections is covered by a registered shortcut: the
	// attempt is not classified as a failure.
	atPatterns := mustState(t, workflow.StagePatterns, workflow.ViewNone, "")
	assert.Empty(t, d.Detect(atPatterns, "", &AttemptedTransition{Stage: workflow.StageConnections}))

	// Patterns → Orientation has no shortcut: illegal.
	got := d.Detect(atPatterns, "", &AttemptedTransition{Stage: workflow.StageOrientation})
	require.Len(t, got, 1)
	assert.Equal(t, FailureIllegalTransition, got[0].Kind)
	assert.Contains(t, got[0].Detail, "no registered shortcut")
}

func TestDetect_AttemptedForwardStepIsFine(t *testing.T) {
	d := newDetector(t)
	s := mustState(t, workflow.StageOrientation, workflow.ViewNone, "")

	assert.Empty(t, d.Detect(s, "", &AttemptedTransition{Stage: workflow.StageExamination}))
	assert.Empty(t, d.Detect(s, "", &AttemptedTransition{Stage: workflow.StageOrientation}))
}

func TestDetect_AttemptedUnknownTargets(t *testing.T) {
	d := newDetector(t)
	s := mustState(t, workflow.StageOrientation, workflow.ViewNone, "")

	got := d.Detect(s, "", &AttemptedTransition{Stage: workflow.Stage("bogus")})
	require.Len(t, got, 1)
	assert.Equal(t, FailureIllegalTransition, got[0].Kind)

	got = d.Detect(s, "", &AttemptedTransition{Stage: workflow.StageExamination, View: workflow.View("bogus")})
	require.Len(t, got, 1)
	assert.Equal(t, FailureIllegalTransition, got[0].Kind)
}

func TestDetect_MultipleFailuresDeterministicOrder(t *testing.T) {
	d := newDetector(t)

	// No session id, multi-subject focus, and a skip-ahead attempt.
	s := workflow.WorkflowState{Stage: workflow.StageOrientation, FocusID: "a;b"}
	got := d.Detect(s, "", &AttemptedTransition{Stage: workflow.StagePatterns})
	require.Len(t, got, 3)
	assert.Equal(t, FailureCorruptedState, got[0].Kind)
	assert.Equal(t, FailureIntegrityViolation, got[1].Kind)
	assert.Equal(t, FailureIllegalTransition, got[2].Kind)

	again := d.Detect(s, "", &AttemptedTransition{Stage: workflow.StagePatterns})
	assert.Equal(t, got, again)
}
