package recovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codefathom/fathom/internal/workflow"
)

func mustState(t *testing.T, stage workflow.Stage, view workflow.View, focus string) workflow.WorkflowState {
	t.Helper()
	s, err := workflow.NewWorkflowState(stage, view, focus, "session-1")
	require.NoError(t, err)
	return s
}

func TestNewRegistry_EveryFailureKindCovered(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	for _, kind := range AllFailureKinds() {
		paths := r.PathsFor(kind)
		require.NotEmpty(t, paths, "failure kind %s has no recovery path", kind)

		got := r.RecoveryFor(NavigationFailure{Kind: kind}, nil, SeverityNone)
		assert.NotEmpty(t, got.Message, "kind %s", kind)
		assert.NotEmpty(t, got.Justification, "kind %s", kind)
	}
}

func TestNewRegistryFromPaths_MissingKindFailsEagerly(t *testing.T) {
	// A catalog covering only one kind must fail at construction, not at
	// the point of use.
	_, err := NewRegistryFromPaths([]RecoveryPath{{
		FailureKind:      FailureDanglingFocus,
		TargetStage:      workflow.StageExamination,
		Justification:    "a real policy rationale",
		LostCapabilities: []string{"something"},
		Message:          "a real message",
		IsSafe:           true,
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no recovery path registered")
}

func TestNewPath_ValidationErrors(t *testing.T) {
	base := RecoveryPath{
		FailureKind:      FailureDanglingFocus,
		TargetStage:      workflow.StageExamination,
		Justification:    "a real policy rationale",
		LostCapabilities: []string{"something"},
		Message:          "a real message",
		IsSafe:           true,
	}

	tests := []struct {
		name   string
		mutate func(*RecoveryPath)
		errHas string
	}{
		{"bad kind", func(p *RecoveryPath) { p.FailureKind = FailureKind("bogus") }, "invalid failure kind"},
		{"bad stage", func(p *RecoveryPath) { p.TargetStage = workflow.Stage("bogus") }, "invalid target stage"},
		{"empty message", func(p *RecoveryPath) { p.Message = "  " }, "message is required"},
		{"empty justification", func(p *RecoveryPath) { p.Justification = "" }, "justification is required"},
		{"restated justification", func(p *RecoveryPath) { p.Justification = "Dangling Focus" }, "restates"},
		{"bad required focus", func(p *RecoveryPath) { p.RequiredFocus = "obs:42" }, "required_focus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			_, err := NewPath(p)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errHas)
		})
	}
}

func TestNewPath_SafeImmediateRequiresDegradationLanguage(t *testing.T) {
	p := RecoveryPath{
		FailureKind:      FailureCorruptedState, // requires immediate recovery
		TargetStage:      workflow.StageOrientation,
		Justification:    "going back to the start is fine",
		LostCapabilities: []string{"position"},
		Message:          "restarting",
		IsSafe:           true,
	}
	_, err := NewPath(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "graceful degradation")

	p.Justification = "Deliberate graceful degradation: discarding the corrupt position is safer than interpreting it."
	_, err = NewPath(p)
	assert.NoError(t, err)
}

func TestRecoveryFor_StaleSnapshotScenario(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	got := r.RecoveryFor(NavigationFailure{Kind: FailureStaleSnapshot}, nil, SeverityNone)
	assert.Equal(t, workflow.StageOrientation, got.TargetStage)
	assert.True(t, got.RequiresConfirmation)
	assert.NotEmpty(t, got.LostCapabilities)
}

func TestRecoveryFor_SeverityHintPreferred(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	got := r.RecoveryFor(NavigationFailure{Kind: FailureStaleSnapshot}, nil, SeverityCritical)
	assert.Equal(t, SeverityCritical, got.Severity)
	assert.False(t, got.RequiresConfirmation)
	assert.True(t, got.IsSafe)
}

func TestRecoveryFor_ViewMatchPreferred(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	// The resource-unavailable path targets the overview view; a caller
	// currently in the overview view gets it through the view match.
	current := mustState(t, workflow.StageExamination, workflow.ViewOverview, "obs:42")
	got := r.RecoveryFor(NavigationFailure{Kind: FailureResourceUnavailable}, &current, SeverityNone)
	assert.Equal(t, workflow.ViewOverview, got.TargetView)

	// Deterministic: same inputs, same selection.
	again := r.RecoveryFor(NavigationFailure{Kind: FailureResourceUnavailable}, &current, SeverityNone)
	assert.Equal(t, got, again)
}

func TestRecoveryFor_SeverityTaggedPathNeedsExplicitHint(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	// The critical stale-snapshot variant also targets the overview view.
	// Without a severity hint it must never be selected, even from a
	// position whose view matches: the confirmation-gated default wins.
	for _, stage := range []workflow.Stage{workflow.StageExamination, workflow.StagePatterns} {
		current := mustState(t, stage, workflow.ViewOverview, "")
		got := r.RecoveryFor(NavigationFailure{Kind: FailureStaleSnapshot}, &current, SeverityNone)
		assert.Equal(t, SeverityNone, got.Severity, "stage %s", stage)
		assert.True(t, got.RequiresConfirmation, "stage %s", stage)
		assert.False(t, got.IsSafe, "stage %s", stage)
	}
}

func TestBuildTargetState_OrientationClearsFocus(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	current := mustState(t, workflow.StagePatterns, workflow.ViewList, "pattern:factory")
	path := r.RecoveryFor(NavigationFailure{Kind: FailureCorruptedState}, nil, SeverityNone)

	target := r.BuildTargetState(path, current, "pattern:factory")
	assert.Equal(t, workflow.StageOrientation, target.Stage)
	assert.False(t, target.HasFocus(), "recovery into orientation is a fresh start")
	assert.Equal(t, current.SessionID, target.SessionID)
}

func TestBuildTargetState_HoldPositionKeepsStageAndFocus(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	current := mustState(t, workflow.StageConnections, workflow.ViewList, "conn:a-b")
	path := r.RecoveryFor(NavigationFailure{Kind: FailureIllegalTransition}, nil, SeverityNone)
	require.True(t, path.HoldsPosition())

	target := r.BuildTargetState(path, current, "conn:a-b")
	assert.Equal(t, current, target)
}

func TestBuildTargetState_ResourceUnavailableFallsBackToOverview(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	// Detail view with no subject: hold the stage, switch to overview.
	current := workflow.WorkflowState{
		Stage:     workflow.StageExamination,
		View:      workflow.ViewDetail,
		SessionID: "session-1",
	}
	path := r.RecoveryFor(NavigationFailure{Kind: FailureResourceUnavailable}, nil, SeverityNone)

	target := r.BuildTargetState(path, current, "")
	assert.Equal(t, workflow.StageExamination, target.Stage)
	assert.Equal(t, workflow.ViewOverview, target.View)
}

func TestValidateRecoveryPossible(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	current := mustState(t, workflow.StageExamination, workflow.ViewDetail, "obs:42")

	path, reason := r.ValidateRecoveryPossible(NavigationFailure{Kind: FailureDanglingFocus}, current, "")
	require.NotNil(t, path, "recovery should be possible: %s", reason)
	assert.Empty(t, reason)

	_, reason = r.ValidateRecoveryPossible(NavigationFailure{Kind: FailureKind("bogus")}, current, "")
	assert.Contains(t, reason, "unknown failure kind")
}

func TestFailureMetadata(t *testing.T) {
	for _, kind := range AllFailureKinds() {
		meta := kind.Metadata()
		assert.NotEmpty(t, meta.LostInformation, "kind %s", kind)
		// A failure that demands immediate recovery cannot also allow the
		// session to continue.
		if meta.RequiresImmediateRecovery {
			assert.False(t, meta.AllowsContinuation, "kind %s", kind)
		}
	}
}
