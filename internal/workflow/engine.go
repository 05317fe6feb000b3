package workflow

import "fmt"

// ContentKind is an abstract category of investigation content gated by
// progressive disclosure. The engine maps each kind to the minimum stage at
// which it may be revealed; it knows nothing about how content renders.
type ContentKind string

const (
	// ContentLayout is the codebase layout summary.
	ContentLayout ContentKind = "layout"
	// ContentObservation is a basic observation about a single piece of code.
	ContentObservation ContentKind = "observation"
	// ContentConnection is a recorded relationship between subjects.
	ContentConnection ContentKind = "connection"
	// ContentPatternReport is an aggregated report of recurring patterns.
	ContentPatternReport ContentKind = "pattern_report"
	// ContentNotes is the human's free-form conclusions.
	ContentNotes ContentKind = "notes"
)

// IsValid checks if the content kind value is valid
func (c ContentKind) IsValid() bool {
	switch c {
	case ContentLayout, ContentObservation, ContentConnection, ContentPatternReport, ContentNotes:
		return true
	}
	return false
}

// disclosureTable maps each content kind to the minimum stage required to
// reveal it. Fixed at startup; requesting content above the current stage
// is rejected.
var disclosureTable = map[ContentKind]Stage{
	ContentLayout:        StageOrientation,
	ContentObservation:   StageExamination,
	ContentConnection:    StageConnections,
	ContentPatternReport: StagePatterns,
	ContentNotes:         StageThinking,
}

// Engine validates requested transitions against the fixed stage order and
// gates content by stage. It holds only the shared rule tables, built once;
// it retains no session state and is safe to share across callers.
type Engine struct {
	allowed map[stagePair]bool
}

// NewEngine creates a workflow engine with the fixed transition allow-list.
func NewEngine() *Engine {
	return &Engine{allowed: allowedPairs}
}

// InitialState returns the starting position for a new session: Orientation,
// no view, no focus.
func (e *Engine) InitialState(sessionID string) WorkflowState {
	return WorkflowState{Stage: StageOrientation, SessionID: sessionID}
}

// ValidateTransition decides whether moving the given state to targetStage
// (and optionally targetView) is structurally legal. A same-stage view-only
// change is always legal; a single forward step is legal iff the pair is in
// the allow-list. Rejection is a normal return (nil transition plus a
// reason), never an error: a disallowed request is not an exceptional
// condition.
func (e *Engine) ValidateTransition(current WorkflowState, targetStage Stage, targetView View) (*Transition, string) {
	if err := current.Validate(); err != nil {
		return nil, fmt.Sprintf("current state is invalid: %v", err)
	}
	if !targetStage.IsValid() {
		return nil, fmt.Sprintf("unknown stage %q", targetStage)
	}
	if !targetView.IsValid() {
		return nil, fmt.Sprintf("unknown view %q", targetView)
	}

	from, to := current.Stage, targetStage
	if to == from {
		t, err := NewTransition(from, to, "stay at "+string(from))
		if err != nil {
			return nil, err.Error()
		}
		return &t, ""
	}

	if !e.allowed[stagePair{from, to}] {
		if to.Index() < from.Index() {
			return nil, fmt.Sprintf("cannot move backward from %s to %s; backward movement requires a registered shortcut", from, to)
		}
		return nil, fmt.Sprintf("cannot skip from %s to %s; the next stage is %s", from, to, nextStageName(from))
	}

	t, err := NewTransition(from, to, fmt.Sprintf("advance from %s to %s", from, to))
	if err != nil {
		return nil, err.Error()
	}
	return &t, ""
}

func nextStageName(s Stage) string {
	next, ok := s.Next()
	if !ok {
		return "none"
	}
	return string(next)
}

// AvailableTransitions enumerates the legal moves from the current state:
// always the self-transition, plus the single next stage when one exists.
func (e *Engine) AvailableTransitions(current WorkflowState) []Transition {
	stay, _ := NewTransition(current.Stage, current.Stage, "stay at "+string(current.Stage))
	out := []Transition{stay}
	if next, ok := current.Stage.Next(); ok {
		fwd, _ := NewTransition(current.Stage, next, fmt.Sprintf("advance from %s to %s", current.Stage, next))
		out = append(out, fwd)
	}
	return out
}

// EnforceProgressiveDisclosure decides whether content of the given kind may
// be revealed at the given stage. Content is revealed only once the
// investigation has reached the stage that produces it.
func (e *Engine) EnforceProgressiveDisclosure(current Stage, kind ContentKind) (bool, string) {
	if !current.IsValid() {
		return false, fmt.Sprintf("unknown stage %q", current)
	}
	min, ok := disclosureTable[kind]
	if !ok {
		return false, fmt.Sprintf("unknown content kind %q", kind)
	}
	if current.Index() < min.Index() {
		return false, fmt.Sprintf("%s content is not revealed until the %s stage (currently at %s)", kind, min, current)
	}
	return true, ""
}

// MinimumStageFor returns the stage at which content of the given kind
// becomes visible.
func (e *Engine) MinimumStageFor(kind ContentKind) (Stage, bool) {
	s, ok := disclosureTable[kind]
	return s, ok
}
