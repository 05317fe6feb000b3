package workflow

import "fmt"

// Stage represents one phase of a guided investigation. Stages form a fixed
// total order; a session moves through them one step at a time.
type Stage string

const (
	// StageOrientation is the entry stage: get the lay of the land.
	StageOrientation Stage = "orientation"
	// StageExamination looks closely at individual pieces of code.
	StageExamination Stage = "examination"
	// StageConnections relates the examined pieces to each other.
	StageConnections Stage = "connections"
	// StagePatterns surfaces recurring structures and conventions.
	StagePatterns Stage = "patterns"
	// StageThinking records conclusions and open questions.
	StageThinking Stage = "thinking"
)

// stageOrder is the canonical total order over all stages. Every table in
// this package that enumerates "all stages" derives from this slice.
var stageOrder = []Stage{
	StageOrientation,
	StageExamination,
	StageConnections,
	StagePatterns,
	StageThinking,
}

// stageQuestions maps each stage to the canonical question it answers.
// Metadata only; nothing branches on these strings.
var stageQuestions = map[Stage]string{
	StageOrientation: "What is this codebase and how is it laid out?",
	StageExamination: "What does this piece of code actually do?",
	StageConnections: "How do these pieces relate to each other?",
	StagePatterns:    "What recurring structures and conventions appear?",
	StageThinking:    "What do I now believe, and what is still unknown?",
}

// AllStages returns the stages in canonical order.
func AllStages() []Stage {
	out := make([]Stage, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// IsValid checks if the stage value is valid
func (s Stage) IsValid() bool {
	switch s {
	case StageOrientation, StageExamination, StageConnections, StagePatterns, StageThinking:
		return true
	}
	return false
}

// Index returns the stage's position in the canonical order, or -1 for an
// invalid stage.
func (s Stage) Index() int {
	for i, st := range stageOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// Next returns the stage that follows s in canonical order. The second
// return value is false when s is the last stage or invalid.
func (s Stage) Next() (Stage, bool) {
	i := s.Index()
	if i < 0 || i+1 >= len(stageOrder) {
		return "", false
	}
	return stageOrder[i+1], true
}

// Question returns the canonical question this stage answers.
func (s Stage) Question() string {
	return stageQuestions[s]
}

// ParseStage converts a stored string value back into a Stage. The string
// values are part of the checkpoint storage contract and must round-trip
// exactly.
func ParseStage(v string) (Stage, error) {
	s := Stage(v)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid stage: %q", v)
	}
	return s, nil
}

// View identifies how the current stage's content is presented. The core
// knows nothing about rendering; it only gates transitions and shortcuts on
// these identifiers. An empty View means no view has been selected.
type View string

const (
	// ViewNone indicates no view has been selected yet.
	ViewNone View = ""
	// ViewOverview is the broad summary presentation.
	ViewOverview View = "overview"
	// ViewDetail is the close-up presentation of a single focus subject.
	ViewDetail View = "detail"
	// ViewList is the enumeration presentation (observations, patterns).
	ViewList View = "list"
	// ViewNotes is the free-form notes presentation.
	ViewNotes View = "notes"
)

// IsValid checks if the view value is valid. ViewNone is valid: a freshly
// started session has no view.
func (v View) IsValid() bool {
	switch v {
	case ViewNone, ViewOverview, ViewDetail, ViewList, ViewNotes:
		return true
	}
	return false
}

// ParseView converts a stored string value back into a View.
func ParseView(v string) (View, error) {
	view := View(v)
	if !view.IsValid() {
		return "", fmt.Errorf("invalid view: %q", v)
	}
	return view, nil
}
