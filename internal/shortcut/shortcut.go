package shortcut

import (
	"fmt"
	"strings"
	"time"

	"github.com/codefathom/fathom/internal/workflow"
)

// Kind identifies a registered shortcut. Kinds are unique across the
// catalog; a caller requests a shortcut by kind.
type Kind string

const (
	// KindToggleDetail flips between the overview and detail views of the
	// subject currently in focus, without changing stage.
	KindToggleDetail Kind = "toggle_detail"
	// KindParentFocus moves focus to the parent of the current subject,
	// staying at the same stage and view.
	KindParentFocus Kind = "parent_focus"
	// KindRevisitExamination steps back from Connections to Examination to
	// re-read a piece of code whose relationships proved confusing.
	KindRevisitExamination Kind = "revisit_examination"
	// KindRevisitConnections steps back from Patterns to Connections when a
	// candidate pattern needs its supporting relationships rechecked.
	KindRevisitConnections Kind = "revisit_connections"
	// KindFreshEyes abandons the current pass entirely and restarts at
	// Orientation with focus cleared.
	KindFreshEyes Kind = "fresh_eyes"
)

// FocusRule declares how applying a shortcut derives the new focus. The
// rule is fixed per shortcut; focus is never guessed.
type FocusRule string

const (
	// FocusKeep preserves the current focus subject.
	FocusKeep FocusRule = "keep"
	// FocusClear drops the focus subject.
	FocusClear FocusRule = "clear"
	// FocusParent replaces the focus with its parent: the id up to the last
	// path separator, or no focus when the id has no separator.
	FocusParent FocusRule = "parent"
)

// IsValid checks if the focus rule value is valid
func (r FocusRule) IsValid() bool {
	switch r {
	case FocusKeep, FocusClear, FocusParent:
		return true
	}
	return false
}

// ViewRule declares how applying a shortcut derives the new view.
type ViewRule string

const (
	// ViewKeep preserves the current view.
	ViewKeep ViewRule = "keep"
	// ViewClear drops the view selection.
	ViewClear ViewRule = "clear"
	// ViewSet switches to the shortcut's TargetView.
	ViewSet ViewRule = "set"
	// ViewToggleOverviewDetail flips overview ↔ detail.
	ViewToggleOverviewDetail ViewRule = "toggle_overview_detail"
)

// IsValid checks if the view rule value is valid
func (r ViewRule) IsValid() bool {
	switch r {
	case ViewKeep, ViewClear, ViewSet, ViewToggleOverviewDetail:
		return true
	}
	return false
}

// Shortcut is a pre-registered, bounded exception to the forward-only
// workflow: a backward or same-stage move available under strict limits.
// Shortcuts are immutable once registered; a shortcut can never advance the
// canonical stage index.
type Shortcut struct {
	Kind              Kind            `json:"kind"`
	FromStage         workflow.Stage  `json:"from_stage"`
	ToStage           workflow.Stage  `json:"to_stage"`
	Justification     string          `json:"justification"`
	RequiresSameFocus bool            `json:"requires_same_focus"`
	RequiresSameView  bool            `json:"requires_same_view"`
	AllowedViews      []workflow.View `json:"allowed_views,omitempty"`
	MaxUses           int             `json:"max_uses,omitempty"` // 0 = unlimited
	Cooldown          time.Duration   `json:"cooldown,omitempty"` // 0 = none
	ViewRule          ViewRule        `json:"view_rule"`
	TargetView        workflow.View   `json:"target_view,omitempty"`
	FocusRule         FocusRule       `json:"focus_rule"`
}

// New constructs a validated Shortcut. Forward movement, an empty
// justification, and malformed rules are hard construction errors: they
// indicate a programming error in the catalog, not a runtime condition.
func New(sc Shortcut) (Shortcut, error) {
	if sc.Kind == "" {
		return Shortcut{}, fmt.Errorf("shortcut kind is required")
	}
	if !sc.FromStage.IsValid() {
		return Shortcut{}, fmt.Errorf("shortcut %s: invalid from_stage %q", sc.Kind, sc.FromStage)
	}
	if !sc.ToStage.IsValid() {
		return Shortcut{}, fmt.Errorf("shortcut %s: invalid to_stage %q", sc.Kind, sc.ToStage)
	}
	if sc.ToStage.Index() > sc.FromStage.Index() {
		return Shortcut{}, fmt.Errorf("shortcut %s: %s → %s moves the stage index forward; shortcuts may only move backward or stay", sc.Kind, sc.FromStage, sc.ToStage)
	}
	if strings.TrimSpace(sc.Justification) == "" {
		return Shortcut{}, fmt.Errorf("shortcut %s: justification is required", sc.Kind)
	}
	if sc.MaxUses < 0 {
		return Shortcut{}, fmt.Errorf("shortcut %s: max_uses cannot be negative", sc.Kind)
	}
	if sc.Cooldown < 0 {
		return Shortcut{}, fmt.Errorf("shortcut %s: cooldown cannot be negative", sc.Kind)
	}
	if !sc.ViewRule.IsValid() {
		return Shortcut{}, fmt.Errorf("shortcut %s: invalid view rule %q", sc.Kind, sc.ViewRule)
	}
	if sc.ViewRule == ViewSet && sc.TargetView == workflow.ViewNone {
		return Shortcut{}, fmt.Errorf("shortcut %s: view rule %q requires a target view", sc.Kind, ViewSet)
	}
	if sc.ViewRule != ViewSet && sc.TargetView != workflow.ViewNone {
		return Shortcut{}, fmt.Errorf("shortcut %s: target view is only meaningful with view rule %q", sc.Kind, ViewSet)
	}
	if !sc.FocusRule.IsValid() {
		return Shortcut{}, fmt.Errorf("shortcut %s: invalid focus rule %q", sc.Kind, sc.FocusRule)
	}
	for _, v := range sc.AllowedViews {
		if v == workflow.ViewNone || !v.IsValid() {
			return Shortcut{}, fmt.Errorf("shortcut %s: invalid allowed view %q", sc.Kind, v)
		}
	}
	return sc, nil
}

// IsSameStage reports whether the shortcut stays at its from stage.
func (s Shortcut) IsSameStage() bool {
	return s.FromStage == s.ToStage
}

// UseRecord records one prior use of a shortcut within a session. The
// session layer owns the history and passes it into every availability
// query.
type UseRecord struct {
	Kind   Kind      `json:"kind"`
	UsedAt time.Time `json:"used_at"`
}

// ParentFocus derives the parent subject of a focus id: everything before
// the last '/' separator. An id without a separator has no parent and
// yields the empty (no focus) id.
func ParentFocus(focusID string) string {
	i := strings.LastIndex(focusID, "/")
	if i < 0 {
		return ""
	}
	return focusID[:i]
}
