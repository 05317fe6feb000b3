package shortcut

import (
	"fmt"
	"time"

	"github.com/codefathom/fathom/internal/workflow"
)

// Registry holds the fixed shortcut catalog. It is populated exactly once
// at construction, validated eagerly, and read-only afterwards, so a single
// registry is safe to share across concurrent callers. Per-session use
// history is owned by the caller and passed into every query.
type Registry struct {
	byKind map[Kind]Shortcut
	order  []Kind
	now    func() time.Time
}

// defaultCatalog is the fixed set of sanctioned shortcuts. Shortcuts exist
// so a confused investigation has an escape hatch without arbitrary
// navigation power: none of them advances the stage index, and the bounded
// ones carry use limits and cooldowns.
func defaultCatalog() []Shortcut {
	return []Shortcut{
		{
			Kind:              KindToggleDetail,
			FromStage:         workflow.StageExamination,
			ToStage:           workflow.StageExamination,
			Justification:     "Changing magnification on the subject already in focus reveals nothing new about the investigation; it re-presents established content.",
			RequiresSameFocus: true,
			AllowedViews:      []workflow.View{workflow.ViewOverview, workflow.ViewDetail},
			ViewRule:          ViewToggleOverviewDetail,
			FocusRule:         FocusKeep,
		},
		{
			Kind:              KindParentFocus,
			FromStage:         workflow.StageExamination,
			ToStage:           workflow.StageExamination,
			Justification:     "Widening focus to the enclosing subject stays within material the examination stage has already revealed.",
			RequiresSameFocus: true,
			RequiresSameView:  true,
			ViewRule:          ViewKeep,
			FocusRule:         FocusParent,
		},
		{
			Kind:          KindRevisitExamination,
			FromStage:     workflow.StageConnections,
			ToStage:       workflow.StageExamination,
			Justification: "A relationship that cannot be explained usually means its endpoint was misread; re-reading the code is cheaper than recording a wrong connection.",
			MaxUses:       2,
			ViewRule:      ViewSet,
			TargetView:    workflow.ViewOverview,
			FocusRule:     FocusKeep,
		},
		{
			Kind:          KindRevisitConnections,
			FromStage:     workflow.StagePatterns,
			ToStage:       workflow.StageConnections,
			Justification: "A candidate pattern built on an unverified relationship should send the investigator back to the evidence once, not let the pattern stand unchecked.",
			MaxUses:       1,
			Cooldown:      2 * time.Minute,
			ViewRule:      ViewSet,
			TargetView:    workflow.ViewOverview,
			FocusRule:     FocusKeep,
		},
		{
			Kind:          KindFreshEyes,
			FromStage:     workflow.StageThinking,
			ToStage:       workflow.StageOrientation,
			Justification: "When the recorded conclusions contradict each other, one deliberate restart from orientation is sanctioned rather than endless wandering between stages.",
			MaxUses:       1,
			Cooldown:      5 * time.Minute,
			ViewRule:      ViewClear,
			FocusRule:     FocusClear,
		},
	}
}

// NewRegistry creates the registry from the fixed default catalog.
func NewRegistry() (*Registry, error) {
	return NewRegistryFromCatalog(defaultCatalog())
}

// NewRegistryFromCatalog creates a registry from an explicit catalog. Every
// entry is validated on registration; duplicate kinds abort construction.
// Exists so tests can exercise alternate catalogs.
func NewRegistryFromCatalog(entries []Shortcut) (*Registry, error) {
	r := &Registry{
		byKind: make(map[Kind]Shortcut, len(entries)),
		now:    time.Now,
	}
	for _, entry := range entries {
		sc, err := New(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid shortcut catalog: %w", err)
		}
		if _, exists := r.byKind[sc.Kind]; exists {
			return nil, fmt.Errorf("invalid shortcut catalog: duplicate kind %q", sc.Kind)
		}
		r.byKind[sc.Kind] = sc
		r.order = append(r.order, sc.Kind)
	}
	return r, nil
}

// SetClock overrides the registry's clock (for testing cooldowns).
func (r *Registry) SetClock(now func() time.Time) {
	r.now = now
}

// All returns every registered shortcut in registration order.
func (r *Registry) All() []Shortcut {
	out := make([]Shortcut, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.byKind[k])
	}
	return out
}

// Get returns the registered shortcut of the given kind.
func (r *Registry) Get(kind Kind) (Shortcut, bool) {
	sc, ok := r.byKind[kind]
	return sc, ok
}

// Available filters the catalog down to the shortcuts usable from the
// current position: stage match, view compatibility, focus compatibility,
// remaining uses, and elapsed cooldown. Results are in registration order.
func (r *Registry) Available(current workflow.WorkflowState, sessionFocus string, history []UseRecord) []Shortcut {
	var out []Shortcut
	for _, k := range r.order {
		sc := r.byKind[k]
		if reason := r.unavailableReason(sc, current, sessionFocus, history); reason == "" {
			out = append(out, sc)
		}
	}
	return out
}

// ValidateUse checks a request for a specific shortcut kind against the
// current position. An unavailable shortcut is a normal refusal, returned
// as (nil, reason), not an error.
func (r *Registry) ValidateUse(kind Kind, current workflow.WorkflowState, sessionFocus string, history []UseRecord) (*Shortcut, string) {
	sc, ok := r.byKind[kind]
	if !ok {
		return nil, fmt.Sprintf("no shortcut named %q is registered", kind)
	}
	if reason := r.unavailableReason(sc, current, sessionFocus, history); reason != "" {
		return nil, reason
	}
	return &sc, ""
}

// unavailableReason returns "" when the shortcut is usable from the current
// position, or a human-readable refusal otherwise.
func (r *Registry) unavailableReason(sc Shortcut, current workflow.WorkflowState, sessionFocus string, history []UseRecord) string {
	if current.Stage != sc.FromStage {
		return fmt.Sprintf("shortcut %s applies at the %s stage, not %s", sc.Kind, sc.FromStage, current.Stage)
	}
	if len(sc.AllowedViews) > 0 {
		allowed := false
		for _, v := range sc.AllowedViews {
			if current.View == v {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Sprintf("shortcut %s is not available from the %q view", sc.Kind, current.View)
		}
	}
	if sc.RequiresSameView && current.View == workflow.ViewNone {
		return fmt.Sprintf("shortcut %s requires a view to be selected", sc.Kind)
	}
	if sc.RequiresSameFocus {
		if !current.HasFocus() {
			return fmt.Sprintf("shortcut %s requires a focus subject", sc.Kind)
		}
		if sessionFocus != current.FocusID {
			return fmt.Sprintf("shortcut %s requires the session focus to match the current focus", sc.Kind)
		}
	}
	uses, lastUse := tally(sc.Kind, history)
	if sc.MaxUses > 0 && uses >= sc.MaxUses {
		return fmt.Sprintf("shortcut %s has reached its use limit (%d)", sc.Kind, sc.MaxUses)
	}
	if sc.Cooldown > 0 && uses > 0 {
		elapsed := r.now().Sub(lastUse)
		if elapsed < sc.Cooldown {
			return fmt.Sprintf("shortcut %s is cooling down (%s remaining)", sc.Kind, (sc.Cooldown - elapsed).Round(time.Second))
		}
	}
	return ""
}

// tally counts prior uses of a kind and finds the most recent one. Linear
// scan; the catalog and per-session histories are both single-digit sized.
func tally(kind Kind, history []UseRecord) (int, time.Time) {
	var count int
	var last time.Time
	for _, u := range history {
		if u.Kind != kind {
			continue
		}
		count++
		if u.UsedAt.After(last) {
			last = u.UsedAt
		}
	}
	return count, last
}

// Apply computes the state a shortcut deterministically produces from the
// current position. Availability must already have been checked; Apply
// itself never consults history.
func (r *Registry) Apply(sc Shortcut, current workflow.WorkflowState) workflow.WorkflowState {
	next := current.WithStage(sc.ToStage)

	switch sc.ViewRule {
	case ViewKeep:
		// view unchanged
	case ViewClear:
		next = next.WithView(workflow.ViewNone)
	case ViewSet:
		next = next.WithView(sc.TargetView)
	case ViewToggleOverviewDetail:
		if current.View == workflow.ViewDetail {
			next = next.WithView(workflow.ViewOverview)
		} else {
			next = next.WithView(workflow.ViewDetail)
		}
	}

	switch sc.FocusRule {
	case FocusKeep:
		// focus unchanged
	case FocusClear:
		next = next.WithoutFocus()
	case FocusParent:
		next = next.WithFocus(ParentFocus(current.FocusID))
	}

	return next
}
