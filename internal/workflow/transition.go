package workflow

import "fmt"

// Transition is a validated move between stages. A Transition can only be
// constructed for a pair the allow-list permits: staying at the same stage,
// or a single forward step in canonical order. Anything else fails at
// construction time, never later.
type Transition struct {
	From   Stage  `json:"from"`
	To     Stage  `json:"to"`
	Reason string `json:"reason"`
}

// allowedPairs is the fixed allow-list of legal (from, to) stage pairs:
// every self pair plus every adjacent forward pair. Built once at package
// init from the canonical stage order and read-only afterwards.
var allowedPairs = buildAllowedPairs()

type stagePair struct {
	from Stage
	to   Stage
}

func buildAllowedPairs() map[stagePair]bool {
	pairs := make(map[stagePair]bool)
	for i, s := range stageOrder {
		pairs[stagePair{s, s}] = true
		if i+1 < len(stageOrder) {
			pairs[stagePair{s, stageOrder[i+1]}] = true
		}
	}
	return pairs
}

// NewTransition constructs a validated Transition. It fails for invalid
// stages, backward moves, and forward moves of more than one step.
func NewTransition(from, to Stage, reason string) (Transition, error) {
	if !from.IsValid() {
		return Transition{}, fmt.Errorf("invalid from stage: %q", from)
	}
	if !to.IsValid() {
		return Transition{}, fmt.Errorf("invalid to stage: %q", to)
	}
	if !allowedPairs[stagePair{from, to}] {
		if to.Index() < from.Index() {
			return Transition{}, fmt.Errorf("backward transition %s → %s is not allowed (use a shortcut)", from, to)
		}
		return Transition{}, fmt.Errorf("transition %s → %s skips a stage", from, to)
	}
	return Transition{From: from, To: to, Reason: reason}, nil
}

// IsSelf reports whether the transition stays at the same stage.
func (t Transition) IsSelf() bool {
	return t.From == t.To
}

func (t Transition) String() string {
	if t.IsSelf() {
		return fmt.Sprintf("stay at %s", t.From)
	}
	return fmt.Sprintf("%s → %s", t.From, t.To)
}
