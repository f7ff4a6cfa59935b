package primitives

import (
	"fmt"
	"sync/atomic"
)

// DependsFunc is the black-box oracle the engine uses to decide whether two
// transitions commute. It must be symmetric: a.Depends(b) == b.Depends(a).
type DependsFunc func(other *Transition) bool

// ReplayFunc asks the app-under-check to re-execute this exact transition
// from wherever it currently sits.
type ReplayFunc func() error

// Transition is an immutable record of one executed simcall. Constructed
// only by a RemoteApp implementation; the engine never builds one itself.
type Transition struct {
	AID             ActorID
	TimesConsidered int
	text            string
	dotLabel        string
	dependsFn       DependsFunc
	replayFn        ReplayFunc
}

// NewTransition constructs a Transition. Callers (RemoteApp implementations)
// supply the display text, dot label, dependency oracle and replay hook.
func NewTransition(aid ActorID, timesConsidered int, text, dotLabel string, dependsFn DependsFunc, replayFn ReplayFunc) *Transition {
	executedTransitions.Add(1)
	return &Transition{
		AID:             aid,
		TimesConsidered: timesConsidered,
		text:            text,
		dotLabel:        dotLabel,
		dependsFn:       dependsFn,
		replayFn:        replayFn,
	}
}

// String returns the transition's textual form, e.g. "send(msg=42)".
func (t *Transition) String() string {
	if t.text != "" {
		return t.text
	}
	return fmt.Sprintf("aid=%d#%d", t.AID, t.TimesConsidered)
}

// DotLabel returns the transition's Graphviz edge label.
func (t *Transition) DotLabel() string {
	if t.dotLabel != "" {
		return t.dotLabel
	}
	return t.String()
}

// Depends reports whether t and other do not commute. Symmetric by
// contract of the supplied DependsFunc.
func (t *Transition) Depends(other *Transition) bool {
	if t.dependsFn == nil || other == nil {
		return false
	}
	return t.dependsFn(other)
}

// Replay asks the app-under-check to re-execute this transition from its
// current position.
func (t *Transition) Replay() error {
	replayedTransitions.Add(1)
	if t.replayFn == nil {
		return fmt.Errorf("transition %s: no replay hook configured", t)
	}
	return t.replayFn()
}

var (
	executedTransitions atomic.Int64
	replayedTransitions atomic.Int64
)

// ExecutedTransitions returns the total number of transitions constructed
// (i.e. executed for the first time) across the process.
func ExecutedTransitions() int64 { return executedTransitions.Load() }

// ReplayedTransitions returns the total number of Transition.Replay calls
// across the process.
func ReplayedTransitions() int64 { return replayedTransitions.Load() }

// ResetCounters zeroes the package-level counters. Intended for tests that
// need a clean slate; production code should never call this mid-run.
func ResetCounters() {
	executedTransitions.Store(0)
	replayedTransitions.Store(0)
}
