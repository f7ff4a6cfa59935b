package core

import (
	"fmt"

	"github.com/kestrelmc/dfsmc/internal/primitives"
)

// Report summarizes a finished (or failed) exploration run, matching §6's
// reporting surface.
type Report struct {
	UniqueStates    int64
	BacktrackCount  int64
	ReplayCount     int64
	TotalVisited    int64
}

// RecordTraceEntry is one stack entry's serializable replay record: the
// actor id and which variant of its simcalls was taken.
type RecordTraceEntry struct {
	AID             primitives.ActorID
	TimesConsidered int
}

// RecordTrace is the stack's transitions, bottom to top, serialized as
// (aid, variant) pairs — enough to replay the run from a fresh app.
type RecordTrace []RecordTraceEntry

// TextualTrace is the stack's transitions, bottom to top, rendered as
// "<aid>: <transition-text>" lines.
type TextualTrace []string

func recordTraceOf(stack []*State) RecordTrace {
	trace := make(RecordTrace, 0, len(stack))
	for _, s := range stack {
		t := s.Transition()
		if t == nil {
			continue
		}
		trace = append(trace, RecordTraceEntry{AID: t.AID, TimesConsidered: t.TimesConsidered})
	}
	return trace
}

func textualTraceOf(stack []*State) TextualTrace {
	trace := make(TextualTrace, 0, len(stack))
	for _, s := range stack {
		t := s.Transition()
		if t == nil {
			continue
		}
		trace = append(trace, fmt.Sprintf("%d: %s", t.AID, t))
	}
	return trace
}
