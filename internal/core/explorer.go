package core

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/kestrelmc/dfsmc/internal/primitives"
)

// DFSExplorer drives app through an iterative depth-first search of its
// actor interleavings, applying dynamic partial-order reduction when
// configured, and reports safety violations, deadlocks and non-progressive
// cycles as typed errors.
//
// An explorer owns exactly the states on its stack; backtracking releases
// each popped state's snapshot before discarding it.
type DFSExplorer struct {
	app RemoteApp

	reductionMode    ReductionMode
	maxDepth         int // -1 means unlimited
	maxVisitedStates int
	termination      bool
	snapshotsEnabled bool
	algorithm        Algorithm

	dotOutput io.Writer
	logger    Logger
	observers Observers

	stack   []*State
	visited *VisitedStates

	// visitedHit carries a successor's bucket hit from the loop iteration
	// that discovered it to the next iteration, which discards the
	// redundant state instead of exploring it.
	visitedHit *HitRecord

	backtrackCount int64
	totalVisited   int64
	summaryLogged  bool
}

// NewDFSExplorer constructs an explorer with an initial State queried from
// app and seeds its todo set: every enabled actor under ReductionNone, or
// just the lowest-aid enabled actor under ReductionDPOR.
func NewDFSExplorer(ctx context.Context, app RemoteApp, opts ...Option) (*DFSExplorer, error) {
	e := &DFSExplorer{
		app:       app,
		maxDepth:  -1,
		logger:    nopLogger{},
		algorithm: AlgorithmSafety,
	}
	for _, opt := range opts {
		opt(e)
	}
	// Non-termination checking forces ReductionNone regardless of the order
	// the options were supplied in.
	if e.termination {
		e.reductionMode = ReductionNone
	}
	if e.algorithm != AlgorithmSafety {
		return nil, fmt.Errorf("dfsmc: algorithm %s is not implemented", e.algorithm)
	}
	if e.maxVisitedStates > 0 {
		e.visited = NewVisitedStates(e.maxVisitedStates)
	}

	initial, err := NewState(ctx, app, e.needsSnapshot())
	if err != nil {
		return nil, err
	}
	e.observers.fireStateCreation(initial)
	e.seedTodo(initial)
	e.stack = []*State{initial}
	return e, nil
}

func (e *DFSExplorer) needsSnapshot() bool {
	return e.snapshotsEnabled || e.termination || e.maxVisitedStates > 0
}

func (e *DFSExplorer) seedTodo(s *State) {
	for _, aid := range s.ActorsAscending() {
		if s.IsActorEnabled(aid) {
			s.MarkTodo(aid)
			if e.reductionMode == ReductionDPOR {
				return
			}
		}
	}
}

// Report summarizes the exploration so far. Safe to call at any point,
// including after Run has returned an error.
func (e *DFSExplorer) Report() Report {
	return Report{
		UniqueStates:   ExpandedStates(),
		BacktrackCount: e.backtrackCount,
		ReplayCount:    primitives.ReplayedTransitions(),
		TotalVisited:   e.totalVisited,
	}
}

// TextualTrace renders the current stack's transitions bottom to top.
func (e *DFSExplorer) TextualTrace() TextualTrace { return textualTraceOf(e.stack) }

// RecordTrace serializes the current stack's transitions bottom to top.
func (e *DFSExplorer) RecordTrace() RecordTrace { return recordTraceOf(e.stack) }

// Run explores the state space until the stack empties (exhaustive search
// completed) or a violation is found, in which case it returns one of
// *primitives.DeadlockError, *primitives.SafetyViolation or
// *primitives.TerminationError.
func (e *DFSExplorer) Run(ctx context.Context) error {
	e.observers.fireExplorationStart()
	defer e.logSummary()

	for len(e.stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		top := e.stack[len(e.stack)-1]
		e.logger.Debugw("explore", "depth", len(e.stack), "state", top.Num(), "todo", top.CountTodo())

		// Depth cap is checked before anything else: a search that has
		// already hit its limit neither looks at todo nor consults the
		// visited-state store for this frame.
		if e.maxDepth >= 0 && len(e.stack) > e.maxDepth {
			dle := &primitives.DepthLimitError{Depth: len(e.stack), MaxDepth: e.maxDepth, DPOR: e.reductionMode == ReductionDPOR}
			if dle.DPOR {
				e.logger.Errorw(dle.Error(), "state", top.Num())
			} else {
				e.logger.Warnw(dle.Error(), "state", top.Num())
			}
			if err := e.backtrack(ctx); err != nil {
				return err
			}
			continue
		}

		// A successor constructed last iteration that turned out to equal
		// an already-visited state is never explored; it is discarded here.
		if e.visitedHit != nil {
			e.visitedHit = nil
			if err := e.backtrack(ctx); err != nil {
				return err
			}
			continue
		}

		aid := top.NextTransition()
		if aid < 0 {
			if top.ActorCount() == 0 {
				if err := e.app.FinalizeApp(ctx); err != nil {
					return &primitives.RemoteAppFailure{Op: "FinalizeApp", Err: err}
				}
				e.logger.Infow("reached quiescence", "state", top.Num(), "depth", len(e.stack))
			}
			if err := e.backtrack(ctx); err != nil {
				return err
			}
			continue
		}

		if err := top.ExecuteNext(ctx, e.app, aid); err != nil {
			return err
		}
		e.totalVisited++
		e.observers.fireTransitionExecute(top.Transition())

		next, err := NewState(ctx, e.app, e.needsSnapshot())
		if err != nil {
			return err
		}
		e.observers.fireStateCreation(next)

		if e.termination {
			if err := e.checkNonTermination(next); err != nil {
				return err
			}
		}

		if e.visited != nil {
			e.visitedHit = e.visited.Add(next)
			if e.visitedHit != nil {
				next.SetOriginalNum(e.visitedHit.CanonicalNum)
			}
		}

		if e.visitedHit == nil {
			e.seedTodo(next)
		}

		e.writeDotEdge(top, next)
		e.stack = append(e.stack, next)
	}

	return nil
}

// checkNonTermination scans the stack, top to bottom, for an ancestor whose
// snapshot equals next's. A match means the search has returned to a state
// it has already passed through without making progress: a livelock. The
// error's trace holds the transitions from that ancestor up to next.
func (e *DFSExplorer) checkNonTermination(next *State) error {
	if next.SystemState() == nil {
		return nil
	}
	for i := len(e.stack) - 1; i >= 0; i-- {
		ancestor := e.stack[i]
		as := ancestor.SystemState()
		if as == nil {
			continue
		}
		if as.Equal(next.SystemState()) {
			return &primitives.TerminationError{
				FromStateNum: ancestor.Num(),
				ToStateNum:   next.Num(),
				Trace:        textualTraceOf(e.stack[i:]),
			}
		}
	}
	return nil
}

// backtrack pops the dead-end top of the stack, checks the app for
// deadlock, then pops further ancestors applying the DPOR wake-up rule
// (under ReductionDPOR) until it finds one with outstanding todo work
// within the depth cap, restoring the app to that ancestor's state before
// returning.
func (e *DFSExplorer) backtrack(ctx context.Context) error {
	e.backtrackCount++
	e.observers.fireBacktracking()

	deadEnd := e.stack[len(e.stack)-1]
	deadEndTrace := textualTraceOf(e.stack)
	e.stack = e.stack[:len(e.stack)-1]
	deadEnd.Release()

	if err := e.app.CheckDeadlock(ctx); err != nil {
		var de *primitives.DeadlockError
		if errors.As(err, &de) {
			return de
		}
		return &primitives.DeadlockError{StateNum: deadEnd.Num(), Trace: deadEndTrace}
	}

	for len(e.stack) > 0 {
		q := e.stack[len(e.stack)-1]
		e.stack = e.stack[:len(e.stack)-1]

		if e.reductionMode == ReductionDPOR {
			e.wakeUp(q)
		}

		if q.CountTodo() > 0 && (e.maxDepth < 0 || len(e.stack) < e.maxDepth) {
			e.stack = append(e.stack, q)
			return e.restoreState(ctx)
		}
		q.Release()
	}
	return nil
}

// wakeUp implements the DPOR wake-up rule: walking down from q's parent
// toward the root, the first ancestor whose issuing actor equals q's stops
// the scan outright (it will replay q's actor itself); the first ancestor
// whose transition depends on q's gets q's actor added to its todo, and
// the scan stops there too. Ancestors that commute with q are skipped.
func (e *DFSExplorer) wakeUp(q *State) {
	qt := q.Transition()
	if qt == nil {
		return
	}
	for i := len(e.stack) - 1; i >= 0; i-- {
		r := e.stack[i]
		rt := r.Transition()
		if rt == nil {
			continue
		}
		if rt.AID == qt.AID {
			return
		}
		if rt.Depends(qt) {
			if !r.IsDone(qt.AID) {
				r.MarkTodo(qt.AID)
			}
			return
		}
	}
}

// restoreState brings the app to the state now on top of the stack: a
// direct snapshot restore if one was captured, otherwise a restart from
// the initial state with every transition below the new top replayed in
// order.
func (e *DFSExplorer) restoreState(ctx context.Context) error {
	top := e.stack[len(e.stack)-1]

	if top.SystemState() != nil {
		if err := e.app.Restore(ctx, top.SystemState()); err != nil {
			return &primitives.RemoteAppFailure{Op: "Restore", Err: err}
		}
		e.observers.fireRestoreSystemState(top)
		return nil
	}

	if err := e.app.RestoreInitialState(ctx); err != nil {
		return &primitives.RemoteAppFailure{Op: "RestoreInitialState", Err: err}
	}
	e.observers.fireRestoreInitialState()

	for _, s := range e.stack[:len(e.stack)-1] {
		t := s.Transition()
		if t == nil {
			continue
		}
		if err := t.Replay(); err != nil {
			return fmt.Errorf("dfsmc: replay actor %d: %w", t.AID, err)
		}
		e.observers.fireTransitionReplay(t)
		e.totalVisited++
	}
	return nil
}

func (e *DFSExplorer) writeDotEdge(src, dst *State) {
	if e.dotOutput == nil {
		return
	}
	target := dst.Num()
	if e.visitedHit != nil {
		target = e.visitedHit.CanonicalNum
	}
	label := ""
	if t := src.Transition(); t != nil {
		label = t.DotLabel()
	}
	fmt.Fprintf(e.dotOutput, "\"%d\" -> \"%d\" [%s];\n", src.Num(), target, label)
}

func (e *DFSExplorer) logSummary() {
	if e.summaryLogged {
		return
	}
	e.summaryLogged = true
	r := e.Report()
	e.observers.fireLogState(r)
	e.logger.Infow("exploration finished",
		"unique_states", r.UniqueStates,
		"backtracks", r.BacktrackCount,
		"replays", r.ReplayCount,
		"visited", r.TotalVisited,
	)
}
