package core

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/kestrelmc/dfsmc/internal/primitives"
)

var stateCounter atomic.Int64
var expandedStates atomic.Int64

// nextStateNum hands out the next process-wide monotonically increasing
// state id. Used only for logging and visited-state equality hits.
func nextStateNum() int64 { return stateCounter.Add(1) }

// ExpandedStates returns the number of State values constructed so far,
// across the process. Reporting-only.
func ExpandedStates() int64 { return expandedStates.Load() }

// ResetStateCounters zeroes the package-level state counters. For tests
// only; never call mid-run.
func ResetStateCounters() {
	stateCounter.Store(0)
	expandedStates.Store(0)
}

// State is one node on the DFS stack: a snapshot of the app-under-check's
// actor set at a given search depth, together with the DPOR todo/done
// bookkeeping and (optionally) a full system snapshot.
//
// Invariants (enforced by the methods below, never by direct field access
// from outside this package):
//  1. todo ∩ done = ∅.
//  2. Once ExecuteNext(a) has run, Transition().AID == a, a ∈ done, a ∉ todo.
//  3. SystemState, if present, was captured immediately after construction,
//     before any outgoing transition.
type State struct {
	num           int64
	actors        map[primitives.ActorID]primitives.ActorDescriptor
	actorOrder    []primitives.ActorID // ascending aid, as reported by GetActors
	todo          map[primitives.ActorID]struct{}
	done          map[primitives.ActorID]struct{}
	transition    *primitives.Transition
	systemState   Snapshot
	actorCount    int
	heapBytesUsed int64

	// originalNum is set by DFSExplorer when VisitedStates.Add reports a
	// hit: the canonical num of the equal state already present in the store.
	originalNum int64
	hasOriginal bool
}

// NewState constructs a State by querying app's current actor set. If
// takeSnapshot is true, a system snapshot is captured immediately, before
// any outgoing transition is chosen or executed (invariant 3).
func NewState(ctx context.Context, app RemoteApp, takeSnapshot bool) (*State, error) {
	handles, err := app.GetActors(ctx)
	if err != nil {
		return nil, &primitives.RemoteAppFailure{Op: "GetActors", Err: err}
	}

	s := &State{
		num:        nextStateNum(),
		actors:     make(map[primitives.ActorID]primitives.ActorDescriptor, len(handles)),
		actorOrder: make([]primitives.ActorID, 0, len(handles)),
		todo:       make(map[primitives.ActorID]struct{}),
		done:       make(map[primitives.ActorID]struct{}),
	}
	for _, h := range handles {
		s.actors[h.AID] = h.Descriptor
		s.actorOrder = append(s.actorOrder, h.AID)
	}
	// actorCount is the total number of actors the app reports at this
	// state (live or not), not the number currently enabled: a state with
	// actorCount == 0 means the app has fully terminated (quiescence); a
	// state with actorCount > 0 but no actor enabled is a deadlock.
	s.actorCount = len(handles)
	sort.Slice(s.actorOrder, func(i, j int) bool { return s.actorOrder[i] < s.actorOrder[j] })

	if takeSnapshot {
		snap, err := app.TakeSnapshot(ctx, s.num)
		if err != nil {
			return nil, &primitives.RemoteAppFailure{Op: "TakeSnapshot", Err: err}
		}
		s.systemState = snap
		s.heapBytesUsed = snap.HeapBytes()
	}

	expandedStates.Add(1)
	return s, nil
}

// Num returns this state's process-wide monotonic id.
func (s *State) Num() int64 { return s.num }

// ActorCount returns the number of actors the app reported at this state,
// enabled or not.
func (s *State) ActorCount() int { return s.actorCount }

// HeapBytesUsed returns the heap usage captured with this state's snapshot,
// or 0 if no snapshot was taken or the app did not report it.
func (s *State) HeapBytesUsed() int64 { return s.heapBytesUsed }

// SystemState returns the state's snapshot, or nil if none was captured.
func (s *State) SystemState() Snapshot { return s.systemState }

// Transition returns the outgoing transition, or nil before ExecuteNext.
func (s *State) Transition() *primitives.Transition { return s.transition }

// OriginalNum returns the canonical state num recorded after a
// VisitedStates.Add hit, and whether one was recorded.
func (s *State) OriginalNum() (int64, bool) { return s.originalNum, s.hasOriginal }

// SetOriginalNum records the canonical num of an equal, previously-visited
// state. Called by DFSExplorer.Run when VisitedStates.Add reports a hit.
func (s *State) SetOriginalNum(num int64) {
	s.originalNum = num
	s.hasOriginal = true
}

// IsActorEnabled reports whether aid is enabled at this state.
func (s *State) IsActorEnabled(aid primitives.ActorID) bool {
	d, ok := s.actors[aid]
	return ok && d.Enabled
}

// IsDone reports whether aid has already been explored from this state.
func (s *State) IsDone(aid primitives.ActorID) bool {
	_, ok := s.done[aid]
	return ok
}

// CountTodo returns the number of actors still pending exploration from
// this state.
func (s *State) CountTodo() int { return len(s.todo) }

// MarkTodo adds aid to todo unless it is already in done, preserving
// invariant 1 (todo ∩ done = ∅).
func (s *State) MarkTodo(aid primitives.ActorID) {
	if _, done := s.done[aid]; done {
		return
	}
	s.todo[aid] = struct{}{}
}

// NextTransition returns the lowest-aid actor still in todo, or -1 if todo
// is empty. Does not mutate done.
func (s *State) NextTransition() primitives.ActorID {
	best := primitives.ActorID(-1)
	found := false
	for aid := range s.todo {
		if !found || aid < best {
			best = aid
			found = true
		}
	}
	if !found {
		return -1
	}
	return best
}

// ExecuteNext asks app to execute aid's next simcall, storing the returned
// transition and moving aid from todo to done (invariant 2).
func (s *State) ExecuteNext(ctx context.Context, app RemoteApp, aid primitives.ActorID) error {
	desc := s.actors[aid]
	t, err := app.Execute(ctx, aid, desc.MaxConsidered)
	if err != nil {
		return &primitives.RemoteAppFailure{Op: "Execute", Err: err}
	}
	if t.AID != aid {
		return fmt.Errorf("remote app executed actor %d, expected %d", t.AID, aid)
	}
	s.transition = t
	delete(s.todo, aid)
	s.done[aid] = struct{}{}
	return nil
}

// ActorsAscending returns the actor handles seen at construction time, in
// ascending aid order. Used by DFSExplorer to seed todo sets.
func (s *State) ActorsAscending() []primitives.ActorID {
	out := make([]primitives.ActorID, len(s.actorOrder))
	copy(out, s.actorOrder)
	return out
}

// Release frees the state's system snapshot, if any. Safe to call more
// than once and safe to call on a nil snapshot.
func (s *State) Release() {
	if s.systemState != nil {
		s.systemState.Release()
		s.systemState = nil
	}
}
