// Package testutil provides a deterministic, in-memory stand-in for a real
// app under check: a RemoteApp driven by a declarative graph of named
// states and actor-labeled edges between them, so exploration algorithms
// can be exercised without an external process. Modeled on the teacher's
// adapter-over-a-common-interface pattern for exercising one test suite
// against multiple concrete runtimes.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kestrelmc/dfsmc/internal/core"
	"github.com/kestrelmc/dfsmc/internal/primitives"
)

// NodeID names one position in a FakeGraph.
type NodeID string

// FakeNode describes the actors live at a node and where executing each of
// them leads.
type FakeNode struct {
	// Actors lists every actor the app reports as existing at this node,
	// enabled or not. An empty map means the app has run to quiescence.
	Actors map[primitives.ActorID]primitives.ActorDescriptor
	// Edges maps an enabled actor's id to the node reached by executing it.
	Edges map[primitives.ActorID]NodeID
	// HeapBytes is the value TakeSnapshot reports for this node.
	HeapBytes int64
}

// FakeGraph is a full description of a fake app: every reachable node,
// keyed by id.
type FakeGraph map[NodeID]FakeNode

// DependsFunc reports whether two actors' transitions conflict, for tests
// that exercise DPOR's wake-up rule. A nil DependsFunc treats every pair of
// distinct actors as independent (fully commuting).
type DependsFunc func(a, b primitives.ActorID) bool

// FakeApp is an in-memory core.RemoteApp walking a FakeGraph.
type FakeApp struct {
	mu      sync.Mutex
	graph   FakeGraph
	initial NodeID
	current NodeID
	depends DependsFunc

	finalized    bool
	executeCalls int
}

// NewFakeApp constructs a FakeApp rooted at initial. depends may be nil.
func NewFakeApp(graph FakeGraph, initial NodeID, depends DependsFunc) *FakeApp {
	return &FakeApp{graph: graph, initial: initial, current: initial, depends: depends}
}

// ExecuteCalls returns the number of times Execute has run, for assertions
// on how many times a scenario replayed versus executed fresh.
func (a *FakeApp) ExecuteCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.executeCalls
}

// Finalized reports whether FinalizeApp has been called since the last
// RestoreInitialState.
func (a *FakeApp) Finalized() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.finalized
}

func (a *FakeApp) node() FakeNode { return a.graph[a.current] }

func (a *FakeApp) GetActors(ctx context.Context) ([]primitives.ActorHandle, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := a.node()
	handles := make([]primitives.ActorHandle, 0, len(n.Actors))
	for aid, desc := range n.Actors {
		handles = append(handles, primitives.ActorHandle{AID: aid, Descriptor: desc})
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i].AID < handles[j].AID })
	return handles, nil
}

func (a *FakeApp) Execute(ctx context.Context, aid primitives.ActorID, timesConsidered int) (*primitives.Transition, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := a.node()
	desc, ok := n.Actors[aid]
	if !ok || !desc.Enabled {
		return nil, fmt.Errorf("fakeapp: actor %d not enabled at %s", aid, a.current)
	}
	dest, ok := n.Edges[aid]
	if !ok {
		return nil, fmt.Errorf("fakeapp: no edge for actor %d at %s", aid, a.current)
	}

	a.executeCalls++
	from := a.current
	a.current = dest

	var dependsFn primitives.DependsFunc
	if a.depends != nil {
		dependsFn = func(other *primitives.Transition) bool {
			if other == nil || other.AID == aid {
				return false
			}
			return a.depends(aid, other.AID)
		}
	}
	replayFn := func() error {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.current = dest
		return nil
	}

	text := fmt.Sprintf("%s->%s", from, dest)
	return primitives.NewTransition(aid, timesConsidered, text, text, dependsFn, replayFn), nil
}

func (a *FakeApp) CheckDeadlock(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := a.node()
	if len(n.Actors) == 0 {
		return nil
	}
	for _, desc := range n.Actors {
		if desc.Enabled {
			return nil
		}
	}
	return fmt.Errorf("fakeapp: deadlock at %s", a.current)
}

func (a *FakeApp) TakeSnapshot(ctx context.Context, stateNum int64) (core.Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return &fakeSnapshot{node: a.current, heapBytes: a.node().HeapBytes}, nil
}

func (a *FakeApp) Restore(ctx context.Context, snap core.Snapshot) error {
	fs, ok := snap.(*fakeSnapshot)
	if !ok {
		return fmt.Errorf("fakeapp: foreign snapshot type %T", snap)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = fs.node
	return nil
}

func (a *FakeApp) RestoreInitialState(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = a.initial
	a.finalized = false
	return nil
}

func (a *FakeApp) FinalizeApp(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.finalized = true
	return nil
}

// fakeSnapshot is a core.Snapshot identified purely by node label: two
// snapshots are equal iff they name the same node.
type fakeSnapshot struct {
	node      NodeID
	heapBytes int64
}

func (s *fakeSnapshot) Equal(other core.Snapshot) bool {
	o, ok := other.(*fakeSnapshot)
	return ok && o.node == s.node
}

func (s *fakeSnapshot) HeapBytes() int64 { return s.heapBytes }

func (s *fakeSnapshot) Release() {}
