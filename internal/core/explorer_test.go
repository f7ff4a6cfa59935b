package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kestrelmc/dfsmc/internal/core"
	"github.com/kestrelmc/dfsmc/internal/core/testutil"
	"github.com/kestrelmc/dfsmc/internal/primitives"
)

func enabled() primitives.ActorDescriptor { return primitives.ActorDescriptor{Enabled: true} }

// commutingGraph: from root, actor 1 and actor 2 are both enabled and lead
// to independent branches that both converge on "done" (quiescent, no
// actors). ReductionNone explores both interleaving orders; under DPOR only
// one order is explored, since nothing marks the actors dependent and the
// wake-up rule therefore adds no sibling back to the root's todo.
func commutingGraph() testutil.FakeGraph {
	return testutil.FakeGraph{
		"root": {
			Actors: map[primitives.ActorID]primitives.ActorDescriptor{1: enabled(), 2: enabled()},
			Edges:  map[primitives.ActorID]testutil.NodeID{1: "after1", 2: "after2"},
		},
		"after1": {
			Actors: map[primitives.ActorID]primitives.ActorDescriptor{2: enabled()},
			Edges:  map[primitives.ActorID]testutil.NodeID{2: "done"},
		},
		"after2": {
			Actors: map[primitives.ActorID]primitives.ActorDescriptor{1: enabled()},
			Edges:  map[primitives.ActorID]testutil.NodeID{1: "done"},
		},
		"done": {},
	}
}

func TestRun_CommutingPair_ExploresUnderNoneAndDPOR(t *testing.T) {
	for _, mode := range []core.ReductionMode{core.ReductionNone, core.ReductionDPOR} {
		app := testutil.NewFakeApp(commutingGraph(), "root", nil)
		exp, err := core.NewDFSExplorer(context.Background(), app, core.WithReductionMode(mode))
		if err != nil {
			t.Fatalf("mode %s: NewDFSExplorer: %v", mode, err)
		}
		if err := exp.Run(context.Background()); err != nil {
			t.Fatalf("mode %s: Run: %v", mode, err)
		}
		if !app.Finalized() {
			t.Errorf("mode %s: expected app to reach quiescence", mode)
		}
	}
}

// dependentGraph: actor 1 and actor 2 conflict (depends returns true), so
// DPOR's wake-up rule must add the sibling actor back to an ancestor's todo
// on backtrack instead of treating the branches as already covered.
func dependentGraph() testutil.FakeGraph {
	return commutingGraph()
}

func TestRun_DependentPair_DPORStillExploresBothOrders(t *testing.T) {
	app := testutil.NewFakeApp(dependentGraph(), "root", func(a, b primitives.ActorID) bool { return true })
	exp, err := core.NewDFSExplorer(context.Background(), app, core.WithReductionMode(core.ReductionDPOR))
	if err != nil {
		t.Fatalf("NewDFSExplorer: %v", err)
	}
	if err := exp.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Both [1,2] and [2,1] orders are executed: 4 Execute calls total,
	// two per order, versus 2 if the wake-up rule were skipped.
	if got := app.ExecuteCalls(); got < 4 {
		t.Errorf("ExecuteCalls = %d, want >= 4 (both interleavings explored)", got)
	}
}

// deadlockGraph: once actor 1 runs, the app reports actor 2 as existing but
// disabled, so no actor is left enabled even though one still exists.
// CheckDeadlock must catch this distinct from true quiescence.
func deadlockGraph() testutil.FakeGraph {
	return testutil.FakeGraph{
		"root": {
			Actors: map[primitives.ActorID]primitives.ActorDescriptor{1: enabled()},
			Edges:  map[primitives.ActorID]testutil.NodeID{1: "stuck"},
		},
		"stuck": {
			Actors: map[primitives.ActorID]primitives.ActorDescriptor{2: {Enabled: false}},
			Edges:  map[primitives.ActorID]testutil.NodeID{},
		},
	}
}

func TestRun_Deadlock_ReturnsDeadlockError(t *testing.T) {
	app := testutil.NewFakeApp(deadlockGraph(), "root", nil)
	exp, err := core.NewDFSExplorer(context.Background(), app)
	if err != nil {
		t.Fatalf("NewDFSExplorer: %v", err)
	}
	err = exp.Run(context.Background())
	var de *primitives.DeadlockError
	if !errors.As(err, &de) {
		t.Fatalf("Run error = %v, want *primitives.DeadlockError", err)
	}
}

// cycleGraph: a -> b -> a forever, with snapshots enabled so the non-
// termination detector can compare system states by content, not just num.
func cycleGraph() testutil.FakeGraph {
	return testutil.FakeGraph{
		"a": {
			Actors: map[primitives.ActorID]primitives.ActorDescriptor{1: enabled()},
			Edges:  map[primitives.ActorID]testutil.NodeID{1: "b"},
		},
		"b": {
			Actors: map[primitives.ActorID]primitives.ActorDescriptor{1: enabled()},
			Edges:  map[primitives.ActorID]testutil.NodeID{1: "a"},
		},
	}
}

func TestRun_NonProgressiveCycle_ReturnsTerminationError(t *testing.T) {
	app := testutil.NewFakeApp(cycleGraph(), "a", nil)
	exp, err := core.NewDFSExplorer(context.Background(), app, core.WithTermination(true))
	if err != nil {
		t.Fatalf("NewDFSExplorer: %v", err)
	}
	err = exp.Run(context.Background())
	var te *primitives.TerminationError
	if !errors.As(err, &te) {
		t.Fatalf("Run error = %v, want *primitives.TerminationError", err)
	}
}

func TestRun_VisitedStateHit_PrunesRedundantBranch(t *testing.T) {
	app := testutil.NewFakeApp(commutingGraph(), "root", nil)
	exp, err := core.NewDFSExplorer(context.Background(), app, core.WithMaxVisitedStates(64))
	if err != nil {
		t.Fatalf("NewDFSExplorer: %v", err)
	}
	if err := exp.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Both branches converge on "done": the second arrival is a visited-state
	// hit and is never explored further, so only one quiescence is reported.
	if !app.Finalized() {
		t.Fatalf("expected app to reach quiescence at least once")
	}
}

// branchAtDepthTwoGraph puts the branch point one level below the root, so
// backtracking to it (after no snapshot was captured) must restart the app
// from scratch and replay the root's transition to get back there.
func branchAtDepthTwoGraph() testutil.FakeGraph {
	return testutil.FakeGraph{
		"root": {
			Actors: map[primitives.ActorID]primitives.ActorDescriptor{1: enabled()},
			Edges:  map[primitives.ActorID]testutil.NodeID{1: "mid"},
		},
		"mid": {
			Actors: map[primitives.ActorID]primitives.ActorDescriptor{2: enabled(), 3: enabled()},
			Edges:  map[primitives.ActorID]testutil.NodeID{2: "leaf2", 3: "leaf3"},
		},
		"leaf2": {},
		"leaf3": {},
	}
}

func TestRun_ReplayWithoutSnapshot_RestoresInitialAndReplaysTrace(t *testing.T) {
	app := testutil.NewFakeApp(branchAtDepthTwoGraph(), "root", nil)
	// No WithSnapshots: every backtrack to a non-top ancestor restores via
	// RestoreInitialState + replay rather than a direct snapshot restore.
	exp, err := core.NewDFSExplorer(context.Background(), app, core.WithReductionMode(core.ReductionNone))
	if err != nil {
		t.Fatalf("NewDFSExplorer: %v", err)
	}
	before := primitives.ReplayedTransitions()
	if err := exp.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := primitives.ReplayedTransitions(); got <= before {
		t.Errorf("ReplayedTransitions() = %d, want > %d", got, before)
	}
}

func TestRun_MaxDepthZero_ExploresNoSuccessor(t *testing.T) {
	app := testutil.NewFakeApp(commutingGraph(), "root", nil)
	exp, err := core.NewDFSExplorer(context.Background(), app, core.WithMaxDepth(0))
	if err != nil {
		t.Fatalf("NewDFSExplorer: %v", err)
	}
	if err := exp.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := app.ExecuteCalls(); got != 0 {
		t.Errorf("ExecuteCalls() = %d, want 0 under max depth 0", got)
	}
}

func TestNewDFSExplorer_RejectsUnimplementedAlgorithm(t *testing.T) {
	app := testutil.NewFakeApp(commutingGraph(), "root", nil)
	_, err := core.NewDFSExplorer(context.Background(), app, core.WithAlgorithm(core.AlgorithmLiveness))
	if err == nil {
		t.Fatal("expected error for unimplemented algorithm")
	}
}

func TestRun_Report_CountsBacktracksAndVisited(t *testing.T) {
	app := testutil.NewFakeApp(commutingGraph(), "root", nil)
	exp, err := core.NewDFSExplorer(context.Background(), app, core.WithReductionMode(core.ReductionNone))
	if err != nil {
		t.Fatalf("NewDFSExplorer: %v", err)
	}
	if err := exp.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	r := exp.Report()
	if r.BacktrackCount == 0 {
		t.Error("expected at least one backtrack")
	}
	if r.TotalVisited == 0 {
		t.Error("expected a non-zero total-visited count")
	}
}
