package core_test

import (
	"context"
	"testing"

	"github.com/kestrelmc/dfsmc/internal/core"
	"github.com/kestrelmc/dfsmc/internal/core/testutil"
	"github.com/kestrelmc/dfsmc/internal/primitives"
)

func TestVisitedStates_Add_HitsOnEqualSnapshotSameBucket(t *testing.T) {
	graph := testutil.FakeGraph{
		"a": {
			Actors: map[primitives.ActorID]primitives.ActorDescriptor{1: {Enabled: true}},
			Edges:  map[primitives.ActorID]testutil.NodeID{1: "b"},
		},
		"b": {
			Actors: map[primitives.ActorID]primitives.ActorDescriptor{2: {Enabled: true}},
			Edges:  map[primitives.ActorID]testutil.NodeID{2: "a"},
		},
	}
	app := testutil.NewFakeApp(graph, "a", nil)

	v := core.NewVisitedStates(16)

	s1, err := core.NewState(context.Background(), app, true)
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	if hit := v.Add(s1); hit != nil {
		t.Fatalf("first insert returned a hit: %+v", hit)
	}

	// The app is still sitting at node "a": a fresh State built from it has
	// an identical snapshot to s1's.
	s2, err := core.NewState(context.Background(), app, true)
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	hit := v.Add(s2)
	if hit == nil {
		t.Fatal("expected a hit against the identical node \"a\" state")
	}
	if hit.CanonicalNum != s1.Num() {
		t.Errorf("CanonicalNum = %d, want %d", hit.CanonicalNum, s1.Num())
	}
	if v.Len() != 1 {
		t.Errorf("Len() = %d, want 1 (second insert was a hit, not stored)", v.Len())
	}
}

func TestVisitedStates_Add_EvictsOldestBeyondCapacity(t *testing.T) {
	graph := testutil.FakeGraph{
		"a": {
			Actors: map[primitives.ActorID]primitives.ActorDescriptor{1: {Enabled: true}},
			Edges:  map[primitives.ActorID]testutil.NodeID{1: "b"},
		},
		"b": {
			Actors: map[primitives.ActorID]primitives.ActorDescriptor{2: {Enabled: true}},
			Edges:  map[primitives.ActorID]testutil.NodeID{2: "c"},
		},
		"c": {},
	}
	app := testutil.NewFakeApp(graph, "a", nil)
	v := core.NewVisitedStates(1)

	s1, _ := core.NewState(context.Background(), app, true)
	v.Add(s1)
	if err := app.CheckDeadlock(context.Background()); err != nil {
		// node "a" has an enabled actor; CheckDeadlock should not error here.
		t.Fatalf("unexpected deadlock at root: %v", err)
	}
	app.Execute(context.Background(), 1, 0)
	s2, _ := core.NewState(context.Background(), app, true)
	v.Add(s2)

	if v.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (capacity 1 evicts the oldest entry)", v.Len())
	}
}
