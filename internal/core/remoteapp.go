// Package core implements the stdlib-only exploration engine: State,
// VisitedStates, and DFSExplorer. It depends only on internal/primitives
// and the standard library; concrete RemoteApp/Snapshot implementations
// (the adapters) live in internal/transport.
package core

import (
	"context"

	"github.com/kestrelmc/dfsmc/internal/primitives"
)

// Snapshot is an opaque, equality-comparable capture of the app-under-check's
// full memory image. Implementations live in internal/transport; the engine
// never inspects a Snapshot beyond Equal and HeapBytes.
type Snapshot interface {
	// Equal reports whether two snapshots represent byte-identical app
	// state. Must be reflexive, symmetric, and transitive.
	Equal(other Snapshot) bool
	// HeapBytes reports the app-under-check's reported heap usage at the
	// time of capture, or 0 if the app does not report it.
	HeapBytes() int64
	// Release frees any resources (file handles, shared memory, ...)
	// backing the snapshot. Safe to call multiple times.
	Release()
}

// RemoteApp is the single-owner façade over the app-under-check. The engine
// treats every method as a synchronous, blocking call; it never invokes two
// RemoteApp methods concurrently on the same handle.
type RemoteApp interface {
	// GetActors returns the current enabled/disabled actor set, in
	// ascending aid order.
	GetActors(ctx context.Context) ([]primitives.ActorHandle, error)

	// Execute instructs the app to run the timesConsidered-th enabled
	// simcall of aid, blocking until the app has stepped.
	Execute(ctx context.Context, aid primitives.ActorID, timesConsidered int) (*primitives.Transition, error)

	// CheckDeadlock asks the app whether the current state has any
	// enabled actor; returns a *primitives.DeadlockError if not.
	CheckDeadlock(ctx context.Context) error

	// TakeSnapshot captures the app's full memory image. stateNum is
	// passed through for the transport's own logging/correlation.
	TakeSnapshot(ctx context.Context, stateNum int64) (Snapshot, error)

	// Restore rewinds the app to exactly the state snap was taken at.
	Restore(ctx context.Context, snap Snapshot) error

	// RestoreInitialState rewinds the app to its fresh-start state.
	RestoreInitialState(ctx context.Context) error

	// FinalizeApp signals that the current execution path has reached a
	// natural end (quiescence).
	FinalizeApp(ctx context.Context) error
}
