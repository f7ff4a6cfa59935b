// Package primitives defines the foundational, stdlib-only data structures
// shared by the exploration core: actor identifiers, transitions, and the
// error taxonomy the engine raises. No external dependencies.
package primitives

import "fmt"

// ActorID identifies one concurrent actor of the app-under-check.
type ActorID int64

// ActorDescriptor is the engine's view of one actor at a given state.
type ActorDescriptor struct {
	Enabled       bool
	MaxConsidered int
}

// ActorHandle pairs an actor id with its descriptor, as returned by
// RemoteApp.GetActors in ascending-aid order.
type ActorHandle struct {
	AID        ActorID
	Descriptor ActorDescriptor
}

func (a ActorHandle) String() string {
	return fmt.Sprintf("actor(%d, enabled=%v)", a.AID, a.Descriptor.Enabled)
}
