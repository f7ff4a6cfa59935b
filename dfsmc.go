// Package dfsmc is a depth-first, dynamic-partial-order-reduced explorer
// for the state space of a separately running application under check: it
// drives the app through every relevant scheduling of its concurrent
// actors, looking for safety violations, deadlocks, and non-progressive
// cycles.
//
// The exploration core (internal/core, internal/primitives) is stdlib-only;
// this package is the thin public facade over it, the same way the
// teacher's own root package was the public facade over its internal
// engine. Concrete RemoteApp implementations live in internal/transport
// (stdio, socket, websocket); logging/dot/trace adapters live in
// internal/reporting; a dfsmc-using CLI lives in cmd/mcrun.
package dfsmc

import (
	"context"

	"github.com/kestrelmc/dfsmc/internal/core"
	"github.com/kestrelmc/dfsmc/internal/primitives"
)

// Error types Run can return, re-exported so callers can errors.As against
// them without importing an internal package.
type (
	DeadlockError    = primitives.DeadlockError
	SafetyViolation  = primitives.SafetyViolation
	TerminationError = primitives.TerminationError
	DepthLimitError  = primitives.DepthLimitError
	RemoteAppFailure = primitives.RemoteAppFailure
)

// Algorithm selects the exploration strategy. Only AlgorithmSafety is
// implemented; New rejects any other value.
type Algorithm = core.Algorithm

const (
	AlgorithmSafety          = core.AlgorithmSafety
	AlgorithmUDPOR           = core.AlgorithmUDPOR
	AlgorithmLiveness        = core.AlgorithmLiveness
	AlgorithmCommDeterminism = core.AlgorithmCommDeterminism
)

// ReductionMode chooses the partial-order reduction strategy.
type ReductionMode = core.ReductionMode

const (
	ReductionNone = core.ReductionNone
	ReductionDPOR = core.ReductionDPOR
)

// RemoteApp is the single-owner façade over the app-under-check that a
// concrete internal/transport implementation (or a caller's own) must
// satisfy.
type RemoteApp = core.RemoteApp

// Snapshot is an opaque, equality-comparable capture of the app-under-check's
// full memory image.
type Snapshot = core.Snapshot

// Logger is the leveled-logging interface Explorer logs through.
// internal/reporting.ZapLogger is the concrete zap-backed implementation.
type Logger = core.Logger

// Observers holds pure subscriber callbacks invoked at fixed points during
// exploration.
type Observers = core.Observers

// Report summarizes a finished or failed exploration run.
type Report = core.Report

// TextualTrace and RecordTrace are the two serializable forms of a run's
// (or failed run's) stack trace.
type TextualTrace = core.TextualTrace
type RecordTrace = core.RecordTrace

// Option configures an Explorer at construction time.
type Option = core.Option

// Functional options, re-exported from internal/core so callers never need
// to import an internal package directly.
var (
	WithReductionMode    = core.WithReductionMode
	WithMaxDepth         = core.WithMaxDepth
	WithMaxVisitedStates = core.WithMaxVisitedStates
	WithTermination      = core.WithTermination
	WithSnapshots        = core.WithSnapshots
	WithDotOutput        = core.WithDotOutput
	WithLogger           = core.WithLogger
	WithAlgorithm        = core.WithAlgorithm
	WithObservers        = core.WithObservers
)

// Explorer is the public handle around the stdlib-only DFS/DPOR engine.
type Explorer struct {
	inner *core.DFSExplorer
}

// New constructs an Explorer, querying app for its initial actor set and
// seeding the search stack's first todo set.
func New(ctx context.Context, app RemoteApp, opts ...Option) (*Explorer, error) {
	inner, err := core.NewDFSExplorer(ctx, app, opts...)
	if err != nil {
		return nil, err
	}
	return &Explorer{inner: inner}, nil
}

// Run explores the state space until it is exhausted or a violation is
// found, returning one of DeadlockError, SafetyViolation, or
// TerminationError wrapped in a RemoteAppFailure should the app itself
// fail mid-call.
func (e *Explorer) Run(ctx context.Context) error {
	return e.inner.Run(ctx)
}

// Report summarizes the exploration so far.
func (e *Explorer) Report() Report { return e.inner.Report() }

// TextualTrace renders the current search stack's transitions bottom to top.
func (e *Explorer) TextualTrace() TextualTrace { return e.inner.TextualTrace() }

// RecordTrace serializes the current search stack's transitions bottom to
// top, enough to replay the run from a fresh app.
func (e *Explorer) RecordTrace() RecordTrace { return e.inner.RecordTrace() }

// ExpandedStates returns the number of distinct State values constructed
// across the process so far.
func ExpandedStates() int64 { return core.ExpandedStates() }
