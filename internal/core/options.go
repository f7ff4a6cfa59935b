package core

import "io"

// ReductionMode chooses the partial-order reduction strategy.
type ReductionMode int

const (
	// ReductionNone explores every enabled actor from every state.
	ReductionNone ReductionMode = iota
	// ReductionDPOR seeds only the first enabled actor per state, adding
	// others to todo lazily via the DPOR wake-up rule on backtrack.
	ReductionDPOR
)

func (m ReductionMode) String() string {
	switch m {
	case ReductionDPOR:
		return "dpor"
	default:
		return "none"
	}
}

// Algorithm selects the exploration strategy. Only AlgorithmSafety (the DFS
// core this package implements) is supported; the others are modeled for
// API-shape compatibility with the original exploration-algorithm enum but
// are rejected by NewDFSExplorer.
type Algorithm int

const (
	AlgorithmSafety Algorithm = iota
	AlgorithmUDPOR
	AlgorithmLiveness
	AlgorithmCommDeterminism
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmSafety:
		return "safety"
	case AlgorithmUDPOR:
		return "udpor"
	case AlgorithmLiveness:
		return "liveness"
	case AlgorithmCommDeterminism:
		return "comm-determinism"
	default:
		return "unknown"
	}
}

// Option configures a DFSExplorer at construction time.
type Option func(*DFSExplorer)

// WithReductionMode selects None or DPOR reduction. Forced to ReductionNone
// when WithTermination(true) is also supplied, per §6.
func WithReductionMode(mode ReductionMode) Option {
	return func(e *DFSExplorer) { e.reductionMode = mode }
}

// WithMaxDepth caps the search stack's depth.
func WithMaxDepth(maxDepth int) Option {
	return func(e *DFSExplorer) { e.maxDepth = maxDepth }
}

// WithMaxVisitedStates enables state-equality reduction with the given
// store capacity. 0 (the default) disables it.
func WithMaxVisitedStates(capacity int) Option {
	return func(e *DFSExplorer) { e.maxVisitedStates = capacity }
}

// WithTermination enables non-progressive cycle detection. Forces
// ReductionNone, per §6.
func WithTermination(enabled bool) Option {
	return func(e *DFSExplorer) {
		e.termination = enabled
		if enabled {
			e.reductionMode = ReductionNone
		}
	}
}

// WithSnapshots enables per-state snapshot capture. Required for
// state-equality reduction and non-termination detection; WithMaxVisitedStates
// and WithTermination enable it implicitly if not already set.
func WithSnapshots(enabled bool) Option {
	return func(e *DFSExplorer) { e.snapshotsEnabled = enabled }
}

// WithDotOutput streams one dot-graph edge line per explored or
// visited-hit edge to w.
func WithDotOutput(w io.Writer) Option {
	return func(e *DFSExplorer) { e.dotOutput = w }
}

// WithLogger sets the explorer's structured logger. nil (the default)
// discards all log output.
func WithLogger(l Logger) Option {
	return func(e *DFSExplorer) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithAlgorithm selects the exploration algorithm. Only AlgorithmSafety is
// implemented; NewDFSExplorer rejects any other value.
func WithAlgorithm(a Algorithm) Option {
	return func(e *DFSExplorer) { e.algorithm = a }
}

// WithObservers registers pure observer callbacks on the explorer.
func WithObservers(obs Observers) Option {
	return func(e *DFSExplorer) { e.observers = obs }
}
